// Package cache assigns small stable identifiers to binary assets.
//
// The cache is content-addressed: every asset is keyed by a BLAKE2b-256
// hash of its exact bytes (or, for images, its canonical pixels), so two
// assets with identical content share one id regardless of which object
// they came from. Ids are 16-bit; the smallest unused id is always handed
// out first and ids freed by eviction or invalidation are reused.
//
// # Store
//
// [Store] is the generic id allocator shared by both asset kinds. It keeps
// entries in least-recently-used order. When every id is in use, inserting
// new content evicts the least recently used entry that no live target
// retains. Targets retain the ids their command streams reference with
// [Store.Retain] and let go of them with [Store.ReleaseTarget].
//
//	s := cache.NewStore[struct{}](0)
//	id, isNew, err := s.IDFor(data)
//	if isNew {
//	    // schedule the payload for transmission
//	}
//
// # ImageCache and FontCache
//
// [ImageCache] hashes canonical NRGBA pixels and stores PNG payloads.
// [FontCache] validates font files and stores them unchanged.
//
// # Thread Safety
//
// All caches are safe for concurrent use. Concurrent inserts of identical
// content converge to one id. Caches must not be copied after creation.
package cache
