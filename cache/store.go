package cache

import (
	"container/heap"
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/blake2b"

	"github.com/gogpu/ggstream"
	"github.com/gogpu/ggstream/command"
)

// ID identifies a cached asset on the wire.
type ID = uint16

// MaxCapacity is the size of the id space.
const MaxCapacity = 1 << 16

// DefaultCapacity is the number of ids a store hands out when no capacity
// is given.
const DefaultCapacity = MaxCapacity - 1

// Hash is a BLAKE2b-256 content hash.
type Hash [blake2b.Size256]byte

// HashBytes returns the content hash of data.
func HashBytes(data []byte) Hash {
	return blake2b.Sum256(data)
}

// Stats contains cache statistics.
type Stats struct {
	Len       int     // Current number of entries
	Capacity  int     // Maximum number of ids
	Retained  int     // Entries retained by at least one target
	Hits      uint64  // Lookups that found existing content
	Misses    uint64  // Lookups that allocated a new id
	HitRate   float64 // Hits / (Hits + Misses)
	Evictions uint64  // Entries evicted to make room
}

// entry is one cached asset.
type entry[M any] struct {
	id      ID
	hash    Hash
	payload []byte
	meta    M
	refs    int
	node    *lruNode[ID]
}

// Store maps content hashes to ids and ids to payloads.
//
// M is per-entry metadata computed when the entry is created, such as
// image dimensions.
type Store[M any] struct {
	name     string
	capacity int

	mu       sync.Mutex
	byHash   map[Hash]*entry[M]
	byID     map[ID]*entry[M]
	lru      *lruList[ID]
	free     idHeap
	next     int
	retained map[command.Target]map[ID]struct{}

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewStore creates a store handing out ids in [0, capacity).
// If capacity <= 0 or exceeds MaxCapacity, DefaultCapacity is used.
func NewStore[M any](capacity int) *Store[M] {
	return newStore[M]("asset", capacity)
}

func newStore[M any](name string, capacity int) *Store[M] {
	if capacity <= 0 || capacity > MaxCapacity {
		capacity = DefaultCapacity
	}
	return &Store[M]{
		name:     name,
		capacity: capacity,
		byHash:   make(map[Hash]*entry[M]),
		byID:     make(map[ID]*entry[M]),
		lru:      newLRUList[ID](),
		retained: make(map[command.Target]map[ID]struct{}),
	}
}

// IDFor returns the id of data, storing data as the payload if the content
// is new. isNew reports whether the caller must transmit the payload.
func (s *Store[M]) IDFor(data []byte) (id ID, isNew bool, err error) {
	return s.Insert(HashBytes(data), func() ([]byte, M, error) {
		var zero M
		return data, zero, nil
	})
}

// Insert returns the id of the content identified by hash. When the hash
// is unknown, build is called to produce the payload and metadata, and a
// new id is allocated. A failing build leaves the store untouched.
//
// build runs with the store lock held, so concurrent inserts of the same
// content call it once. Keep it fast.
func (s *Store[M]) Insert(hash Hash, build func() ([]byte, M, error)) (id ID, isNew bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, isNew, err := s.insert(hash, build)
	if err != nil {
		return 0, false, err
	}
	return e.id, isNew, nil
}

// InsertFor is Insert followed by Retain(target, id) under the same lock.
// The id stays pinned while commands referencing it wait in target's queue.
func (s *Store[M]) InsertFor(target command.Target, hash Hash, build func() ([]byte, M, error)) (id ID, isNew bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, isNew, err := s.insert(hash, build)
	if err != nil {
		return 0, false, err
	}
	s.retain(target, e)
	return e.id, isNew, nil
}

// insert must be called with s.mu held.
func (s *Store[M]) insert(hash Hash, build func() ([]byte, M, error)) (*entry[M], bool, error) {
	if e, ok := s.byHash[hash]; ok {
		s.lru.MoveToFront(e.node)
		s.hits.Add(1)
		return e, false, nil
	}

	payload, meta, err := build()
	if err != nil {
		return nil, false, err
	}
	id, err := s.allocate()
	if err != nil {
		return nil, false, err
	}

	e := &entry[M]{
		id:      id,
		hash:    hash,
		payload: payload,
		meta:    meta,
		node:    s.lru.PushFront(id),
	}
	s.byHash[hash] = e
	s.byID[id] = e
	s.misses.Add(1)
	return e, true, nil
}

// allocate returns the smallest unused id, evicting if the space is full.
func (s *Store[M]) allocate() (ID, error) {
	if s.free.Len() == 0 && s.next >= s.capacity {
		n, ok := s.lru.OldestWhere(func(id ID) bool {
			return s.byID[id].refs == 0
		})
		if !ok {
			return 0, ErrExhausted
		}
		victim := s.byID[n.key]
		s.remove(victim)
		s.evictions.Add(1)
		ggstream.Logger().Debug("cache: evicted", "cache", s.name, "id", victim.id)
	}

	if s.free.Len() > 0 {
		return heap.Pop(&s.free).(ID), nil
	}
	id := ID(s.next)
	s.next++
	return id, nil
}

// remove deletes e and frees its id. The caller holds s.mu.
func (s *Store[M]) remove(e *entry[M]) {
	s.lru.Remove(e.node)
	delete(s.byHash, e.hash)
	delete(s.byID, e.id)
	if e.refs > 0 {
		for _, ids := range s.retained {
			delete(ids, e.id)
		}
	}
	heap.Push(&s.free, e.id)
}

// Payload returns the bytes stored for id.
func (s *Store[M]) Payload(id ID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.lru.MoveToFront(e.node)
	return e.payload, nil
}

// Meta returns the metadata stored for id.
func (s *Store[M]) Meta(id ID) (M, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		var zero M
		return zero, false
	}
	return e.meta, true
}

// Hash returns the content hash of the entry for id. Connections compare
// it with what they delivered to notice a recycled id.
func (s *Store[M]) Hash(id ID) (Hash, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return Hash{}, false
	}
	return e.hash, true
}

// contains reports whether id has an entry.
func (s *Store[M]) contains(id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	return ok
}

// Invalidate removes the entry for id, retained or not, and frees the id.
// It reports whether an entry existed.
func (s *Store[M]) Invalidate(id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	if !ok {
		return false
	}
	s.remove(e)
	return true
}

// Retain marks ids as referenced by target. Retained entries are never
// evicted. Unknown ids are ignored.
func (s *Store[M]) Retain(target command.Target, ids ...ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if e, ok := s.byID[id]; ok {
			s.retain(target, e)
		}
	}
}

// retain must be called with s.mu held.
func (s *Store[M]) retain(target command.Target, e *entry[M]) {
	s.lru.MoveToFront(e.node)
	held := s.retained[target]
	if _, dup := held[e.id]; dup {
		return
	}
	if held == nil {
		held = make(map[ID]struct{})
		s.retained[target] = held
	}
	held[e.id] = struct{}{}
	e.refs++
}

// ReleaseTarget drops every retention held by target, typically when the
// target is destroyed. The entries stay cached and become evictable.
func (s *Store[M]) ReleaseTarget(target command.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.retained[target] {
		if e, ok := s.byID[id]; ok {
			e.refs--
		}
	}
	delete(s.retained, target)
}

// Len returns the number of entries.
func (s *Store[M]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Capacity returns the number of ids the store can hand out.
func (s *Store[M]) Capacity() int {
	return s.capacity
}

// Stats returns current cache statistics.
func (s *Store[M]) Stats() Stats {
	s.mu.Lock()
	n := len(s.byID)
	retained := 0
	for _, e := range s.byID {
		if e.refs > 0 {
			retained++
		}
	}
	s.mu.Unlock()

	hits := s.hits.Load()
	misses := s.misses.Load()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       n,
		Capacity:  s.capacity,
		Retained:  retained,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: s.evictions.Load(),
	}
}

// idHeap is a min-heap of freed ids.
type idHeap []ID

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *idHeap) Push(x any) {
	*h = append(*h, x.(ID))
}

func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
