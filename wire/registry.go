// Package wire encodes protocol messages and compresses frames.
//
// Encodings and compressions are looked up by name, following the
// database/sql driver pattern. The built-in encodings are "json" and
// "msgpack"; the built-in compressions are "none" and "gzip". The names
// are the tags exchanged during the handshake.
package wire

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownEncoding is returned by NewEncoding for unregistered names.
	ErrUnknownEncoding = errors.New("wire: unknown encoding")

	// ErrUnknownCompression is returned by NewCompression for unregistered
	// names.
	ErrUnknownCompression = errors.New("wire: unknown compression")
)

// EncodingFactory creates an Encoding.
type EncodingFactory func() Encoding

// CompressionFactory creates a Compression.
type CompressionFactory func() Compression

var (
	registryMu   sync.RWMutex
	encodings    = make(map[string]EncodingFactory)
	compressions = make(map[string]CompressionFactory)
)

// RegisterEncoding makes an encoding available by name.
// It panics if factory is nil or the name is already registered.
func RegisterEncoding(name string, factory EncodingFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("wire: RegisterEncoding factory is nil")
	}
	if _, dup := encodings[name]; dup {
		panic("wire: RegisterEncoding called twice for " + name)
	}
	encodings[name] = factory
}

// RegisterCompression makes a compression available by name.
// It panics if factory is nil or the name is already registered.
func RegisterCompression(name string, factory CompressionFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("wire: RegisterCompression factory is nil")
	}
	if _, dup := compressions[name]; dup {
		panic("wire: RegisterCompression called twice for " + name)
	}
	compressions[name] = factory
}

// NewEncoding returns the encoding registered under name.
func NewEncoding(name string) (Encoding, error) {
	registryMu.RLock()
	factory, ok := encodings[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownEncoding, name)
	}
	return factory(), nil
}

// NewCompression returns the compression registered under name.
func NewCompression(name string) (Compression, error) {
	registryMu.RLock()
	factory, ok := compressions[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCompression, name)
	}
	return factory(), nil
}

// Encodings returns the registered encoding names, sorted.
func Encodings() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedKeys(encodings)
}

// Compressions returns the registered compression names, sorted.
func Compressions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedKeys(compressions)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
