package cache

// lruNode is an element of lruList.
type lruNode[K comparable] struct {
	key        K
	prev, next *lruNode[K]
}

// lruList orders keys from most recently used (front) to least recently
// used (back). It is a ring around a sentinel node, so no operation needs
// nil checks. The list is not thread-safe.
type lruList[K comparable] struct {
	root lruNode[K]
	len  int
}

func newLRUList[K comparable]() *lruList[K] {
	l := &lruList[K]{}
	l.root.next = &l.root
	l.root.prev = &l.root
	return l
}

// Len returns the number of keys in the list.
func (l *lruList[K]) Len() int {
	return l.len
}

// PushFront inserts key as the most recently used and returns its node.
func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	n := &lruNode[K]{key: key}
	l.insertAfter(n, &l.root)
	l.len++
	return n
}

// MoveToFront marks n as the most recently used.
func (l *lruList[K]) MoveToFront(n *lruNode[K]) {
	if n == nil || l.root.next == n {
		return
	}
	l.detach(n)
	l.insertAfter(n, &l.root)
}

// Remove unlinks n from the list.
func (l *lruList[K]) Remove(n *lruNode[K]) {
	if n == nil || n.next == nil {
		return
	}
	l.detach(n)
	n.next, n.prev = nil, nil
	l.len--
}

// OldestWhere returns the least recently used key for which keep reports
// true, walking from the back of the list.
func (l *lruList[K]) OldestWhere(keep func(K) bool) (*lruNode[K], bool) {
	for n := l.root.prev; n != &l.root; n = n.prev {
		if keep(n.key) {
			return n, true
		}
	}
	return nil, false
}

// keys returns the keys from most to least recently used.
func (l *lruList[K]) keys() []K {
	keys := make([]K, 0, l.len)
	for n := l.root.next; n != &l.root; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

func (l *lruList[K]) insertAfter(n, at *lruNode[K]) {
	n.prev = at
	n.next = at.next
	at.next.prev = n
	at.next = n
}

func (l *lruList[K]) detach(n *lruNode[K]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}
