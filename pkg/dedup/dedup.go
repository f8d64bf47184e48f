// Package dedup provides a test-and-set hash set of opaque byte strings.
//
// The set backs the "minimal" presentation mode, which suppresses repeated
// (rrname, rrtype) keys observed across concurrent fetches that may return
// overlapping records. There is no eviction; the set lives for one process
// run.
package dedup

// defaultBuckets is sized for typical result sets of a few hundred thousand
// unique keys.
const defaultBuckets = 100003

type entry struct {
	key  string
	next *entry
}

// Set is a chained hash set supporting only test-and-set insertion.
type Set struct {
	buckets []*entry
	size    int
}

// New returns an empty set with the default bucket count.
func New() *Set {
	return NewWithBuckets(defaultBuckets)
}

// NewWithBuckets returns an empty set with n hash buckets. Small bucket
// counts force chain collisions, which tests rely on.
func NewWithBuckets(n int) *Set {
	if n < 1 {
		n = 1
	}
	return &Set{buckets: make([]*entry, n)}
}

// hash is djb2a over the key bytes.
func (s *Set) hash(key string) uint32 {
	h := uint32(5381)
	for i := 0; i < len(key); i++ {
		h = h*33 ^ uint32(key[i])
	}
	return h
}

// Insert adds key to the set, reporting true when the key was not already
// present.
func (s *Set) Insert(key string) bool {
	idx := s.hash(key) % uint32(len(s.buckets))
	for e := s.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			return false
		}
	}
	s.buckets[idx] = &entry{key: key, next: s.buckets[idx]}
	s.size++
	return true
}

// Len returns the number of distinct keys inserted.
func (s *Set) Len() int {
	return s.size
}
