// Package aggregator folds raw per-game stat rows into buckets keyed by the
// caller-selected grouping dimensions. The key is built by a projection: an
// ordered list of optional dimension extractors composed at request time, one
// per active flag, so no per-flag-combination branching exists anywhere.
package aggregator

import "github.com/slurve/dugout/internal/model"

// folded marks a dimension that is absent from the key, so rows differing
// only in that dimension collapse into the same bucket. Real ids are never
// negative (character ids start at 0).
const folded = -1

// Key identifies one bucket. Inactive dimensions hold folded.
type Key struct {
	Category int
	UserID   int64
	CharID   int64
	Swing    int
}

// Dims are the groupable attributes of a single raw row, before projection.
// Display names ride along because the result tree and leaderboards key on
// names, not ids.
type Dims struct {
	Category model.Category
	UserID   int64
	Username string
	CharID   int64
	CharName string
	Swing    model.SwingType
}

// Flags select which dimensions survive into the bucket key. Category is a
// dimension like the others: the profile path groups by it alone, the
// detailed path folds it.
type Flags struct {
	ByCategory bool
	ByUser     bool
	ByChar     bool
	BySwing    bool
}

type extractor func(*Key, Dims)

// Projection is the composed key builder for one request.
type Projection struct {
	extractors []extractor
}

// NewProjection composes the extractor list for the active flags.
func NewProjection(f Flags) Projection {
	var exts []extractor
	if f.ByCategory {
		exts = append(exts, func(k *Key, d Dims) { k.Category = int(d.Category) })
	}
	if f.ByUser {
		exts = append(exts, func(k *Key, d Dims) { k.UserID = d.UserID })
	}
	if f.ByChar {
		exts = append(exts, func(k *Key, d Dims) { k.CharID = d.CharID })
	}
	if f.BySwing {
		exts = append(exts, func(k *Key, d Dims) { k.Swing = int(d.Swing) })
	}
	return Projection{extractors: exts}
}

// Apply builds the bucket key for one row.
func (p Projection) Apply(d Dims) Key {
	k := Key{Category: folded, UserID: folded, CharID: folded, Swing: folded}
	for _, ext := range p.extractors {
		ext(&k, d)
	}
	return k
}

// Line is any per-domain counting struct that sums field-by-field.
type Line[T any] interface {
	Add(T) T
}

// Bucket is one accumulator: the key, the display names of its active
// dimensions, and the running field-by-field sum.
type Bucket[T Line[T]] struct {
	Key  Key
	Dims Dims // names/ids of the active dimensions; folded ones stay zero
	Line T
}

// Set holds all buckets of one aggregation pass. Exactly one bucket exists
// per distinct key, and first-seen order is preserved so downstream sorting
// and rendering are deterministic.
type Set[T Line[T]] struct {
	proj    Projection
	index   map[Key]int
	buckets []Bucket[T]
}

// NewSet creates an empty bucket set for the given projection.
func NewSet[T Line[T]](proj Projection) *Set[T] {
	return &Set[T]{proj: proj, index: make(map[Key]int)}
}

// Add folds one raw row into its bucket, creating the bucket on first sight.
// Summation is strictly additive; no field is ever overwritten.
func (s *Set[T]) Add(d Dims, line T) {
	key := s.proj.Apply(d)
	i, ok := s.index[key]
	if !ok {
		var nd Dims
		if key.Category != folded {
			nd.Category = d.Category
		}
		if key.UserID != folded {
			nd.UserID = d.UserID
			nd.Username = d.Username
		}
		if key.CharID != folded {
			nd.CharID = d.CharID
			nd.CharName = d.CharName
		}
		if key.Swing != folded {
			nd.Swing = d.Swing
		}
		i = len(s.buckets)
		s.index[key] = i
		s.buckets = append(s.buckets, Bucket[T]{Key: key, Dims: nd})
	}
	s.buckets[i].Line = s.buckets[i].Line.Add(line)
}

// Buckets returns the accumulated buckets in first-seen order.
func (s *Set[T]) Buckets() []Bucket[T] {
	return s.buckets
}

// Len reports the number of distinct keys observed.
func (s *Set[T]) Len() int { return len(s.buckets) }
