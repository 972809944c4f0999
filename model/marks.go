package model

import (
	"reflect"
	"sort"
)

// Mark is a typed, possibly attributed annotation attached to a text run.
// Boolean marks (bold, italic, underline, strikethrough) carry no attrs;
// attributed marks (font, fontSize, textColor, highlight, link) carry
// key/value data in Attrs.
type Mark struct {
	Type  MarkTypeName
	Attrs map[string]any
}

// Equals reports whether two marks have the same type and attribute values.
// Attribute comparison is deep so that marks built from differently-ordered
// map literals still compare equal.
func (m Mark) Equals(other Mark) bool {
	if m.Type != other.Type {
		return false
	}
	if len(m.Attrs) != len(other.Attrs) {
		return false
	}
	for k, v := range m.Attrs {
		ov, ok := other.Attrs[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// cloneAttrs returns a shallow copy of an attribute map, preserving nil.
func cloneAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// Clone returns a copy of the mark with its attribute map independently
// mutable from the original.
func (m Mark) Clone() Mark {
	return Mark{Type: m.Type, Attrs: cloneAttrs(m.Attrs)}
}

// MarkSet is an order-insensitive set of marks; equality is value equality
// per spec.md §3 invariant 3. The underlying slice order is not
// significant, but SortedMarks below provides a canonical order for
// stable comparisons and JSON output.
type MarkSet []Mark

// HasType reports whether the set contains a mark of the given type.
func (s MarkSet) HasType(t MarkTypeName) bool {
	for _, m := range s {
		if m.Type == t {
			return true
		}
	}
	return false
}

// Get returns the mark of the given type, if present.
func (s MarkSet) Get(t MarkTypeName) (Mark, bool) {
	for _, m := range s {
		if m.Type == t {
			return m, true
		}
	}
	return Mark{}, false
}

// AddMark returns a new set with m added. Attributed marks (Attrs != nil)
// have replace semantics: any existing mark of the same type is removed
// before m is added, per spec.md §3 "Applying an attributed mark has
// replace semantics." Boolean marks are simply deduplicated by type.
func AddMark(set MarkSet, m Mark) MarkSet {
	out := make(MarkSet, 0, len(set)+1)
	for _, existing := range set {
		if existing.Type == m.Type {
			continue
		}
		out = append(out, existing)
	}
	out = append(out, m.Clone())
	return out
}

// RemoveMarkType returns a new set with every mark of the given type
// removed.
func RemoveMarkType(set MarkSet, t MarkTypeName) MarkSet {
	out := make(MarkSet, 0, len(set))
	for _, existing := range set {
		if existing.Type != t {
			out = append(out, existing)
		}
	}
	return out
}

// RemoveMark returns a new set with marks matching m's type (and, when m
// carries Attrs, matching value) removed.
func RemoveMark(set MarkSet, m Mark) MarkSet {
	out := make(MarkSet, 0, len(set))
	for _, existing := range set {
		if existing.Type == m.Type && (m.Attrs == nil || existing.Equals(m)) {
			continue
		}
		out = append(out, existing)
	}
	return out
}

// MarksEqual reports set equality: same marks present, order irrelevant.
// Commutative and associative under AddMark/RemoveMark by construction,
// satisfying spec.md §8 universal invariant 5.
func MarksEqual(a, b MarkSet) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ma := range a {
		found := false
		for i, mb := range b {
			if used[i] {
				continue
			}
			if ma.Equals(mb) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the mark set.
func (s MarkSet) Clone() MarkSet {
	out := make(MarkSet, len(s))
	for i, m := range s {
		out[i] = m.Clone()
	}
	return out
}

// SortedMarks returns a copy of the set ordered by type name, for
// deterministic iteration (tests, JSON serialization).
func SortedMarks(set MarkSet) MarkSet {
	out := set.Clone()
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
