package types

// TimeFence is a time-range constraint limiting which tuples qualify. It is
// derived once per query from the caller's (after, before, complete) inputs
// and never mutated afterwards.
//
// With complete=true ("strict") a record qualifies only when its whole
// [first,last] interval lies inside [after,before]. With complete=false
// ("loose", the default) a record qualifies when its interval merely
// intersects [after,before].
type TimeFence struct {
	FirstAfter  OptInt
	FirstBefore OptInt
	LastAfter   OptInt
	LastBefore  OptInt
}

// NewTimeFence derives the four fence edges from the caller's inputs.
func NewTimeFence(after, before OptInt, complete bool) TimeFence {
	var f TimeFence
	if complete {
		// Strict: first >= after and last <= before.
		f.FirstAfter = after
		f.LastBefore = before
	} else {
		// Loose: the record interval intersects [after, before], which is
		// last >= after and first <= before.
		f.LastAfter = after
		f.FirstBefore = before
	}
	return f
}

// Empty reports whether the fence constrains nothing.
func (f TimeFence) Empty() bool {
	return !f.FirstAfter.Set && !f.FirstBefore.Set && !f.LastAfter.Set && !f.LastBefore.Set
}

// Allow reports whether the tuple qualifies under the fence. A tuple edge
// that is absent from the record cannot violate a constraint on that edge.
func (f TimeFence) Allow(t *Tuple) bool {
	first := t.First()
	last := t.Last()
	if f.FirstAfter.Set && first.Set && first.Value < f.FirstAfter.Value {
		return false
	}
	if f.FirstBefore.Set && first.Set && first.Value > f.FirstBefore.Value {
		return false
	}
	if f.LastAfter.Set && last.Set && last.Value < f.LastAfter.Value {
		return false
	}
	if f.LastBefore.Set && last.Set && last.Value > f.LastBefore.Value {
		return false
	}
	return true
}
