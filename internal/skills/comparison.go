package skills

// Comparison partitions the required skills against the developer roster.
// The buckets are disjoint by contract only; the oracle may overlap them or
// leave required skills out, and consumers must cope with both.
type Comparison struct {
	Matched *Set `json:"matched"`
	Similar *Set `json:"similar"`
	Missing *Set `json:"missing"`
}

// Possessed returns matched and similar skills, deduplicated.
func (c *Comparison) Possessed() *Set {
	if c == nil {
		return &Set{}
	}
	return c.Matched.Union(c.Similar)
}

// FoldSimilar moves similar skills into the matched bucket.
func (c *Comparison) FoldSimilar() {
	c.Matched = c.Possessed()
	c.Similar = &Set{}
}

// CompareFallback is the string-equality partition used when the oracle
// cannot classify: matched = roster ∩ required, missing = required − roster.
func CompareFallback(roster, required *Set) *Comparison {
	return &Comparison{
		Matched: required.Intersect(roster),
		Similar: &Set{},
		Missing: required.Difference(roster),
	}
}
