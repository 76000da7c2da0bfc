package skills

import (
	"fmt"
	"strings"
)

// Tier says how readily the developer could acquire a missing skill.
type Tier int

const (
	TierUnknown Tier = iota
	TierEasy
	TierModerate
	TierDifficult
)

var tierNames = map[Tier]string{
	TierEasy:      "Easy",
	TierModerate:  "Moderate",
	TierDifficult: "Difficult",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ParseTier accepts the tier word in any case, optionally followed by more
// text ("Easy to learn", "moderate - related domain").
func ParseTier(s string) (Tier, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, t := range []Tier{TierEasy, TierModerate, TierDifficult} {
		word := strings.ToLower(tierNames[t])
		if lower == word || strings.HasPrefix(lower, word+" ") || strings.HasPrefix(lower, word+"-") ||
			strings.HasPrefix(lower, word+",") || strings.HasPrefix(lower, word+".") || strings.HasPrefix(lower, word+":") {
			return t, nil
		}
	}
	return TierUnknown, fmt.Errorf("unknown difficulty tier %q", s)
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Assessment maps missing skills to a difficulty tier. Keys may not line up
// with the missing set of the comparison; the arithmetic ignores strays.
type Assessment map[Name]Tier

// Count returns how many of the given names carry tier t. Names absent from
// the assessment and keys outside names are not counted.
func (a Assessment) Count(t Tier, names *Set) int {
	count := 0
	for _, n := range names.Names() {
		if tier, ok := a[n]; ok && tier == t {
			count++
		}
	}
	return count
}

// Clone returns an independent copy.
func (a Assessment) Clone() Assessment {
	out := make(Assessment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
