// internal/scoring/policy.go
package scoring

import (
	"fmt"
)

// Policy decides whether a submitted score is acceptable. Range enforcement
// is off by default: historically any value the column accepted was stored
// as-is, so enabling it is a config decision, not a code one.
type Policy struct {
	EnforceRange bool `toml:"enforce_range"`
	MinScore     int  `toml:"min_score"`
	MaxScore     int  `toml:"max_score"`
}

func (p Policy) Validate(score int) error {
	if !p.EnforceRange {
		return nil
	}

	if score < p.MinScore || score > p.MaxScore {
		return fmt.Errorf("score %d out of range [%d, %d]", score, p.MinScore, p.MaxScore)
	}

	return nil
}
