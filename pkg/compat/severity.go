package compat

import "fmt"

// Severity classifies the outcome of a compatibility assessment. Values are
// ordered: Compatible < Caution < Incompatible. Aggregation takes the maximum.
type Severity int

// Assessment severities in ascending order of concern.
const (
	// Compatible indicates no issue was found.
	Compatible Severity = iota
	// Caution indicates the pairing can work but needs monitoring or
	// specific conditions.
	Caution
	// Incompatible indicates the pairing should not be kept together.
	Incompatible
)

// String returns the canonical lower-case label for the severity.
func (s Severity) String() string {
	switch s {
	case Compatible:
		return "compatible"
	case Caution:
		return "caution"
	case Incompatible:
		return "incompatible"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalJSON encodes the severity as its canonical label.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a severity from its canonical label.
func (s *Severity) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"compatible"`:
		*s = Compatible
	case `"caution"`:
		*s = Caution
	case `"incompatible"`:
		*s = Incompatible
	default:
		return fmt.Errorf("unknown severity %s", data)
	}
	return nil
}

// Worst reduces a list of findings to its single worst severity. The empty
// list reduces to Compatible. The result does not depend on finding order;
// the scan short-circuits on the first Incompatible since it is the maximum.
func Worst(findings []Finding) Severity {
	worst := Compatible
	for _, f := range findings {
		if f.Level == Incompatible {
			return Incompatible
		}
		if f.Level > worst {
			worst = f.Level
		}
	}
	return worst
}
