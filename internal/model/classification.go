package model

// Classification is the categorical result of comparing a price to its band.
type Classification int

const (
	BelowBand Classification = iota
	WithinBand
	AboveBand
)

// String returns the sink-facing label for the classification.
func (c Classification) String() string {
	switch c {
	case BelowBand:
		return "LOW_ALERT"
	case AboveBand:
		return "HIGH_ALERT"
	default:
		return "NORMAL"
	}
}
