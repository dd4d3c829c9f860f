package app

// ResolutionPolicy picks the local video scale factor for a participant count.
type ResolutionPolicy interface {
	ScaleFor(participants int) float64
}

// StepPolicy scales the local camera down less as the call grows:
// 1.5 below two participants, 2 below five, 1 otherwise.
type StepPolicy struct{}

func (StepPolicy) ScaleFor(participants int) float64 {
	switch {
	case participants < 2:
		return 1.5
	case participants < 5:
		return 2
	default:
		return 1
	}
}
