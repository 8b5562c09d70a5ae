package domain

import "math"

// maxPartialFill keeps the partial unit visibly short of full until the
// minute actually completes.
const maxPartialFill = 59.99 / 60

// Progress describes the minute-unit progress indicator.
type Progress struct {
	TotalUnits   int
	ElapsedUnits int

	// PartialIndex is the unit currently filling, or -1 when every unit
	// is complete.
	PartialIndex int
	PartialFill  float64

	// JustFilledIndex is the unit that completed since the last
	// computation, or -1.
	JustFilledIndex int
}

// ComputeProgress derives the indicator from the session length, the
// remaining time and the fraction of a second since the last tick.
// mark is the previous ElapsedUnits (or -1); the caller stores the
// returned ElapsedUnits as the next mark.
func ComputeProgress(sessionSeconds, remainingSeconds int, subSecond float64, mark int) Progress {
	if sessionSeconds < 1 {
		sessionSeconds = 1
	}
	total := int(math.Ceil(float64(sessionSeconds) / 60))
	if total < 1 {
		total = 1
	}

	elapsed := sessionSeconds - remainingSeconds
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > sessionSeconds {
		elapsed = sessionSeconds
	}

	if subSecond < 0 {
		subSecond = 0
	}
	if subSecond > 0.999 {
		subSecond = 0.999
	}

	p := Progress{
		TotalUnits:      total,
		ElapsedUnits:    elapsed / 60,
		PartialIndex:    -1,
		JustFilledIndex: -1,
	}
	if p.ElapsedUnits < total {
		p.PartialIndex = p.ElapsedUnits
		p.PartialFill = math.Min((float64(elapsed%60)+subSecond)/60, maxPartialFill)
	}
	if mark >= 0 && p.ElapsedUnits > mark {
		p.JustFilledIndex = p.ElapsedUnits - 1
	}
	return p
}

// UnitFill returns how full unit i is, from 0 to 1.
func (p Progress) UnitFill(i int) float64 {
	switch {
	case i < p.ElapsedUnits:
		return 1
	case i == p.PartialIndex:
		return p.PartialFill
	default:
		return 0
	}
}
