package domain

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name         string
		session      int
		remaining    int
		subSecond    float64
		mark         int
		wantTotal    int
		wantElapsed  int
		wantPartial  int
		wantFill     float64
		wantJustFill int
	}{
		{
			name:    "three minute session with 85s elapsed",
			session: 180, remaining: 95, mark: -1,
			wantTotal: 3, wantElapsed: 1, wantPartial: 1, wantFill: 25.0 / 60, wantJustFill: -1,
		},
		{
			name:    "fresh session",
			session: 1500, remaining: 1500, mark: -1,
			wantTotal: 25, wantElapsed: 0, wantPartial: 0, wantFill: 0, wantJustFill: -1,
		},
		{
			name:    "sub-minute session still has one unit",
			session: 30, remaining: 30, mark: -1,
			wantTotal: 1, wantElapsed: 0, wantPartial: 0, wantFill: 0, wantJustFill: -1,
		},
		{
			name:    "partial unit capped below full",
			session: 120, remaining: 61, subSecond: 0.999, mark: 0,
			wantTotal: 2, wantElapsed: 0, wantPartial: 0, wantFill: 59.99 / 60, wantJustFill: -1,
		},
		{
			name:    "minute boundary flags the completed unit",
			session: 180, remaining: 120, mark: 0,
			wantTotal: 3, wantElapsed: 1, wantPartial: 1, wantFill: 0, wantJustFill: 0,
		},
		{
			name:    "no flag without a prior mark",
			session: 180, remaining: 120, mark: -1,
			wantTotal: 3, wantElapsed: 1, wantPartial: 1, wantFill: 0, wantJustFill: -1,
		},
		{
			name:    "remaining above session clamps to zero elapsed",
			session: 60, remaining: 360, mark: -1,
			wantTotal: 1, wantElapsed: 0, wantPartial: 0, wantFill: 0, wantJustFill: -1,
		},
		{
			name:    "complete session has no partial unit",
			session: 120, remaining: 0, mark: 1,
			wantTotal: 2, wantElapsed: 2, wantPartial: -1, wantFill: 0, wantJustFill: 1,
		},
		{
			name:    "sub-second interpolation",
			session: 300, remaining: 270, subSecond: 0.5, mark: 0,
			wantTotal: 5, wantElapsed: 0, wantPartial: 0, wantFill: 30.5 / 60, wantJustFill: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProgress(tt.session, tt.remaining, tt.subSecond, tt.mark)
			if got.TotalUnits != tt.wantTotal {
				t.Errorf("TotalUnits = %d, want %d", got.TotalUnits, tt.wantTotal)
			}
			if got.ElapsedUnits != tt.wantElapsed {
				t.Errorf("ElapsedUnits = %d, want %d", got.ElapsedUnits, tt.wantElapsed)
			}
			if got.PartialIndex != tt.wantPartial {
				t.Errorf("PartialIndex = %d, want %d", got.PartialIndex, tt.wantPartial)
			}
			if math.Abs(got.PartialFill-tt.wantFill) > 1e-9 {
				t.Errorf("PartialFill = %v, want %v", got.PartialFill, tt.wantFill)
			}
			if got.JustFilledIndex != tt.wantJustFill {
				t.Errorf("JustFilledIndex = %d, want %d", got.JustFilledIndex, tt.wantJustFill)
			}
		})
	}
}

func TestComputeProgress_Invariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		session := rapid.IntRange(1, MaxSeconds).Draw(t, "session")
		remaining := rapid.IntRange(0, MaxSeconds).Draw(t, "remaining")
		sub := rapid.Float64Range(0, 5).Draw(t, "subSecond")

		p := ComputeProgress(session, remaining, sub, -1)

		if p.TotalUnits != int(math.Ceil(float64(session)/60)) {
			t.Fatalf("TotalUnits = %d for session %d", p.TotalUnits, session)
		}
		if p.ElapsedUnits > p.TotalUnits {
			t.Fatalf("ElapsedUnits %d exceeds TotalUnits %d", p.ElapsedUnits, p.TotalUnits)
		}
		if p.PartialFill < 0 || p.PartialFill > 59.99/60 {
			t.Fatalf("PartialFill %v out of range", p.PartialFill)
		}
		partials := 0
		for i := 0; i < p.TotalUnits; i++ {
			f := p.UnitFill(i)
			if f > 0 && f < 1 {
				partials++
			}
		}
		if partials > 1 {
			t.Fatalf("%d units partially filled, want at most 1", partials)
		}
	})
}

func TestProgress_UnitFill(t *testing.T) {
	p := ComputeProgress(300, 150, 0, -1)
	if p.UnitFill(0) != 1 || p.UnitFill(1) != 1 {
		t.Errorf("first two units should be full, got %v %v", p.UnitFill(0), p.UnitFill(1))
	}
	if p.UnitFill(2) != 0.5 {
		t.Errorf("UnitFill(2) = %v, want 0.5", p.UnitFill(2))
	}
	if p.UnitFill(3) != 0 {
		t.Errorf("UnitFill(3) = %v, want 0", p.UnitFill(3))
	}
}
