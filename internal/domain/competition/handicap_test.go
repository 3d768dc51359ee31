package competition

import "testing"

func TestMatchWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		a, b  int
		wantA int
		wantB int
	}{
		{name: "equal ratings", a: 600, b: 600, wantA: 8, wantB: 8},
		{name: "gap 50 stays even", a: 650, b: 600, wantA: 8, wantB: 8},
		{name: "gap 51", a: 651, b: 600, wantA: 8, wantB: 7},
		{name: "gap 175 favours a", a: 175, b: 0, wantA: 9, wantB: 6},
		{name: "gap 175 favours b", a: 0, b: 175, wantA: 6, wantB: 9},
		{name: "gap 250", a: 850, b: 600, wantA: 10, wantB: 6},
		{name: "gap 300", a: 300, b: 0, wantA: 10, wantB: 5},
		{name: "gap 350", a: 0, b: 350, wantA: 5, wantB: 11},
		{name: "gap 400", a: 1000, b: 600, wantA: 11, wantB: 4},
		{name: "gap over 400", a: 1001, b: 600, wantA: 12, wantB: 4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotA, gotB := MatchWeight(tt.a, tt.b)
			if gotA != tt.wantA || gotB != tt.wantB {
				t.Fatalf("MatchWeight(%d, %d) = (%d, %d), want (%d, %d)", tt.a, tt.b, gotA, gotB, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestMatchWeight_SwapSymmetric(t *testing.T) {
	t.Parallel()

	for a := 0; a <= 1200; a += 37 {
		for b := 0; b <= 1200; b += 41 {
			if a == b {
				continue
			}
			x1, y1 := MatchWeight(a, b)
			y2, x2 := MatchWeight(b, a)
			if x1 != x2 || y1 != y2 {
				t.Fatalf("swap mismatch for (%d, %d): (%d, %d) vs (%d, %d)", a, b, x1, y1, x2, y2)
			}
		}
	}
}

func TestMatchWeight_HigherRatingNeverShorterRace(t *testing.T) {
	t.Parallel()

	for gap := 0; gap <= 600; gap += 5 {
		high, low := MatchWeight(600+gap, 600)
		if high < low {
			t.Fatalf("gap %d: higher rated race %d shorter than %d", gap, high, low)
		}
	}
}
