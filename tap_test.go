package goulink

import "testing"

func TestIsStableState(t *testing.T) {
	stable := map[TapState]bool{
		TapReset: true, TapIdle: true, TapPauseDR: true, TapPauseIR: true,
		TapSelectDR: false, TapShiftDR: false, TapShiftIR: false, TapUpdateIR: false,
	}
	for state, want := range stable {
		if got := IsStableState(state); got != want {
			t.Errorf("IsStableState(%s) = %v, want %v", state, got, want)
		}
	}
}

func TestPathTMSBitsSameState(t *testing.T) {
	for s := TapReset; s < tapStateCount; s++ {
		if p := pathTMSBits(s, s); p.count != 0 {
			t.Errorf("pathTMSBits(%s, %s) count = %d, want 0", s, s, p.count)
		}
	}
}

func TestPathTMSBitsKnownRoutes(t *testing.T) {
	cases := []struct {
		from, to   TapState
		wantCount  uint8
		wantBits   uint8
	}{
		// Idle -> ShiftDR: TMS 1,0,0 (Idle->SelectDR->CaptureDR->ShiftDR)
		{TapIdle, TapShiftDR, 3, 0b001},
		// Idle -> ShiftIR: TMS 1,1,0,0
		{TapIdle, TapShiftIR, 4, 0b0011},
		// Reset -> Idle: TMS 0
		{TapReset, TapIdle, 1, 0b0},
		// ShiftDR -> PauseDR: TMS 1,0
		{TapShiftDR, TapPauseDR, 2, 0b01},
		// PauseDR -> ShiftDR (resume): TMS 1,0
		{TapPauseDR, TapShiftDR, 2, 0b01},
	}
	for _, c := range cases {
		p := pathTMSBits(c.from, c.to)
		if p.count != c.wantCount || p.bits != c.wantBits {
			t.Errorf("pathTMSBits(%s, %s) = {count:%d bits:%04b}, want {count:%d bits:%04b}",
				c.from, c.to, p.count, p.bits, c.wantCount, c.wantBits)
		}
	}
}

func TestPathLenNeverExceedsDiameter(t *testing.T) {
	for from := TapReset; from < tapStateCount; from++ {
		for to := TapReset; to < tapStateCount; to++ {
			if n := pathLen(from, to); n > 7 {
				t.Errorf("pathLen(%s, %s) = %d, want <= 7", from, to, n)
			}
		}
	}
}

func TestTapFollowerSetEndStateRejectsUnstable(t *testing.T) {
	f := newTapFollower()
	if err := f.setEndState(TapShiftDR); err == nil {
		t.Fatal("setEndState(TapShiftDR) = nil error, want InvalidRequest")
	}
	if !IsKind(f.setEndState(TapShiftDR), KindInvalidRequest) {
		t.Fatal("setEndState(TapShiftDR) did not return a KindInvalidRequest error")
	}
}

func TestTapFollowerMoveToTracksCurrent(t *testing.T) {
	f := newTapFollower()
	if f.current != TapReset {
		t.Fatalf("new follower current = %s, want RESET", f.current)
	}
	f.moveTo(TapIdle)
	if f.current != TapIdle {
		t.Fatalf("after moveTo(Idle), current = %s, want IDLE", f.current)
	}
	if p := f.pathToEnd(); p.count != 0 {
		t.Fatalf("pathToEnd() with end==current count = %d, want 0", p.count)
	}
}
