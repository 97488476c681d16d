package library

import "testing"

func TestNormalizeProgress(t *testing.T) {
	cases := []struct {
		in, want [2]int
	}{
		{[2]int{3, 10}, [2]int{3, 10}},
		{[2]int{0, 0}, [2]int{0, 0}},
		{[2]int{12, 10}, [2]int{10, 10}},
		{[2]int{-1, -1}, [2]int{UnknownProgress, UnknownProgress}},
		{[2]int{-1, 10}, [2]int{UnknownProgress, UnknownProgress}},
		{[2]int{5, -1}, [2]int{UnknownProgress, UnknownProgress}},
		{[2]int{-7, -3}, [2]int{UnknownProgress, UnknownProgress}},
	}
	for _, tc := range cases {
		u, total := NormalizeProgress(tc.in[0], tc.in[1])
		if u != tc.want[0] || total != tc.want[1] {
			t.Errorf("NormalizeProgress(%d,%d) = %d/%d, want %d/%d",
				tc.in[0], tc.in[1], u, total, tc.want[0], tc.want[1])
		}
		if u >= 0 != (total >= 0) {
			t.Errorf("pair not jointly known/unknown: %d/%d", u, total)
		}
		if u >= 0 && u > total {
			t.Errorf("unlocked exceeds total: %d/%d", u, total)
		}
	}
}

func TestRecordFlags(t *testing.T) {
	rec := NewGameRecord(440, "Team Fortress 2")
	if rec.HasProgress() || rec.HasIncomplete() {
		t.Error("fresh record must be unknown")
	}

	rec.SetProgress(3, 10)
	if !rec.HasProgress() || !rec.HasIncomplete() {
		t.Error("3/10 should be known and incomplete")
	}

	rec.SetProgress(10, 10)
	if rec.HasIncomplete() {
		t.Error("10/10 should be complete")
	}

	rec.SetProgress(0, 0)
	if !rec.HasProgress() {
		t.Error("0/0 is known progress (no achievements exposed)")
	}
	if rec.HasIncomplete() {
		t.Error("0/0 has nothing to complete")
	}
}

func TestParseCategory(t *testing.T) {
	if got := ParseCategory("demo"); got != CategoryDemo {
		t.Errorf("got %q", got)
	}
	if got := ParseCategory("weird"); got != CategoryUnknown {
		t.Errorf("got %q, want unknown", got)
	}
}
