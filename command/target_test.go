package command

import (
	"slices"
	"testing"
)

func TestTargetString(t *testing.T) {
	tests := []struct {
		target Target
		want   string
	}{
		{Onscreen(7), "onscreen:7"},
		{Offscreen(3), "offscreen:3"},
		{Onscreen(0), "onscreen:0"},
	}
	for _, tt := range tests {
		if got := tt.target.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		parsed, err := ParseTarget(tt.want)
		if err != nil {
			t.Fatalf("ParseTarget(%q): %v", tt.want, err)
		}
		if parsed != tt.target {
			t.Errorf("ParseTarget(%q) = %v", tt.want, parsed)
		}
	}
}

func TestParseTargetErrors(t *testing.T) {
	for _, s := range []string{"", "onscreen", "window:1", "offscreen:x"} {
		if _, err := ParseTarget(s); err == nil {
			t.Errorf("ParseTarget(%q) should fail", s)
		}
	}
}

func TestTargetCompare(t *testing.T) {
	targets := []Target{Onscreen(2), Offscreen(5), Onscreen(1), Offscreen(1)}
	slices.SortFunc(targets, Target.Compare)
	want := []Target{Offscreen(1), Offscreen(5), Onscreen(1), Onscreen(2)}
	if !slices.Equal(targets, want) {
		t.Errorf("sorted = %v, want %v", targets, want)
	}
}

func TestTargetsAreDistinctKeys(t *testing.T) {
	m := map[Target]int{Onscreen(1): 1, Offscreen(1): 2}
	if len(m) != 2 {
		t.Error("onscreen and offscreen targets with the same id must differ")
	}
}
