package textnorm

import "testing"

func strptr(s string) *string {
	return &s
}

func TestNormalizeMissingDescription(t *testing.T) {
	n := New()

	got := n.Normalize(nil)
	if got != Placeholder {
		t.Errorf("expected placeholder %q for missing description, got %q", Placeholder, got)
	}
}

func TestNormalizeMultiSentence(t *testing.T) {
	n := New()

	got := n.Normalize(strptr("Replace aging boiler system. Includes HVAC upgrade."))
	want := "Replace aging boiler system Includes HVAC upgrade"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalizeSingleSentence(t *testing.T) {
	n := New()

	got := n.Normalize(strptr("Roof replacement at PS 123"))
	if got != "Roof replacement at PS 123" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestNormalizeTrimsFragments(t *testing.T) {
	n := New()

	got := n.Normalize(strptr("  First phase .   Second phase.  "))
	want := "First phase Second phase"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalizeEmptyString(t *testing.T) {
	n := New()

	got := n.Normalize(strptr(""))
	if got != "" {
		t.Errorf("expected empty unit for empty description, got %q", got)
	}
	if !IsEmptyUnit(got) {
		t.Error("expected IsEmptyUnit to report true")
	}
}

func TestNormalizeAllPeriods(t *testing.T) {
	n := New()

	// Every fragment trims away; this yields the empty unit, which is
	// deliberately not the same as the missing-description placeholder.
	got := n.Normalize(strptr("..."))
	if got != "" {
		t.Errorf("expected empty unit for all-period description, got %q", got)
	}
	if got == Placeholder {
		t.Error("empty unit must stay distinct from the missing placeholder")
	}
}

func TestNormalizeWhitespaceOnly(t *testing.T) {
	n := New()

	got := n.Normalize(strptr("   "))
	if got != "" {
		t.Errorf("expected empty unit for whitespace description, got %q", got)
	}
}

// Totality: one unit out for every input shape, never a panic.
func TestNormalizeIsTotal(t *testing.T) {
	n := New()

	inputs := []*string{
		nil,
		strptr(""),
		strptr("."),
		strptr(". . ."),
		strptr("no terminal period"),
		strptr("a.b.c"),
		strptr("Trailing period."),
	}

	for _, in := range inputs {
		got := n.Normalize(in)
		if in == nil && got != Placeholder {
			t.Errorf("nil input: expected placeholder, got %q", got)
		}
	}

	if got := n.Normalize(strptr("a.b.c")); got != "a b c" {
		t.Errorf("expected fragments rejoined with spaces, got %q", got)
	}
}
