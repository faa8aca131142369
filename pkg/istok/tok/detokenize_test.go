package tok

import "testing"

func detok(t *testing.T, input string, opts Options, normalize bool) string {
	t.Helper()
	return Detokenize(collect(t, input, opts), normalize)
}

func TestDetokenizeBasic(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"Hér er setning.", "Hér er setning."},
		{"Hér  er   setning .", "Hér er setning."},
		{"Sveinn ( fæddur 1986 ) kom líka.", "Sveinn (fæddur 1986) kom líka."},
		{"Hann sagði : , Við erum á réttri leið .", "Hann sagði:, Við erum á réttri leið."},
		{"Talan er 12:00 á hádegi.", "Talan er 12:00 á hádegi."},
	}
	for _, c := range cases {
		if got := detok(t, c.in, DefaultOptions(), false); got != c.out {
			t.Errorf("detokenize %q: expected %q, got %q", c.in, c.out, got)
		}
	}
}

func TestDashSpacing(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		// Year ranges tighten around the dash
		{"1914-1918", "1914-1918"},
		{"1914 - 1918", "1914-1918"},
		{"1914- 1918", "1914-1918"},
		{"1914 -1918", "1914-1918"},
		// Thought pauses keep their spaces
		{"Ég elska ketti - þeir eru svo sætir!", "Ég elska ketti - þeir eru svo sætir!"},
		{"Ég elska ketti  -  þeir eru svo sætir!", "Ég elska ketti - þeir eru svo sætir!"},
		// Em dashes always space on both sides
		{"1914—1918", "1914 — 1918"},
		{"1914 — 1918", "1914 — 1918"},
		// A dash starting a line hugs the following word
		{"- Byrjar á bandstriki", "-Byrjar á bandstriki"},
		// A trailing attached dash stays attached
		{"Endar á bandstriki-", "Endar á bandstriki-"},
		{"Endar á bandstriki -", "Endar á bandstriki -"},
		// Runs of dashes are one token
		{"This is -- a test", "This is -- a test"},
		// Compound words joined with a hyphen are one word
		{"Austur-Skaftafellssýsla", "Austur-Skaftafellssýsla"},
	}
	for _, c := range cases {
		if got := detok(t, c.in, DefaultOptions(), false); got != c.out {
			t.Errorf("detokenize %q: expected %q, got %q", c.in, c.out, got)
		}
	}
}

func TestYearRangeNormalizeDetok(t *testing.T) {
	opts := DefaultOptions()
	opts.Normalize = true
	cases := []struct {
		in, out string
	}{
		{"1914-1918", "1914–1918"},
		{"1914 -1918", "1914–1918"},
		{"1914 - 1918", "1914–1918"},
		{"1914–1918", "1914–1918"},
	}
	for _, c := range cases {
		if got := detok(t, c.in, opts, true); got != c.out {
			t.Errorf("normalize %q: expected %q, got %q", c.in, c.out, got)
		}
	}
}

func TestQuoteNormalization(t *testing.T) {
	got := detok(t, "Hann sagði \"halló\" við alla.", DefaultOptions(), true)
	want := "Hann sagði „halló“ við alla."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCorrectSpaces(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"Stóra  bókin", "Stóra bókin"},
		{"Hann fór ( með hraði ) heim .", "Hann fór (með hraði) heim."},
		{"Talan er 17,5 % en ekki 18 %", "Talan er 17,5% en ekki 18%"},
	}
	for _, c := range cases {
		if got := CorrectSpaces(c.in); got != c.out {
			t.Errorf("correct spaces %q: expected %q, got %q", c.in, c.out, got)
		}
	}
}

func TestCorrectSpacesIdempotent(t *testing.T) {
	inputs := []string{
		"Hér er setning með ( sviga ) og 17,5 % tölu .",
		"1914 - 1918 var stríð.",
		"fjölskyldu- og húsdýragarðurinn",
	}
	for _, in := range inputs {
		once := CorrectSpaces(in)
		twice := CorrectSpaces(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestDetokenizeEllipsis(t *testing.T) {
	got := detok(t, "Hann hugsaði sig um ...", DefaultOptions(), true)
	want := "Hann hugsaði sig um…"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
