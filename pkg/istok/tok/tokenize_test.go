package tok

import (
	"math"
	"strings"
	"testing"
)

func almostEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9*(1+math.Abs(b))
}

func collect(t *testing.T, text string, opts Options) []Token {
	t.Helper()
	var tokens []Token
	for tk := range Tokenize(text, opts) {
		tokens = append(tokens, tk)
	}
	return tokens
}

func kinds(tokens []Token) []Kind {
	ks := make([]Kind, len(tokens))
	for i, t := range tokens {
		ks[i] = t.Kind
	}
	return ks
}

func checkKinds(t *testing.T, tokens []Token, want []Kind) {
	t.Helper()
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected kind %d, got %d (%q)", i, want[i], got[i], tokens[i].Txt)
		}
	}
}

func TestSimpleSentence(t *testing.T) {
	tokens := collect(t, "Hér er setning.", DefaultOptions())
	checkKinds(t, tokens, []Kind{SBegin, Word, Word, Word, Punctuation, SEnd})
	if tokens[1].Txt != "Hér" || tokens[2].Txt != "er" || tokens[3].Txt != "setning" {
		t.Errorf("unexpected token texts: %q %q %q", tokens[1].Txt, tokens[2].Txt, tokens[3].Txt)
	}
	if tokens[4].Punct() != "." {
		t.Errorf("expected period, got %q", tokens[4].Punct())
	}
}

func TestTwoSentences(t *testing.T) {
	tokens := collect(t, "Hann kom. Hún fór.", DefaultOptions())
	checkKinds(t, tokens, []Kind{
		SBegin, Word, Word, Punctuation, SEnd,
		SBegin, Word, Word, Punctuation, SEnd,
	})
}

func TestDeepTokenizationScenario(t *testing.T) {
	tokens := collect(t, "3.janúar sl. keypti   ég 64kWst rafbíl. Hann kostaði € 30.000.", DefaultOptions())
	checkKinds(t, tokens, []Kind{
		SBegin, DateRel, Word, Word, Word, Measurement, Word, Punctuation, SEnd,
		SBegin, Word, Word, Amount, Punctuation, SEnd,
	})
	date := tokens[1]
	if date.Txt != "3. janúar" {
		t.Errorf("expected normalized date text %q, got %q", "3. janúar", date.Txt)
	}
	if dv := date.Val.(DateVal); dv != (DateVal{Y: 0, M: 1, D: 3}) {
		t.Errorf("unexpected date value: %+v", dv)
	}
	if date.Original != "3.janúar" {
		t.Errorf("unexpected date original: %q", date.Original)
	}
	sl := tokens[2]
	if sl.Txt != "sl." || !sl.HasMeanings() || sl.Meanings()[0].Word != "síðastliðinn" {
		t.Errorf("expected abbreviation sl. with meaning, got %q %v", sl.Txt, sl.Val)
	}
	meas := tokens[5]
	if meas.Txt != "64kWst" {
		t.Errorf("unexpected measurement text %q", meas.Txt)
	}
	if mv := meas.Val.(MeasureVal); mv.Unit != "J" || mv.N != 230400000.0 {
		t.Errorf("unexpected measurement value: %+v", mv)
	}
	// The three spaces before 'ég' belong to that token's original
	if tokens[4].Original != "   ég" {
		t.Errorf("whitespace not attributed to following token: %q", tokens[4].Original)
	}
	amount := tokens[12]
	if amount.Txt != "€30.000" {
		t.Errorf("unexpected amount text %q", amount.Txt)
	}
	if av := amount.Val.(AmountVal); av.ISO != "EUR" || av.N != 30000.0 {
		t.Errorf("unexpected amount value: %+v", av)
	}
}

func TestAbbreviationAtSentenceEnd(t *testing.T) {
	tokens := collect(t, "Þar voru epli, appelsínur o.s.frv. Þetta var gott.", DefaultOptions())
	// o.s.frv. keeps its final period attached and no separate
	// punctuation token is emitted for it
	var abbr *Token
	for i := range tokens {
		if tokens[i].Txt == "o.s.frv." {
			abbr = &tokens[i]
			if tokens[i+1].Kind != SEnd {
				t.Errorf("expected S_END after o.s.frv., got %v %q",
					tokens[i+1].Kind, tokens[i+1].Txt)
			}
		}
	}
	if abbr == nil {
		t.Fatalf("o.s.frv. not found in %v", kinds(tokens))
	}
	if !abbr.HasMeanings() || abbr.Meanings()[0].Word != "og svo framvegis" {
		t.Errorf("expected expansion attached, got %v", abbr.Val)
	}
}

func TestAbbreviationMidSentence(t *testing.T) {
	tokens := collect(t, "Hann kom t.d. með epli.", DefaultOptions())
	checkKinds(t, tokens, []Kind{SBegin, Word, Word, Word, Word, Word, Punctuation, SEnd})
	td := tokens[3]
	if td.Txt != "t.d." || !td.HasMeanings() {
		t.Errorf("expected abbreviated t.d. with meanings, got %q %v", td.Txt, td.Val)
	}
}

func TestNotFinisherAtSentenceEnd(t *testing.T) {
	// 'dags.' is also a word form and is not an abbreviation when it
	// ends a sentence
	tokens := collect(t, "Hitt skjalið er dags. Þá kemur meira.", DefaultOptions())
	found := false
	for i, tk := range tokens {
		if tk.Txt == "dags" && tk.Kind == Word {
			found = true
			if tk.HasMeanings() {
				t.Error("sentence-final dags should carry no expansion")
			}
			if tokens[i+1].Punct() != "." || tokens[i+2].Kind != SEnd {
				t.Errorf("expected separate period and S_END after dags, got %v",
					kinds(tokens[i+1:]))
			}
		}
	}
	if !found {
		t.Fatalf("expected a bare dags word token: %v", kinds(tokens))
	}
}

func TestMeasurementAbsorbsPeriodMidSentence(t *testing.T) {
	tokens := collect(t, "Hlaupið tók 20 mín. en gekk vel.", DefaultOptions())
	var meas *Token
	for i := range tokens {
		if tokens[i].Kind == Measurement {
			meas = &tokens[i]
		}
	}
	if meas == nil {
		t.Fatalf("measurement not found: %v", kinds(tokens))
	}
	if meas.Txt != "20 mín." {
		t.Errorf("expected period absorbed into measurement, got %q", meas.Txt)
	}
	if mv := meas.Val.(MeasureVal); mv.Unit != "s" || !almostEq(mv.N, 1200) {
		t.Errorf("unexpected measurement value: %+v", mv)
	}
}

func TestCompositeWordContinuation(t *testing.T) {
	tokens := collect(t, "fjölskyldu- og húsdýragarðurinn", DefaultOptions())
	checkKinds(t, tokens, []Kind{SBegin, Word, SEnd})
	if tokens[1].Txt != "fjölskyldu- og húsdýragarðurinn" {
		t.Errorf("unexpected composite text: %q", tokens[1].Txt)
	}
	if tokens[1].Original != "fjölskyldu- og húsdýragarðurinn" {
		t.Errorf("unexpected composite original: %q", tokens[1].Original)
	}
}

func TestCompositeWordMultiplePrefixes(t *testing.T) {
	tokens := collect(t, "Innflutningur bensín-, dísel- og rafmagnsbíla jókst.", DefaultOptions())
	var composite *Token
	for i := range tokens {
		if strings.Contains(tokens[i].Txt, "rafmagnsbíla") {
			composite = &tokens[i]
		}
	}
	if composite == nil {
		t.Fatal("composite token not found")
	}
	if composite.Txt != "bensín-, dísel- og rafmagnsbíla" {
		t.Errorf("unexpected composite text: %q", composite.Txt)
	}
}

func TestYearRange(t *testing.T) {
	tokens := collect(t, "1914-1918", DefaultOptions())
	checkKinds(t, tokens, []Kind{SBegin, Year, SEnd})
	if tokens[1].Txt != "1914-1918" {
		t.Errorf("unexpected year range text: %q", tokens[1].Txt)
	}
	if tokens[1].Val.(int) != 1914 {
		t.Errorf("unexpected year range value: %v", tokens[1].Val)
	}
}

func TestYearRangeNormalized(t *testing.T) {
	opts := DefaultOptions()
	opts.Normalize = true
	tokens := collect(t, "1914-1918", opts)
	checkKinds(t, tokens, []Kind{SBegin, Year, SEnd})
	if tokens[1].Txt != "1914–1918" {
		t.Errorf("expected en dash in normalized year range, got %q", tokens[1].Txt)
	}
}

func TestYearRangeWithSpacedMinus(t *testing.T) {
	// '1914 -1918' is a year range, not a negative number
	tokens := collect(t, "1914 -1918", DefaultOptions())
	checkKinds(t, tokens, []Kind{SBegin, Year, SEnd})
	if tokens[1].Txt != "1914-1918" {
		t.Errorf("unexpected year range text: %q", tokens[1].Txt)
	}
	if tokens[1].Original != "1914 -1918" {
		t.Errorf("original not preserved: %q", tokens[1].Original)
	}
}

func TestMeasurementWithSpace(t *testing.T) {
	tokens := collect(t, "Fallhæðin er 1920 mm.", DefaultOptions())
	var meas *Token
	for i := range tokens {
		if tokens[i].Kind == Measurement {
			meas = &tokens[i]
		}
	}
	if meas == nil {
		t.Fatalf("measurement not found: %v", kinds(tokens))
	}
	if meas.Txt != "1920 mm" {
		t.Errorf("unexpected measurement text %q", meas.Txt)
	}
	if mv := meas.Val.(MeasureVal); mv.Unit != "m" || !almostEq(mv.N, 1.92) {
		t.Errorf("unexpected measurement value: %+v", mv)
	}
}

func TestDegreeMeasurementConversion(t *testing.T) {
	opts := DefaultOptions()
	opts.ConvertMeasurements = true
	tokens := collect(t, "Ofninn var stilltur á 200° C í klukkutíma.", opts)
	var meas *Token
	for i := range tokens {
		if tokens[i].Kind == Measurement {
			meas = &tokens[i]
		}
	}
	if meas == nil {
		t.Fatalf("measurement not found: %v", kinds(tokens))
	}
	if meas.Txt != "200 °C" {
		t.Errorf("expected normalized surface '200 °C', got %q", meas.Txt)
	}
	mv := meas.Val.(MeasureVal)
	if mv.Unit != "K" || !almostEq(mv.N, 473.15) {
		t.Errorf("unexpected measurement value: %+v", mv)
	}
	if meas.Original != " 200° C" {
		t.Errorf("original not preserved: %q", meas.Original)
	}
}

func TestAmountWithConvertedNumbers(t *testing.T) {
	opts := DefaultOptions()
	opts.ConvertNumbers = true
	tokens := collect(t, "$1,234.56", opts)
	checkKinds(t, tokens, []Kind{SBegin, Amount, SEnd})
	if tokens[1].Txt != "$1.234,56" {
		t.Errorf("expected Icelandic locale text, got %q", tokens[1].Txt)
	}
	if av := tokens[1].Val.(AmountVal); av.ISO != "USD" || !almostEq(av.N, 1234.56) {
		t.Errorf("unexpected amount value: %+v", av)
	}
}

func TestEmptyLineForcesSentenceEnd(t *testing.T) {
	tokens := collect(t, "Fyrri hlutinn\n\nSeinni hlutinn", DefaultOptions())
	checkKinds(t, tokens, []Kind{SBegin, Word, Word, SEnd, SBegin, Word, Word, SEnd})
}

func TestClockTime(t *testing.T) {
	tokens := collect(t, "Fundurinn hefst kl. 15:30 í dag.", DefaultOptions())
	var clock *Token
	for i := range tokens {
		if tokens[i].Kind == Time {
			clock = &tokens[i]
		}
	}
	if clock == nil {
		t.Fatalf("time token not found: %v", kinds(tokens))
	}
	if clock.Txt != "kl. 15:30" {
		t.Errorf("unexpected time text %q", clock.Txt)
	}
	if tv := clock.Val.(TimeVal); tv != (TimeVal{H: 15, M: 30, S: 0}) {
		t.Errorf("unexpected time value: %+v", tv)
	}
}

func TestClockWord(t *testing.T) {
	tokens := collect(t, "Hann kom klukkan hálftvö.", DefaultOptions())
	var clock *Token
	for i := range tokens {
		if tokens[i].Kind == Time {
			clock = &tokens[i]
		}
	}
	if clock == nil {
		t.Fatalf("time token not found: %v", kinds(tokens))
	}
	if tv := clock.Val.(TimeVal); tv != (TimeVal{H: 1, M: 30, S: 0}) {
		t.Errorf("unexpected time value: %+v", tv)
	}
}

func TestTimestamp(t *testing.T) {
	tokens := collect(t, "Tónleikarnir verða 1. júní 2024 kl. 20:00 í Hörpu.", DefaultOptions())
	var ts *Token
	for i := range tokens {
		if tokens[i].Kind == TimestampAbs {
			ts = &tokens[i]
		}
	}
	if ts == nil {
		t.Fatalf("timestamp not found: %v", kinds(tokens))
	}
	want := TimestampVal{Y: 2024, Mo: 6, D: 1, H: 20, M: 0, S: 0}
	if tv := ts.Val.(TimestampVal); tv != want {
		t.Errorf("unexpected timestamp value: %+v", tv)
	}
}

func TestMonthNameDate(t *testing.T) {
	tokens := collect(t, "Hún fæddist 17. júní 1944 á Þingvöllum.", DefaultOptions())
	var date *Token
	for i := range tokens {
		if tokens[i].Kind == DateAbs {
			date = &tokens[i]
		}
	}
	if date == nil {
		t.Fatalf("absolute date not found: %v", kinds(tokens))
	}
	if dv := date.Val.(DateVal); dv != (DateVal{Y: 1944, M: 6, D: 17}) {
		t.Errorf("unexpected date value: %+v", dv)
	}
}

func TestCapitalizedMonthAfterOrdinal(t *testing.T) {
	// 'Ágúst' is a person name, but after an ordinal it is a month
	tokens := collect(t, "Hátíðin verður 5. Ágúst í ár.", DefaultOptions())
	foundDate := false
	for _, tk := range tokens {
		if tk.Kind == DateRel {
			foundDate = true
			if dv := tk.Val.(DateVal); dv.M != 8 || dv.D != 5 {
				t.Errorf("unexpected date value: %+v", dv)
			}
		}
	}
	if !foundDate {
		t.Fatalf("date not recognized: %v", kinds(tokens))
	}
}

func TestYearBCE(t *testing.T) {
	tokens := collect(t, "Borgin var stofnuð árið 753 f.Kr. að sögn.", DefaultOptions())
	var year *Token
	for i := range tokens {
		if tokens[i].Kind == Year {
			year = &tokens[i]
		}
	}
	if year == nil {
		t.Fatalf("year not found: %v", kinds(tokens))
	}
	if year.Val.(int) != -753 {
		t.Errorf("expected negative year for BCE, got %v", year.Val)
	}
}

func TestCoalescePercent(t *testing.T) {
	opts := DefaultOptions()
	opts.CoalescePercent = true
	tokens := collect(t, "Verðbólgan mældist 17 prósent í mars.", opts)
	var pct *Token
	for i := range tokens {
		if tokens[i].Kind == Percent {
			pct = &tokens[i]
		}
	}
	if pct == nil {
		t.Fatalf("percent token not found: %v", kinds(tokens))
	}
	if pct.Txt != "17 prósent" {
		t.Errorf("unexpected percent text %q", pct.Txt)
	}
	if nv := pct.Val.(NumVal); nv.N != 17.0 {
		t.Errorf("unexpected percent value: %+v", nv)
	}
}

func TestISKAmount(t *testing.T) {
	tokens := collect(t, "Bíllinn kostaði 2,5 m.kr. í fyrra.", DefaultOptions())
	var amount *Token
	for i := range tokens {
		if tokens[i].Kind == Amount {
			amount = &tokens[i]
		}
	}
	if amount == nil {
		t.Fatalf("amount not found: %v", kinds(tokens))
	}
	if av := amount.Val.(AmountVal); av.ISO != "ISK" || !almostEq(av.N, 2.5e6) {
		t.Errorf("unexpected amount value: %+v", av)
	}
}

func TestCompositeGlyphFolding(t *testing.T) {
	// 'þráður' written with combining acute accents
	input := "þráður"
	tokens := collect(t, input, DefaultOptions())
	checkKinds(t, tokens, []Kind{SBegin, Word, SEnd})
	if tokens[1].Txt != "þráður" {
		t.Errorf("expected folded text, got %q", tokens[1].Txt)
	}
	if tokens[1].Original != input {
		t.Errorf("original not preserved: %q", tokens[1].Original)
	}
}

func TestHTMLEscapeReplacement(t *testing.T) {
	opts := DefaultOptions()
	opts.ReplaceHTMLEscapes = true
	tokens := collect(t, "þr&aacute;&eth;ur", opts)
	checkKinds(t, tokens, []Kind{SBegin, Word, SEnd})
	if tokens[1].Txt != "þráður" {
		t.Errorf("expected expanded entities, got %q", tokens[1].Txt)
	}
}

func TestOneSentencePerLine(t *testing.T) {
	opts := DefaultOptions()
	opts.OneSentPerLine = true
	tokens := collect(t, "fyrsta setningin\nönnur setningin", opts)
	checkKinds(t, tokens, []Kind{SBegin, Word, Word, SEnd, SBegin, Word, Word, SEnd})
}

func TestParagraphMarkers(t *testing.T) {
	marked := MarkParagraphs("Fyrsta efnisgreinin.\nÖnnur efnisgreinin.")
	if marked != "[[Fyrsta efnisgreinin.]][[Önnur efnisgreinin.]]" {
		t.Fatalf("unexpected markup: %q", marked)
	}
	tokens := collect(t, marked, DefaultOptions())
	checkKinds(t, tokens, []Kind{
		PBegin, SBegin, Word, Word, Punctuation, SEnd, PEnd,
		PBegin, SBegin, Word, Word, Punctuation, SEnd, PEnd,
	})
}

func TestMissingSpaceBetweenSentences(t *testing.T) {
	tokens := collect(t, "Það er mikið í húfi í sjávarútvegi.Það vita allir.", DefaultOptions())
	// The run-together 'sjávarútvegi.Það' splits into two sentences
	count := 0
	for _, tk := range tokens {
		if tk.Kind == SEnd {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected 2 sentences, got %d: %v", count, kinds(tokens))
	}
}

func TestWrongFormCorrection(t *testing.T) {
	tokens := collect(t, "epli, appelsínur osfrv voru þar", DefaultOptions())
	found := false
	for _, tk := range tokens {
		if tk.Original == "osfrv" || tk.Original == " osfrv" {
			found = true
			if tk.Txt != "o.s.frv." {
				t.Errorf("expected corrected surface, got %q", tk.Txt)
			}
			if !tk.HasMeanings() {
				t.Error("expected meanings on corrected abbreviation")
			}
		}
	}
	if !found {
		t.Fatalf("osfrv token not found: %v", kinds(tokens))
	}
}

var invariantInputs = []string{
	"Hér er venjulegur texti með nokkrum orðum.",
	"3.janúar sl. keypti   ég 64kWst rafbíl. Hann kostaði € 30.000.",
	"Ég hitti hann kl. 15:30 þann 17. júní 2024 á Laugavegi 4B.",
	"Síminn er 588-5522 og kennitalan er 010130-3019.",
	"Sjá nánar á www.mbl.is og https://example.com/frett?id=1.",
	"Hlutfallið var 42,5% en ekki 17‰ eins og sagt var.\n\nNý efnisgrein hófst hér.",
	"„Er einhver þarna?“ sagði konan. Enginn svaraði.",
	"Verðið hækkaði um 12,5 prósent árið 1998 - eða þar um bil.",
	"fjölskyldu- og húsdýragarðurinn var opnaður 1914-1918",
	"Þetta  er   texti \t með óreglulegu bili.",
	"H2SO4 er sterk sýra en CO2 er gróðurhúsalofttegund.",
	"Netfangið er jon@example.com og notandanafnið @jon_123.",
}

func TestOriginalConcatenationInvariant(t *testing.T) {
	for _, input := range invariantInputs {
		var b strings.Builder
		for _, tk := range collect(t, input, DefaultOptions()) {
			b.WriteString(tk.Original)
		}
		if b.String() != input {
			t.Errorf("original concatenation mismatch:\n in: %q\nout: %q", input, b.String())
		}
	}
}

func TestSpanInvariant(t *testing.T) {
	for _, input := range invariantInputs {
		for _, tk := range collect(t, input, DefaultOptions()) {
			if len(tk.Spans) != len([]rune(tk.Txt)) {
				t.Fatalf("span length mismatch for %q: %d spans, %d chars",
					tk.Txt, len(tk.Spans), len([]rune(tk.Txt)))
			}
			origLen := len([]rune(tk.Original))
			prev := 0
			for _, x := range tk.Spans {
				if x < prev || x > origLen {
					t.Fatalf("span out of order or range for %q: %v", tk.Txt, tk.Spans)
				}
				prev = x
			}
		}
	}
}

func TestSentenceMarkersBalanced(t *testing.T) {
	for _, input := range invariantInputs {
		depth := 0
		for _, tk := range collect(t, input, DefaultOptions()) {
			switch tk.Kind {
			case SBegin:
				depth++
				if depth != 1 {
					t.Fatalf("nested S_BEGIN in %q", input)
				}
			case SEnd:
				depth--
				if depth != 0 {
					t.Fatalf("unbalanced S_END in %q", input)
				}
			}
		}
		if depth != 0 {
			t.Fatalf("unclosed sentence in %q", input)
		}
	}
}

func TestDeterminism(t *testing.T) {
	input := invariantInputs[1]
	first := collect(t, input, DefaultOptions())
	second := collect(t, input, DefaultOptions())
	if len(first) != len(second) {
		t.Fatal("token count varies between runs")
	}
	for i := range first {
		if first[i].Kind != second[i].Kind || first[i].Txt != second[i].Txt ||
			first[i].Original != second[i].Original {
			t.Fatalf("token %d differs between runs", i)
		}
	}
}

func TestCalculateIndexes(t *testing.T) {
	tokens := collect(t, "Hér er setning.", DefaultOptions())
	chars, bytes := CalculateIndexes(tokens, true)
	// "Hér", " er", " setning", "." and the past-the-end index
	wantChars := []int{0, 3, 6, 14, 15}
	if len(chars) != len(wantChars) {
		t.Fatalf("unexpected char indexes: %v", chars)
	}
	for i, want := range wantChars {
		if chars[i] != want {
			t.Fatalf("char index %d: expected %d, got %d", i, want, chars[i])
		}
	}
	// 'é' is two bytes in UTF-8
	if bytes[1] != 4 {
		t.Errorf("expected byte index 4 after Hér, got %d", bytes[1])
	}
}

func TestParagraphGrouping(t *testing.T) {
	marked := MarkParagraphs("Fyrsta efnisgreinin. Hún er löng.\nÖnnur efnisgreinin.")
	var paras [][]Sentence
	for p := range Paragraphs(Tokenize(marked, DefaultOptions())) {
		paras = append(paras, p)
	}
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if len(paras[0]) != 2 || len(paras[1]) != 1 {
		t.Errorf("unexpected sentence counts: %d, %d", len(paras[0]), len(paras[1]))
	}
	first := paras[0][0]
	if len(first.Tokens) != 3 {
		t.Errorf("expected 3 tokens in first sentence, got %d", len(first.Tokens))
	}
}
