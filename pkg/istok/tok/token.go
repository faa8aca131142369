// Package tok implements the tokenization pipeline for Icelandic text.
//
// The pipeline is a linear composition of lazy stages; each stage
// consumes a sequence of tokens and produces one, using bounded
// lookahead to recognize composite patterns and sentence boundaries.
package tok

import (
	"github.com/cognicore/istok/pkg/istok/abbrev"
)

// Kind discriminates token types. The numeric codes are part of the
// wire format (CSV output) and must not change.
type Kind int

const (
	// RAW is a minimally processed token, only used inside stage 1
	RAW Kind = -1

	Punctuation Kind = 1
	Time        Kind = 2
	Date        Kind = 3 // intermediate; resolved to DateAbs/DateRel
	Year        Kind = 4
	Number      Kind = 5
	Word        Kind = 6
	Telno       Kind = 7
	Percent     Kind = 8
	URL         Kind = 9
	Ordinal     Kind = 10
	Timestamp   Kind = 11 // intermediate; resolved to TimestampAbs/Rel
	Currency    Kind = 12
	Amount      Kind = 13
	Person      Kind = 14 // reserved
	Email       Kind = 15
	Entity      Kind = 16 // reserved
	Unknown     Kind = 17
	DateAbs     Kind = 18
	DateRel     Kind = 19
	TimestampAbs Kind = 20
	TimestampRel Kind = 21
	Measurement Kind = 22
	NumWithLetter Kind = 23
	Domain      Kind = 24
	Hashtag     Kind = 25
	Molecule    Kind = 26
	SSN         Kind = 27
	Username    Kind = 28
	SerialNumber Kind = 29
	Company     Kind = 30 // reserved

	// MetaBegin separates real tokens from marker tokens
	MetaBegin Kind = 9999

	SSplit Kind = 10000
	PBegin Kind = 10001
	PEnd   Kind = 10002
	SBegin Kind = 11001
	SEnd   Kind = 11002
	XEnd   Kind = 12001
)

// Descr maps a kind to its descriptive name, used in JSON output.
var Descr = map[Kind]string{
	Punctuation:  "PUNCTUATION",
	Time:         "TIME",
	Timestamp:    "TIMESTAMP",
	TimestampAbs: "TIMESTAMPABS",
	TimestampRel: "TIMESTAMPREL",
	Date:         "DATE",
	DateAbs:      "DATEABS",
	DateRel:      "DATEREL",
	Year:         "YEAR",
	Number:       "NUMBER",
	NumWithLetter: "NUMWLETTER",
	Currency:     "CURRENCY",
	Amount:       "AMOUNT",
	Measurement:  "MEASUREMENT",
	Person:       "PERSON",
	Word:         "WORD",
	Unknown:      "UNKNOWN",
	Telno:        "TELNO",
	Percent:      "PERCENT",
	URL:          "URL",
	Domain:       "DOMAIN",
	Hashtag:      "HASHTAG",
	Email:        "EMAIL",
	Ordinal:      "ORDINAL",
	Entity:       "ENTITY",
	Molecule:     "MOLECULE",
	SSN:          "SSN",
	Username:     "USERNAME",
	SerialNumber: "SERIALNUMBER",
	Company:      "COMPANY",
	SSplit:       "SPLIT SENT",
	PBegin:       "BEGIN PARA",
	PEnd:         "END PARA",
	SBegin:       "BEGIN SENT",
	SEnd:         "END SENT",
}

// IsEnd reports whether k terminates a sentence or the stream.
func (k Kind) IsEnd() bool {
	return k == PEnd || k == SEnd || k == XEnd || k == SSplit
}

// IsBegin reports whether k begins a sentence or paragraph.
func (k Kind) IsBegin() bool {
	return k == PBegin || k == SBegin
}

// isText reports whether k is a textual kind that can start a sentence
// with a capital letter.
func (k Kind) isText() bool {
	switch k {
	case Word, Person, Entity, Molecule, Company:
		return true
	}
	return false
}

// Spacing describes the whitespace discipline of a punctuation symbol.
type Spacing int

const (
	SpaceLeft   Spacing = 1 // whitespace to the left
	SpaceCenter Spacing = 2 // whitespace on both sides
	SpaceRight  Spacing = 3 // whitespace to the right
	SpaceNone   Spacing = 4 // no whitespace
	spaceWord   Spacing = 5 // flexible, depending on surroundings
)

// Value payloads, one per kind that carries structure. The kind of a
// token determines which payload type is stored in Token.Val.

// PunctVal is the value of a Punctuation token.
type PunctVal struct {
	Space Spacing
	Norm  string // canonical form of the symbol
}

// DateVal is the value of Date, DateAbs and DateRel tokens.
// Unknown components are zero.
type DateVal struct {
	Y, M, D int
}

// TimeVal is the value of a Time token.
type TimeVal struct {
	H, M, S int
}

// TimestampVal is the value of Timestamp, TimestampAbs and
// TimestampRel tokens.
type TimestampVal struct {
	Y, Mo, D, H, M, S int
}

// NumVal is the value of Number and Percent tokens.
type NumVal struct {
	N float64
}

// AmountVal is the value of an Amount token.
type AmountVal struct {
	N   float64
	ISO string // ISO 4217 currency code
}

// CurrencyVal is the value of a Currency token.
type CurrencyVal struct {
	ISO string
}

// MeasureVal is the value of a Measurement token: the SI base unit and
// the magnitude converted to it.
type MeasureVal struct {
	Unit string
	N    float64
}

// TelnoVal is the value of a Telno token.
type TelnoVal struct {
	Number string // normalized form "NNN-NNNN"
	CC     string // country code, "354" by default
}

// NumLetterVal is the value of a NumWithLetter token.
type NumLetterVal struct {
	N      int
	Letter string
}

// Token is the single unit flowing through the pipeline.
type Token struct {
	Kind Kind
	// Txt is the normalized text of the token, whitespace coalesced
	Txt string
	// Val is the kind-specific payload, nil when the kind carries none
	Val any
	// Original is the source slice behind the token, including any
	// leading whitespace that belongs to it
	Original string
	// Spans maps each character of Txt to its character index in
	// Original; it survives every merge and split
	Spans []int
}

// fromText creates a raw token whose text and original are identical.
func fromText(txt string) Token {
	n := len([]rune(txt))
	spans := make([]int, n)
	for i := range spans {
		spans[i] = i
	}
	return Token{Kind: RAW, Txt: txt, Original: txt, Spans: spans}
}

// runeLen returns the character length of the token text.
func (t Token) runeLen() int {
	return len(t.Spans)
}

// Split divides the token in two at character position pos of Txt.
// A negative pos counts from the end.
func (t Token) Split(pos int) (Token, Token) {
	txt := []rune(t.Txt)
	if pos < 0 {
		pos += len(txt)
	}
	if pos >= len(t.Spans) {
		right := Token{Kind: t.Kind, Txt: "", Val: nil, Original: "", Spans: []int{}}
		return t, right
	}
	orig := []rune(t.Original)
	cut := t.Spans[pos]
	left := Token{
		Kind:     t.Kind,
		Txt:      string(txt[:pos]),
		Val:      t.Val,
		Original: string(orig[:cut]),
		Spans:    append([]int(nil), t.Spans[:pos]...),
	}
	rspans := make([]int, len(t.Spans)-pos)
	for i, x := range t.Spans[pos:] {
		rspans[i] = x - cut
	}
	right := Token{
		Kind:     t.Kind,
		Txt:      string(txt[pos:]),
		Val:      t.Val,
		Original: string(orig[cut:]),
		Spans:    rspans,
	}
	return left, right
}

// Substitute replaces the character span [start, end) of Txt with repl,
// which must not be longer than the span. Original is unchanged; span
// entries for removed characters are dropped.
func (t *Token) Substitute(start, end int, repl string) {
	txt := []rune(t.Txt)
	r := []rune(repl)
	nt := make([]rune, 0, len(txt)-(end-start)+len(r))
	nt = append(nt, txt[:start]...)
	nt = append(nt, r...)
	nt = append(nt, txt[end:]...)
	t.Txt = string(nt)
	ns := make([]int, 0, len(nt))
	ns = append(ns, t.Spans[:start+len(r)]...)
	ns = append(ns, t.Spans[end:]...)
	t.Spans = ns
}

// SubstituteLonger replaces the span [start, end) of Txt with a string
// that may be longer than the span. The inserted characters map to a
// single position in Original.
func (t *Token) SubstituteLonger(start, end int, repl string) {
	txt := []rune(t.Txt)
	r := []rune(repl)
	nt := make([]rune, 0, len(txt)-(end-start)+len(r))
	nt = append(nt, txt[:start]...)
	nt = append(nt, r...)
	nt = append(nt, txt[end:]...)
	t.Txt = string(nt)

	head := t.Spans[:start]
	tail := t.Spans[end:]
	origin := len([]rune(t.Original))
	if len(tail) > 0 {
		origin = t.Spans[end]
	}
	ns := make([]int, 0, len(head)+len(r)+len(tail))
	ns = append(ns, head...)
	for range r {
		ns = append(ns, origin)
	}
	ns = append(ns, tail...)
	t.Spans = ns
}

// SubstituteAll replaces every occurrence of old in Txt with repl,
// which must be at most one character.
func (t *Token) SubstituteAll(old, repl string) {
	oldr := []rune(old)
	for {
		txt := []rune(t.Txt)
		i := indexRunes(txt, oldr)
		if i < 0 {
			return
		}
		t.Substitute(i, i+len(oldr), repl)
	}
}

func indexRunes(s, sub []rune) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// appendText appends extra to Txt; the appended characters carry an
// empty origin at the end of Original.
func (t *Token) appendText(extra string) {
	n := t.runeLen()
	t.SubstituteLonger(n, n, extra)
}

// Concat returns a new token consisting of t with other appended.
// A separator may be supplied; it maps to an empty origin between the
// two originals. Kind and Val come from t unless metaFromOther is set.
func (t Token) Concat(other Token, separator string, metaFromOther bool) Token {
	kind, val := t.Kind, t.Val
	if metaFromOther {
		kind, val = other.Kind, other.Val
	}
	sepr := []rune(separator)
	selfOrigLen := len([]rune(t.Original))
	spans := make([]int, 0, len(t.Spans)+len(sepr)+len(other.Spans))
	spans = append(spans, t.Spans...)
	if len(other.Spans) > 0 {
		for range sepr {
			spans = append(spans, selfOrigLen)
		}
	}
	for _, x := range other.Spans {
		spans = append(spans, x+selfOrigLen)
	}
	txt := t.Txt + separator + other.Txt
	if len(other.Spans) == 0 && separator != "" {
		// No right-hand text: drop the separator to keep the
		// span invariant
		txt = t.Txt
	}
	return Token{
		Kind:     kind,
		Txt:      txt,
		Val:      val,
		Original: t.Original + other.Original,
		Spans:    spans,
	}
}

// Punct returns the normalized punctuation symbol of the token, or the
// Unicode replacement character if it is not punctuation.
func (t Token) Punct() string {
	if t.Kind != Punctuation {
		return "�"
	}
	return t.Val.(PunctVal).Norm
}

// Number returns the float embedded in a Number or Year token.
func (t Token) Number() float64 {
	switch t.Kind {
	case Year:
		return float64(t.Val.(int))
	case Number:
		return t.Val.(NumVal).N
	}
	panic("expected NUMBER or YEAR token")
}

// Integer returns the integer embedded in a Number or Year token.
func (t Token) Integer() int {
	switch t.Kind {
	case Year:
		return t.Val.(int)
	case Number:
		return int(t.Val.(NumVal).N)
	}
	panic("expected NUMBER or YEAR token")
}

// OrdinalValue returns the ordinal embedded in an Ordinal or Number token.
func (t Token) OrdinalValue() int {
	switch t.Kind {
	case Ordinal:
		return t.Val.(int)
	case Number:
		return int(t.Val.(NumVal).N)
	}
	panic("expected NUMBER or ORDINAL token")
}

// HasMeanings reports whether the token is a word with an attached
// abbreviation expansion list.
func (t Token) HasMeanings() bool {
	if t.Kind != Word {
		return false
	}
	m, ok := t.Val.([]abbrev.Meaning)
	return ok && len(m) > 0
}

// Meanings returns the abbreviation expansions of a word token.
func (t Token) Meanings() []abbrev.Meaning {
	if t.Kind != Word {
		return nil
	}
	m, _ := t.Val.([]abbrev.Meaning)
	return m
}

// NormalizedText returns the token text with punctuation normalization
// applied.
func NormalizedText(t Token) string {
	if t.Kind == Punctuation {
		return t.Val.(PunctVal).Norm
	}
	return t.Txt
}

// Converting constructors. Each takes a token, rewrites its kind and
// value, and returns it; origin tracking is preserved.

func asPunct(t Token, norm string) Token {
	if norm == "" {
		norm = t.Txt
	}
	t.Kind = Punctuation
	t.Val = PunctVal{Space: spacingOf(norm), Norm: norm}
	return t
}

// asPunctSpaced is like asPunct but with an explicit whitespace class.
func asPunctSpaced(t Token, norm string, space Spacing) Token {
	if norm == "" {
		norm = t.Txt
	}
	t.Kind = Punctuation
	t.Val = PunctVal{Space: space, Norm: norm}
	return t
}

func asTime(t Token, h, m, s int) Token {
	t.Kind = Time
	t.Val = TimeVal{H: h, M: m, S: s}
	return t
}

func asDate(t Token, y, m, d int) Token {
	t.Kind = Date
	t.Val = DateVal{Y: y, M: m, D: d}
	return t
}

func asDateAbs(t Token, y, m, d int) Token {
	t.Kind = DateAbs
	t.Val = DateVal{Y: y, M: m, D: d}
	return t
}

func asDateRel(t Token, y, m, d int) Token {
	t.Kind = DateRel
	t.Val = DateVal{Y: y, M: m, D: d}
	return t
}

func asTimestamp(t Token, y, mo, d, h, m, s int) Token {
	t.Kind = Timestamp
	t.Val = TimestampVal{Y: y, Mo: mo, D: d, H: h, M: m, S: s}
	return t
}

func asTimestampAbs(t Token, v TimestampVal) Token {
	t.Kind = TimestampAbs
	t.Val = v
	return t
}

func asTimestampRel(t Token, v TimestampVal) Token {
	t.Kind = TimestampRel
	t.Val = v
	return t
}

func asYear(t Token, n int) Token {
	t.Kind = Year
	t.Val = n
	return t
}

func asNumber(t Token, n float64) Token {
	t.Kind = Number
	t.Val = NumVal{N: n}
	return t
}

func asNumberWithLetter(t Token, n int, letter string) Token {
	t.Kind = NumWithLetter
	t.Val = NumLetterVal{N: n, Letter: letter}
	return t
}

func asPercent(t Token, n float64) Token {
	t.Kind = Percent
	t.Val = NumVal{N: n}
	return t
}

func asOrdinal(t Token, n int) Token {
	t.Kind = Ordinal
	t.Val = n
	return t
}

func asTelno(t Token, number, cc string) Token {
	t.Kind = Telno
	t.Val = TelnoVal{Number: number, CC: cc}
	return t
}

func asAmount(t Token, iso string, n float64) Token {
	t.Kind = Amount
	t.Val = AmountVal{N: n, ISO: iso}
	return t
}

func asCurrency(t Token, iso string) Token {
	t.Kind = Currency
	t.Val = CurrencyVal{ISO: iso}
	return t
}

func asMeasurement(t Token, unit string, n float64) Token {
	t.Kind = Measurement
	t.Val = MeasureVal{Unit: unit, N: n}
	return t
}

func asWord(t Token, m []abbrev.Meaning) Token {
	t.Kind = Word
	if m == nil {
		t.Val = nil
	} else {
		t.Val = m
	}
	return t
}

func asEmail(t Token) Token {
	t.Kind = Email
	t.Val = nil
	return t
}

func asURL(t Token) Token {
	t.Kind = URL
	t.Val = nil
	return t
}

func asDomain(t Token) Token {
	t.Kind = Domain
	t.Val = nil
	return t
}

func asHashtag(t Token) Token {
	t.Kind = Hashtag
	t.Val = nil
	return t
}

func asSSN(t Token) Token {
	t.Kind = SSN
	t.Val = nil
	return t
}

func asMolecule(t Token) Token {
	t.Kind = Molecule
	t.Val = nil
	return t
}

func asUsername(t Token, name string) Token {
	t.Kind = Username
	t.Val = name
	return t
}

func asSerialNumber(t Token) Token {
	t.Kind = SerialNumber
	t.Val = nil
	return t
}

func asUnknown(t Token) Token {
	t.Kind = Unknown
	t.Val = nil
	return t
}

// Marker constructors.

func beginParagraph() Token {
	t := fromText("[[")
	t.Kind = PBegin
	t.Substitute(0, 2, "")
	return t
}

func endParagraph() Token {
	t := fromText("]]")
	t.Kind = PEnd
	t.Substitute(0, 2, "")
	return t
}

func beginSentence() Token {
	return Token{Kind: SBegin, Spans: []int{}}
}

func endSentence() Token {
	return Token{Kind: SEnd, Spans: []int{}}
}

func endSentinel() Token {
	return Token{Kind: XEnd, Spans: []int{}}
}

func splitSentence(t *Token) Token {
	if t == nil {
		return Token{Kind: SSplit, Spans: []int{}}
	}
	nt := *t
	nt.Kind = SSplit
	nt.Val = nil
	return nt
}
