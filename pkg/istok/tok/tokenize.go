package tok

import (
	"iter"
	"strings"

	"github.com/cognicore/istok/pkg/istok/abbrev"
)

// Options configures a tokenization run. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// ConvertNumbers accepts English-locale numerics and rewrites
	// the normalized text to Icelandic locale
	ConvertNumbers bool
	// ConvertMeasurements normalizes 'N° U' to 'N °U'
	ConvertMeasurements bool
	// ReplaceCompositeGlyphs folds combining accents into
	// precomposed letters; on by default
	ReplaceCompositeGlyphs bool
	// ReplaceHTMLEscapes expands named HTML entities
	ReplaceHTMLEscapes bool
	// OneSentPerLine treats every newline as a sentence boundary
	OneSentPerLine bool
	// Original preserves original token surfaces in shallow output
	Original bool
	// CoalescePercent merges 'N prósent' into a PERCENT token
	CoalescePercent bool
	// Normalize uses normalized punctuation forms in emitted
	// surfaces (e.g. an en dash in year ranges)
	Normalize bool
	// HandleKludgyOrdinals selects the treatment of '1sti', '3ja'
	HandleKludgyOrdinals KludgyMode
	// WithAnnotation enables the final phrase pass; on by default
	WithAnnotation bool
	// Abbreviations overrides the process-wide dictionary
	Abbreviations *abbrev.Set

	abbrevs *abbrev.Set
}

// DefaultOptions returns the default option set.
func DefaultOptions() Options {
	return Options{
		ReplaceCompositeGlyphs: true,
		WithAnnotation:         true,
	}
}

func (o Options) resolved() Options {
	o.abbrevs = o.Abbreviations
	if o.abbrevs == nil {
		o.abbrevs = abbrev.Default()
	}
	return o
}

// SingleText wraps a string as a sequence of one text chunk.
func SingleText(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if text != "" {
			yield(text)
		}
	}
}

// TokenizeLines tokenizes a lazy sequence of text chunks (such as the
// lines of a file) in several lazy phases, on demand.
func TokenizeLines(lines iter.Seq[string], opts Options) Seq {
	opts = opts.resolved()
	stream := parseTokens(lines, opts)
	stream = parseParticles(stream, opts)
	stream = parseSentences(stream)
	stream = parsePhrases1(stream, opts)
	stream = parseDateAndTime(stream)
	if opts.WithAnnotation {
		stream = parsePhrases2(stream, opts)
	}
	return func(yield func(Token) bool) {
		for t := range stream {
			if t.Kind == XEnd {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Tokenize tokenizes a string.
func Tokenize(text string, opts Options) Seq {
	return TokenizeLines(SingleText(text), opts)
}

// SplitIntoSentences performs shallow tokenization, yielding one
// string per sentence with tokens joined by single spaces (or the
// original surfaces, byte for byte, with the Original option).
func SplitIntoSentences(lines iter.Seq[string], opts Options) iter.Seq[string] {
	opts.WithAnnotation = false
	toText := func(t Token) string { return t.Txt }
	if opts.Normalize {
		toText = NormalizedText
	} else if opts.Original {
		toText = func(t Token) string { return t.Original }
	}
	sep := " "
	if opts.Original {
		sep = ""
	}
	return func(yield func(string) bool) {
		var curr []string
		flush := func() bool {
			ok := yield(strings.Join(curr, sep))
			curr = curr[:0]
			return ok
		}
		for t := range TokenizeLines(lines, opts) {
			if t.Kind.IsEnd() {
				if t.Kind == SEnd || t.Kind == SSplit {
					if !flush() {
						return
					}
				}
				curr = curr[:0]
			} else if !t.Kind.IsBegin() {
				if txt := toText(t); txt != "" {
					curr = append(curr, txt)
				}
			}
		}
		if len(curr) > 0 {
			flush()
		}
	}
}

// MarkParagraphs converts newline-separated plaintext into text with
// [[ ]] paragraph markers.
func MarkParagraphs(txt string) string {
	if txt == "" {
		return "[[]]"
	}
	var parts []string
	for _, p := range strings.Split(txt, "\n") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return "[[" + strings.Join(parts, "]][[") + "]]"
}

// Sentence is a sentence within a paragraph: the stream index of its
// S_BEGIN token and the tokens between the markers.
type Sentence struct {
	Begin  int
	Tokens []Token
}

// Paragraphs groups a token sequence into paragraphs of sentences.
// Sentences containing only punctuation are skipped.
func Paragraphs(tokens Seq) iter.Seq[[]Sentence] {
	valid := func(sent []Token) bool {
		for _, t := range sent {
			if t.Kind != Punctuation {
				return true
			}
		}
		return false
	}
	return func(yield func([]Sentence) bool) {
		var sent []Token
		sentBegin := 0
		var current []Sentence
		ix := 0
		for t := range tokens {
			switch t.Kind {
			case SBegin:
				sent = nil
				sentBegin = ix
			case SEnd:
				if valid(sent) {
					current = append(current, Sentence{Begin: sentBegin, Tokens: sent})
				}
				sent = nil
			case PBegin, PEnd:
				if valid(sent) {
					current = append(current, Sentence{Begin: sentBegin, Tokens: sent})
				}
				sent = nil
				if len(current) > 0 {
					if !yield(current) {
						return
					}
					current = nil
				}
			default:
				sent = append(sent, t)
			}
			ix++
		}
		if valid(sent) {
			current = append(current, Sentence{Begin: sentBegin, Tokens: sent})
		}
		if len(current) > 0 {
			yield(current)
		}
	}
}

// CalculateIndexes returns the character and byte start indexes of
// each token's original text. With lastIsEnd, a past-the-end index is
// appended, which is also the total length of the sequence.
func CalculateIndexes(tokens []Token, lastIsEnd bool) ([]int, []int) {
	charIndexes := []int{0}
	byteIndexes := []int{0}
	for _, t := range tokens {
		if t.Original == "" {
			continue
		}
		charIndexes = append(charIndexes, charIndexes[len(charIndexes)-1]+len([]rune(t.Original)))
		byteIndexes = append(byteIndexes, byteIndexes[len(byteIndexes)-1]+len(t.Original))
	}
	if !lastIsEnd {
		charIndexes = charIndexes[:len(charIndexes)-1]
		byteIndexes = byteIndexes[:len(byteIndexes)-1]
	}
	return charIndexes, byteIndexes
}
