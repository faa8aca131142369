// Package istok is the public facade of the Icelandic tokenizer.
//
// Tokenize converts arbitrary Icelandic text into a stream of typed,
// sentence-delimited tokens. Each token preserves both its original
// source slice and a normalized textual form, and carries a typed
// value where its kind implies structure (dates, times, amounts,
// measurements, telephone numbers, and so on).
package istok

import (
	"iter"

	"github.com/cognicore/istok/pkg/istok/tok"
)

// Token is the unit produced by tokenization.
type Token = tok.Token

// Options configures tokenization; start from DefaultOptions.
type Options = tok.Options

// DefaultOptions returns the default option set.
func DefaultOptions() Options {
	return tok.DefaultOptions()
}

// Tokenize performs full deep tokenization of text, including
// sentence markers. The result is lazy: tokens are produced on
// demand.
func Tokenize(text string, opts Options) iter.Seq[Token] {
	return tok.Tokenize(text, opts)
}

// TokenizeLines tokenizes a lazy sequence of text chunks, such as the
// lines of a file.
func TokenizeLines(lines iter.Seq[string], opts Options) iter.Seq[Token] {
	return tok.TokenizeLines(lines, opts)
}

// SplitIntoSentences performs shallow tokenization, yielding one
// string per sentence, tokens joined by single spaces.
func SplitIntoSentences(text string, opts Options) iter.Seq[string] {
	return tok.SplitIntoSentences(tok.SingleText(text), opts)
}

// SplitLinesIntoSentences is SplitIntoSentences over a sequence of
// text chunks.
func SplitLinesIntoSentences(lines iter.Seq[string], opts Options) iter.Seq[string] {
	return tok.SplitIntoSentences(lines, opts)
}

// Detokenize converts a token slice back to a correctly spaced
// string. With normalize, punctuation is normalized first.
func Detokenize(tokens []Token, normalize bool) string {
	return tok.Detokenize(tokens, normalize)
}

// CorrectSpaces rebuilds a degraded string with correct spacing
// between tokens.
func CorrectSpaces(s string) string {
	return tok.CorrectSpaces(s)
}

// MarkParagraphs converts newline-separated plaintext into text with
// [[ ]] paragraph markers. Every non-empty line becomes its own
// paragraph; a single newline separates paragraphs just as a blank
// line does.
func MarkParagraphs(s string) string {
	return tok.MarkParagraphs(s)
}

// CalculateIndexes returns the character and byte start indexes of
// each token within the original text.
func CalculateIndexes(tokens []Token, lastIsEnd bool) ([]int, []int) {
	return tok.CalculateIndexes(tokens, lastIsEnd)
}
