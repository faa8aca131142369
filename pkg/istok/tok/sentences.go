package tok

import (
	"strings"
	"unicode"
)

// Stage 4: sentence segmentation. A two-state machine inserts S_BEGIN
// and S_END markers, deciding on each terminating punctuation token
// whether the sentence really ends there.

func parseSentences(src Seq) Seq {
	return func(yield func(Token) bool) {
		s := newStream(src)
		defer s.Stop()

		inSentence := false

		get := func() Token {
			t, ok := s.Next()
			if !ok {
				return endSentinel()
			}
			return t
		}

		token, ok := s.Next()
		hasToken := ok
		for hasToken {
			next, ok := s.Next()
			if !ok {
				break
			}
			switch {
			case token.Kind == PBegin || token.Kind == PEnd:
				// Block start or end: finish the current
				// sentence, if any
				if inSentence {
					if !yield(endSentence()) {
						return
					}
					inSentence = false
				}
				if token.Kind == PBegin && next.Kind == PEnd {
					// An empty block: skip both markers while
					// preserving their origin text
					skipped := token.Concat(next, "", true)
					skipped.Substitute(0, skipped.runeLen(), "")
					token = skipped.Concat(get(), "", true)
					continue
				}
			case token.Kind == XEnd:
				// Nothing to do
			case token.Kind == SSplit:
				// An empty line in the input: close any open
				// sentence even without terminating punctuation
				if inSentence {
					end := endSentence()
					end.Original = token.Original
					end.Txt = token.Txt
					end.Spans = token.Spans
					if !yield(end) {
						return
					}
					inSentence = false
					token = next
				} else {
					// Swallow the split but keep its origin
					token = token.Concat(next, "", true)
				}
				continue
			default:
				if !inSentence {
					if !yield(beginSentence()) {
						return
					}
					inSentence = true
				}
				if punctIndirectSpeech[token.Punct()] &&
					strings.Contains(dquotes, next.Punct()) && next.Punct() != "" {
					// '„Er einhver þarna?“ sagði konan.'
					if !yield(token) {
						return
					}
					token = next
					next = get()
					if startsLower(next.Txt) {
						// Probably indirect speech: the sentence
						// goes on
						if !yield(token) {
							return
						}
						token = next
						next = get()
					} else {
						if !yield(token) {
							return
						}
						token = endSentence()
						inSentence = false
					}
				}
				if endOfSentence[token.Punct()] &&
					!(token.Punct() == "…" && !couldBeEndOfSentence(next, false, false)) {
					// Combining punctuation ('??!!')
					for punctCombinations[token.Punct()] && punctCombinations[next.Punct()] {
						// The normalized form comes from the first
						// token, except for '…?'
						v := token.Punct()
						if v == "…" && next.Punct() == "?" {
							v = next.Punct()
						}
						token = asPunct(token.Concat(next, "", false), v)
						next = get()
					}
					// Closing quotes and parentheses may also
					// finish the sentence
					for sentenceFinishers[next.Punct()] {
						if !yield(token) {
							return
						}
						token = next
						next = get()
					}
					if !yield(token) {
						return
					}
					token = endSentence()
					inSentence = false
				}
			}
			if !yield(token) {
				return
			}
			token = next
		}

		// Final token (previous lookahead)
		if hasToken && token.Kind != SSplit {
			if !inSentence && !token.Kind.IsEnd() {
				if !yield(beginSentence()) {
					return
				}
				inSentence = true
			}
			if !yield(token) {
				return
			}
			if inSentence && (token.Kind == SEnd || token.Kind == PEnd) {
				inSentence = false
			}
		}
		if inSentence {
			yield(endSentence())
		}
	}
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}
