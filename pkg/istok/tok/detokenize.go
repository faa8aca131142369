package tok

import "strings"

// Detokenization: reconstruct a correctly spaced text string from a
// token sequence, guided by the whitespace class of each punctuation
// token.

func spacingClass(t Token, w string, doubleQuoteCount *int) Spacing {
	this := spaceWord
	if t.Kind == Punctuation {
		switch {
		case len([]rune(w)) > 1:
			// Multi-character punctuation ('[…]', '--') spaces
			// like a word
		case w == "\"":
			// English-type double quotes glue alternately to the
			// right and to the left token
			if *doubleQuoteCount%2 == 0 {
				this = SpaceLeft
			} else {
				this = SpaceRight
			}
			*doubleQuoteCount++
		default:
			if pv, ok := t.Val.(PunctVal); ok {
				this = pv.Space
			}
		}
	}
	return this
}

// Detokenize converts tokens back to a correctly spaced string. With
// normalize, punctuation is normalized before assembling.
func Detokenize(tokens []Token, normalize bool) string {
	toText := func(t Token) string { return t.Txt }
	if normalize {
		toText = NormalizedText
	}
	var r []string
	last := SpaceNone
	doubleQuoteCount := 0
	for _, t := range tokens {
		w := toText(t)
		if w == "" {
			continue
		}
		this := spacingClass(t, w, &doubleQuoteCount)
		if tpSpace[last-1][this-1] && len(r) > 0 {
			r = append(r, " "+w)
		} else {
			r = append(r, w)
		}
		last = this
	}
	return strings.Join(r, "")
}

// CorrectSpaces splits a degraded string into tokens and reassembles
// it with correct spacing: the composition of tokenization and
// detokenization.
func CorrectSpaces(s string) string {
	var tokens []Token
	for t := range Tokenize(s, DefaultOptions()) {
		tokens = append(tokens, t)
	}
	return Detokenize(tokens, false)
}
