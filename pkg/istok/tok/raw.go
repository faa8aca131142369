package tok

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
)

// Stage 1: the rough tokenizer. Splits the incoming text on whitespace
// while preserving the original source slice of every token, applies
// the optional preprocessing substitutions, and produces paragraph and
// sentence-split markers for blank lines and [[ ]] paragraph marks.

var sentenceSplitRe = regexp.MustCompile(`\n[^\S\n]*\n|\]\]\[\[`)
var newlineSplitRe = regexp.MustCompile(`\n`)

// zerowidthReplace removes invisible characters; always applied.
func zerowidthReplace(t Token) Token {
	for {
		i := strings.IndexAny(t.Txt, string([]rune{softHyphen, zeroWidthSpace, zeroWidthNbsp}))
		if i < 0 {
			return t
		}
		ri := len([]rune(t.Txt[:i]))
		t.Substitute(ri, ri+1, "")
	}
}

// compositeReplace folds vowel + combining acute/diaeresis pairs into
// precomposed letters. Other combining marks pass through.
func compositeReplace(t Token) Token {
	for {
		txt := []rune(t.Txt)
		pos := -1
		var repl rune
		for i := 0; i+1 < len(txt); i++ {
			switch txt[i+1] {
			case combiningAcute:
				if r, ok := acuteFold[txt[i]]; ok {
					pos, repl = i, r
				}
			case combiningDiaeresis:
				if r, ok := diaeresisFold[txt[i]]; ok {
					pos, repl = i, r
				}
			}
			if pos >= 0 {
				break
			}
		}
		if pos < 0 {
			return t
		}
		t.Substitute(pos, pos+2, string(repl))
	}
}

// htmlReplace expands named HTML entities ('&aacute;' -> 'á').
// Numeric entities are not expanded.
func htmlReplace(t Token) Token {
	start := 0
	for {
		loc := htmlEscapeRe.FindStringSubmatchIndex(t.Txt[start:])
		if loc == nil {
			return t
		}
		name := t.Txt[start+loc[2] : start+loc[3]]
		repl, ok := htmlEscapes[name]
		if !ok {
			// Unknown or numeric entity: leave it alone
			start += loc[1]
			continue
		}
		rstart := len([]rune(t.Txt[:start+loc[0]]))
		rend := rstart + len([]rune(t.Txt[start+loc[0]:start+loc[1]]))
		t.Substitute(rstart, rend, repl)
		start = start + loc[0] + len(repl)
	}
}

// roughFromText yields whitespace-delimited raw tokens from a plain
// string. Each token carries its preceding whitespace in Original.
func roughFromText(text string, yield func(Token) bool) bool {
	runes := []rune(text)
	pos := 0
	for pos < len(runes) {
		start := pos
		for pos < len(runes) && unicode.IsSpace(runes[pos]) {
			pos++
		}
		ws := pos - start
		wordStart := pos
		for pos < len(runes) && !unicode.IsSpace(runes[pos]) {
			pos++
		}
		spans := make([]int, pos-wordStart)
		for i := range spans {
			spans[i] = ws + i
		}
		t := Token{
			Kind:     RAW,
			Txt:      string(runes[wordStart:pos]),
			Original: string(runes[start:pos]),
			Spans:    spans,
		}
		if !yield(t) {
			return false
		}
	}
	return true
}

// roughFromToken re-splits a token whose text acquired whitespace
// through preprocessing substitutions (e.g. '&nbsp;' -> ' ').
func roughFromToken(t Token, yield func(Token) bool) bool {
	for {
		runes := []rune(t.Txt)
		if len(runes) == 0 {
			// Whitespace (or nothing) was left at the end;
			// yield it so the caller can save it
			return yield(t)
		}
		i := 0
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		ws := i
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			i++
		}
		small, rest := t.Split(i)
		small.Substitute(0, ws, "")
		if i == len(runes) {
			return yield(small)
		}
		if !yield(small) {
			return false
		}
		t = rest
	}
}

// rawTokens generates raw tokens from a sequence of text chunks.
func rawTokens(texts iter.Seq[string], opts Options) Seq {
	return func(yield func(Token) bool) {
		var saved *Token
		stopped := false

		out := func(t Token) bool {
			if !yield(t) {
				stopped = true
				return false
			}
			return true
		}

		preprocess := func(t Token) Token {
			t = zerowidthReplace(t)
			if opts.ReplaceCompositeGlyphs {
				t = compositeReplace(t)
			}
			if opts.ReplaceHTMLEscapes {
				t = htmlReplace(t)
			}
			return t
		}

		emit := func(t Token) bool {
			if t.Txt == "" {
				// Trailing whitespace: attach it in front of
				// the next token, or the next chunk
				saved = &t
				return true
			}
			if saved != nil {
				t = saved.Concat(t, "", false)
				saved = nil
			}
			return out(t)
		}

		// tokenizeText runs one plain text segment (no sentence
		// splits) through rough tokenization and preprocessing
		tokenizeText := func(text string) bool {
			paragraphEnd := 0
			if !opts.OneSentPerLine {
				for strings.HasPrefix(text, "[[") {
					text = text[2:]
					if !out(beginParagraph()) {
						return false
					}
				}
				for strings.HasSuffix(text, "]]") {
					text = text[:len(text)-2]
					paragraphEnd++
				}
			}
			ok := roughFromText(text, func(t Token) bool {
				t = preprocess(t)
				return roughFromToken(t, emit)
			})
			if !ok {
				return false
			}
			for ; paragraphEnd > 0; paragraphEnd-- {
				if !out(endParagraph()) {
					return false
				}
			}
			return true
		}

		texts(func(bigText string) bool {
			if !opts.OneSentPerLine && bigText == "" {
				// An explicit empty string always causes a
				// sentence split
				t := splitSentence(saved)
				saved = nil
				return out(t)
			}
			if saved != nil {
				bigText = saved.Original + bigText
				saved = nil
			}
			if !opts.OneSentPerLine && strings.TrimSpace(bigText) == "" {
				// A chunk of pure whitespace is an empty line
				t := fromText(bigText)
				t.Substitute(0, t.runeLen(), "")
				return out(splitSentence(&t))
			}

			splitRe := sentenceSplitRe
			if opts.OneSentPerLine {
				splitRe = newlineSplitRe
			}
			pos := 0
			for pos <= len(bigText) {
				loc := splitRe.FindStringIndex(bigText[pos:])
				var text, sep string
				if loc == nil {
					text = bigText[pos:]
					pos = len(bigText) + 1
				} else {
					text = bigText[pos : pos+loc[0]]
					sep = bigText[pos+loc[0] : pos+loc[1]]
					pos += loc[1]
				}
				if !tokenizeText(text) {
					return false
				}
				switch {
				case sep == "":
					// End of chunk
				case sep == "]][[":
					if !out(endParagraph()) || !out(beginParagraph()) {
						return false
					}
				default:
					// Sentence split: preserve the separator
					// as origin-only text
					t := fromText(sep)
					t.Substitute(0, t.runeLen(), "")
					if !out(splitSentence(&t)) {
						return false
					}
				}
			}
			return true
		})
		if stopped {
			return
		}
		if saved != nil {
			// Trailing whitespace at the very end: emit as an
			// S_SPLIT token with empty text
			yield(splitSentence(saved))
		}
	}
}
