package tok

import (
	"iter"
	"strings"
	"unicode"
)

// parseMixed carves a raw token of mixed punctuation, letters and
// numbers into result tokens.
func parseMixed(rt Token, opts Options, yield func(Token) bool) bool {
	pp := &punctParser{}
	for rt.Txt != "" {
		if !pp.parse(rt, yield) {
			return false
		}
		rt = pp.rt
		ate := pp.ate

		if strings.Contains(rt.Txt, "@") {
			if end := matchEmail([]rune(rt.Txt)); end > 0 {
				email, rest := rt.Split(end)
				rt = rest
				if !yield(asEmail(email)) {
					return false
				}
				ate = true
			}
		}

		if rt.Txt != "" {
			// Unicode single-character vulgar fractions
			if frac, ok := singlecharFractions[[]rune(rt.Txt)[0]]; ok {
				num, rest := rt.Split(1)
				rt = rest
				if !yield(asNumber(num, frac)) {
					return false
				}
				ate = true
			}
		}

		if rt.Txt != "" {
			if end := matchURL([]rune(rt.Txt)); end > 0 {
				url, rest := rt.Split(end)
				rt = rest
				if !yield(asURL(url)) {
					return false
				}
				ate = true
			}
		}

		if runes := []rune(rt.Txt); len(runes) >= 2 && runes[0] == '#' && isWordRune(runes[1]) {
			// Hashtag: eat all text up to the next punctuation
			// character, so that '#MeToo-hreyfingin' is a
			// hashtag followed by a word
			n := 1
			for n < len(runes) && !isPunct(runes[n]) {
				n++
			}
			tag, rest := rt.Split(n)
			rt = rest
			if isAllDigits(tag.Txt[1:]) {
				// The hash is a number sign, e.g. "#12"
				if !yield(asOrdinal(tag, atoiSafe(tag.Txt[1:]))) {
					return false
				}
			} else {
				if !yield(asHashtag(tag)) {
					return false
				}
			}
			ate = true
		}

		if rt.Txt != "" {
			if end := matchDomain([]rune(rt.Txt)); end > 0 {
				domain, rest := rt.Split(end)
				rt = rest
				if !yield(asDomain(domain)) {
					return false
				}
				ate = true
			}
		}

		if runes := []rune(rt.Txt); len(runes) > 0 &&
			(isDigitR(runes[0]) ||
				(strings.ContainsRune(signPrefix, runes[0]) && len(runes) >= 2 && isDigitR(runes[1]))) {
			np := &numberParser{rt: rt, kludgy: opts.HandleKludgyOrdinals, convertNumbers: opts.ConvertNumbers}
			if !np.parse(yield) {
				return false
			}
			rt = np.rt
			ate = true
		}

		if rt.Txt != "" {
			// Molecular formula ('H2SO4'): correct element
			// structure, at least one digit, and not separately
			// defined as an abbreviation
			if loc := moleculeRe.FindStringIndex(rt.Txt); loc != nil {
				g := rt.Txt[loc[0]:loc[1]]
				if !inDict(opts.abbrevs, g) && moleculeDigitRe.MatchString(g) {
					molecule, rest := rt.Split(len([]rune(g)))
					rt = rest
					if !yield(asMolecule(molecule)) {
						return false
					}
					ate = true
				}
			}
		}

		// Currency abbreviation immediately followed by a number
		if len(rt.Txt) > 3 && currencyAbbrev[rt.Txt[0:3]] && isDigitR(rune(rt.Txt[3])) {
			temp := Token{Kind: RAW, Txt: rt.Txt[3:], Original: rt.Txt[3:], Spans: identitySpans(rt.Txt[3:])}
			digitTok, _ := parseDigits(temp, opts.ConvertNumbers)
			if digitTok.Kind == Number {
				amount, rest := rt.Split(3 + digitTok.runeLen())
				rt = rest
				if !yield(asAmount(amount, amount.Txt[:3], digitTok.Number())) {
					return false
				}
				ate = true
			}
		}

		if rt.Txt != "" && unicode.IsLetter([]rune(rt.Txt)[0]) {
			lp := &letterParser{rt: rt, composites: !opts.ReplaceCompositeGlyphs, abbrevs: opts.abbrevs}
			if !lp.parse(yield) {
				return false
			}
			rt = lp.rt
			ate = true
		}

		// Quotes attached on the right hand side are assumed to
		// be closing quotes
		if rt.Txt != "" {
			r0 := []rune(rt.Txt)[0]
			if strings.ContainsRune(squotes, r0) {
				punct, rest := rt.Split(1)
				rt = rest
				if !yield(asPunct(punct, "‘")) {
					return false
				}
				ate = true
			} else if strings.ContainsRune(dquotes, r0) {
				punct, rest := rt.Split(1)
				rt = rest
				if !yield(asPunct(punct, "“")) {
					return false
				}
				ate = true
			}
		}

		if !ate {
			// Eat everything, even unknown stuff
			unk, rest := rt.Split(1)
			rt = rest
			if !yield(asUnknown(unk)) {
				return false
			}
		}
	}
	return true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isDigitR(r) {
			return false
		}
	}
	return true
}

func identitySpans(s string) []int {
	n := len([]rune(s))
	spans := make([]int, n)
	for i := range spans {
		spans[i] = i
	}
	return spans
}

// parseTokens parses contiguous text into a stream of classified
// tokens. This is the composition of stages 1 and 2.
func parseTokens(texts iter.Seq[string], opts Options) Seq {
	return func(yield func(Token) bool) {
		stopped := false
		out := func(t Token) bool {
			if !yield(t) {
				stopped = true
				return false
			}
			return true
		}
		for rt := range rawTokens(texts, opts) {
			if rt.Kind == SSplit || rt.Kind == PBegin || rt.Kind == PEnd {
				// Marker tokens require no processing
				if !out(rt) {
					return
				}
				continue
			}
			rtxt := rt.Txt
			runes := []rune(rtxt)
			if _, isUnit := siUnits[rtxt]; isAlpha(rtxt) || isUnit {
				// Shortcut for the most common case: a pure word
				if !out(asWord(rt, nil)) {
					return
				}
				continue
			}
			if !opts.ReplaceCompositeGlyphs && isWordWithComposites(rtxt) {
				if !out(asWord(rt, nil)) {
					return
				}
				continue
			}

			if len(runes) == 1 && strings.ContainsRune(compositeHyphens, runes[0]) {
				// A free-standing hyphen or en dash. With leading
				// whitespace it is a thought pause and spaces on
				// both sides; at the start of a line it hugs the
				// following word.
				space := SpaceNone
				if len([]rune(rt.Original)) > len(runes) {
					space = SpaceCenter
				}
				if !out(asPunctSpaced(rt, hyphen, space)) {
					return
				}
				continue
			}

			if len(runes) > 1 {
				if strings.ContainsRune(signPrefix, runes[0]) && isDigitR(runes[1]) {
					// Signed number. Parse it here since kludges
					// such as '3ja' and domains such as '4chan.com'
					// must be handled elsewhere.
					t, rest := parseDigits(rt, opts.ConvertNumbers)
					rt = rest
					if !out(t) {
						return
					}
					if rt.Txt == "" {
						continue
					}
				} else if strings.ContainsRune(compositeHyphens, runes[0]) && unicode.IsLetter(runes[1]) {
					// Something like '-menn' in 'þingkonur og -menn'
					i := 2
					for i < len(runes) && unicode.IsLetter(runes[i]) {
						i++
					}
					head := string(runes[:i])
					// Allow -menn and -MENN but not -Menn, and no
					// single-letter uppercase combos
					if head == strings.ToLower(head) || (i > 2 && head == strings.ToUpper(head)) {
						headTok, rest := rt.Split(i)
						rt = rest
						if !out(asWord(headTok, nil)) {
							return
						}
					}
				}
				runes = []rune(rt.Txt)
			}

			// Shortcut for quotes around a single word
			if len(runes) >= 3 {
				first, last := runes[0], runes[len(runes)-1]
				inner := string(runes[1 : len(runes)-1])
				if strings.ContainsRune(dquotes, first) && strings.ContainsRune(dquotes, last) && isAlpha(inner) {
					firstPunct, rest := rt.Split(1)
					word, lastPunct := rest.Split(-1)
					if !out(asPunct(firstPunct, "„")) ||
						!out(asWord(word, nil)) ||
						!out(asPunct(lastPunct, "“")) {
						return
					}
					continue
				}
				if strings.ContainsRune(squotes, first) && strings.ContainsRune(squotes, last) && isAlpha(inner) {
					firstPunct, rest := rt.Split(1)
					word, lastPunct := rest.Split(-1)
					if !out(asPunct(firstPunct, "‚")) ||
						!out(asWord(word, nil)) ||
						!out(asPunct(lastPunct, "‘")) {
						return
					}
					continue
				}
			}

			// Leading quotes are opening quotes
			if len(runes) > 1 {
				if strings.ContainsRune(dquotes, runes[0]) {
					punct, rest := rt.Split(1)
					rt = rest
					if !out(asPunct(punct, "„")) {
						return
					}
				} else if strings.ContainsRune(squotes, runes[0]) {
					punct, rest := rt.Split(1)
					rt = rest
					if !out(asPunct(punct, "‚")) {
						return
					}
				}
			}

			if !parseMixed(rt, opts, out) {
				return
			}
		}
		if !stopped {
			yield(endSentinel())
		}
	}
}
