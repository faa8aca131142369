package tok

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/cognicore/istok/pkg/istok/abbrev"
)

// letterParser carves a sequence of alphabetic characters off the
// front of a raw token. Dots may occur inside words (abbreviations),
// as may apostrophes and hyphens (O'Malley, marg-ítrekaðri).
type letterParser struct {
	rt Token
	// composites allows combining marks inside words, used when
	// composite glyphs are kept unfolded
	composites bool
	abbrevs    *abbrev.Set
}

func (lp *letterParser) isLetter(r rune) bool {
	if lp.composites {
		return unicode.IsLetter(r) || unicode.IsMark(r)
	}
	return unicode.IsLetter(r)
}

func (lp *letterParser) parse(yield func(Token) bool) bool {
	rt := lp.rt
	runes := []rune(rt.Txt)
	lw := len(runes)
	i := 1
	for i < lw && (lp.isLetter(runes[i]) ||
		(punctInsideWord[runes[i]] && i+1 < lw && lp.isLetter(runes[i+1]))) {
		i++
	}
	if i < lw && punctEndingWord[runes[i]] {
		i++
	}
	ww := string(runes[0:i])
	a := strings.Split(ww, ".")

	wwPlus := ww
	if i < lw {
		wwPlus = string(runes[0 : i+1])
	}

	switch {
	case len(a) == 2 && len([]rune(a[0])) > 1 && isLowerTail(a[0]) &&
		a[1] != "" && startsUpper(a[1]) && !inDict(lp.abbrevs, wwPlus):
		// A lowercase word running into an uppercase one over a
		// period without a space: 'sjávarútvegi.Það'
		word1, rest := rt.Split(len([]rune(a[0])))
		punct, rest := rest.Split(1)
		word2, rest := rest.Split(len([]rune(a[1])))
		rt = rest
		if !yield(asWord(word1, nil)) ||
			!yield(asPunct(punct, "")) ||
			!yield(asWord(word2, nil)) {
			return false
		}

	case strings.HasSuffix(ww, "-og") || strings.HasSuffix(ww, "-eða"):
		// Missing space before 'og'/'eða':
		// 'fjármála-og efnahagsráðuneyti'
		b := strings.Split(ww, "-")
		word1, rest := rt.Split(len([]rune(b[0])))
		punct, rest := rest.Split(1)
		word2, rest := rest.Split(len([]rune(b[1])))
		rt = rest
		if !yield(asWord(word1, nil)) ||
			!yield(asPunct(punct, compositeHyphen)) ||
			!yield(asWord(word2, nil)) {
			return false
		}

	default:
		word, rest := rt.Split(i)
		rt = rest
		if !yield(asWord(word, nil)) {
			return false
		}
	}

	if rt.Txt != "" && strings.ContainsRune(compositeHyphens, []rune(rt.Txt)[0]) {
		// A hyphen or en dash directly appended to the word:
		// might be a composite continuation
		// ('fjármála- og efnahagsráðuneyti')
		punct, rest := rt.Split(1)
		rt = rest
		if !yield(asPunct(punct, compositeHyphen)) {
			return false
		}
	}

	lp.rt = rt
	return true
}

func isLowerTail(s string) bool {
	runes := []rune(s)
	for _, r := range runes[1:] {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func inDict(a *abbrev.Set, s string) bool {
	_, ok := a.Dict[s]
	return ok
}

// numberParser carves a numeric-looking sequence off the front of a
// raw token, including kludgy ordinals and directly attached units.
type numberParser struct {
	rt             Token
	kludgy         KludgyMode
	convertNumbers bool
}

func (np *numberParser) parse(yield func(Token) bool) bool {
	rt := np.rt
	matched := false
	for key, val := range ordinalErrors {
		if strings.HasPrefix(rt.Txt, key) {
			// A kludgy ordinal such as '3ji' or '5ta'
			keyTok, rest := rt.Split(len([]rune(key)))
			rt = rest
			matched = true
			switch {
			case np.kludgy == KludgyModify:
				keyTok.SubstituteLonger(0, keyTok.runeLen(), val)
				if !yield(asWord(keyTok, nil)) {
					return false
				}
			case np.kludgy == KludgyTranslate && ordinalNumbers[key] != 0:
				if !yield(asOrdinal(keyTok, ordinalNumbers[key])) {
					return false
				}
			default:
				if !yield(asWord(keyTok, nil)) {
					return false
				}
			}
			break
		}
	}
	if !matched {
		t, rest := parseDigits(rt, np.convertNumbers)
		rt = rest
		if !yield(t) {
			return false
		}
	}

	if rt.Txt != "" {
		// A measurement unit directly following the number
		w := []rune(rt.Txt)
		for _, u := range siUnitsByLength {
			if !strings.HasPrefix(rt.Txt, u) {
				continue
			}
			ur := []rune(u)
			if unicode.IsLetter(ur[len(ur)-1]) &&
				len(w) > len(ur) && isWordRune(w[len(ur)]) {
				continue
			}
			unit, rest := rt.Split(len(ur))
			rt = rest
			if !yield(asWord(unit, nil)) {
				return false
			}
			break
		}
	}

	np.rt = rt
	return true
}

// punctParser carves punctuation off the front of a raw token,
// normalizing quotes, ellipses and dashes.
type punctParser struct {
	rt  Token
	ate bool
}

func (pp *punctParser) parse(rt Token, yield func(Token) bool) bool {
	ate := false
	for rt.Txt != "" && isPunct([]rune(rt.Txt)[0]) {
		ate = true
		runes := []rune(rt.Txt)
		lw := len(runes)
		rtxt := rt.Txt
		switch {
		case strings.HasPrefix(rtxt, "[...]"):
			punct, rest := rt.Split(5)
			rt = rest
			if !yield(asPunct(punct, "[…]")) {
				return false
			}
		case strings.HasPrefix(rtxt, "[…]"):
			punct, rest := rt.Split(3)
			rt = rest
			if !yield(asPunct(punct, "")) {
				return false
			}
		case strings.HasPrefix(rtxt, "...") || strings.HasPrefix(rtxt, "…"):
			// Three or more periods become one ellipsis
			numdots := 0
			for _, c := range runes {
				if c == '.' || c == '…' {
					numdots++
				} else {
					break
				}
			}
			dots, rest := rt.Split(numdots)
			rt = rest
			if !yield(asPunct(dots, "…")) {
				return false
			}
		case strings.HasPrefix(rtxt, ".."):
			// Normalize two periods to one
			dots, rest := rt.Split(2)
			rt = rest
			if !yield(asPunct(dots, ".")) {
				return false
			}
		case strings.HasPrefix(rtxt, ",,"):
			if lw > 2 && (unicode.IsLetter(runes[2]) || unicode.IsDigit(runes[2])) {
				// Opening double quotes typed as two commas
				punct, rest := rt.Split(2)
				rt = rest
				if !yield(asPunct(punct, "„")) {
					return false
				}
			} else {
				// Coalesce multiple commas into one
				numcommas := 2
				for _, c := range runeTail(runes, 2) {
					if c == ',' {
						numcommas++
					} else {
						break
					}
				}
				punct, rest := rt.Split(numcommas)
				rt = rest
				if !yield(asPunct(punct, ",")) {
					return false
				}
			}
		case strings.ContainsRune(hyphens, runes[0]):
			// A run of identical dashes is one token
			n := 1
			for n < lw && runes[n] == runes[0] {
				n++
			}
			punct, rest := rt.Split(n)
			rt = rest
			norm := hyphen
			if n > 1 {
				norm = punct.Txt
			} else if runes[0] == []rune(emDash)[0] {
				norm = emDash
			}
			if !yield(asPunct(punct, norm)) {
				return false
			}
		case strings.ContainsRune(dquotes, runes[0]):
			// Convert to a proper closing double quote
			punct, rest := rt.Split(1)
			rt = rest
			if !yield(asPunct(punct, "“")) {
				return false
			}
		case strings.ContainsRune(squotes, runes[0]):
			punct, rest := rt.Split(1)
			rt = rest
			if !yield(asPunct(punct, "‘")) {
				return false
			}
		case lw > 1 && strings.HasPrefix(rtxt, "#"):
			// Might be a hashtag, processed later
			ate = false
			pp.rt = rt
			pp.ate = ate
			return true
		case lw > 1 && strings.HasPrefix(rtxt, "@"):
			// Username on a social media platform
			if end := matchUsername(runes); end > 0 {
				username, rest := rt.Split(end)
				rt = rest
				if !yield(asUsername(username, strings.TrimPrefix(username.Txt, "@"))) {
					return false
				}
			} else {
				punct, rest := rt.Split(1)
				rt = rest
				if !yield(asPunct(punct, "")) {
					return false
				}
			}
		case lw >= 2 && onlyExclamations(runes):
			// Something like '???!!!'
			numpunct := 2
			for _, p := range runeTail(runes, 2) {
				if p == '?' || p == '!' {
					numpunct++
				} else {
					break
				}
			}
			punct, rest := rt.Split(numpunct)
			rt = rest
			if !yield(asPunct(punct, string(runes[0]))) {
				return false
			}
		default:
			punct, rest := rt.Split(1)
			rt = rest
			if !yield(asPunct(punct, "")) {
				return false
			}
		}
	}
	pp.rt = rt
	pp.ate = ate
	return true
}

func runeTail(runes []rune, from int) []rune {
	if from >= len(runes) {
		return nil
	}
	return runes[from:]
}

func onlyExclamations(runes []rune) bool {
	if len(runes) < 2 {
		return false
	}
	for _, r := range runes {
		if r != '?' && r != '!' {
			return false
		}
	}
	return true
}

// matchUsername matches @[0-9a-zA-Z_]+(\.[0-9a-zA-Z_]+)* and returns
// the end index, or -1.
func matchUsername(w []rune) int {
	isUserRune := func(r rune) bool {
		return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') || r == '_'
	}
	i := 1
	j := i
	for j < len(w) && isUserRune(w[j]) {
		j++
	}
	if j == i {
		return -1
	}
	i = j
	for i+1 < len(w) && w[i] == '.' && isUserRune(w[i+1]) {
		j = i + 1
		for j < len(w) && isUserRune(w[j]) {
			j++
		}
		i = j
	}
	return i
}

// emailRe matches an e-mail address: a local part, '@', and a host
// with at least one dot-separated component. Double quotes are not
// allowed even though the RFCs technically permit them.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+(\.[^@\s.,/:;"()%#!?”]+)+`)

// matchEmail returns the end index of an e-mail address at the start
// of w, or -1.
func matchEmail(w []rune) int {
	loc := emailRe.FindStringIndex(string(w))
	if loc == nil {
		return -1
	}
	return len([]rune(string(w)[:loc[1]]))
}

// matchURL returns the end of a URL starting at the beginning of w,
// with trailing right-punctuation characters excluded, or -1.
func matchURL(w []rune) int {
	s := string(w)
	found := false
	for _, p := range urlPrefixes {
		if strings.HasPrefix(s, p) {
			found = true
			break
		}
	}
	if !found {
		return -1
	}
	end := len(w)
	for end > 0 && strings.ContainsRune(rightPunctuation, w[end-1]) {
		end--
	}
	return end
}

// matchDomain reports whether w is a bare domain name with a known
// top-level domain, returning the end index before any trailing
// punctuation, or -1.
func matchDomain(w []rune) int {
	if len(w) < minDomainLength {
		return -1
	}
	if !unicode.IsLetter(w[0]) && !unicode.IsDigit(w[0]) {
		return -1
	}
	end := len(w)
	for end > 0 && isPunct(w[end-1]) {
		end--
	}
	if end < minDomainLength {
		return -1
	}
	name := string(w[:end])
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || dot == len(name)-1 {
		return -1
	}
	tld := name[dot+1:]
	if !topLevelDomains[strings.ToLower(tld)] {
		return -1
	}
	// The character before the TLD dot must be a word character
	prev := []rune(name[:dot])
	if len(prev) == 0 || !isWordRune(prev[len(prev)-1]) {
		return -1
	}
	return end
}
