package tok

import (
	"strconv"
	"strings"
	"unicode"
)

// Stage 2: classification of raw tokens. Each raw token is examined in
// isolation and carved into words, numbers, dates, clock times,
// telephone numbers, URLs, punctuation and the other kinds, peeling
// leading and trailing punctuation into separate tokens.

func isDigitR(r rune) bool { return r >= '0' && r <= '9' }

// isWordRune mirrors the \w regex class: letters, digits, underscore.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// isWordWithComposites reports whether s is an alphabetic word in the
// wider sense that it may contain combining marks after the initial
// letter.
func isWordWithComposites(s string) bool {
	runes := []rune(s)
	if len(runes) <= 1 || !unicode.IsLetter(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && !unicode.IsMark(r) {
			return false
		}
	}
	return true
}

func toInt(w []rune) int {
	n := 0
	for _, r := range w {
		n = n*10 + int(r-'0')
	}
	return n
}

// digitRun returns the index just past a run of up to max digits
// starting at i; max <= 0 means unlimited.
func digitRun(w []rune, i, max int) int {
	j := i
	for j < len(w) && isDigitR(w[j]) && (max <= 0 || j-i < max) {
		j++
	}
	return j
}

func noDigitAt(w []rune, i int) bool {
	return i >= len(w) || !isDigitR(w[i])
}

// parseFloatIcelandic converts an Icelandic-style numeric string
// ('1.234,56') to a float.
func parseFloatIcelandic(s string) float64 {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// parseFloatEnglish converts an English-style numeric string
// ('1,234.56') to a float.
func parseFloatEnglish(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// matchUnit finds an SI unit or currency symbol at position i of w,
// longest surface first. A unit ending with a letter must not be
// followed by another word character.
func matchUnit(w []rune, i int) (string, int) {
	rest := string(w[i:])
	for _, u := range unitsByLength {
		if !strings.HasPrefix(rest, u) {
			continue
		}
		ur := []rune(u)
		if unicode.IsLetter(ur[len(ur)-1]) {
			j := i + len(ur)
			if j < len(w) && isWordRune(w[j]) {
				continue
			}
		}
		return u, i + len(ur)
	}
	return "", i
}

// matchIcelandicNumber matches [-+]?\d+(\.\d\d\d)*(,\d+)? at the start
// of w and returns the end index, or -1.
func matchIcelandicNumber(w []rune) int {
	i := 0
	if i < len(w) && (w[i] == '+' || w[i] == '-') {
		i++
	}
	j := digitRun(w, i, 0)
	if j == i {
		return -1
	}
	i = j
	for i+3 < len(w) && w[i] == '.' && isDigitR(w[i+1]) && isDigitR(w[i+2]) && isDigitR(w[i+3]) &&
		noDigitAt(w, i+4) {
		i += 4
	}
	if i+1 < len(w) && w[i] == ',' && isDigitR(w[i+1]) {
		i = digitRun(w, i+1, 0)
	}
	return i
}

// matchEnglishNumber matches [-+]?\d+(,\d\d\d)*(\.\d+)? at the start
// of w and returns the end index, or -1.
func matchEnglishNumber(w []rune) int {
	i := 0
	if i < len(w) && (w[i] == '+' || w[i] == '-') {
		i++
	}
	j := digitRun(w, i, 0)
	if j == i {
		return -1
	}
	i = j
	for i+3 < len(w) && w[i] == ',' && isDigitR(w[i+1]) && isDigitR(w[i+2]) && isDigitR(w[i+3]) &&
		noDigitAt(w, i+4) {
		i += 4
	}
	if i+1 < len(w) && w[i] == '.' && isDigitR(w[i+1]) {
		i = digitRun(w, i+1, 0)
	}
	return i
}

// convertNumberLocale rewrites English-style separators in the token
// text to Icelandic style.
func convertNumberLocale(t *Token) {
	t.SubstituteAll(",", "x") // thousands separator out of the way
	t.SubstituteAll(".", ",") // decimal separator
	t.SubstituteAll("x", ".") // thousands separator
}

// parseDigits parses a raw token starting with a digit (or a sign),
// returning the recognized token and the unparsed remainder.
func parseDigits(tok Token, convertNumbers bool) (Token, Token) {
	w := []rune(tok.Txt)

	// 24-hour clock with milliseconds, H:M:S,ms
	if i := digitRun(w, 0, 2); i > 0 && i+9 <= len(w) &&
		w[i] == ':' && isDigitR(w[i+1]) && isDigitR(w[i+2]) &&
		w[i+3] == ':' && isDigitR(w[i+4]) && isDigitR(w[i+5]) &&
		w[i+6] == ',' && isDigitR(w[i+7]) && isDigitR(w[i+8]) &&
		noDigitAt(w, i+9) {
		h, m, s := toInt(w[:i]), toInt(w[i+1:i+3]), toInt(w[i+4:i+6])
		if h < 24 && m < 60 && s < 60 {
			t, rest := tok.Split(i + 9)
			return asTime(t, h, m, s), rest
		}
	}

	// 24-hour clock, H:M:S
	if i := digitRun(w, 0, 2); i > 0 && i+6 <= len(w) &&
		w[i] == ':' && isDigitR(w[i+1]) && isDigitR(w[i+2]) &&
		w[i+3] == ':' && isDigitR(w[i+4]) && isDigitR(w[i+5]) &&
		noDigitAt(w, i+6) {
		h, m, s := toInt(w[:i]), toInt(w[i+1:i+3]), toInt(w[i+4:i+6])
		if h < 24 && m < 60 && s < 60 {
			t, rest := tok.Split(i + 6)
			return asTime(t, h, m, s), rest
		}
	}

	// 24-hour clock, H:M
	if i := digitRun(w, 0, 2); i > 0 && i+3 <= len(w) &&
		w[i] == ':' && isDigitR(w[i+1]) && isDigitR(w[i+2]) &&
		noDigitAt(w, i+3) {
		h, m := toInt(w[:i]), toInt(w[i+1:i+3])
		if h < 24 && m < 60 {
			t, rest := tok.Split(i + 3)
			return asTime(t, h, m, 0), rest
		}
	}

	// ISO format date: YYYY-MM-DD or YYYY/MM/DD
	if len(w) >= 10 && isDigitR(w[0]) && isDigitR(w[1]) && isDigitR(w[2]) && isDigitR(w[3]) &&
		(w[4] == '-' || w[4] == '/') && isDigitR(w[5]) && isDigitR(w[6]) &&
		w[7] == w[4] && isDigitR(w[8]) && isDigitR(w[9]) && noDigitAt(w, 10) {
		y, m, d := toInt(w[0:4]), toInt(w[5:7]), toInt(w[8:10])
		if isValidDate(y, m, d) {
			t, rest := tok.Split(10)
			return asDate(t, y, m, d), rest
		}
	}

	// Date with day, month and year parts: d.m.yyyy, d/m/yy, d-m-yyyy
	for _, sep := range []rune{'.', '/', '-'} {
		i := digitRun(w, 0, 2)
		if i == 0 || i >= len(w) || w[i] != sep {
			continue
		}
		j := digitRun(w, i+1, 2)
		if j == i+1 || j >= len(w) || w[j] != sep {
			continue
		}
		k := digitRun(w, j+1, 4)
		if k-(j+1) < 2 || !noDigitAt(w, k) {
			continue
		}
		d := toInt(w[:i])
		m := toInt(w[i+1 : j])
		y := toInt(w[j+1 : k])
		if y <= 99 {
			// 50 means 2050, but 51 means 1951
			if y > 50 {
				y += 1900
			} else {
				y += 2000
			}
		}
		if m > 12 && d <= 12 {
			// Probably the U.S. American way around
			m, d = d, m
		}
		if isValidDate(y, m, d) {
			t, rest := tok.Split(k)
			return asDate(t, y, m, d), rest
		}
	}

	// A date in the form dd.mm
	if len(w) >= 5 && isDigitR(w[0]) && isDigitR(w[1]) && w[2] == '.' &&
		isDigitR(w[3]) && isDigitR(w[4]) && noDigitAt(w, 5) {
		d, m := toInt(w[0:2]), toInt(w[3:5])
		if m >= 1 && m <= 12 && d >= 1 && d <= daysInMonth[m] {
			t, rest := tok.Split(5)
			return asDateRel(t, 0, m, d), rest
		}
	}

	// A date in the form mm.yyyy or mm-yyyy
	if len(w) >= 7 && isDigitR(w[0]) && isDigitR(w[1]) && (w[2] == '-' || w[2] == '.') &&
		isDigitR(w[3]) && isDigitR(w[4]) && isDigitR(w[5]) && isDigitR(w[6]) &&
		noDigitAt(w, 7) {
		m, y := toInt(w[0:2]), toInt(w[3:7])
		if y >= 1776 && y <= 2100 && m >= 1 && m <= 12 {
			t, rest := tok.Split(7)
			return asDateRel(t, y, m, 0), rest
		}
	}

	// A number with a single trailing letter, e.g. 14b, 33C
	if i := digitRun(w, 0, 0); i > 0 && i < len(w) &&
		((w[i] >= 'a' && w[i] <= 'z') || (w[i] >= 'A' && w[i] <= 'Z')) &&
		(i+1 >= len(w) || !isWordRune(w[i+1])) {
		c := string(w[i])
		if _, isUnit := siUnits[c]; !isUnit {
			n := toInt(w[:i])
			t, rest := tok.Split(i + 1)
			return asNumberWithLetter(t, n, c), rest
		}
	}

	// Icelandic-style number followed by an SI unit, degree,
	// percentage or currency symbol
	if end := matchIcelandicNumber(w); end > 0 && end < len(w) {
		if u, uend := matchUnit(w, end); u != "" {
			val := parseFloatIcelandic(string(w[:end]))
			if iso, isCurr := currencySymbols[u]; isCurr {
				t, rest := tok.Split(uend)
				return asAmount(t, iso, val), rest
			}
			unit, val := convertUnit(u, val)
			t, rest := tok.Split(uend)
			if unit == "%" || unit == "‰" {
				return asPercent(t, val), rest
			}
			return asMeasurement(t, unit, val), rest
		}
	}

	// English-style number followed by a unit
	if end := matchEnglishNumber(w); end > 0 && end < len(w) {
		if u, uend := matchUnit(w, end); u != "" {
			val := parseFloatEnglish(string(w[:end]))
			if iso, isCurr := currencySymbols[u]; isCurr {
				t, rest := tok.Split(uend)
				return asAmount(t, iso, val), rest
			}
			unit, val := convertUnit(u, val)
			t, rest := tok.Split(uend)
			if convertNumbers {
				convertNumberLocale(&t)
			}
			if unit == "%" || unit == "‰" {
				return asPercent(t, val), rest
			}
			return asMeasurement(t, unit, val), rest
		}
	}

	// Digits followed by a vulgar fraction character and a unit
	if i := digitRun(w, 0, 0); i > 0 && i < len(w) {
		if frac, isFrac := singlecharFractions[w[i]]; isFrac {
			if u, uend := matchUnit(w, i+1); u != "" {
				val := float64(toInt(w[:i])) + frac
				if iso, isCurr := currencySymbols[u]; isCurr {
					t, rest := tok.Split(uend)
					return asAmount(t, iso, val), rest
				}
				unit, val := convertUnit(u, val)
				t, rest := tok.Split(uend)
				if unit == "%" || unit == "‰" {
					return asPercent(t, val), rest
				}
				return asMeasurement(t, unit, val), rest
			}
			// Digits followed by a bare vulgar fraction
			val := float64(toInt(w[:i])) + frac
			t, rest := tok.Split(i + 1)
			return asNumber(t, val), rest
		}
	}

	// Icelandic-style real number with decimal comma and eventual
	// thousands separators; must precede the integer checks
	if end := matchIcelandicRealNumber(w); end > 0 {
		t, rest := tok.Split(end)
		return asNumber(t, parseFloatIcelandic(t.Txt)), rest
	}

	// Integer with '.' thousands separators ('30.000')
	if end := matchDotGroupedInt(w); end > 0 {
		t, rest := tok.Split(end)
		n := strings.ReplaceAll(t.Txt, ".", "")
		f, _ := strconv.ParseFloat(n, 64)
		return asNumber(t, f), rest
	}

	// d/m: a relative date, or a simple fraction such as 1/2
	if i := digitRun(w, 0, 2); i > 0 && i < len(w) && w[i] == '/' {
		j := digitRun(w, i+1, 2)
		if j > i+1 && noDigitAt(w, j) {
			d, m := toInt(w[:i]), toInt(w[i+1:j])
			if w[0] != '0' && w[i+1] != '0' &&
				((d <= 5 && m <= 6) || (d == 1 && m <= 10)) {
				// Probably a fraction (1/2, 2/3, ...)
				t, rest := tok.Split(j)
				return asNumber(t, float64(d)/float64(m)), rest
			}
			if m > 12 && d <= 12 {
				m, d = d, m
			}
			if m >= 1 && m <= 12 && d >= 1 && d <= daysInMonth[m] {
				t, rest := tok.Split(j)
				return asDateRel(t, 0, m, d), rest
			}
		}
	}

	// Four digits in the year range
	if len(w) >= 4 && isDigitR(w[0]) && isDigitR(w[1]) && isDigitR(w[2]) && isDigitR(w[3]) &&
		noDigitAt(w, 4) {
		if nn := toInt(w[0:4]); nn >= 1776 && nn <= 2100 {
			t, rest := tok.Split(4)
			return asYear(t, nn), rest
		}
	}

	// Social security number, DDMMYY-NNNN
	if len(w) >= 11 && w[6] == '-' && digitRun(w, 0, 0) == 6 &&
		digitRun(w, 7, 0) == 11 && noDigitAt(w, 11) {
		if validSSN(string(w[:11])) {
			t, rest := tok.Split(11)
			return asSSN(t), rest
		}
	}

	// NNN-NNNN: telephone number or serial number
	if len(w) >= 8 && digitRun(w, 0, 0) == 3 && w[3] == '-' &&
		digitRun(w, 4, 0) == 8 && noDigitAt(w, 8) {
		if strings.ContainsRune(telnoPrefixes, w[0]) {
			t, rest := tok.Split(8)
			return asTelno(t, string(w[:8]), "354"), rest
		}
		t, rest := tok.Split(8)
		return asSerialNumber(t), rest
	}

	// Multi-component serial number, e.g. 1-2-3
	if end := matchMultiSerial(w); end > 0 {
		t, rest := tok.Split(end)
		return asSerialNumber(t), rest
	}

	// Seven-digit telephone number
	if digitRun(w, 0, 0) == 7 && noDigitAt(w, 7) &&
		strings.ContainsRune(telnoPrefixes, w[0]) {
		telno := string(w[0:3]) + "-" + string(w[3:7])
		t, rest := tok.Split(7)
		return asTelno(t, telno, "354"), rest
	}

	// Ordinal chapter number: 2.5.1 etc.; must precede real numbers
	if end := matchChapterOrdinal(w); end > 0 {
		t, rest := tok.Split(end)
		n := strings.ReplaceAll(t.Txt, ".", "")
		return asOrdinal(t, atoiSafe(n)), rest
	}

	// English-style real number with a decimal point
	if end := matchEnglishRealNumber(w); end > 0 {
		t, rest := tok.Split(end)
		val := parseFloatEnglish(t.Txt)
		if convertNumbers {
			convertNumberLocale(&t)
		}
		return asNumber(t, val), rest
	}

	// Integer, possibly with ',' thousands separators
	if end := matchCommaGroupedInt(w); end > 0 {
		t, rest := tok.Split(end)
		val := parseFloatEnglish(t.Txt)
		if convertNumbers {
			t.SubstituteAll(",", ".")
		}
		return asNumber(t, val), rest
	}

	// Strange thing: eat the whole token as unknown
	empty := Token{Kind: RAW, Txt: "", Original: "", Spans: []int{}}
	return asUnknown(tok), empty
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// matchIcelandicRealNumber matches [-+]?\d+(\.\d\d\d)*,\d+ unless the
// remainder reveals an English-style number.
func matchIcelandicRealNumber(w []rune) int {
	i := 0
	if i < len(w) && (w[i] == '+' || w[i] == '-') {
		i++
	}
	j := digitRun(w, i, 0)
	if j == i {
		return -1
	}
	i = j
	for i+3 < len(w) && w[i] == '.' && isDigitR(w[i+1]) && isDigitR(w[i+2]) && isDigitR(w[i+3]) &&
		noDigitAt(w, i+4) {
		i += 4
	}
	if i+1 >= len(w) || w[i] != ',' || !isDigitR(w[i+1]) {
		return -1
	}
	i = digitRun(w, i+1, 0)
	// Reject English-style numbers: a decimal point after the
	// comma-separated part, or repeated comma groups
	if i+1 < len(w) && w[i] == '.' && isDigitR(w[i+1]) {
		return -1
	}
	if i+1 < len(w) && w[i] == ',' && isDigitR(w[i+1]) {
		return -1
	}
	return i
}

// matchDotGroupedInt matches [-+]?\d+(\.\d\d\d)+(?!\d).
func matchDotGroupedInt(w []rune) int {
	i := 0
	if i < len(w) && (w[i] == '+' || w[i] == '-') {
		i++
	}
	j := digitRun(w, i, 0)
	if j == i {
		return -1
	}
	i = j
	groups := 0
	for i+3 < len(w) && w[i] == '.' && isDigitR(w[i+1]) && isDigitR(w[i+2]) && isDigitR(w[i+3]) &&
		noDigitAt(w, i+4) {
		i += 4
		groups++
	}
	if groups == 0 {
		return -1
	}
	return i
}

// matchEnglishRealNumber matches [-+]?\d+(,\d\d\d)*\.\d+.
func matchEnglishRealNumber(w []rune) int {
	i := 0
	if i < len(w) && (w[i] == '+' || w[i] == '-') {
		i++
	}
	j := digitRun(w, i, 0)
	if j == i {
		return -1
	}
	i = j
	for i+3 < len(w) && w[i] == ',' && isDigitR(w[i+1]) && isDigitR(w[i+2]) && isDigitR(w[i+3]) &&
		noDigitAt(w, i+4) {
		i += 4
	}
	if i+1 >= len(w) || w[i] != '.' || !isDigitR(w[i+1]) {
		return -1
	}
	return digitRun(w, i+1, 0)
}

// matchCommaGroupedInt matches [-+]?\d+(,\d\d\d)*(?!\d).
func matchCommaGroupedInt(w []rune) int {
	i := 0
	if i < len(w) && (w[i] == '+' || w[i] == '-') {
		i++
	}
	j := digitRun(w, i, 0)
	if j == i {
		return -1
	}
	i = j
	for i+3 < len(w) && w[i] == ',' && isDigitR(w[i+1]) && isDigitR(w[i+2]) && isDigitR(w[i+3]) &&
		noDigitAt(w, i+4) {
		i += 4
	}
	return i
}

// matchMultiSerial matches \d+-\d+(-\d+)+.
func matchMultiSerial(w []rune) int {
	i := digitRun(w, 0, 0)
	if i == 0 {
		return -1
	}
	groups := 0
	for i < len(w) && w[i] == '-' {
		j := digitRun(w, i+1, 0)
		if j == i+1 {
			break
		}
		i = j
		groups++
	}
	if groups < 2 {
		return -1
	}
	return i
}

// matchChapterOrdinal matches \d+\.\d+(\.\d+)+.
func matchChapterOrdinal(w []rune) int {
	i := digitRun(w, 0, 0)
	if i == 0 {
		return -1
	}
	groups := 0
	for i < len(w) && w[i] == '.' {
		j := digitRun(w, i+1, 0)
		if j == i+1 {
			break
		}
		i = j
		groups++
	}
	if groups < 2 {
		return -1
	}
	return i
}
