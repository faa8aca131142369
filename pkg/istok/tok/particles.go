package tok

import (
	"strings"
	"unicode"

	"github.com/cognicore/istok/pkg/istok/abbrev"
)

// Stage 3: particle parsing. Recognizes abbreviations (with their
// terminal periods), clock expressions, year ranges, telephone
// numbers, percentages, ordinals, measurements and amounts by looking
// at small windows of adjacent tokens.

// couldBeEndOfSentence reports whether next could be ending the
// current sentence or starting the next one. An uppercase word counts,
// except month names (frequently misspelled in uppercase), Roman
// numerals, and currency abbreviations after a multiplier.
func couldBeEndOfSentence(next Token, exclPerson, multiplier bool) bool {
	if next.Kind.IsEnd() {
		return true
	}
	if !next.Kind.isText() || (exclPerson && next.Kind == Person) {
		return false
	}
	if !startsUpper(next.Txt) {
		return false
	}
	if _, isMonth := months[strings.ToLower(next.Txt)]; isMonth {
		return false
	}
	if isRomanNumeral(next.Txt) {
		return false
	}
	if currencyAbbrev[next.Txt] && multiplier {
		return false
	}
	return true
}

// monthForToken returns 1..12 for a month name token, or 0.
func monthForToken(t Token, afterOrdinal bool) int {
	if t.Kind != Word {
		return 0
	}
	if !afterOrdinal && monthBlacklist[t.Txt] {
		// 'Ágúst' is a masculine name unless after an ordinal
		return 0
	}
	return months[strings.ToLower(t.Txt)]
}

// isAbbrWithPeriod reports whether txt is an abbreviation when
// followed by a period.
func isAbbrWithPeriod(abb *abbrev.Set, txt string) bool {
	if strings.Contains(txt, ".") {
		// An interior period: must be an abbreviation
		// (applies to "t.d" but not to "mbl.is")
		return true
	}
	if _, ok := abb.Singles[txt]; ok {
		return true
	}
	if _, ok := abb.Singles[strings.ToLower(txt)]; ok {
		// Mixed or upper case: allow unless the exact form has
		// its own periodless definition (e.g. DR, the broadcaster,
		// vs. dr., the title)
		_, exact := abb.Dict[txt]
		return !exact
	}
	return false
}

func parseParticles(src Seq, opts Options) Seq {
	abb := opts.abbrevs
	return func(yield func(Token) bool) {
		s := newStream(src)
		defer s.Stop()

		get := func() Token {
			t, ok := s.Next()
			if !ok {
				return endSentinel()
			}
			return t
		}

		peekEOS := func() bool {
			p, ok := s.Peek(0)
			return ok && couldBeEndOfSentence(p, false, false)
		}

		token, ok := s.Next()
		if !ok {
			return
		}
		for {
			next, ok := s.Next()
			if !ok {
				break
			}

			// Currency symbol followed by a number, e.g. $10
			if token.Kind == Punctuation && currencySymbols[token.Txt] != "" &&
				(next.Kind == Number || next.Kind == Year) {
				iso := currencySymbols[token.Txt]
				token = asAmount(token.Concat(next, "", false), iso, next.Number())
				next = get()
			}

			// A DATEREL of the form "25.10." can end a sentence:
			// absorb the trailing period if the sentence goes on
			if token.Kind == DateRel && strings.Contains(token.Txt, ".") &&
				next.Txt == "." && !peekEOS() {
				dv := token.Val.(DateVal)
				token = asDateRel(token.Concat(next, "", false), dv.Y, dv.M, dv.D)
				next = get()
			}

			// Coalesce abbreviations ending with a period
			if next.Punct() == "." && token.Kind == Word &&
				!strings.HasSuffix(token.Txt, ".") && isAbbrWithPeriod(abb, token.Txt) {
				follow := get()
				abbrevStr := token.Txt + "."
				// For name finishers (such as 'próf.') a following
				// person name does not indicate an end of sentence
				_, nameFinisher := abb.NameFinishers[abbrevStr]
				_, multiplier := numberAbbrev[abbrevStr]
				finish := couldBeEndOfSentence(follow, nameFinisher, multiplier)
				if finish {
					if _, isFinisher := abb.Finishers[abbrevStr]; isFinisher {
						// An abbreviation even at the end of a
						// sentence: yield it without the dot and
						// let the period end the sentence
						token = asWord(token, abb.Lookup(abbrevStr))
						if !yield(token) {
							return
						}
						token = next
					} else if _, notFin := abb.NotFinishers[abbrevStr]; notFin {
						// Also a valid word ('dags.', 'mín.'):
						// not an abbreviation at sentence end
						if !yield(token) {
							return
						}
						token = next
					} else if _, notFin := abb.NotFinishers[strings.ToLower(abbrevStr)]; notFin {
						if !yield(token) {
							return
						}
						token = next
					} else {
						token = asWord(token.Concat(next, "", false), abb.Lookup(abbrevStr))
					}
				} else {
					// Regular abbreviation in the middle of a
					// sentence: absorb the period
					token = asWord(token.Concat(next, "", false), abb.Lookup(abbrevStr))
				}
				next = follow
			}

			// 'klukkan'/'kl.' + time or number
			if next.Kind == Time || next.Kind == Number {
				if token.Kind == Word && clockAbbrevs[strings.ToLower(token.Txt)] {
					if next.Kind == Number {
						// 13,40 may have started as 13.40: read
						// it as hh.mm
						n := next.Number()
						h := int(n)
						m := int(n*100+0.5) - h*100
						token = asTime(token.Concat(next, " ", false), h, m, 0)
					} else {
						tv := next.Val.(TimeVal)
						token = asTime(token.Concat(next, " ", false), tv.H, tv.M, tv.S)
					}
					next = get()
				}
			} else if next.Kind == Word {
				lower := strings.ToLower(next.Txt)
				if tv, isClock := clockNumbers[lower]; isClock {
					// 'klukkan átta', 'kl. hálfátta'
					if token.Kind == Word && clockAbbrevs[strings.ToLower(token.Txt)] {
						token = asTime(token.Concat(next, " ", false), tv.H, tv.M, tv.S)
						next = get()
					}
				} else if lower == "hálf" {
					// 'klukkan hálf átta'
					if token.Kind == Word && clockAbbrevs[strings.ToLower(token.Txt)] {
						timeTok := get()
						timeTxt := strings.ToLower(timeTok.Txt)
						tv, isClock := clockNumbers["hálf"+timeTxt]
						if isClock && !strings.HasPrefix(timeTxt, "hálf") {
							temp := token.Concat(next, " ", false)
							temp = temp.Concat(timeTok, " ", false)
							token = asTime(temp, tv.H, tv.M, tv.S)
							next = get()
						} else {
							// Not a match: retreat
							if !yield(token) {
								return
							}
							token = next
							next = timeTok
						}
					}
				}
			}

			// Words like 'hálftólf' only occur in temporal phrases
			if clockHalf[token.Txt] {
				tv := clockNumbers[token.Txt]
				token = asTime(token, tv.H, tv.M, tv.S)
			}

			// 'árið' + year or number
			if token.Kind == Word && yearWords[strings.ToLower(token.Txt)] &&
				(next.Kind == Year || next.Kind == Number) {
				token = asYear(token.Concat(next, " ", false), next.Integer())
				next = get()
			}

			// Three-digit number followed by a four-digit number:
			// a telephone number
			if token.Kind == Number && (next.Kind == Number || next.Kind == Year) &&
				len(token.Txt) == 3 && isAllDigits(token.Txt) &&
				strings.ContainsRune(telnoPrefixes, rune(token.Txt[0])) &&
				len(next.Txt) == 4 && isAllDigits(next.Txt) {
				telno := token.Txt + "-" + next.Txt
				token = asTelno(token.Concat(next, " ", false), telno, "354")
				next = get()
			}

			// Percentages and promilles
			if p := next.Punct(); (p == "%" || p == "‰") && token.Kind == Number {
				factor := 1.0
				if p == "‰" {
					factor = 0.1
				}
				token = asPercent(token.Concat(next, "", false), token.Number()*factor)
				next = get()
			}

			// Ordinals: a whole number or Roman numeral followed by
			// a period
			if next.Punct() == "." {
				if (token.Kind == Number && !strings.Contains(token.Txt, ",")) ||
					(token.Kind == Word && isRomanNumeral(token.Txt) &&
						!inDict(abb, token.Txt)) {
					ordNext, okp := s.Peek(0)
					blocked := !okp || ordNext.Kind.IsEnd() ||
						ordNext.Punct() == "„" || ordNext.Punct() == "\"" ||
						(ordNext.Kind == Word && startsUpper(ordNext.Txt) &&
							monthForToken(ordNext, true) == 0)
					if !blocked {
						num := 0
						if token.Kind == Number {
							num = token.Integer()
						} else {
							num = romanToInt(token.Txt)
						}
						token = asOrdinal(token.Concat(next, "", false), num)
						next = get()
					}
				}
			}

			// A negative four-digit number directly after a year is
			// the second half of a year range, not a minus sign
			if token.Kind == Year && next.Kind == Number &&
				strings.HasPrefix(next.Txt, "-") && len(next.Txt) == 5 {
				if y := -next.Integer(); y >= 1776 && y <= 2100 {
					ptok, ytok := next.Split(1)
					next = asPunct(ptok, hyphen)
					s.Push(asYear(ytok, y))
				}
			}

			// Year ranges: YEAR '-' YEAR becomes a single token;
			// the dash normalizes to an en dash
			if token.Kind == Year && next.Punct() == hyphen {
				if y2, okp := s.Peek(0); okp && y2.Kind == Year {
					y1 := token.Val.(int)
					dashPos := token.runeLen()
					merged := token.Concat(next, "", false)
					y2 = get()
					merged = merged.Concat(y2, "", false)
					if opts.Normalize {
						merged.Substitute(dashPos, dashPos+1, enDash)
					}
					token = asYear(merged, y1)
					next = get()
				}
			}

			// A number or year followed by a unit word:
			// "1920 mm", "30 °C"
			if (token.Kind == Number || token.Kind == Year) && next.Kind == Word {
				if _, isUnit := siUnits[next.Txt]; isUnit {
					origUnit := next.Txt
					num := token.Number()
					unit, value := convertUnit(origUnit, num)
					if unit == "%" || unit == "‰" {
						token = asPercent(token.Concat(next, "", false), value)
					} else {
						token = asMeasurement(token.Concat(next, " ", false), unit, value)
					}
					next = get()

					// Special case for km/klst.
					if token.Kind == Measurement && origUnit == "km" &&
						next.Txt == "/" {
						if p, okp := s.Peek(0); okp && p.Txt == "klst" {
							slashTok := next
							unitTok := get()
							kunit, kvalue := convertUnit("km/klst", num)
							temp := token.Concat(slashTok, "", false)
							temp = temp.Concat(unitTok, "", false)
							token = asMeasurement(temp, kunit, kvalue)
							next = get()
						}
					}
				}
			}

			// '200° C': merge the unit letter into the measurement
			if token.Kind == Measurement && token.Val.(MeasureVal).Unit == "°" &&
				next.Kind == Word &&
				(next.Txt == "C" || next.Txt == "F" || next.Txt == "K") {
				newUnit := "°" + next.Txt
				v := token.Val.(MeasureVal).N
				unit, val := convertUnit(newUnit, v)
				if opts.ConvertMeasurements {
					// Normalize the surface to 'N °U'
					n := token.runeLen()
					token.Substitute(n-1, n, "")
					token = token.Concat(next, " °", false)
					token = asMeasurement(token, unit, val)
				} else {
					token = asMeasurement(token.Concat(next, " ", false), unit, val)
				}
				next = get()
			}

			// A measurement abbreviation erroneously ending with a
			// period, mid-sentence: absorb the period
			if token.Kind == Measurement && next.Kind == Punctuation &&
				next.Txt == "." && endsWithLetter(token.Txt) && !peekEOS() {
				mv := token.Val.(MeasureVal)
				token = asMeasurement(token.Concat(next, "", false), mv.Unit, mv.N)
				next = get()
			}

			// Cases such as 'USD. 44'
			if currencyAbbrev[token.Txt] && next.Kind == Punctuation &&
				next.Txt == "." && !peekEOS() {
				iso := token.Txt
				token = asCurrency(token.Concat(next, "", false), iso)
				next = get()
			}

			// Cases such as '19 $'
			if token.Kind == Number && next.Kind == Punctuation &&
				currencySymbols[next.Txt] != "" {
				token = asAmount(token.Concat(next, " ", false),
					currencySymbols[next.Txt], token.Number())
				next = get()
			}

			// Straight abbreviations without a trailing period
			if token.Kind == Word && token.Val == nil && abb.HasMeaning(token.Txt) {
				if _, wrong := abb.WrongSingles[token.Txt]; wrong {
					// A form with all periods missing ('osfrv'):
					// correct the text, keeping the original
					if corr := abb.WrongDots[token.Txt]; len(corr) > 0 {
						token.SubstituteLonger(0, token.runeLen(), corr[0])
					}
				}
				token = asWord(token, abb.Meaning(token.Txt))
			}

			if !yield(token) {
				return
			}
			token = next
		}
		yield(token)
	}
}

func endsWithLetter(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return false
	}
	return unicode.IsLetter(runes[len(runes)-1])
}
