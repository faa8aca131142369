package tok

import (
	"strings"

	"github.com/cognicore/istok/pkg/istok/abbrev"
)

// Stages 5-7: phrase coalescing and date/time recognition. The first
// pass re-attaches terminal periods to finisher abbreviations, builds
// DATE and TIMESTAMP tokens from ordinals, month names and clock
// times, and attaches country codes to telephone numbers. The second
// pass resolves DATE/TIMESTAMP into absolute and relative variants.
// The final pass handles amounts, percentages written as words, and
// composite word continuations.

func parsePhrases1(src Seq, opts Options) Seq {
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

		token, ok := s.Next()
		if !ok {
			return
		}
		for {
			next, ok := s.Next()
			if !ok {
				break
			}

			// Re-attach the terminal period of a finisher
			// abbreviation that ended the sentence
			if token.Kind == Word && next.Txt == "." {
				abbrevStr := token.Txt + "."
				if _, isFinisher := abb.Finishers[abbrevStr]; isFinisher {
					meanings, _ := token.Val.([]abbrev.Meaning)
					token = asWord(token.Concat(next, "", false), meanings)
					next = get()
				}
			}

			// [year|number] + 'e.Kr.'/'f.Kr.'
			if token.Kind == Year || token.Kind == Number {
				val := token.Integer()
				nval := 0
				matched := false
				if bceSuffixes[next.Txt] {
					// Year X BCE becomes year -X
					nval = -val
					matched = true
				} else if ceSuffixes[next.Txt] {
					nval = val
					matched = true
				}
				if matched {
					token = asYear(token.Concat(next, " ", false), nval)
					next = get()
					if next.Txt == "." {
						token = asYear(token.Concat(next, "", false), nval)
						next = get()
					}
				}
			}

			// [number | ordinal] [month name]
			if (token.Kind == Ordinal || token.Kind == Number) && next.Kind == Word {
				if next.Txt == "gr." {
					// An ordinal followed by "gr." always means
					// 'grein'
					next = asWord(next, []abbrev.Meaning{{
						Word: "grein", POS: "kvk", Category: "skst",
						Stem: "gr.", Inflection: "-",
					}})
				}
				if month := monthForToken(next, true); month != 0 {
					if token.Kind == Number && !strings.Contains(token.Txt, ".") {
						// Cases such as '5 mars': append the
						// ordinal period to the day
						token.appendText(".")
					}
					token = asDate(token.Concat(next, " ", false), 0, month, token.OrdinalValue())
					next = get()
				}
			}

			// [date] [year]
			if token.Kind == Date && next.Kind == Year {
				dv := token.Val.(DateVal)
				if dv.Y == 0 {
					token = asDate(token.Concat(next, " ", false),
						next.Val.(int), dv.M, dv.D)
					next = get()
				}
			}

			// [date] [time]
			if token.Kind == Date && next.Kind == Time {
				dv := token.Val.(DateVal)
				tv := next.Val.(TimeVal)
				token = asTimestamp(token.Concat(next, " ", false),
					dv.Y, dv.M, dv.D, tv.H, tv.M, tv.S)
				next = get()
			}

			// Country code in front of a telephone number
			if token.Kind == Number && next.Kind == Telno && countryCodes[token.Txt] {
				tv := next.Val.(TelnoVal)
				token = asTelno(token.Concat(next, " ", false), tv.Number, token.Txt)
				next = get()
			}

			if !yield(token) {
				return
			}
			token = next
		}
		yield(token)
	}
}

func parseDateAndTime(src Seq) Seq {
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

		token, ok := s.Next()
		if !ok {
			return
		}
		for {
			next, ok := s.Next()
			if !ok {
				break
			}

			// [number | ordinal] [month name]
			if (token.Kind == Ordinal || token.Kind == Number) && next.Kind == Word {
				if month := monthForToken(next, true); month != 0 {
					token = asDate(token.Concat(next, " ", false), 0, month, token.OrdinalValue())
					next = get()
				}
			}

			// [DATE] [year]
			if token.Kind == Date && (next.Kind == Number || next.Kind == Year) {
				dv := token.Val.(DateVal)
				if dv.Y == 0 {
					year := next.Integer()
					if next.Kind == Number && (year < 1776 || year > 2100) {
						year = 0
					}
					if year != 0 {
						token = asDate(token.Concat(next, " ", false), year, dv.M, dv.D)
						next = get()
					}
				}
			}

			// [month name] [year]
			if token.Kind == Word && (next.Kind == Number || next.Kind == Year) {
				if month := monthForToken(token, false); month != 0 {
					year := next.Integer()
					if next.Kind == Number && (year < 1776 || year > 2100) {
						year = 0
					}
					if year != 0 {
						token = asDate(token.Concat(next, " ", false), year, month, 0)
						next = get()
					}
				}
			}

			// A single unambiguous month name becomes DATEREL
			if token.Kind == Word && !ambiguousMonthNames[token.Txt] {
				if month := monthForToken(token, false); month != 0 {
					token = asDateRel(token, 0, month, 0)
				}
			}

			// Split DATE into DATEABS and DATEREL
			if token.Kind == Date {
				dv := token.Val.(DateVal)
				if dv.Y != 0 && dv.M != 0 && dv.D != 0 {
					token = asDateAbs(token, dv.Y, dv.M, dv.D)
				} else {
					token = asDateRel(token, dv.Y, dv.M, dv.D)
				}
			}

			// Split TIMESTAMP into TIMESTAMPABS and TIMESTAMPREL
			if token.Kind == Timestamp {
				ts := token.Val.(TimestampVal)
				if ts.Y != 0 && ts.Mo != 0 && ts.D != 0 {
					token = asTimestampAbs(token, ts)
				} else {
					token = asTimestampRel(token, ts)
				}
			}

			// Swallow 'e.Kr.' and 'f.Kr.' postfixes
			if token.Kind == DateAbs && next.Kind == Word && isCEOrBCE(next.Txt) {
				dv := token.Val.(DateVal)
				y := dv.Y
				if bceSuffixes[next.Txt] {
					y = -y
				}
				token = asDateAbs(token.Concat(next, " ", false), y, dv.M, dv.D)
				next = get()
			}

			// [date] [time], absolute and relative
			if token.Kind == DateAbs && next.Kind == Time {
				dv := token.Val.(DateVal)
				tv := next.Val.(TimeVal)
				token = asTimestampAbs(token.Concat(next, " ", false),
					TimestampVal{Y: dv.Y, Mo: dv.M, D: dv.D, H: tv.H, M: tv.M, S: tv.S})
				next = get()
			}
			if token.Kind == DateRel && next.Kind == Time {
				dv := token.Val.(DateVal)
				tv := next.Val.(TimeVal)
				token = asTimestampRel(token.Concat(next, " ", false),
					TimestampVal{Y: dv.Y, Mo: dv.M, D: dv.D, H: tv.H, M: tv.M, S: tv.S})
				next = get()
			}

			if !yield(token) {
				return
			}
			token = next
		}
		yield(token)
	}
}

func parsePhrases2(src Seq, opts Options) Seq {
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

		token, ok := s.Next()
		if !ok {
			return
		}
		for {
			next, ok := s.Next()
			if !ok {
				break
			}

			// [CURRENCY] [number]: 'kr. 9.900' or 'USD 50'
			if next.Kind == Number && (iskAmountPreceding[token.Txt] || currencyAbbrev[token.Txt]) {
				curr := token.Txt
				if iskAmountPreceding[token.Txt] {
					curr = "ISK"
				}
				token = asAmount(token.Concat(next, " ", false), curr, next.Number())
				next = get()
			} else if token.Kind == Number && next.Kind == Word {
				// [number] [ISK amount | currency | percentage]
				if mult, isAmount := amountAbbrev[next.Txt]; isAmount {
					token = asAmount(token.Concat(next, " ", false),
						"ISK", token.Number()*mult)
					next = get()
				} else if currencyAbbrev[next.Txt] {
					token = asAmount(token.Concat(next, " ", false),
						next.Txt, token.Number())
					next = get()
				} else if opts.CoalescePercent && percentages[strings.ToLower(next.Txt)] {
					// '17 prósent' as a single token
					token = asPercent(token.Concat(next, " ", false), token.Number())
					next = get()
				}
			}

			// Composite word continuations:
			// 'stjórnskipunar- og eftirlitsnefnd',
			// 'dómsmála-, viðskipta- og iðnaðarráðherra'
			var tq []Token
			for token.Kind == Word && next.Punct() == compositeHyphen {
				tq = append(tq, token, asPunct(next, hyphen))
				commaToken := get()
				if commaToken.Punct() == "," {
					tq = append(tq, commaToken)
					commaToken = get()
				}
				token = commaToken
				next = get()
			}
			if len(tq) > 0 {
				merged := false
				if token.Kind == Word && (token.Txt == "og" || token.Txt == "eða") &&
					next.Kind == Word {
					// 'viðskipta- og iðnaðarráðherra': one token
					// with the meanings of the last word
					acc := tq[0]
					for _, t := range tq[1:] {
						acc = acc.Concat(t, " ", true)
					}
					acc = acc.Concat(token, " ", true)
					acc = acc.Concat(next, " ", true)
					acc.SubstituteAll(" -", "-")
					acc.SubstituteAll(" –", "–")
					acc.SubstituteAll(" ,", ",")
					token = acc
					next = get()
					merged = true
				}
				if !merged {
					// Incorrect prediction: yield the accumulated
					// queue and carry on unchanged
					for _, t := range tq {
						if !yield(t) {
							return
						}
					}
				}
			}

			if !yield(token) {
				return
			}
			token = next
		}
		yield(token)
	}
}
