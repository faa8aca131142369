// Package format writes token streams in the CSV and JSON output
// formats.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cognicore/istok/pkg/istok/abbrev"
	"github.com/cognicore/istok/pkg/istok/tok"
)

// quote returns s within double quotes, with contained backslashes
// and double quotes escaped.
func quote(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return "\"" + s + "\""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// csvValue encodes the value part of a token for CSV output: tuples
// become |-separated fields within double quotes.
func csvValue(t tok.Token) string {
	switch v := t.Val.(type) {
	case nil:
		return "\"\""
	case []abbrev.Meaning:
		words := make([]string, len(v))
		for i, m := range v {
			words[i] = m.Word
		}
		return quote(strings.Join(words, "|"))
	case tok.NumVal:
		return formatFloat(v.N)
	case tok.AmountVal:
		return quote(formatFloat(v.N) + "|" + v.ISO)
	case tok.CurrencyVal:
		return quote(v.ISO)
	case tok.PunctVal:
		return quote(v.Norm)
	case tok.DateVal:
		return quote(fmt.Sprintf("%d|%d|%d", v.Y, v.M, v.D))
	case tok.TimeVal:
		return quote(fmt.Sprintf("%d|%d|%d", v.H, v.M, v.S))
	case tok.TimestampVal:
		return quote(fmt.Sprintf("%d|%d|%d|%d|%d|%d", v.Y, v.Mo, v.D, v.H, v.M, v.S))
	case tok.TelnoVal:
		return quote(v.Number + "|" + v.CC)
	case tok.NumLetterVal:
		return quote(fmt.Sprintf("%d|%s", v.N, v.Letter))
	case tok.MeasureVal:
		return quote(v.Unit + "|" + formatFloat(v.N))
	case int:
		return strconv.Itoa(v)
	case string:
		return quote(v)
	}
	return "\"\""
}

// spanquote returns the span list joined with '-' within quotes.
func spanquote(spans []int) string {
	parts := make([]string, len(spans))
	for i, x := range spans {
		parts[i] = strconv.Itoa(x)
	}
	return "\"" + strings.Join(parts, "-") + "\""
}

// WriteCSV writes one CSV row per token: kind,txt,value,original,
// offsets. Sentences are separated by a row of empty fields.
func WriteCSV(w io.Writer, tokens tok.Seq) error {
	for t := range tokens {
		if t.Txt != "" {
			_, err := fmt.Fprintf(w, "%d,%s,%s,%s,%s\n",
				int(t.Kind), quote(t.Txt), csvValue(t), quote(t.Original),
				spanquote(t.Spans))
			if err != nil {
				return err
			}
		} else if t.Kind == tok.SEnd {
			if _, err := fmt.Fprintln(w, `0,"","","",""`); err != nil {
				return err
			}
		}
	}
	return nil
}

type jsonToken struct {
	K string  `json:"k"`
	T string  `json:"t,omitempty"`
	V any     `json:"v,omitempty"`
	O string  `json:"o,omitempty"`
	S []int   `json:"s,omitempty"`
}

// jsonValue encodes the value part of a token for JSON output.
func jsonValue(t tok.Token) any {
	switch v := t.Val.(type) {
	case nil:
		return nil
	case []abbrev.Meaning:
		words := make([]string, len(v))
		for i, m := range v {
			words[i] = m.Word
		}
		return words
	case tok.NumVal:
		return v.N
	case tok.AmountVal:
		return []any{v.N, v.ISO}
	case tok.CurrencyVal:
		return v.ISO
	case tok.PunctVal:
		return v.Norm
	case tok.DateVal:
		return []int{v.Y, v.M, v.D}
	case tok.TimeVal:
		return []int{v.H, v.M, v.S}
	case tok.TimestampVal:
		return []int{v.Y, v.Mo, v.D, v.H, v.M, v.S}
	case tok.TelnoVal:
		return []string{v.Number, v.CC}
	case tok.NumLetterVal:
		return []any{v.N, v.Letter}
	case tok.MeasureVal:
		return []any{v.Unit, v.N}
	default:
		return v
	}
}

// WriteJSON writes one JSON object per line per token:
// {"k":kind,"t":txt,"v":value,"o":original,"s":offsets}.
func WriteJSON(w io.Writer, tokens tok.Seq) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for t := range tokens {
		if t.Kind == tok.SBegin && t.Val != nil {
			// The parse-hint pair on S_BEGIN is not part of the
			// wire format
			t.Val = nil
		}
		jt := jsonToken{
			K: tok.Descr[t.Kind],
			T: t.Txt,
			V: jsonValue(t),
			O: t.Original,
		}
		if t.Txt != "" {
			jt.S = t.Spans
		}
		if err := enc.Encode(jt); err != nil {
			return err
		}
	}
	return nil
}
