package formula

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultDatePattern is the date pattern used by to_date, to_char, and date
// coercions when no other pattern is given.
const DefaultDatePattern = "yyyyMMddHHmmss"

// layouts caches translated date patterns. Values are layoutEntry.
var layouts sync.Map

type layoutEntry struct {
	layout string
	err    error
}

// PatternError is an error translating a date pattern.
type PatternError struct {
	// Pattern is the date pattern.
	Pattern string
	// Index is the byte index in Pattern where translation failed.
	Index int
	// Msg describes the failure.
	Msg string
}

func (err *PatternError) Error() string {
	return "date pattern " + strconv.Quote(err.Pattern) + " at " + strconv.Itoa(err.Index) + ": " + err.Msg
}

// ParseDate parses s as a date formatted with pattern. Dates without zone
// information are in the local time zone.
func ParseDate(s, pattern string) (time.Time, error) {
	layout, err := dateLayout(pattern)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation(layout, s, time.Local)
}

// FormatDate formats t with pattern.
func FormatDate(t time.Time, pattern string) (string, error) {
	layout, err := dateLayout(pattern)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

func dateLayout(pattern string) (string, error) {
	if e, ok := layouts.Load(pattern); ok {
		e := e.(layoutEntry)
		return e.layout, e.err
	}
	layout, err := translate(pattern)
	layouts.Store(pattern, layoutEntry{layout, err})
	return layout, err
}

// translate converts a date pattern in the style of yyyy-MM-dd HH:mm:ss into
// a time package layout. Letters are pattern fields; text in single quotes is
// literal, with '' meaning a single quote.
func translate(pattern string) (string, error) {
	var b strings.Builder
	fail := func(i int, msg string) (string, error) {
		return "", &PatternError{Pattern: pattern, Index: i, Msg: msg}
	}
	for i := 0; i < len(pattern); {
		c := pattern[i]
		if c == '\'' {
			lit, n, ok := quoted(pattern[i:])
			if !ok {
				return fail(i, "unterminated quote")
			}
			if err := literal(&b, lit); err != nil {
				return fail(i, err.Error())
			}
			i += n
			continue
		}
		if !isLetter(c) {
			if err := literal(&b, string(c)); err != nil {
				return fail(i, err.Error())
			}
			i++
			continue
		}
		n := 1
		for i+n < len(pattern) && pattern[i+n] == c {
			n++
		}
		switch c {
		case 'y':
			if n == 2 {
				b.WriteString("06")
			} else {
				b.WriteString("2006")
			}
		case 'M':
			switch n {
			case 1:
				b.WriteString("1")
			case 2:
				b.WriteString("01")
			case 3:
				b.WriteString("Jan")
			default:
				b.WriteString("January")
			}
		case 'd':
			if n == 1 {
				b.WriteString("2")
			} else {
				b.WriteString("02")
			}
		case 'H':
			b.WriteString("15")
		case 'h':
			if n == 1 {
				b.WriteString("3")
			} else {
				b.WriteString("03")
			}
		case 'm':
			if n == 1 {
				b.WriteString("4")
			} else {
				b.WriteString("04")
			}
		case 's':
			if n == 1 {
				b.WriteString("5")
			} else {
				b.WriteString("05")
			}
		case 'S':
			s := b.String()
			if s == "" || (s[len(s)-1] != '.' && s[len(s)-1] != ',') {
				return fail(i, "fractional seconds must follow '.' or ','")
			}
			b.WriteString(strings.Repeat("0", n))
		case 'a':
			b.WriteString("PM")
		case 'E':
			if n < 4 {
				b.WriteString("Mon")
			} else {
				b.WriteString("Monday")
			}
		case 'z':
			b.WriteString("MST")
		case 'Z':
			b.WriteString("-0700")
		case 'X':
			b.WriteString("Z07:00")
		default:
			return fail(i, "unsupported field "+strconv.Quote(pattern[i:i+n]))
		}
		i += n
	}
	return b.String(), nil
}

// quoted scans a quoted literal at the start of s. n is the number of bytes
// consumed including quotes.
func quoted(s string) (lit string, n int, ok bool) {
	if strings.HasPrefix(s, "''") {
		return "'", 2, true
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		return b.String(), i + 1, true
	}
	return "", 0, false
}

// stdChunks are substrings the time package would interpret as layout
// elements rather than literal text.
var stdChunks = []string{"Jan", "Mon", "MST", "PM", "pm", "Z07", "-07", "_2", "__2"}

var errAmbiguous = errors.New("literal text is ambiguous with a layout element")

func literal(b *strings.Builder, lit string) error {
	if strings.ContainsAny(lit, "0123456789") {
		return errAmbiguous
	}
	for _, c := range stdChunks {
		if strings.Contains(lit, c) {
			return errAmbiguous
		}
	}
	b.WriteString(lit)
	return nil
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
