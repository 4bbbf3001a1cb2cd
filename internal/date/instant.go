package date

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// layouts accepted for instants, most specific first. The last one is
// date-only and is interpreted in the local time zone.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	format,
}

// Instant is an optional task timestamp as stored in a task file or row.
// Text that does not parse is kept verbatim and reported by Valid so that
// one bad value never aborts loading the rest of a collection.
type Instant struct {
	t        time.Time
	raw      string
	dateOnly bool
	invalid  bool
}

// At wraps a parsed time.
func At(t time.Time) Instant {
	return Instant{t: t}
}

// OnDay returns an instant at local midnight of d, rendered as YYYY-MM-DD.
func OnDay(d Date) Instant {
	return Instant{
		t:        time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local),
		dateOnly: true,
	}
}

// ParseInstant parses s leniently. It never fails: unparseable input yields
// an invalid Instant that remembers s.
func ParseInstant(s string) Instant {
	s = strings.TrimSpace(s)
	if s == "" {
		return Instant{invalid: true}
	}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err != nil {
			continue
		}
		if layout == format {
			return OnDay(FromTime(t))
		}
		return Instant{t: t}
	}
	return Instant{raw: s, invalid: true}
}

// ParseStrict parses s and returns an error for malformed input. Used for
// user-supplied values where rejecting early is preferable.
func ParseStrict(s string) (Instant, error) {
	in := ParseInstant(s)
	if !in.Valid() {
		return Instant{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return in, nil
}

// Valid reports whether the instant holds a real calendar date.
func (i Instant) Valid() bool {
	return !i.invalid
}

// Time returns the parsed time. It is the zero time when !Valid().
func (i Instant) Time() time.Time {
	return i.t
}

// Day returns the calendar day of the instant in loc. A date-only value is
// its own calendar day in every location.
func (i Instant) Day(loc *time.Location) Date {
	if i.dateOnly {
		return New(i.t.Year(), i.t.Month(), i.t.Day())
	}
	return FromTime(i.t.In(loc))
}

// Blank reports whether the instant was read from empty text. Blank values
// mean "no date" and are dropped by the task decoder.
func (i Instant) Blank() bool {
	return i.invalid && i.raw == ""
}

// String returns the instant as stored: YYYY-MM-DD for date-only values,
// RFC 3339 otherwise, or the original text when malformed.
func (i Instant) String() string {
	if i.invalid {
		return i.raw
	}
	if i.dateOnly {
		return i.t.Format(format)
	}
	return i.t.Format(time.RFC3339)
}

// MarshalYAML implements yaml.Marshaler.
func (i Instant) MarshalYAML() (interface{}, error) {
	return i.String(), nil
}

// UnmarshalYAML implements yaml.v3 Unmarshaler. Malformed text is accepted.
func (i *Instant) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a date scalar", value.Line)
	}
	*i = ParseInstant(value.Value)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON implements json.Unmarshaler. Malformed text is accepted.
func (i *Instant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*i = ParseInstant(s)
	return nil
}
