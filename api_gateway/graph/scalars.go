package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateTimeLayout is the canonical output form: UTC with milliseconds.
const DateTimeLayout = "2006-01-02T15:04:05.000Z"

var dateTimeInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
	"1-2-2006",
}

// DateTime is the GraphQL DateTime scalar. Literal and variable inputs share
// one parsing path.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.UTC().Truncate(time.Millisecond)}
}

func (DateTime) ImplementsGraphQLType(name string) bool {
	return name == "DateTime"
}

// UnmarshalGraphQL accepts ISO 8601 strings, YYYY-MM-DD, M-D-YYYY, or epoch
// milliseconds.
func (t *DateTime) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case time.Time:
		*t = NewDateTime(v)
		return nil
	case string:
		parsed, err := ParseDateTime(v)
		if err != nil {
			return err
		}
		*t = NewDateTime(parsed)
		return nil
	case int32:
		*t = NewDateTime(time.UnixMilli(int64(v)))
		return nil
	case int64:
		*t = NewDateTime(time.UnixMilli(v))
		return nil
	case int:
		*t = NewDateTime(time.UnixMilli(int64(v)))
		return nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid DateTime value %v", v)
		}
		*t = NewDateTime(time.UnixMilli(int64(v)))
		return nil
	default:
		return fmt.Errorf("wrong type for DateTime: %T", input)
	}
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatDateTime(t.Time))
}

// FormatDateTime renders t in DateTimeLayout.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}

// ParseDateTime parses any accepted DateTime string. Inputs without a zone
// are taken as UTC.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeInputLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid DateTime %q", s)
}
