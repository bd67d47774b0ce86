package graph

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateTimeUnmarshal(t *testing.T) {
	want := time.Date(2018, time.April, 15, 19, 9, 57, 308_000_000, time.UTC)

	tests := []struct {
		name  string
		input interface{}
		want  time.Time
	}{
		{name: "iso string", input: "2018-04-15T19:09:57.308Z", want: want},
		{name: "offset string", input: "2018-04-15T21:09:57.308+02:00", want: want},
		{name: "date only", input: "1985-01-02", want: time.Date(1985, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "legacy fixture format", input: "3-28-1977", want: time.Date(1977, 3, 28, 0, 0, 0, 0, time.UTC)},
		{name: "epoch millis float", input: float64(want.UnixMilli()), want: want},
		{name: "epoch millis int32", input: int32(1000), want: time.UnixMilli(1000).UTC()},
		{name: "truncates to millis", input: "2018-04-15T19:09:57.308999Z", want: want},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dt DateTime
			if err := dt.UnmarshalGraphQL(tt.input); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !dt.Time.Equal(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, dt.Time)
			}
		})
	}
}

func TestDateTimeUnmarshalErrors(t *testing.T) {
	for _, input := range []interface{}{"yesterday", true, nil} {
		var dt DateTime
		if err := dt.UnmarshalGraphQL(input); err == nil {
			t.Fatalf("expected error for %v", input)
		}
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	in := "2018-04-15T19:09:57.308Z"
	var dt DateTime
	if err := dt.UnmarshalGraphQL(in); err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(dt)
	if err != nil {
		t.Fatal(err)
	}
	var out string
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatalf("expected %q, got %q", in, out)
	}

	var again DateTime
	if err := again.UnmarshalGraphQL(out); err != nil || !again.Time.Equal(dt.Time) {
		t.Fatalf("second parse mismatch: %v %v", again.Time, err)
	}
}

func TestFormatDateTimeIsUTC(t *testing.T) {
	loc := time.FixedZone("X", -7*3600)
	got := FormatDateTime(time.Date(2020, 1, 1, 17, 0, 0, 0, loc))
	if got != "2020-01-02T00:00:00.000Z" {
		t.Fatalf("unexpected %q", got)
	}
}
