package model

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
)

// Date accepts RFC 3339 timestamps and bare dates (2006-01-02, taken as UTC midnight).
type Date struct {
	time.Time `json:",inline"`
}

var layouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func ParseTime(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Errorf("invalid date %q", s)
}
