package auction

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldNumber FieldKind = "number"
	FieldURL    FieldKind = "url"
	FieldDate   FieldKind = "date"
)

const dateLayout = "2006-01-02"

var ErrInvalidField = errors.New("invalid_field")

// CustomField is an import-time attribute of a player. Exactly one value
// member is meaningful, selected by Kind.
type CustomField struct {
	Kind   FieldKind
	Text   string
	Number float64
	URL    *url.URL
	Date   time.Time
}

func TextField(s string) CustomField { return CustomField{Kind: FieldText, Text: s} }
func NumberField(n float64) CustomField { return CustomField{Kind: FieldNumber, Number: n} }
func DateField(d time.Time) CustomField { return CustomField{Kind: FieldDate, Date: d.UTC().Truncate(24 * time.Hour)} }
func URLField(u *url.URL) CustomField { return CustomField{Kind: FieldURL, URL: u} }

// ParseField converts raw import text into a field of the given kind.
func ParseField(kind FieldKind, raw string) (CustomField, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case FieldText:
		return TextField(raw), nil
	case FieldNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return CustomField{}, fmt.Errorf("%w: number %q", ErrInvalidField, raw)
		}
		return NumberField(n), nil
	case FieldURL:
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return CustomField{}, fmt.Errorf("%w: url %q", ErrInvalidField, raw)
		}
		return URLField(u), nil
	case FieldDate:
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return CustomField{}, fmt.Errorf("%w: date %q", ErrInvalidField, raw)
		}
		return DateField(d), nil
	default:
		return CustomField{}, fmt.Errorf("%w: kind %q", ErrInvalidField, kind)
	}
}

// String renders the value the way it was imported.
func (f CustomField) String() string {
	switch f.Kind {
	case FieldNumber:
		return strconv.FormatFloat(f.Number, 'f', -1, 64)
	case FieldURL:
		if f.URL == nil {
			return ""
		}
		return f.URL.String()
	case FieldDate:
		return f.Date.Format(dateLayout)
	default:
		return f.Text
	}
}

type fieldJSON struct {
	Kind  FieldKind       `json:"kind"`
	Value json.RawMessage `json:"value"`
}

func (f CustomField) MarshalJSON() ([]byte, error) {
	var (
		v   []byte
		err error
	)
	if f.Kind == FieldNumber {
		v, err = json.Marshal(f.Number)
	} else {
		v, err = json.Marshal(f.String())
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(fieldJSON{Kind: f.Kind, Value: v})
}

func (f *CustomField) UnmarshalJSON(b []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Kind == FieldNumber {
		var n float64
		if err := json.Unmarshal(raw.Value, &n); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidField, err)
		}
		*f = NumberField(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.Value, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidField, err)
	}
	parsed, err := ParseField(raw.Kind, s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
