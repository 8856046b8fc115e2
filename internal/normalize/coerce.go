package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reNonFloat = regexp.MustCompile(`[^0-9.\-]`)
	reNonInt   = regexp.MustCompile(`[^0-9\-]`)
	reNetTerms = regexp.MustCompile(`(?i)net\s*(\d+)`)
)

// Accepted date layouts, tried in order. First match wins.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01/02/06",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// SafeFloat coerces a draft value to a float. Numbers pass through, strings
// are stripped of thousands separators and currency noise before parsing,
// anything unrecoverable becomes nil. A zero is a value, not a gap.
func SafeFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case float32:
		f := float64(t)
		return &f
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case string:
		s := strings.ReplaceAll(t, ",", "")
		s = reNonFloat.ReplaceAllString(s, "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// SafeInt coerces a draft value to an integer with the same contract as
// SafeFloat; already-numeric values truncate.
func SafeInt(v any) *int64 {
	switch t := v.(type) {
	case int:
		n := int64(t)
		return &n
	case int64:
		return &t
	case float64:
		n := int64(t)
		return &n
	case string:
		s := reNonInt.ReplaceAllString(strings.TrimSpace(t), "")
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// ParseDate coerces a draft value to an ISO-8601 date string, trying the
// fixed layout list in order. Unparseable input becomes nil.
func ParseDate(v any) *string {
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case time.Time:
		iso := t.Format("2006-01-02")
		return &iso
	default:
		return nil
	}
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			iso := t.Format("2006-01-02")
			return &iso
		}
	}
	return nil
}

// DueFromTerms derives a due date from an invoice date and a "Net N" payment
// terms string. This is the only date arithmetic in the pipeline.
func DueFromTerms(invoiceDate, terms *string) *string {
	if invoiceDate == nil || terms == nil {
		return nil
	}
	m := reNetTerms.FindStringSubmatch(*terms)
	if m == nil {
		return nil
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *invoiceDate)
	if err != nil {
		return nil
	}
	iso := t.AddDate(0, 0, days).Format("2006-01-02")
	return &iso
}
