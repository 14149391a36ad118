package keys

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
)

// DateLayout is how Date keys are printed in dumps and reports.
const DateLayout = "Mon Jan 02 15:04:05 MST 2006"

type Int int32

func (k Int) HashCode() int32 {
	return int32(k)
}

func (k Int) Equal(other Int) bool {
	return k == other
}

func (k Int) String() string {
	return strconv.FormatInt(int64(k), 10)
}

func ParseInt(s string) (Int, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid integer key %q: %w", s, err)
	}
	return Int(v), nil
}

// Date is a point in time at millisecond resolution.
type Date struct {
	t time.Time
}

func NewDate(t time.Time) Date {
	return Date{t: t.Truncate(time.Millisecond)}
}

func DateFromMillis(ms int64) Date {
	return Date{t: time.UnixMilli(ms)}
}

func (k Date) Time() time.Time {
	return k.t
}

// HashCode folds the 64-bit millisecond timestamp into 32 bits.
func (k Date) HashCode() int32 {
	ms := k.t.UnixMilli()
	return int32(ms ^ int64(uint64(ms)>>32))
}

func (k Date) Equal(other Date) bool {
	return k.t.UnixMilli() == other.t.UnixMilli()
}

func (k Date) String() string {
	return k.t.Format(DateLayout)
}

// ParseDate accepts Unix milliseconds, RFC 3339 or DateLayout.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return DateFromMillis(ms), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NewDate(t), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date key %q: %w", s, err)
	}
	return NewDate(t), nil
}

type Word string

// HashCode is the 31-multiplier polynomial over the UTF-16 code units
// of the word, wrapping on overflow.
func (k Word) HashCode() int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(string(k))) {
		h = 31*h + int32(c)
	}
	return h
}

func (k Word) Equal(other Word) bool {
	return k == other
}

func (k Word) String() string {
	return string(k)
}

func ParseWord(s string) (Word, error) {
	if s == "" {
		return "", fmt.Errorf("empty word key")
	}
	return Word(s), nil
}
