// Package mood classifies the emotional valence of free text and maps the
// result onto a continuous mood score.
package mood

import (
	"fmt"
	"strings"
)

// Label is the coarse sentiment category assigned to a message.
type Label uint8

const (
	Neutral Label = iota
	Positive
	Negative
)

// Labels lists every label in a stable order.
var Labels = []Label{Positive, Negative, Neutral}

// String returns the upper-case wire name of the label.
func (l Label) String() string {
	switch l {
	case Neutral:
		return "NEUTRAL"
	case Positive:
		return "POSITIVE"
	case Negative:
		return "NEGATIVE"
	}
	return fmt.Sprintf("Label(%d)", uint8(l))
}

// Valid reports whether l is one of the declared labels.
func (l Label) Valid() bool {
	return l <= Negative
}

// ParseLabel converts a label name into a Label. Besides the canonical
// names it accepts the coarse moods generation providers tend to emit
// ("happy", "sad", "angry", "neutral").
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "happy":
		return Positive, nil
	case "negative", "sad", "angry":
		return Negative, nil
	case "neutral":
		return Neutral, nil
	}
	return Neutral, fmt.Errorf("unknown mood label %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid mood label %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(b []byte) error {
	parsed, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
