package gold

import (
	"fmt"
	"strings"
)

// Mode is the edge resolution policy.
type Mode int

const (
	PreferA Mode = iota
	PreferB
	UnionPreferA
	UnionPreferB
	Intersection
	StrictAgree
)

var modeNames = []string{"preferA", "preferB", "unionPreferA", "unionPreferB", "intersection", "strictAgree"}

// Modes returns the names of all modes.
func Modes() []string {
	return append([]string(nil), modeNames...)
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m Mode) Valid() bool {
	return m >= PreferA && m <= StrictAgree
}

func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: mode %q, allowed values are %s", ErrInvalidOptions, s, strings.Join(modeNames, ", "))
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: mode %d", ErrInvalidOptions, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Side names one of the two annotators. It is used for the label and token
// tie-breaks.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "preferA"
	case SideB:
		return "preferB"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Letter is "A" or "B".
func (s Side) Letter() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

func ParseSide(s string) (Side, error) {
	switch s {
	case "preferA":
		return SideA, nil
	case "preferB":
		return SideB, nil
	}
	return 0, fmt.Errorf("%w: %q, allowed values are preferA, preferB", ErrInvalidOptions, s)
}

func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: side %d", ErrInvalidOptions, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// SentCountMode decides the number of merged sentences.
type SentCountMode int

const (
	// CountMax merges up to the longer annotator
	CountMax SentCountMode = iota
	// CountMin stops at the shorter annotator
	CountMin
)

func (c SentCountMode) String() string {
	switch c {
	case CountMax:
		return "max"
	case CountMin:
		return "min"
	}
	return fmt.Sprintf("SentCountMode(%d)", int(c))
}

func (c SentCountMode) Valid() bool {
	return c == CountMax || c == CountMin
}

func ParseSentCountMode(s string) (SentCountMode, error) {
	switch s {
	case "max":
		return CountMax, nil
	case "min":
		return CountMin, nil
	}
	return 0, fmt.Errorf("%w: sentence count %q, allowed values are min, max", ErrInvalidOptions, s)
}

func (c SentCountMode) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: sentence count %d", ErrInvalidOptions, int(c))
	}
	return []byte(c.String()), nil
}

func (c *SentCountMode) UnmarshalText(b []byte) error {
	v, err := ParseSentCountMode(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Options configures a gold merge.
type Options struct {
	Mode          Mode          `json:"mode"`
	LabelMode     Side          `json:"label_mode"`
	TokenMode     Side          `json:"token_mode"`
	SentCountMode SentCountMode `json:"sent_count"`

	// IncludeComments writes the sentence header comments and conflict
	// notes to the export
	IncludeComments bool `json:"include_comments"`

	// MarkMisc writes the Gold=* tags in the MISC column
	MarkMisc bool `json:"mark_misc"`

	// FixOrphanHeads resolves heads outside the sentence to the artificial
	// root
	FixOrphanHeads bool `json:"fix_orphan_heads"`
}

func DefaultOptions() Options {
	return Options{
		Mode:            UnionPreferA,
		LabelMode:       SideA,
		TokenMode:       SideA,
		SentCountMode:   CountMax,
		IncludeComments: true,
		MarkMisc:        true,
		FixOrphanHeads:  true,
	}
}

// Validate rejects enum values outside their defined range.
func (o Options) Validate() error {
	switch {
	case !o.Mode.Valid():
		return &SelectionError{Field: "mode", Err: fmt.Errorf("%w: mode %d", ErrInvalidOptions, int(o.Mode))}
	case !o.LabelMode.Valid():
		return &SelectionError{Field: "label_mode", Err: fmt.Errorf("%w: label mode %d", ErrInvalidOptions, int(o.LabelMode))}
	case !o.TokenMode.Valid():
		return &SelectionError{Field: "token_mode", Err: fmt.Errorf("%w: token mode %d", ErrInvalidOptions, int(o.TokenMode))}
	case !o.SentCountMode.Valid():
		return &SelectionError{Field: "sent_count", Err: fmt.Errorf("%w: sentence count %d", ErrInvalidOptions, int(o.SentCountMode))}
	}
	return nil
}

// String is the option summary written to the gold_mode comment.
func (o Options) String() string {
	return fmt.Sprintf("%s; label=%s; tokens=%s; sentCount=%s", o.Mode, o.LabelMode, o.TokenMode, o.SentCountMode)
}
