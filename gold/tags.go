package gold

import "strings"

// Tag is a diagnostic marker attached to a merged token.
type Tag uint8

const (
	TagTokMissing Tag = 1 << iota
	TagTokMismatch
	TagConflict
	TagLabelDiff
	TagHeadConflict
	TagOrphanHead
)

// allTags is the serialization order
var allTags = []Tag{TagTokMissing, TagTokMismatch, TagConflict, TagLabelDiff, TagHeadConflict, TagOrphanHead}

func (t Tag) String() string {
	switch t {
	case TagTokMissing:
		return "Gold=tokmissing"
	case TagTokMismatch:
		return "Gold=tokmismatch"
	case TagConflict:
		return "Gold=conflict"
	case TagLabelDiff:
		return "Gold=labeldiff"
	case TagHeadConflict:
		return "Gold=headconflict"
	case TagOrphanHead:
		return "Gold=orphanhead"
	}
	return ""
}

// Tags is a set of Tag.
type Tags uint8

func (ts Tags) Has(t Tag) bool {
	return uint8(ts)&uint8(t) != 0
}

func (ts Tags) With(t Tag) Tags {
	return Tags(uint8(ts) | uint8(t))
}

func (ts Tags) List() []Tag {
	var l []Tag
	for _, t := range allTags {
		if ts.Has(t) {
			l = append(l, t)
		}
	}
	return l
}

// Misc renders the set as a MISC column value, "_" when empty.
func (ts Tags) Misc() string {
	parts := []string{}
	for _, t := range ts.List() {
		parts = append(parts, t.String())
	}

	if len(parts) == 0 {
		return "_"
	}
	return strings.Join(parts, "|")
}

func (ts Tags) MarshalText() ([]byte, error) {
	return []byte(ts.Misc()), nil
}
