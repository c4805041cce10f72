package model

import "strings"

// TitleMode controls whether a page takes its title from its first heading.
type TitleMode string

// TitleMode values. The zero value means the page did not configure a mode.
const (
	TitleModeNone TitleMode = "none"
	TitleModeCopy TitleMode = "copy"
	TitleModeCut  TitleMode = "cut"
)

// ParseTitleMode parses s into a TitleMode. An empty string yields the zero
// value.
func ParseTitleMode(s string) (TitleMode, error) {
	switch m := TitleMode(strings.TrimSpace(s)); m {
	case "", TitleModeNone, TitleModeCopy, TitleModeCut:
		return m, nil
	default:
		return "", Errorf(EINVALID, "invalid titleFromHeading mode %q: want none, copy or cut", s)
	}
}

// Enabled reports whether the mode asks for title extraction.
func (m TitleMode) Enabled() bool {
	return m != "" && m != TitleModeNone
}
