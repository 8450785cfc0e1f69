package lfp

import (
	"fmt"
	"strings"
)

// A Group names one of the image sets that a processed light-field
// picture can carry.
type Group int

const (
	Refocus    Group = iota // images focused at different depths
	Parallax                // images rendered from different viewpoints
	AllFocused              // a single extended depth-of-field composite
	Frame                   // the raw frame
)

var Groups = []Group{Refocus, Parallax, AllFocused, Frame}

var groupNames = map[Group]string{
	Refocus:    "refocus",
	Parallax:   "parallax",
	AllFocused: "allfocused",
	Frame:      "frame",
}

func (g Group)String() string {
	if s, exists := groupNames[g]; exists {
		return s
	}
	return fmt.Sprintf("group(%d)", int(g))
}

func ParseGroup(s string) (Group, error) {
	s = strings.ToLower(strings.ReplaceAll(s, "_", ""))
	for g, name := range groupNames {
		if name == s {
			return g, nil
		}
	}
	return 0, fmt.Errorf("no group named '%s'", s)
}

// Dims is how many continuous dimensions index the group's members. Refocus
// stacks are indexed by depth, parallax stacks by a 2-D position; singletons
// have no coordinate at all.
func (g Group)Dims() int {
	switch g {
	case Refocus:  return 1
	case Parallax: return 2
	default:       return 0
	}
}

// IsStack is true for the groups with more than one member.
func (g Group)IsStack() bool { return g.Dims() > 0 }
