package css

import (
	"fmt"

	"github.com/andybalholm/cascadia"
)

// Origin identifies where a rule came from. User agent rules always lose
// against author rules of the same importance.
type Origin int

const (
	OriginUserAgent Origin = iota
	OriginAuthor
)

func (o Origin) String() string {
	if o == OriginUserAgent {
		return "user-agent"
	}
	return "author"
}

// Specificity represents CSS specificity with individual components
// Ordered as in CSS: inline, IDs, classes/attributes/pseudo-classes, elements/pseudo-elements
type Specificity struct {
	Inline    int  // style="" attribute (always 1000 when present)
	IDs       int  // #id selectors
	Classes   int  // .class, [attr], :pseudo-class
	Elements  int  // element, ::pseudo-element
	Important bool // !important flag
}

// SpecificityFromSelector converts the specificity computed by cascadia.
func SpecificityFromSelector(s cascadia.Specificity) Specificity {
	return Specificity{IDs: s[0], Classes: s[1], Elements: s[2]}
}

// SpecificityFromInline creates a specificity for inline styles
func SpecificityFromInline(important bool) Specificity {
	return Specificity{Inline: 1000, Important: important}
}

// Compare returns -1 if s < other, 0 if equal, 1 if s > other
// Important declarations always win regardless of specificity
func (s Specificity) Compare(other Specificity) int {
	if s.Important != other.Important {
		if s.Important {
			return 1
		}
		return -1
	}
	for _, d := range [4][2]int{
		{s.Inline, other.Inline},
		{s.IDs, other.IDs},
		{s.Classes, other.Classes},
		{s.Elements, other.Elements},
	} {
		if d[0] != d[1] {
			if d[0] > d[1] {
				return 1
			}
			return -1
		}
	}
	return 0
}

func (s Specificity) String() string {
	important := ""
	if s.Important {
		important = " !important"
	}
	return fmt.Sprintf("(%d,%d,%d,%d)%s", s.Inline, s.IDs, s.Classes, s.Elements, important)
}

// Rule is a single compiled selector with its declarations. A source rule
// with a selector group is split into one Rule per selector.
type Rule struct {
	Selector     cascadia.Sel  // compiled selector
	Text         string        // original selector text
	Specificity  Specificity   // calculated specificity
	Declarations []Declaration // in source order, shorthands not expanded
	SourceOrder  int           // order in original CSS (for tie-breaking)
	Origin       Origin
}

// Declaration represents a single CSS property declaration
type Declaration struct {
	Property  string // CSS property name (normalized)
	Value     string // CSS property value
	Important bool   // !important flag
}

func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value + " !important"
	}
	return d.Property + ": " + d.Value
}

// Stylesheet represents the complete parsed CSS with all rules
type Stylesheet struct {
	Rules []Rule // All CSS rules in source order
}

// Append adds all rules of other, renumbering source order so that other's
// rules come after the receiver's.
func (s *Stylesheet) Append(other *Stylesheet) {
	if other == nil {
		return
	}
	base := len(s.Rules)
	for _, r := range other.Rules {
		r.SourceOrder += base
		s.Rules = append(s.Rules, r)
	}
}

// Empty reports whether the stylesheet holds no rules.
func (s *Stylesheet) Empty() bool {
	return s == nil || len(s.Rules) == 0
}
