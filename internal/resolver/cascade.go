package resolver

import (
	"golang.org/x/net/html"

	"cssinliner/internal/css"
)

// cascadeEntry tracks the cascade information for a declaration
type cascadeEntry struct {
	origin      css.Origin
	specificity css.Specificity
	sourceOrder int // also identifies the declaration a longhand came from
	important   bool
	isInline    bool
}

// winner is the declaration currently winning the cascade for a property.
type winner struct {
	decl  css.Declaration
	entry cascadeEntry
}

// layer ranks origin and importance, lowest to highest priority:
// 0. User agent declarations
// 1. Author declarations (style sheets and style attributes)
// 2. Author !important declarations
// 3. User agent !important declarations
func (e cascadeEntry) layer() int {
	switch {
	case !e.important && e.origin == css.OriginUserAgent:
		return 0
	case !e.important:
		return 1
	case e.origin == css.OriginAuthor:
		return 2
	}
	return 3
}

// shouldReplace determines if a new declaration should replace the existing winning declaration
func shouldReplace(newEntry, existingEntry cascadeEntry, exists bool) bool {
	if !exists {
		return true
	}

	// 1. Origin and importance
	if a, b := newEntry.layer(), existingEntry.layer(); a != b {
		return a > b
	}

	// 2. Style attributes beat any selector
	if newEntry.isInline != existingEntry.isInline {
		return newEntry.isInline
	}

	// 3. Higher specificity wins
	if c := newEntry.specificity.Compare(existingEntry.specificity); c != 0 {
		return c > 0
	}

	// 4. If specificity is equal, later source order wins
	return newEntry.sourceOrder >= existingEntry.sourceOrder
}

// cascade finds the winning declaration for every property set on n.
// Shorthands are expanded first so that a later longhand can override a
// single part of an earlier shorthand.
func (s *nativeSession) cascade(n *html.Node) map[string]winner {
	winners := make(map[string]winner)
	seq := 0

	apply := func(d css.Declaration, entry cascadeEntry) {
		seq++
		entry.sourceOrder = seq
		entry.important = d.Important
		for _, ld := range css.Expand(d) {
			w, ok := winners[ld.Property]
			if shouldReplace(entry, w.entry, ok) {
				winners[ld.Property] = winner{decl: ld, entry: entry}
			}
		}
	}

	for _, rule := range s.sheet.Rules {
		if !rule.Selector.Match(n) {
			continue
		}
		for _, d := range rule.Declarations {
			apply(d, cascadeEntry{origin: rule.Origin, specificity: rule.Specificity})
		}
	}

	for _, d := range s.inlineDeclarations(n) {
		apply(d, cascadeEntry{
			origin:      css.OriginAuthor,
			specificity: css.SpecificityFromInline(false),
			isInline:    true,
		})
	}

	return winners
}
