package inliner

// filterRule is one step of the inclusion decision. The first rule whose
// match returns true decides whether the declaration is kept.
type filterRule struct {
	match   func(property, value string) bool
	include bool
}

var (
	// noneMeaningful lists properties where "none" overrides an inherited
	// or user agent value and must be written out.
	noneMeaningful = map[string]bool{
		"text-decoration":      true,
		"text-decoration-line": true,
		"border":               true,
		"outline":              true,
		"list-style":           true,
		"float":                true,
	}

	// layoutProperties are kept for any concrete value, "auto" included.
	layoutProperties = map[string]bool{
		"display":    true,
		"position":   true,
		"overflow":   true,
		"overflow-x": true,
		"overflow-y": true,
	}

	// propertyDefaults are exact defaults of specific properties.
	propertyDefaults = map[string]string{
		"border-style":   "none",
		"border-width":   "0px",
		"border-spacing": "0px 0px",
	}

	// generalDefaults are values that carry no information on their own.
	generalDefaults = map[string]bool{
		"none":    true,
		"auto":    true,
		"normal":  true,
		"initial": true,
		"inherit": true,
	}
)

var filterRules = []filterRule{
	{
		match:   func(_, value string) bool { return value == "" },
		include: false,
	},
	{
		match:   func(property, value string) bool { return noneMeaningful[property] && value == "none" },
		include: true,
	},
	{
		match: func(property, value string) bool {
			return layoutProperties[property] && (value == "initial" || value == "inherit")
		},
		include: false,
	},
	{
		match:   func(property, _ string) bool { return layoutProperties[property] },
		include: true,
	},
	{
		match: func(property, value string) bool {
			def, ok := propertyDefaults[property]
			return ok && def == value
		},
		include: false,
	},
	{
		match:   func(_, value string) bool { return generalDefaults[value] },
		include: false,
	},
}

// ShouldIncludeProperty reports whether a resolved property value is worth
// writing to an inline style attribute. Values are compared exactly as
// resolved, without trimming or case folding.
func ShouldIncludeProperty(property, value string) bool {
	for _, r := range filterRules {
		if r.match(property, value) {
			return r.include
		}
	}
	return true
}
