package css

import (
	"strings"

	"github.com/andybalholm/cascadia"
	cssast "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"go.uber.org/zap"
)

// DefaultViewportWidth is the width in px media queries are evaluated against.
const DefaultViewportWidth = 800

// Parser turns stylesheet text into compiled rules.
type Parser struct {
	log           *zap.Logger
	viewportWidth int
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger sets the logger used to report recoverable parse problems.
func WithLogger(log *zap.Logger) ParserOption {
	return func(p *Parser) {
		if log != nil {
			p.log = log
		}
	}
}

// WithViewportWidth sets the width used for min-width/max-width media features.
func WithViewportWidth(px int) ParserOption {
	return func(p *Parser) {
		if px > 0 {
			p.viewportWidth = px
		}
	}
}

// NewParser creates a new CSS parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{log: zap.NewNop(), viewportWidth: DefaultViewportWidth}
	for _, o := range opts {
		o(p)
	}
	p.log = p.log.Named("css-parser")
	return p
}

// Parse parses CSS text into a Stylesheet. Parse never fails: rules that
// cannot be understood are logged and skipped, the way a browser drops them.
func (p *Parser) Parse(cssText string, origin Origin) *Stylesheet {
	sheet := &Stylesheet{Rules: make([]Rule, 0)}

	cssText = strings.TrimSpace(cssText)
	if cssText == "" {
		return sheet
	}

	parsed, err := parser.Parse(cssText)
	if err != nil {
		p.log.Debug("CSS parse error", zap.Stringer("origin", origin), zap.Error(err))
		return sheet
	}
	p.walk(sheet, parsed.Rules, origin)
	p.log.Debug("Parsed stylesheet", zap.Stringer("origin", origin), zap.Int("bytes", len(cssText)), zap.Int("rules", len(sheet.Rules)))
	return sheet
}

func (p *Parser) walk(sheet *Stylesheet, rules []*cssast.Rule, origin Origin) {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		switch rule.Kind {
		case cssast.AtRule:
			name := strings.ToLower(strings.TrimSpace(rule.Name))
			switch name {
			case "@media":
				if p.mediaActive(rule.Prelude) {
					p.walk(sheet, rule.Rules, origin)
				}
			case "@supports":
				p.walk(sheet, rule.Rules, origin)
			default:
				p.log.Debug("Skipping @-rule", zap.String("rule", name))
			}
		case cssast.QualifiedRule:
			decls := convertDeclarations(rule.Declarations)
			if len(decls) == 0 || len(rule.Selectors) == 0 {
				continue
			}
			for _, text := range rule.Selectors {
				sel, err := cascadia.ParseWithPseudoElement(text)
				if err != nil {
					p.log.Debug("Skipping selector", zap.String("selector", text), zap.Error(err))
					continue
				}
				if sel.PseudoElement() != "" {
					// ::before and friends do not style the element itself
					continue
				}
				sheet.Rules = append(sheet.Rules, Rule{
					Selector:     sel,
					Text:         text,
					Specificity:  SpecificityFromSelector(sel.Specificity()),
					Declarations: decls,
					SourceOrder:  len(sheet.Rules),
					Origin:       origin,
				})
			}
		}
	}
}

// ParseInlineStyle parses inline style attribute into declarations
func (p *Parser) ParseInlineStyle(styleAttr string) []Declaration {
	text := strings.TrimSpace(styleAttr)
	if text == "" {
		return nil
	}
	// douceur drops a last declaration that is not terminated
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		p.log.Debug("Inline style parse error", zap.String("style", styleAttr), zap.Error(err))
		return nil
	}
	return convertDeclarations(decls)
}

func convertDeclarations(list []*cssast.Declaration) []Declaration {
	out := make([]Declaration, 0, len(list))
	for _, d := range list {
		if d == nil {
			continue
		}
		prop := NormalizePropertyName(d.Property)
		value := strings.TrimSpace(d.Value)
		if prop == "" || value == "" || strings.HasPrefix(prop, "--") {
			continue
		}
		out = append(out, Declaration{Property: prop, Value: value, Important: d.Important})
	}
	return out
}

// mediaActive decides whether a @media prelude applies to a screen of the
// configured viewport width.
func (p *Parser) mediaActive(prelude string) bool {
	if strings.TrimSpace(prelude) == "" {
		return true
	}
	for _, raw := range strings.Split(prelude, ",") {
		query := strings.ToLower(strings.TrimSpace(raw))
		if query == "" {
			continue
		}
		negate := false
		if rest, ok := strings.CutPrefix(query, "not "); ok {
			negate = true
			query = strings.TrimSpace(rest)
		}
		query = strings.TrimPrefix(query, "only ")

		mediaType, rest := "", query
		if fields := strings.Fields(query); len(fields) > 0 && !strings.HasPrefix(fields[0], "(") {
			mediaType = fields[0]
			rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(strings.TrimPrefix(query, mediaType)), "and"))
		}

		matched := false
		switch mediaType {
		case "", "all", "screen":
			matched = p.featuresMatch(rest)
		}
		if matched != negate {
			return true
		}
	}
	return false
}

func (p *Parser) featuresMatch(expr string) bool {
	for _, clause := range strings.Split(expr, " and ") {
		c := strings.TrimSpace(clause)
		if c == "" {
			continue
		}
		c = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(c, "("), ")"))
		feature, value, _ := strings.Cut(c, ":")
		feature, value = strings.TrimSpace(feature), strings.TrimSpace(value)

		width := float64(p.viewportWidth)
		px, ok := LengthToPx(value, 16, 16)
		switch feature {
		case "min-width":
			if ok && width < px {
				return false
			}
		case "max-width":
			if ok && width > px {
				return false
			}
		case "orientation":
			if value == "portrait" {
				return false
			}
		}
	}
	return true
}

// NormalizePropertyName normalizes CSS property names
func NormalizePropertyName(property string) string {
	return strings.ToLower(strings.TrimSpace(property))
}
