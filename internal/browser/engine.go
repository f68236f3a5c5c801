// Package browser resolves computed styles with a headless Chrome instance
// driven over the DevTools protocol.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"cssinliner/internal/css"
	htmldoc "cssinliner/internal/html"
	"cssinliner/internal/resolver"
)

// ErrClosed is returned when attempting to use a closed [Engine].
var ErrClosed = errors.New("browser: engine is closed")

// Engine manages a headless browser that is reused across sessions. Each
// session renders its document in a tab of its own. It is safe for
// concurrent use.
//
// Call [Engine.Close] when the Engine is no longer needed to release
// browser resources.
type Engine struct {
	cfg           engineConfig
	log           *zap.Logger
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

var _ resolver.Engine = (*Engine)(nil)

// New starts a headless browser in the background. The caller must call
// [Engine.Close] when finished.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	log := cfg.log.Named("browser")

	if cfg.chromePath == "" && cfg.autoDownload {
		path, err := resolveBrowser()
		if err != nil {
			return nil, err
		}
		log.Debug("Using downloaded browser", zap.String("path", path))
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", cfg.headless),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Engine{
		cfg:           cfg,
		log:           log,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases all resources held by the Engine, including the
// browser process. Close is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.browserCancel()
	e.allocCancel()
	return nil
}

func (e *Engine) checkClosed() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return nil
}

// collectScript forces layout and reads the computed value of every
// property for every marked element in a single round trip.
const collectScript = `(() => {
	document.body && document.body.offsetHeight;
	const props = %s;
	const attr = %q;
	const out = {};
	for (const el of document.querySelectorAll('[' + attr + ']')) {
		const cs = getComputedStyle(el);
		out[el.getAttribute(attr)] = props.map(p => cs.getPropertyValue(p));
	}
	return out;
})()`

// Open loads the document in a new tab and reads the computed styles of
// all its elements. The document itself is left unchanged.
func (e *Engine) Open(ctx context.Context, doc htmldoc.Document) (resolver.Session, error) {
	if err := e.checkClosed(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("open session: nil document")
	}

	marker := "data-css-" + strings.ReplaceAll(uuid.NewString(), "-", "")
	elements, err := doc.QuerySelectorAll("*")
	if err != nil {
		return nil, fmt.Errorf("listing elements: %w", err)
	}
	for i, el := range elements {
		if err := el.SetAttribute(marker, strconv.Itoa(i)); err != nil {
			return nil, fmt.Errorf("marking elements: %w", err)
		}
	}
	markup, err := doc.DocumentHTML()
	for _, el := range elements {
		_ = el.RemoveAttribute(marker)
	}
	if err != nil {
		return nil, err
	}

	props := sessionProperties()
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encoding property list: %w", err)
	}

	tabCtx, tabCancel := chromedp.NewContext(e.browserCtx)
	stop := context.AfterFunc(ctx, tabCancel)
	runCtx := tabCtx
	if e.cfg.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(tabCtx, e.cfg.timeout)
		defer cancel()
	}

	var raw map[string][]string
	err = chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, markup).Do(ctx)
		}),
		chromedp.Evaluate(fmt.Sprintf(collectScript, propsJSON, marker), &raw),
	)
	if err != nil {
		stop()
		tabCancel()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("reading computed styles: %w", ctxErr)
		}
		return nil, fmt.Errorf("reading computed styles: %w", err)
	}

	s := &session{
		values: make(map[*html.Node][]string, len(elements)),
		index:  make(map[string]int, len(props)),
		cancel: func() {
			stop()
			tabCancel()
		},
	}
	for i, p := range props {
		s.index[p] = i
	}
	for i, el := range elements {
		if vals, ok := raw[strconv.Itoa(i)]; ok {
			s.values[el.HTMLNode()] = vals
		}
	}

	e.log.Debug("Session opened", zap.Int("elements", len(s.values)), zap.Int("bytes", len(markup)))
	return s, nil
}

// sessionProperties lists every property a session reads: the inlined
// properties followed by the remaining longhands.
func sessionProperties() []string {
	seen := make(map[string]bool)
	var props []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			props = append(props, p)
		}
	}
	for _, p := range css.InlineProperties {
		add(p)
	}
	for _, l := range css.Longhands() {
		add(l.Name)
	}
	return props
}

type session struct {
	mu     sync.Mutex
	values map[*html.Node][]string
	index  map[string]int
	cancel func()
	closed bool
}

func (s *session) Resolve(el htmldoc.Node, property string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", resolver.ErrSessionClosed
	}
	if el == nil {
		return "", resolver.ErrDetached
	}
	vals, ok := s.values[el.HTMLNode()]
	if !ok {
		return "", resolver.ErrDetached
	}
	i, ok := s.index[css.Canonical(css.NormalizePropertyName(property))]
	if !ok || i >= len(vals) {
		return "", nil
	}
	return vals[i], nil
}

// Close closes the tab. Close is idempotent.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	return nil
}
