package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cssinliner/internal/browser"
	"cssinliner/internal/config"
	"cssinliner/internal/resolver"
	"cssinliner/pkg/inliner"
)

type envKey struct{}

// localEnv keeps everything the program needs in a single place.
type localEnv struct {
	Cfg *config.Config
	Log *zap.Logger

	start         time.Time
	restoreStdLog func()
	closers       []func() error
}

func envFromContext(ctx context.Context) *localEnv {
	if env, ok := ctx.Value(envKey{}).(*localEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func contextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &localEnv{
		Cfg:   config.Default(),
		Log:   zap.NewNop(),
		start: time.Now(),
	})
}

func (e *localEnv) uptime() time.Duration {
	return time.Since(e.start)
}

func (e *localEnv) redirectStdLog() {
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *localEnv) restoreLog() {
	_ = e.Log.Sync()
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// newInliner builds an Inliner over the configured resolver engine. A
// browser engine is closed together with the environment.
func (e *localEnv) newInliner(engineName string) (*inliner.Inliner, error) {
	rc := e.Cfg.Resolver
	if engineName == "" {
		engineName = rc.Engine
	}

	var engine resolver.Engine
	switch engineName {
	case config.EngineNative:
		engine = resolver.NewNative(
			resolver.WithLogger(e.Log),
			resolver.WithViewportWidth(rc.ViewportWidth),
			resolver.WithDefaultFont(rc.DefaultFontFamily, rc.DefaultFontSize),
		)
	case config.EngineBrowser:
		opts := []browser.Option{
			browser.WithLogger(e.Log),
			browser.WithChromePath(rc.Browser.ChromePath),
			browser.WithTimeout(rc.Browser.Timeout),
		}
		if rc.Browser.NoSandbox {
			opts = append(opts, browser.WithNoSandbox())
		}
		if rc.Browser.AutoDownload {
			opts = append(opts, browser.WithAutoDownload())
		}
		b, err := browser.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("unable to start browser engine: %w", err)
		}
		e.closers = append(e.closers, b.Close)
		engine = b
	default:
		return nil, fmt.Errorf("unknown resolver engine '%s' (supported: %s, %s)", engineName, config.EngineNative, config.EngineBrowser)
	}

	e.Log.Debug("Resolver engine ready", zap.String("engine", engineName))
	return inliner.New(inliner.WithEngine(engine), inliner.WithLogger(e.Log)), nil
}
