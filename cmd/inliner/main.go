package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssinliner/internal/config"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := envFromContext(ctx)

	configFile := cmd.String("config")
	cfg, err := config.LoadConfiguration(configFile)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		cfg.Logging.ConsoleLogger.Level = "debug"
	}
	log, err := cfg.Logging.Prepare()
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.Cfg, env.Log = cfg, log
	env.redirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := envFromContext(ctx)

	for i := len(env.closers) - 1; i >= 0; i-- {
		if er := env.closers[i](); er != nil {
			err = multierr.Append(err, er)
		}
	}
	env.Log.Debug("Program ended", zap.Duration("elapsed", env.uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	env.restoreLog()
	return
}

// Errors are returned as regular errors from subcommands and reported once,
// either through the log or directly to stderr on exit.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := envFromContext(ctx)
	if env.Cfg.Logging.ConsoleLogger.Level != "none" && env.Log.Core().Enabled(zap.ErrorLevel) {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func main() {

	ctx, stop := signal.NotifyContext(contextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            config.AppName,
		Usage:           "inlines computed CSS into HTML style attributes",
		Version:         runtime.Version(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug messages to console"},
		},
		Commands: []*cli.Command{
			{
				Name:         "convert",
				Usage:        "Inlines CSS into HTML file(s)",
				OnUsageError: usageErrorHandler,
				Action:       runConvert,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "css", Usage: "stylesheet `FILE` to apply, may be repeated"},
					&cli.BoolFlag{Name: "body-only", Aliases: []string{"b"}, Usage: "output only the inner markup of <body>"},
					&cli.BoolFlag{Name: "minify", Aliases: []string{"m"}, Usage: "remove whitespace between tags"},
					&cli.BoolFlag{Name: "template", Aliases: []string{"t"}, Usage: "apply built-in template stylesheet before user CSS"},
					&cli.StringFlag{Name: "engine", Usage: "style resolver `ENGINE` (native, browser)"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write result to `FILE` instead of STDOUT"},
					&cli.StringFlag{Name: "out-dir", Usage: "write results under `DIR` (required for several sources)"},
					&cli.BoolFlag{Name: "stats", Usage: "log conversion statistics"},
				},
				ArgsUsage: "[SOURCE...]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to an HTML file or a directory (all .html and .htm files under it are processed),
    "-" or nothing reads HTML from STDIN
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "preview",
				Usage:        "Writes a document rendering HTML with a live stylesheet, or with inlined styles",
				OnUsageError: usageErrorHandler,
				Action:       runPreview,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "css", Usage: "stylesheet `FILE` to embed, may be repeated"},
					&cli.BoolFlag{Name: "template", Aliases: []string{"t"}, Usage: "embed built-in template stylesheet before user CSS"},
					&cli.BoolFlag{Name: "inline", Aliases: []string{"i"}, Usage: "preview the converted result instead of the live stylesheet"},
					&cli.BoolFlag{Name: "body-only", Aliases: []string{"b"}, Usage: "with --inline, convert only the inner markup of <body>"},
					&cli.StringFlag{Name: "engine", Usage: "style resolver `ENGINE` (native, browser) for --inline"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write result to `FILE` instead of STDOUT"},
				},
				ArgsUsage: "[SOURCE]",
			},
			{
				Name:         "template",
				Usage:        "Writes the built-in template stylesheet",
				OnUsageError: usageErrorHandler,
				Action:       runTemplate,
				ArgsUsage:    "[DESTINATION]",
			},
			{
				Name:         "serve",
				Usage:        "Serves the conversion HTTP API",
				OnUsageError: usageErrorHandler,
				Action:       runServe,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "listen `ADDRESS` (host:port)"},
					&cli.StringFlag{Name: "engine", Usage: "style resolver `ENGINE` (native, browser)"},
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "[DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := envFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		err   error
		data  []byte
		state string
	)
	if cmd.Bool("default") {
		state = "default"
		data, err = config.Dump(config.Default())
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	env.Log.Debug("Writing configuration", zap.String("state", state), zap.String("file", fname))
	if err := writeOutput(string(data), fname); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
