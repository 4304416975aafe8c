package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"uxkit/actions"
	"uxkit/common"
	"uxkit/config"
	"uxkit/misc"
	"uxkit/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if env.NameEncoding, err = state.LookupEncoding(env.Cfg.Report.NameEncoding); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if data, err := config.Dump(env.Cfg); err == nil {
			name := "config/effective.yaml"
			if len(configFile) > 0 {
				name = "config/" + filepath.Base(configFile)
			}
			env.Rpt.StoreData(name, data)
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	env.RestoreStdLog()

	// log is synced now and may be put in report, errors must be reported
	// directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Subcommands return regular errors, urfave/cli exit handling is not used.
var errWasHandled bool

// called before appContext is destroyed, so error could still be logged
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// reported either by exitErrHandler or on exit directly to stderr
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

const sourceHelp = `
SOURCE:
    one or more inputs to analyze, following forms are supported:
        path to a file: "[path_to_file]file%[1]s"
        path to a directory: "[path_to_directory]directory" - recursively process all files with configured extensions (symbolic links are not followed)
        path to archive with path inside archive: "[path_to_archive]archive.zip[path_in_archive]" - process matching files under archive path
        "-" - read standard input

    Report is written to STDOUT unless --out is specified. Files recognized as
    binary (images, fonts, executables) are rejected.
`

func formatFlag() cli.Flag {
	return &cli.StringFlag{Name: "format", Aliases: []string{"f"},
		Usage: "report `FORMAT` (supported formats: " + strings.Join(common.ReportFormatNames(), ", ") + "), overrides configuration"}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write report to `FILE` instead of STDOUT"}
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "front-end UX toolkit: stylesheet and markup audits, component scaffolding, minimal charts",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "css",
				Usage:        "Reports high specificity selectors and !important usage with suggested fixes",
				OnUsageError: usageErrorHandler,
				Action:       actions.AuditCSS,
				Flags: []cli.Flag{
					formatFlag(),
					outFlag(),
					&cli.StringFlag{Name: "parser", Aliases: []string{"p"},
						Usage: "stylesheet parser `MODE` (supported modes: " + strings.Join(common.ParserModeNames(), ", ") + ")"},
					&cli.BoolFlag{Name: "fail-on-issues", Usage: "exit with error when any issue is reported"},
				},
				ArgsUsage:          "SOURCE...",
				CustomHelpTemplate: cli.CommandHelpTemplate + fmt.Sprintf(sourceHelp, ".css"),
			},
			{
				Name:         "ux",
				Usage:        "Checks product listing markup against e-commerce usability guidelines",
				OnUsageError: usageErrorHandler,
				Action:       actions.AuditUX,
				Flags: []cli.Flag{
					formatFlag(),
					outFlag(),
					&cli.IntFlag{Name: "fail-under", Usage: "exit with error when score is below `PERCENT`"},
				},
				ArgsUsage:          "SOURCE...",
				CustomHelpTemplate: cli.CommandHelpTemplate + fmt.Sprintf(sourceHelp, ".html"),
			},
			{
				Name:         "scaffold",
				Usage:        "Creates Atomic Design component stubs or folder structure",
				OnUsageError: usageErrorHandler,
				Action:       actions.Scaffold,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Usage: "components root `DIR`, overrides configuration"},
				},
				ArgsUsage: "[NAME LEVEL]",
				CustomHelpTemplate: cli.CommandHelpTemplate + `
NAME:
    component name, converted to PascalCase for the component and kebab-case for files

LEVEL:
    one of: ` + strings.Join(common.ComponentLevelNames(), ", ") + `

Without arguments creates level folders with README files, existing README
files are kept.
`,
			},
			{
				Name:         "chart",
				Usage:        "Renders minimal data-ink SVG line chart or small multiples",
				OnUsageError: usageErrorHandler,
				Action:       actions.Chart,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Aliases: []string{"t"},
						Usage: "chart `TYPE` (supported types: " + strings.Join(common.ChartKindNames(), ", ") + ")"},
					&cli.FloatFlag{Name: "width", Usage: "chart (or panel) width in `PIXELS`"},
					&cli.FloatFlag{Name: "height", Usage: "chart (or panel) height in `PIXELS`"},
					&cli.IntFlag{Name: "columns", Usage: "small multiples `COLUMNS`"},
					&cli.StringFlag{Name: "title", Usage: "chart `TITLE`"},
					&cli.BoolFlag{Name: "png", Usage: "produce PNG image as well (or instead when writing to STDOUT)"},
				},
				ArgsUsage: "DATA [DESTINATION]",
				CustomHelpTemplate: cli.CommandHelpTemplate + `
DATA:
    YAML or JSON file with a list of values (numbers or {value: N} objects),
    or a list of such lists for small multiples, "-" reads standard input

DESTINATION:
    output file, .png and .jpg select raster image, if absent - STDOUT
`,
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: cli.CommandHelpTemplate + `
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`,
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// log may be not set yet (argument parsing) or already closed
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		data []byte
		kind string
	)

	out := cmd.Root().Writer
	if len(fname) > 0 {
		f, ferr := os.Create(fname)
		if ferr != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, ferr)
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()
		out = f
	}

	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
