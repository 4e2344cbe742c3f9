// Command svgrender renders SVG documents to raster images,
// and maps points between the view and the document.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/benoitkugler/svgview/config"
)

type envKey struct{}

// localEnv keeps everything the program needs in a single place.
type localEnv struct {
	Cfg *config.Config
	Log *zap.Logger

	start time.Time
}

func envFromContext(ctx context.Context) *localEnv {
	if env, ok := ctx.Value(envKey{}).(*localEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func contextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &localEnv{Log: zap.NewNop(), start: time.Now()})
}

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := envFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if env.Log, err = env.Cfg.Logging.Prepare(cmd.Bool("debug")); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := envFromContext(ctx)
	env.Log.Debug("Program ended", zap.Duration("elapsed", time.Since(env.start)), zap.Strings("parsed args", cmd.Args().Slice()))
	// stdout and stderr can't always be synced
	_ = env.Log.Sync()
	return nil
}

// Subcommands return regular errors, which are logged here
// before the context is destroyed.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := envFromContext(ctx)
	if env.Cfg != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// reported either by exitErrHandler or on exit directly to stderr
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	envFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

// viewFlags are shared by the commands placing the document in a view.
func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Usage: "view `WIDTH` in pixels (default: configuration, then document width)"},
		&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Usage: "view `HEIGHT` in pixels (default: configuration, then document height)"},
		&cli.FloatFlag{Name: "scale", Usage: "set both scales, 1 meaning one document unit per pixel"},
		&cli.FloatFlag{Name: "scale-x", Usage: "set the horizontal scale"},
		&cli.FloatFlag{Name: "scale-y", Usage: "set the vertical scale"},
		&cli.FloatFlag{Name: "offset-x", Usage: "pan the document horizontally, in document units"},
		&cli.FloatFlag{Name: "offset-y", Usage: "pan the document vertically, in document units"},
		&cli.FloatFlag{Name: "rotate", Usage: "rotate the view by `DEGREES`, clockwise"},
		&cli.StringFlag{Name: "locate", Usage: "fit the document in the view box `X,Y,W,H`, applied after the other flags"},
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            config.AppName,
		Usage:           "renders SVG documents to raster images",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug messages to the console"},
		},
		Commands: []*cli.Command{
			{
				Name:         "render",
				Usage:        "Renders an SVG document to an image",
				OnUsageError: usageErrorHandler,
				Action:       runRender,
				Flags: append(viewFlags(),
					&cli.StringFlag{Name: "background", Aliases: []string{"bg"}, Usage: "paint the image with `COLOR` first (default: configuration)"},
				),
				ArgsUsage: "SOURCE DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to the SVG document

DESTINATION:
    path of the image to write, overwritten if it exists; its extension
    selects the format: png, jpg (or jpeg), gif, tif (or tiff) or bmp
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "info",
				Usage:        "Prints the size, bounds and metadata of an SVG document",
				OnUsageError: usageErrorHandler,
				Action:       runInfo,
				ArgsUsage:    "SOURCE",
			},
			{
				Name:         "map",
				Usage:        "Maps view points to document points",
				OnUsageError: usageErrorHandler,
				Action:       runMap,
				Flags: append(viewFlags(),
					&cli.BoolFlag{Name: "reverse", Aliases: []string{"r"}, Usage: "map document points to the view instead"},
				),
				ArgsUsage: "SOURCE X,Y [X,Y...]",
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
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(contextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

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
	err = newApp().Run(ctx, os.Args)
}
