package actions

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"uxkit/atomic"
	"uxkit/state"
)

// Scaffold creates component stub (NAME LEVEL) or the level folder structure
// when no arguments are given.
func Scaffold(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("scaffold")
	cfg := env.Cfg.Scaffold

	dst := cfg.Destination
	if cmd.IsSet("output") {
		dst = cmd.String("output")
	}

	s, err := atomic.New(dst, atomic.Templates{
		Component: cfg.ComponentTemplate,
		Index:     cfg.IndexTemplate,
		Readme:    cfg.ReadmeTemplate,
	}, env.Log)
	if err != nil {
		return err
	}

	var res atomic.Result
	switch cmd.Args().Len() {
	case 0:
		if res, err = s.Structure(); err != nil {
			return err
		}
		log.Info("Structure created", zap.String("path", res.Path), zap.Strings("dirs", res.Dirs))
	case 1:
		return fmt.Errorf("component level has not been specified, usage: %s", cmd.ArgsUsage)
	default:
		if cmd.Args().Len() > 2 {
			log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
		}
		level, err := atomic.ParseLevel(cmd.Args().Get(1))
		if err != nil {
			return err
		}
		if res, err = s.Component(cmd.Args().Get(0), level); err != nil {
			return err
		}
		log.Info("Component created", zap.String("path", res.Path), zap.Strings("files", res.Files))
	}

	for _, name := range append(res.Dirs, res.Files...) {
		if _, err := fmt.Fprintln(cmd.Root().Writer, name); err != nil {
			return err
		}
	}
	return nil
}
