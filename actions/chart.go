package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"uxkit/chart"
	"uxkit/common"
	"uxkit/config"
	"uxkit/state"
	"uxkit/utils/images"
)

// Chart renders data file as SVG chart. DESTINATION with image extension
// (.png, .jpg) produces raster image only, --png adds PNG next to SVG.
// Without DESTINATION result goes to standard output.
func Chart(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("chart")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no chart data has been specified")
	}
	dst := cmd.Args().Get(1)
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	cfg := env.Cfg.Chart
	kind := cfg.Kind
	if cmd.IsSet("type") {
		if kind, err = common.ParseChartKind(cmd.String("type")); err != nil {
			return err
		}
	}
	opts := cfg.Options.Merge(chart.Options{
		Width:   cmd.Float("width"),
		Height:  cmd.Float("height"),
		Columns: cmd.Int("columns"),
		Title:   cmd.String("title"),
	})
	wantPNG := cfg.PNG || cmd.Bool("png")

	series, err := loadSeries(src)
	if err != nil {
		return err
	}
	if src != "-" {
		if err := env.Rpt.StoreCopy("data/"+config.CleanFileName(filepath.Base(src)), src); err != nil {
			log.Warn("Unable to store chart data in report", zap.Error(err))
		}
	}

	r := chart.New(opts, env.Log)
	var svg []byte
	switch kind {
	case common.ChartKindMultiples:
		svg, err = r.SmallMultiples(series)
	default:
		if len(series) > 1 {
			log.Warn("Line chart uses only the first series", zap.Int("series", len(series)))
		}
		svg, err = r.Line(series[0])
	}
	if err != nil {
		return fmt.Errorf("unable to render chart: %w", err)
	}
	env.Rpt.StoreData("chart.svg", svg)

	switch ext := strings.ToLower(filepath.Ext(dst)); {
	case len(dst) == 0 && wantPNG:
		img, err := images.RasterizeSVGToImage(svg, 0, 0)
		if err != nil {
			return fmt.Errorf("unable to rasterize chart: %w", err)
		}
		return images.Encode(cmd.Root().Writer, img, "chart.png")
	case len(dst) == 0:
		_, err = cmd.Root().Writer.Write(svg)
		return err
	case ext == ".png" || ext == ".jpg" || ext == ".jpeg":
		return saveRaster(svg, dst, log)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(dst, svg, 0644); err != nil {
		return fmt.Errorf("unable to write chart: %w", err)
	}
	log.Info("Chart written", zap.String("file", dst), zap.Stringer("type", kind))

	if wantPNG {
		return saveRaster(svg, strings.TrimSuffix(dst, filepath.Ext(dst))+".png", log)
	}
	return nil
}

// svg viewBox already has chart size, so intrinsic dimensions are used
func saveRaster(svg []byte, dst string, log *zap.Logger) error {
	img, err := images.RasterizeSVGToImage(svg, 0, 0)
	if err != nil {
		return fmt.Errorf("unable to rasterize chart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := images.Save(img, dst); err != nil {
		return err
	}
	log.Info("Chart image written", zap.String("file", dst), zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return nil
}

func loadSeries(src string) (series [][]chart.Point, err error) {
	var r io.Reader = os.Stdin
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("unable to open chart data: %w", err)
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("unable to read chart data: %w", err)
		}
		if err := sniff(data[:min(len(data), sniffLen)]); err != nil {
			return nil, fmt.Errorf("unable to use '%s': %w", src, err)
		}
		r = bytes.NewReader(data)
	}

	series, err = chart.LoadSeries(r)
	if err != nil {
		return nil, fmt.Errorf("unable to load chart data from '%s': %w", src, err)
	}
	return series, nil
}
