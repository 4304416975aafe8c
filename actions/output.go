package actions

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"uxkit/common"
)

// output is report destination: file requested with --out or program
// standard output.
type output struct {
	io.Writer
	name  string
	close func() error
}

func openOutput(cmd *cli.Command, fname string) (*output, error) {
	if len(fname) == 0 {
		return &output{Writer: cmd.Root().Writer, name: "STDOUT", close: func() error { return nil }}, nil
	}
	if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}
	f, err := os.Create(fname)
	if err != nil {
		return nil, fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	return &output{Writer: f, name: fname, close: f.Close}, nil
}

func (o *output) Close() error {
	return o.close()
}

// reportFormat returns format requested on command line or configured one.
func reportFormat(cmd *cli.Command, configured common.ReportFormat, log *zap.Logger) common.ReportFormat {
	if !cmd.IsSet("format") {
		return configured
	}
	format, err := common.ParseReportFormat(cmd.String("format"))
	if err != nil {
		log.Warn("Unknown report format requested, using configured one", zap.Stringer("format", configured), zap.Error(err))
		return configured
	}
	return format
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format common.ReportFormat, v any) error {
	switch format {
	case common.ReportFormatJson:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("unable to encode json report: %w", err)
		}
	case common.ReportFormatYaml:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("unable to encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("unable to encode yaml report: %w", err)
		}
	default:
		return fmt.Errorf("unsupported structured format %s", format)
	}
	return nil
}
