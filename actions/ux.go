package actions

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"uxkit/common"
	"uxkit/state"
	"uxkit/ux"
)

// PageReport is the structured (json, yaml) report for one markup source.
type PageReport struct {
	Source    string `json:"source" yaml:"source"`
	ux.Result `yaml:",inline"`
	Issues    []string `json:"issues" yaml:"issues"`
}

// ScoreTooLowError is returned when page score is below requested minimum.
type ScoreTooLowError struct {
	Source    string
	Score     int
	FailUnder int
}

func (e *ScoreTooLowError) Error() string {
	return fmt.Sprintf("ux score of '%s' is %d%%, required at least %d%%", e.Source, e.Score, e.FailUnder)
}

// AuditUX checks product listing markup against e-commerce usability
// guidelines.
func AuditUX(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("ux")

	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no input source has been specified")
	}

	failUnder := env.Cfg.UX.FailUnder
	if cmd.IsSet("fail-under") {
		failUnder = cmd.Int("fail-under")
	}
	if failUnder < 0 || failUnder > 100 {
		return fmt.Errorf("fail-under must be between 0 and 100, got %d", failUnder)
	}
	format := reportFormat(cmd, env.Cfg.Report.Format, log)

	sources, err := collectSources(ctx, cmd.Args().Slice(), env.Cfg.UX.Extensions, log)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.Int("sources", len(sources)), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	reports := make([]PageReport, 0, len(sources))
	var gate error
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		markup, err := ux.Decode(bytes.NewReader(src.Data), "text/html")
		if err != nil {
			return fmt.Errorf("unable to decode '%s': %w", src.Name, err)
		}
		res := ux.Audit(markup)
		log.Debug("Markup audited", zap.String("source", src.Name), zap.Int("passed", res.Summary.Passed), zap.Int("total", res.Summary.Total))

		if failUnder > 0 && res.Summary.Score < failUnder && gate == nil {
			gate = &ScoreTooLowError{Source: src.Name, Score: res.Summary.Score, FailUnder: failUnder}
		}
		reports = append(reports, PageReport{Source: src.Name, Result: res, Issues: ux.Issues(markup)})
	}

	out, err := openOutput(cmd, cmd.String("out"))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	if err := writePageReports(out, format, reports); err != nil {
		return err
	}
	env.Log.Debug("Report written", zap.String("destination", out.name))
	return gate
}

func writePageReports(w io.Writer, format common.ReportFormat, reports []PageReport) error {
	if format != common.ReportFormatMarkdown {
		return writeStructured(w, format, reports)
	}
	for i, rep := range reports {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := ux.WriteMarkdown(w, rep.Source, rep.Result); err != nil {
			return fmt.Errorf("unable to write report: %w", err)
		}
	}
	return nil
}
