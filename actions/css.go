// Package actions implements program commands.
package actions

import (
	"context"
	"fmt"
	"io"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"uxkit/common"
	"uxkit/css"
	"uxkit/state"
)

// StylesheetReport is the structured (json, yaml) report for one stylesheet.
type StylesheetReport struct {
	Source     string `json:"source" yaml:"source"`
	css.Report `yaml:",inline"`
	Summary    css.Summary `json:"summary" yaml:"summary"`
}

// IssuesFoundError is returned when quality gate is enabled and issues were
// reported.
type IssuesFoundError struct {
	Issues int
}

func (e *IssuesFoundError) Error() string {
	return fmt.Sprintf("stylesheet audit reported %d issue(s)", e.Issues)
}

// AuditCSS analyzes stylesheets for high specificity selectors and !important
// usage.
func AuditCSS(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("css")

	if cmd.Args().Len() == 0 {
		return fmt.Errorf("no input source has been specified")
	}

	cfg := env.Cfg.CSS
	opts := cfg.AnalyzerOptions()
	if cmd.IsSet("parser") {
		mode, err := common.ParseParserMode(cmd.String("parser"))
		if err != nil {
			return err
		}
		opts.Parser = mode
	}
	failOnIssues := cfg.FailOnIssues || cmd.Bool("fail-on-issues")
	format := reportFormat(cmd, env.Cfg.Report.Format, log)

	sources, err := collectSources(ctx, cmd.Args().Slice(), cfg.Extensions, log)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.Int("sources", len(sources)), zap.Stringer("parser", opts.Parser), zap.Stringer("format", format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	analyzer := css.NewAnalyzer(opts, env.Log)
	reports := make([]StylesheetReport, 0, len(sources))
	issues := 0
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		rules := analyzer.Parse(string(src.Data))
		rep := StylesheetReport{
			Source:  src.Name,
			Report:  analyzer.AnalyzeRules(rules),
			Summary: analyzer.Summarize(rules),
		}
		log.Debug("Stylesheet analyzed", zap.String("source", src.Name), zap.Int("rules", len(rules)), zap.Int("issues", len(rep.Issues)))
		issues += len(rep.Issues)
		reports = append(reports, rep)
	}

	out, err := openOutput(cmd, cmd.String("out"))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	if err := writeStylesheetReports(out, format, reports); err != nil {
		return err
	}
	env.Log.Debug("Report written", zap.String("destination", out.name))

	if failOnIssues && issues > 0 {
		return &IssuesFoundError{Issues: issues}
	}
	return nil
}

func writeStylesheetReports(w io.Writer, format common.ReportFormat, reports []StylesheetReport) error {
	if format != common.ReportFormatMarkdown {
		return writeStructured(w, format, reports)
	}
	for i, rep := range reports {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := css.WriteMarkdown(w, rep.Source, rep.Summary, rep.Report); err != nil {
			return fmt.Errorf("unable to write report: %w", err)
		}
	}
	return nil
}
