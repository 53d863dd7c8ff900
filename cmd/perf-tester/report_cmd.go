package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"perf-tester/internal/domain"
	"perf-tester/internal/render"
)

func newReportCmd(d *deps) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report --labels <csv>",
		Short: "Print and save every stored run for the given labels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := opts.resolve(cmd.Flags().Changed)
			if err != nil {
				return err
			}
			return d.withApplication(cmd, func(ctx context.Context, app *application) error {
				return writeDetailedReport(ctx, cmd.OutOrStdout(), app, plan, d.now())
			})
		},
	}

	addReportFlags(cmd, &opts)
	return cmd
}

func newAggregateCmd(d *deps) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "aggregate --labels <csv> [--baseline <label>]",
		Short: "Print and save per-url averages with deltas against a baseline label",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := opts.resolve(cmd.Flags().Changed)
			if err != nil {
				return err
			}
			plan.Baseline = domain.DefaultBaseline(plan.Baseline, plan.Labels)
			return d.withApplication(cmd, func(ctx context.Context, app *application) error {
				return writeAggregateReport(ctx, cmd.OutOrStdout(), app, plan, d.now())
			})
		},
	}

	addReportFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.Baseline, "baseline", "", "label the deltas are computed against (default: first label)")
	return cmd
}

func addReportFlags(cmd *cobra.Command, opts *reportOptions) {
	cmd.Flags().StringVar(&opts.Labels, "labels", "", "comma separated list of labels")
	cmd.Flags().StringVar(&opts.Config, "config", "", "JSON file with input parameters")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "directory for the HTML report (default: REPORT_DIR)")
	cmd.Flags().BoolVar(&opts.NoHTML, "no-html", false, "skip writing the HTML report")
}

func writeDetailedReport(ctx context.Context, w io.Writer, app *application, plan reportPlan, at time.Time) error {
	records, err := app.Service.Records(ctx, plan.Labels)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found for the given labels.")
		return nil
	}

	if plan.HTML {
		path, err := saveHTML(outDir(plan, app), render.FileName(plan.Labels, false, at), func(f io.Writer) error {
			return render.WriteRecordsHTML(f, plan.Labels, records, at)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "HTML report saved to: %s\n", path)
	}

	return render.WriteRecordsTable(w, records)
}

func writeAggregateReport(ctx context.Context, w io.Writer, app *application, plan reportPlan, at time.Time) error {
	rows, err := app.Service.Compare(ctx, plan.Baseline, plan.Labels)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No aggregate data found for the given labels.")
		return nil
	}

	if plan.HTML {
		path, err := saveHTML(outDir(plan, app), render.FileName(plan.Labels, true, at), func(f io.Writer) error {
			return render.WriteAggregateHTML(f, plan.Labels, rows, at)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "HTML report saved to: %s\n", path)
	}

	return render.WriteAggregateTable(w, rows)
}

func outDir(plan reportPlan, app *application) string {
	if plan.OutDir != "" {
		return plan.OutDir
	}
	if app.Config.ReportDir != "" {
		return app.Config.ReportDir
	}
	return "."
}

func saveHTML(dir, name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create report directory")
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create report file")
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return "", errors.Wrap(err, "render html report")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "close report file")
	}
	return path, nil
}
