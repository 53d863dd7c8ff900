package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd(d *deps) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run --label <label> (--urls <csv> | --file <path>)",
		Short: "Measure every url repeatedly and store the results under a label",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := opts.resolve(cmd.Flags().Changed)
			if err != nil {
				return err
			}

			return d.withApplication(cmd, func(ctx context.Context, app *application) error {
				out := cmd.OutOrStdout()

				summary, err := app.Orchestrator.Run(ctx, plan.Batch)
				if err != nil {
					return err
				}
				app.Logger.Printf(ctx, "batch %s: %d attempted, %d persisted, %d failed",
					plan.Batch.Label, summary.Attempted, summary.Persisted, summary.Failed)
				fmt.Fprintln(out, "All runs complete.")

				if !plan.Report {
					return nil
				}
				fmt.Fprintf(out, "\nAuto-generating report for label: %s\n", plan.Batch.Label)
				return writeDetailedReport(ctx, out, app, reportPlan{
					Labels: []string{plan.Batch.Label},
					HTML:   true,
				}, d.now())
			})
		},
	}

	cmd.Flags().StringVar(&opts.Label, "label", "", "label for this batch")
	cmd.Flags().StringVar(&opts.URLs, "urls", "", "comma separated list of urls")
	cmd.Flags().StringVar(&opts.File, "file", "", "file containing urls, one per line")
	cmd.Flags().IntVar(&opts.Repeat, "repeat", 1, "number of runs per url")
	cmd.Flags().BoolVar(&opts.Headful, "headful", false, "run the browser with a visible window")
	cmd.Flags().BoolVar(&opts.Report, "report", false, "print and save the detailed report after the batch")
	cmd.Flags().StringVar(&opts.Config, "config", "", "JSON file with input parameters")
	return cmd
}
