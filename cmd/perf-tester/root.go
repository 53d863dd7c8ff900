package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"perf-tester/internal/infra"
)

const serviceName = "perf-tester"

// deps holds what commands need from the outside world. Tests replace
// initApp to run commands against an in-memory store.
type deps struct {
	initApp func(ctx context.Context, out io.Writer) (*application, func(), error)
	now     func() time.Time
}

func newDeps() *deps {
	return &deps{initApp: initApplication, now: time.Now}
}

func newRootCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Measure page performance across labelled batches and compare them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRunCmd(d))
	cmd.AddCommand(newReportCmd(d))
	cmd.AddCommand(newAggregateCmd(d))
	cmd.AddCommand(newServeCmd(d))
	cmd.AddCommand(newMigrateCmd())
	return cmd
}

func execute(ctx context.Context, d *deps) int {
	if err := newRootCmd(d).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		return 1
	}
	return 0
}

// withApplication assembles the application, runs fn and releases every
// resource afterwards. Logs go to the command's stderr so stdout carries
// only reports.
func (d *deps) withApplication(cmd *cobra.Command, fn func(ctx context.Context, app *application) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = infra.NewCorrelationID(ctx)

	app, cleanup, err := d.initApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return errors.Wrap(err, "initialise application")
	}
	defer cleanup()

	infra.LogConfig(ctx, app.Logger, app.Config)

	runErr := fn(ctx, app)

	if path := app.Config.MetricsTextfile; path != "" {
		if err := infra.WriteTextfile(path); err != nil {
			app.Logger.Warnf(ctx, "write metrics textfile: %v", err)
		}
	}
	return runErr
}
