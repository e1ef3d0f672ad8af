// pkg/commitor_cli/wrap.go

package commitor_cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cerr "github.com/cockroachdb/errors"
	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/frkngnc/commitor/pkg/commitor_io"
	"github.com/frkngnc/commitor/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RunFunc is the signature every command body implements.
type RunFunc func(rc *commitor_io.RuntimeContext, cmd *cobra.Command, args []string) error

// Wrap ensures panic recovery, telemetry, logging and signal-driven cancellation.
func Wrap(fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger.Init()

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		sigCtx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		rc := commitor_io.NewContext(sigCtx, cmd.Name())
		defer rc.End(&err)

		defer rc.HandlePanic(&err)

		rc.Log.Debug("Command started",
			zap.String("path", cmd.CommandPath()),
			zap.Int("args", len(args)))

		err = fn(rc, cmd, args)
		if err != nil && sigCtx.Err() != nil && parent.Err() == nil {
			// interrupted by the user rather than failed
			return commitor_err.NewCancelledError("interrupted")
		}
		if err != nil && !commitor_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}
