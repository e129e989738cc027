package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"screenrecorder/internal/recorderctl"
)

func newStopCommand(ctx *commandContext) *cobra.Command {
	var timeout time.Duration
	var force bool

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Ask the running recorder to finish its file and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			result, err := recorderctl.Stop(cmd.Context(), cfg, recorderctl.StopOptions{
				Timeout: timeout,
				Force:   force,
			})
			if errors.Is(err, recorderctl.ErrNotRunning) {
				fmt.Fprintln(out, "Recorder not running")
				return nil
			}
			if err != nil {
				return err
			}
			switch {
			case result.ForcedKill:
				fmt.Fprintf(out, "Recorder (pid %d) killed after %s\n", result.PID, timeout)
			case result.Graceful:
				fmt.Fprintf(out, "Recorder (pid %d) stopped\n", result.PID)
			case result.StaleMarker:
				fmt.Fprintf(out, "Removed stale marker for pid %d\n", result.PID)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "How long to wait for the recorder to exit")
	cmd.Flags().BoolVar(&force, "force", false, "Send SIGKILL if the recorder is still running after the timeout")
	return cmd
}
