package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"screenrecorder/internal/recorder"
	"screenrecorder/internal/recorderctl"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recorder, frame source and encoder state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			frameSize := 0
			if width > 0 && height > 0 {
				frameSize = width * height * recorder.BytesPerPixel
			}
			snap, err := recorderctl.Inspect(cfg, frameSize)
			if err != nil {
				return err
			}
			renderStatus(cmd.OutOrStdout(), snap)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Expected frame width used to check the frame source size")
	cmd.Flags().IntVar(&height, "height", 0, "Expected frame height used to check the frame source size")
	return cmd
}

func renderStatus(out io.Writer, snap recorderctl.Snapshot) {
	if isTerminal(out) {
		fmt.Fprintln(out, renderStatusTable(snap.Lines, true))
		return
	}
	for _, line := range snap.Lines {
		fmt.Fprintf(out, "%s: %s (%s)\n", line.Label, line.Detail, line.Severity)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
