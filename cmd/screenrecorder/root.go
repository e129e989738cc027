package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"screenrecorder/internal/failures"
	"screenrecorder/internal/lifecycle"
	"screenrecorder/internal/logging"
	"screenrecorder/internal/recorder"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "screenrecorder <output_path> <width> <height>",
		Short:         "Record the mirrored framebuffer to a video file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			_, err := recorder.ParseArgs(args)
			return err
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecording(cmd, ctx, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return failures.Wrap(failures.ErrUsage, "", "", "", err)
	})

	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newStopCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

func runRecording(cmd *cobra.Command, ctx *commandContext, args []string) error {
	req, err := recorder.ParseArgs(args)
	if err != nil {
		return err
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	req.SessionID = uuid.NewString()
	logger, err := logging.NewFromConfig(cfg, ctx.logLevel(), req.SessionID)
	if err != nil {
		return failures.Wrap(failures.ErrConfiguration, "cli", "init logger", "", err)
	}

	session, err := recorder.New(cfg, logger, req)
	if err != nil {
		return err
	}

	signalCtx, stop := lifecycle.SignalContext(cmd.Context())
	defer stop()

	_, err = session.Run(signalCtx)
	return err
}
