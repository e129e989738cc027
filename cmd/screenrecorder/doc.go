// Package main hosts the screenrecorder entrypoint.
//
// Invoked as `screenrecorder <output_path> <width> <height>` it records until
// SIGINT or SIGTERM. The status, stop and config subcommands inspect or
// control a recorder from another shell without touching the recording path.
package main
