package config

const (
	defaultPIDFile            = "/tmp/screenrecorder.pid"
	defaultLockFile           = "/tmp/screenrecorder.lock"
	defaultFrameSource        = "/tmp/fb_mirror.raw"
	defaultEncoderBinary      = "/usr/bin/ffmpeg"
	defaultPollIntervalMillis = 33
	defaultAcquireTimeoutMs   = 10000
	defaultFrameIntervalMs    = 33
	defaultStartCheckMillis   = 100
	defaultProgressEvery      = 300
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PIDFile:       defaultPIDFile,
			LockFile:      defaultLockFile,
			FrameSource:   defaultFrameSource,
			EncoderBinary: defaultEncoderBinary,
		},
		Capture: Capture{
			PollIntervalMillis:   defaultPollIntervalMillis,
			AcquireTimeoutMillis: defaultAcquireTimeoutMs,
			FrameIntervalMillis:  defaultFrameIntervalMs,
			StartCheckMillis:     defaultStartCheckMillis,
			ProgressEvery:        defaultProgressEvery,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
