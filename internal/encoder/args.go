package encoder

import "strconv"

const (
	// FrameRate is the nominal input rate declared to the encoder.
	FrameRate = 30
	// Codec is the output video codec.
	Codec = "mjpeg"
	// Quality is the codec quality scale passed as -q:v.
	Quality = 10
	// PixelFormat describes the raw frames written to the pipe.
	PixelFormat = "rgba"
)

// Args returns the fixed encoder command line for one recording. The vertical
// flip corrects the producer's bottom-up raster.
func Args(width, height int, output string) []string {
	return []string{
		"-nostdin",
		"-f", "rawvideo",
		"-pixel_format", PixelFormat,
		"-video_size", strconv.Itoa(width) + "x" + strconv.Itoa(height),
		"-framerate", strconv.Itoa(FrameRate),
		"-i", "pipe:0",
		"-vf", "vflip",
		"-c:v", Codec,
		"-q:v", strconv.Itoa(Quality),
		"-y",
		output,
	}
}
