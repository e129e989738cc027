package recorder

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"screenrecorder/internal/failures"
)

// BytesPerPixel is the RGBA8 pixel stride of the frame source.
const BytesPerPixel = 4

// Request is what the operator asked to record.
type Request struct {
	OutputPath string
	Width      int
	Height     int
	// SessionID correlates log records; New generates one when empty.
	SessionID string
}

// ParseArgs builds a Request from the positional arguments
// <output_path> <width> <height>. Extra arguments are ignored.
func ParseArgs(args []string) (Request, error) {
	if len(args) < 3 {
		return Request{}, failures.Wrap(failures.ErrUsage, "", "",
			"expected <output_path> <width> <height>", nil)
	}
	output := strings.TrimSpace(args[0])
	if output == "" {
		return Request{}, failures.Wrap(failures.ErrUsage, "", "", "output path is empty", nil)
	}
	width, err := parseDimension("width", args[1])
	if err != nil {
		return Request{}, err
	}
	height, err := parseDimension("height", args[2])
	if err != nil {
		return Request{}, err
	}
	req := Request{OutputPath: output, Width: width, Height: height}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

func parseDimension(name, raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, failures.Wrap(failures.ErrUsage, "", "",
			fmt.Sprintf("%s must be an integer, got %q", name, raw), nil)
	}
	if value <= 0 {
		return 0, failures.Wrap(failures.ErrUsage, "", "",
			fmt.Sprintf("%s must be positive, got %d", name, value), nil)
	}
	return value, nil
}

// Validate checks dimensions and that the frame size fits in an int.
func (r Request) Validate() error {
	if strings.TrimSpace(r.OutputPath) == "" {
		return failures.Wrap(failures.ErrUsage, "", "", "output path is empty", nil)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return failures.Wrap(failures.ErrUsage, "", "",
			fmt.Sprintf("invalid dimensions %dx%d", r.Width, r.Height), nil)
	}
	if r.Width > math.MaxInt/BytesPerPixel/r.Height {
		return failures.Wrap(failures.ErrUsage, "", "",
			fmt.Sprintf("dimensions %dx%d are too large", r.Width, r.Height), nil)
	}
	return nil
}

// FrameSize is the byte length of one RGBA raster.
func (r Request) FrameSize() int {
	return r.Width * r.Height * BytesPerPixel
}
