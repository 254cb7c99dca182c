// Package capture grabs a single still frame from a frame device and encodes it
// as a JPEG ready to attach to a chat turn.
//
// A device is opened into a stream, one frame is read, and the stream is
// stopped on every path out of Capture: success, device error, or a context
// that is already done.
package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"groundchat/internal/domain"
)

const (
	// MimeType is the type of every captured image.
	MimeType = "image/jpeg"
	// Quality is the JPEG encoder quality.
	Quality = 90
)

// Device is a source of frames, e.g. a camera.
type Device interface {
	// Open acquires the device. The caller must Stop the returned stream.
	Open(ctx context.Context) (Stream, error)
}

// Stream is a live frame source held open by exactly one owner.
type Stream interface {
	// Frame reads the current frame.
	Frame(ctx context.Context) (image.Image, error)
	// Stop releases the device. Calling it more than once is a no-op.
	Stop()
}

// Capture opens dev, reads one frame and returns it as a base64 JPEG.
func Capture(ctx context.Context, dev Device) (*domain.Image, error) {
	stream, err := dev.Open(ctx)
	if err != nil {
		return nil, &DeviceError{Op: "open", Err: err}
	}
	defer stream.Stop()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("capture cancelled: %w", err)
	}

	frame, err := stream.Frame(ctx)
	if err != nil {
		return nil, &DeviceError{Op: "frame", Err: err}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("could not encode frame: %w", err)
	}

	return &domain.Image{
		Base64:   base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType: MimeType,
	}, nil
}
