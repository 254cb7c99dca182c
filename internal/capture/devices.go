package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"
	"sync"

	// Decoders for the frame formats browsers and files hand us.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// browserErrors maps the DOMException names getUserMedia rejects with.
var browserErrors = map[string]error{
	"NotAllowedError":      ErrPermissionDenied,
	"SecurityError":        ErrPermissionDenied,
	"NotFoundError":        ErrDeviceUnavailable,
	"NotReadableError":     ErrDeviceUnavailable,
	"OverconstrainedError": ErrDeviceUnavailable,
	"AbortError":           ErrDeviceUnavailable,
}

// UploadDevice is a frame the browser grabbed from its camera and posted to us,
// or the error the browser got while trying.
type UploadDevice struct {
	data       []byte
	browserErr string
}

// NewUploadDevice wraps an uploaded frame. browserErr is the DOMException name
// reported by the page, empty when the page got a frame.
func NewUploadDevice(data []byte, browserErr string) *UploadDevice {
	return &UploadDevice{data: data, browserErr: browserErr}
}

// Open implements Device.
func (d *UploadDevice) Open(ctx context.Context) (Stream, error) {
	if d.browserErr != "" {
		if err, ok := browserErrors[d.browserErr]; ok {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrDeviceUnavailable, d.browserErr)
	}
	if len(d.data) == 0 {
		return nil, ErrDeviceUnavailable
	}
	return &readerStream{r: bytes.NewReader(d.data)}, nil
}

// FileDevice reads a still frame from an image file.
type FileDevice struct {
	Path string
}

// Open implements Device.
func (d FileDevice) Open(ctx context.Context) (Stream, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, d.Path)
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrDeviceUnavailable, d.Path)
		}
		return nil, err
	}
	return &readerStream{r: f, close: f.Close}, nil
}

// readerStream decodes one image from r.
type readerStream struct {
	r     io.Reader
	close func() error

	once    sync.Once
	mu      sync.Mutex
	stopped bool
}

func (s *readerStream) Frame(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, ErrDeviceUnavailable
	}
	img, _, err := image.Decode(s.r)
	if err != nil {
		return nil, fmt.Errorf("could not decode frame: %w", err)
	}
	return img, nil
}

func (s *readerStream) Stop() {
	s.once.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()
		if s.close != nil {
			s.close()
		}
	})
}
