package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied means the user or the OS refused access to the device.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrDeviceUnavailable means there is no usable device.
	ErrDeviceUnavailable = errors.New("device unavailable")
)

// DeviceError is a failure while talking to a capture device.
type DeviceError struct {
	Op  string // "open", "frame"
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("capture device error: %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// UserMessage turns a capture error into the inline text shown next to the
// capture controls. The flow stays retryable after any of them.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return "Camera access was denied. Allow camera access and try again."
	case errors.Is(err, ErrDeviceUnavailable):
		return "No camera is available. Connect a camera and try again."
	default:
		return "Could not capture a photo. Please try again."
	}
}
