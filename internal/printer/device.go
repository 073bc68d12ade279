package printer

import (
	"context"
	"fmt"
	"os"
)

// Device writes jobs to a character device such as /dev/usb/lp0. The device
// is opened and closed for every job and must already exist.
type Device struct {
	path    string
	profile Profile
}

func NewDevice(path string, profile Profile) *Device {
	return &Device{path: path, profile: profile}
}

func (d *Device) Print(_ context.Context, text string) error {
	job, err := Encode(d.profile, text)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(d.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("failed to open printer device %s: %w", d.path, err)
	}
	if _, err := f.Write(job); err != nil {
		f.Close()
		return fmt.Errorf("failed to write to printer device %s: %w", d.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close printer device %s: %w", d.path, err)
	}
	return nil
}

func (d *Device) Close() error { return nil }
