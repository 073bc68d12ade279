package printer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"
)

// USBOptions identifies a USB printer and its bulk OUT endpoint.
type USBOptions struct {
	VendorID  uint16
	ProductID uint16
	Endpoint  int
	Timeout   time.Duration
	Profile   Profile
}

// USB holds an open USB printer for the lifetime of the process.
type USB struct {
	ctx     *gousb.Context
	dev     *gousb.Device
	done    func()
	out     *gousb.OutEndpoint
	timeout time.Duration
	profile Profile
}

// OpenUSB claims the printer's default interface. Close releases it.
func OpenUSB(opts USBOptions) (*USB, error) {
	usbCtx := gousb.NewContext()

	dev, err := usbCtx.OpenDeviceWithVIDPID(gousb.ID(opts.VendorID), gousb.ID(opts.ProductID))
	if err != nil {
		usbCtx.Close()
		return nil, fmt.Errorf("failed to open USB printer %04x:%04x: %w", opts.VendorID, opts.ProductID, err)
	}
	if dev == nil {
		usbCtx.Close()
		return nil, fmt.Errorf("USB printer %04x:%04x not found", opts.VendorID, opts.ProductID)
	}

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		usbCtx.Close()
		return nil, fmt.Errorf("failed to enable kernel driver auto-detach: %w", err)
	}

	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		usbCtx.Close()
		return nil, fmt.Errorf("failed to claim USB printer interface: %w", err)
	}

	out, err := intf.OutEndpoint(opts.Endpoint)
	if err != nil {
		done()
		dev.Close()
		usbCtx.Close()
		return nil, fmt.Errorf("failed to open OUT endpoint %d: %w", opts.Endpoint, err)
	}

	return &USB{
		ctx:     usbCtx,
		dev:     dev,
		done:    done,
		out:     out,
		timeout: opts.Timeout,
		profile: opts.Profile,
	}, nil
}

func (u *USB) Print(ctx context.Context, text string) error {
	job, err := Encode(u.profile, text)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	n, err := u.out.WriteContext(writeCtx, job)
	if err != nil {
		return fmt.Errorf("USB write failed after %d of %d bytes: %w", n, len(job), err)
	}
	if n != len(job) {
		return fmt.Errorf("USB short write: %d of %d bytes", n, len(job))
	}
	return nil
}

// Close releases the interface, the device and the libusb context.
func (u *USB) Close() error {
	u.done()
	return errors.Join(u.dev.Close(), u.ctx.Close())
}
