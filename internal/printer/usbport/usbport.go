package usbport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/gousb"

	"bonnetje/internal/domain"
)

// Opener opens the printer by vendor/product ID through libusb.
type Opener struct {
	VendorID     gousb.ID
	ProductID    gousb.ID
	WriteTimeout time.Duration // per write; zero means unbounded
}

// New returns an opener for the given device IDs.
func New(vendorID, productID uint16, writeTimeout time.Duration) *Opener {
	return &Opener{
		VendorID:     gousb.ID(vendorID),
		ProductID:    gousb.ID(productID),
		WriteTimeout: writeTimeout,
	}
}

func (u *Opener) String() string { return fmt.Sprintf("usb %s:%s", u.VendorID, u.ProductID) }

// OpenPort claims the device's default interface and its first bulk OUT
// endpoint. Every handle acquired so far is released on failure.
func (u *Opener) OpenPort(ctx context.Context) (domain.Port, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	usb := gousb.NewContext()
	dev, err := usb.OpenDeviceWithVIDPID(u.VendorID, u.ProductID)
	if err != nil {
		_ = usb.Close()
		return nil, fmt.Errorf("%s: %w", u, err)
	}
	if dev == nil {
		_ = usb.Close()
		return nil, fmt.Errorf("%s: device not found", u)
	}
	if err := dev.SetAutoDetach(true); err != nil {
		_ = dev.Close()
		_ = usb.Close()
		return nil, fmt.Errorf("%s: auto-detach: %w", u, err)
	}

	intf, done, err := dev.DefaultInterface()
	if err != nil {
		_ = dev.Close()
		_ = usb.Close()
		return nil, fmt.Errorf("%s: claim interface: %w", u, err)
	}

	num, ok := bulkOutEndpoint(intf.Setting)
	if !ok {
		done()
		_ = dev.Close()
		_ = usb.Close()
		return nil, fmt.Errorf("%s: no bulk OUT endpoint", u)
	}
	ep, err := intf.OutEndpoint(num)
	if err != nil {
		done()
		_ = dev.Close()
		_ = usb.Close()
		return nil, fmt.Errorf("%s: endpoint %d: %w", u, num, err)
	}

	return &usbPort{
		usb:     usb,
		dev:     dev,
		release: done,
		ep:      ep,
		timeout: u.WriteTimeout,
	}, nil
}

var _ domain.PortOpener = (*Opener)(nil)

// bulkOutEndpoint picks the lowest-numbered bulk OUT endpoint.
func bulkOutEndpoint(s gousb.InterfaceSetting) (int, bool) {
	var nums []int
	for _, desc := range s.Endpoints {
		if desc.Direction == gousb.EndpointDirectionOut && desc.TransferType == gousb.TransferTypeBulk {
			nums = append(nums, desc.Number)
		}
	}
	if len(nums) == 0 {
		return 0, false
	}
	sort.Ints(nums)
	return nums[0], true
}

type usbPort struct {
	usb     *gousb.Context
	dev     *gousb.Device
	release func()
	ep      *gousb.OutEndpoint
	timeout time.Duration
}

func (p *usbPort) Write(ctx context.Context, b []byte) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	n, err := p.ep.WriteContext(ctx, b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("wrote %d of %d bytes: %w", n, len(b), io.ErrShortWrite)
	}
	return nil
}

// Close releases the interface, device and libusb context in that order.
func (p *usbPort) Close() error {
	p.release()
	return errors.Join(p.dev.Close(), p.usb.Close())
}
