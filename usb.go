package goulink

import (
	"context"
	"time"

	"github.com/google/gousb"
	log "github.com/sirupsen/logrus"
)

// usbContext wraps the process-wide libusb context. Opening/closing it is
// outside the command pipeline's core translate/batch/transfer loop, but
// a driver instance still needs one to find and claim its device.
var usbContext *gousb.Context

func ensureUSBContext() *gousb.Context {
	if usbContext == nil {
		usbContext = gousb.NewContext()
	}
	return usbContext
}

// openAdapter finds and claims the single OpenULINK-compatible device
// matching vid/pid, claiming usbInterfaceNumber. It never selects among
// several matches -- the deployment model is one engine, one adapter.
func openAdapter(vid, pid gousb.ID) (*gousb.Device, *gousb.Config, *gousb.Interface, error) {
	ctx := ensureUSBContext()

	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == vid && desc.Product == pid
	})
	if err != nil {
		return nil, nil, nil, NewTransportError("scanning usb devices", err)
	}
	if len(devices) == 0 {
		return nil, nil, nil, NewTransportError("no ULINK adapter found", nil)
	}
	for _, extra := range devices[1:] {
		extra.Close()
	}
	dev := devices[0]

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		return nil, nil, nil, NewTransportError("selecting usb configuration 1", err)
	}

	iface, err := cfg.Interface(usbInterfaceNumber, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		return nil, nil, nil, NewTransportError("claiming usb interface 0", err)
	}

	log.Debugf("opened ULINK adapter [%04x:%04x]", uint16(vid), uint16(pid))
	return dev, cfg, iface, nil
}

func closeAdapter(dev *gousb.Device, cfg *gousb.Config, iface *gousb.Interface) {
	if iface != nil {
		iface.Close()
	}
	if cfg != nil {
		cfg.Close()
	}
	if dev != nil {
		dev.Close()
	}
}

// hasOpenULINKFirmware reads USB string descriptor 1 and reports whether
// it names the OpenULINK firmware, as opposed to the unconfigured
// bare-silicon state the adapter is in before its first firmware load.
func hasOpenULINKFirmware(dev *gousb.Device) bool {
	desc, err := dev.GetStringDescriptor(1)
	if err != nil {
		return false
	}
	return len(desc) >= len("OpenULINK") && desc[:len("OpenULINK")] == "OpenULINK"
}

// bulkWriteTimeout issues a bulk OUT write bounded by timeout, since gousb
// endpoints block on Write/Read with no per-call deadline of their own.
func bulkWriteTimeout(ep *gousb.OutEndpoint, buf []byte, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := ep.Write(buf)
		done <- result{n, err}
	}()

	select {
	case r := <-done:
		return r.n, r.err
	case <-ctx.Done():
		return 0, NewTransportError("bulk OUT write timed out", ctx.Err())
	}
}

// bulkReadTimeout issues a bulk IN read bounded by timeout.
func bulkReadTimeout(ep *gousb.InEndpoint, buf []byte, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := ep.Read(buf)
		done <- result{n, err}
	}()

	select {
	case r := <-done:
		return r.n, r.err
	case <-ctx.Done():
		return 0, NewTransportError("bulk IN read timed out", ctx.Err())
	}
}
