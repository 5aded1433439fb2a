package goulink

import (
	"time"

	"github.com/google/gousb"
	log "github.com/sirupsen/logrus"
)

// Driver is the host-side handle to one OpenULINK adapter: a USB handle,
// a transport, a pending command batch, and the TAP follower tracking
// what state the physical TAP is believed to be in. None of its methods
// are safe for concurrent use -- a Driver belongs to exactly one JTAG
// engine goroutine at a time.
type Driver struct {
	usbDevice *gousb.Device
	usbConfig *gousb.Config
	usbIface  *gousb.Interface

	transport bulkTransport
	timeout   time.Duration

	tap   *tapFollower
	batch *batch

	speedIndex int
}

// DriverConfig holds the per-instance settings Open needs: the adapter's
// USB identity, its default transfer timeout, and the firmware image to
// load if it isn't already running OpenULINK firmware. Each Driver
// carries its own config, rather than a single process-wide adapter
// handle, so a process can in principle talk to more than one adapter.
type DriverConfig struct {
	VendorID  uint16
	ProductID uint16

	// Timeout bounds every bulk transfer after init; zero selects the
	// spec default of 5 s.
	Timeout time.Duration

	// FirmwarePath, when non-empty, is assigned to the package-level
	// FirmwarePath by OpenWithConfig, so it also applies to every later
	// Open or OpenWithConfig call in the process.
	FirmwarePath string
}

// NewDriverConfig returns a DriverConfig pre-filled with the adapter's
// known VID/PID and the default transfer timeout; callers override
// individual fields as needed.
func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		VendorID:  usbVendorID,
		ProductID: usbProductID,
		Timeout:   defaultTransferTimeoutMs * time.Millisecond,
	}
}

// Open discovers, claims and (if necessary) flashes the adapter using
// the default configuration, and returns a ready-to-use Driver.
func Open() (*Driver, error) {
	return OpenWithConfig(NewDriverConfig())
}

// OpenWithConfig is Open with an explicit DriverConfig, for callers
// talking to a non-default VID/PID or a firmware image outside
// FirmwarePath.
func OpenWithConfig(cfg *DriverConfig) (*Driver, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTransferTimeoutMs * time.Millisecond
	}
	if cfg.FirmwarePath != "" {
		FirmwarePath = cfg.FirmwarePath
	}

	vid, pid := gousb.ID(cfg.VendorID), gousb.ID(cfg.ProductID)

	dev, usbCfg, iface, err := openAdapter(vid, pid)
	if err != nil {
		return nil, err
	}

	if !hasOpenULINKFirmware(dev) {
		log.Info("ULINK adapter has no firmware loaded, downloading OpenULINK image")
		if err := downloadFirmware(dev); err != nil {
			closeAdapter(dev, usbCfg, iface)
			return nil, err
		}

		time.Sleep(renumerationDelayMicros * time.Microsecond)

		closeAdapter(dev, usbCfg, iface)
		dev, usbCfg, iface, err = openAdapter(vid, pid)
		if err != nil {
			return nil, NewFirmwareError("re-opening adapter after firmware download", err)
		}
	}

	transport, err := newGousbBulkTransport(iface)
	if err != nil {
		closeAdapter(dev, usbCfg, iface)
		return nil, err
	}

	d := &Driver{
		usbDevice: dev,
		usbConfig: usbCfg,
		usbIface:  iface,
		transport: transport,
		timeout:   cfg.Timeout,
		tap:       newTapFollower(),
		batch:     newBatch(),
	}

	if err := d.selfTest(); err != nil {
		d.Close()
		return nil, err
	}

	snapshot, err := d.getSignals()
	if err != nil {
		d.Close()
		return nil, err
	}
	if err := d.flush(); err != nil {
		d.Close()
		return nil, err
	}
	logSignalStates(snapshot)

	return d, nil
}

// Close releases the USB interface and configuration. Safe to call on a
// Driver that failed partway through Open.
func (d *Driver) Close() {
	closeAdapter(d.usbDevice, d.usbConfig, d.usbIface)
}

// appendCommand adds cmd to the pending batch, flushing first if cmd
// would overflow either direction's 64-byte ceiling.
func (d *Driver) appendCommand(cmd *wireCommand) error {
	if d.batch.wouldOverflow(cmd) {
		if err := d.flush(); err != nil {
			return err
		}
	}
	d.batch.append(cmd)
	return nil
}

// flush executes and post-processes the pending batch, then clears it.
// A no-op on an empty batch.
func (d *Driver) flush() error {
	if d.batch.empty() {
		return nil
	}
	if err := d.executeBatch(d.batch); err != nil {
		return err
	}
	if err := d.postProcess(d.batch); err != nil {
		return err
	}
	d.batch.clear()
	return nil
}

// ExecuteQueue translates and queues every request in order, batching
// wire commands up to the 64-byte ceiling, and flushes whatever remains
// once the whole queue has been translated.
func (d *Driver) ExecuteQueue(requests []Request) error {
	for _, req := range requests {
		var err error
		switch r := req.(type) {
		case *ScanRequest:
			err = d.translateScan(r)
		case ResetRequest:
			err = d.translateTLRReset()
		case RunTestRequest:
			err = d.translateRunTest(r)
		case LineResetRequest:
			err = d.translateLineReset(r)
		case SleepRequest:
			err = d.translateSleep(r)
		case PathmoveRequest:
			err = d.translatePathmove(r)
		default:
			err = NewProtocolError("unknown request type")
		}
		if err != nil {
			return err
		}
	}
	return d.flush()
}
