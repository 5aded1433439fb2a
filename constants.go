package goulink

// USB identity of the adapter, in both its bare (no firmware loaded) and
// OpenULINK-firmware states -- the device never changes VID/PID across
// firmware download, only its string descriptors and endpoint behavior.
const (
	usbVendorID  = 0xC251
	usbProductID = 0x2710
)

const usbInterfaceNumber = 0

// Bulk endpoint number 2 carries the entire wire command language in both
// directions: its OUT endpoint takes commands, its IN endpoint returns
// captured bytes.
const bulkEndpointAddress = 2

// Vendor control transfers (firmware download) go over EP0.
const (
	firmwareLoadRequest = 0xA0
	cpucsRegister       = 0x7F92
	cpuInReset          = 0x01
	cpuRunning          = 0x00
)

const (
	// maxBurstBytes is the hard per-direction ceiling on a single bulk
	// packet that the adapter firmware parses at a time.
	maxBurstBytes = 64
	// scanHeaderBytes is the fixed 5-byte header prefixing every scan
	// command's payload: bytes, bits_last_byte, tms-count pair, two TMS
	// sequence bytes.
	scanHeaderBytes = 5
	// maxScanChunkBytes is the largest TDI/TDO payload a single scan
	// wire command can carry: 64 - 1 (id) - 5 (header).
	maxScanChunkBytes = maxBurstBytes - 1 - scanHeaderBytes

	// sectionBufferSize bounds a single Intel-HEX firmware section; the
	// EZ-USB code space is 8 KiB.
	sectionBufferSize = 8192

	renumerationDelayMicros = 1500000
)

// Default and init-specific USB transfer timeouts (ms).
const (
	defaultTransferTimeoutMs = 5000
	initTransferTimeoutMs    = 200
)

// commandID is the single byte that opens every wire command.
type commandID uint8

const (
	cmdScanIn      commandID = 0x00
	cmdSlowScanIn  commandID = 0x01
	cmdScanOut     commandID = 0x02
	cmdSlowScanOut commandID = 0x03
	cmdScanIO      commandID = 0x04
	cmdSlowScanIO  commandID = 0x05

	cmdClockTMS     commandID = 0x06
	cmdSlowClockTMS commandID = 0x07
	cmdClockTCK     commandID = 0x08

	cmdSleepUs commandID = 0x09
	cmdSleepMs commandID = 0x0a

	cmdGetSignals      commandID = 0x0b
	cmdSetSignals       commandID = 0x0c
	cmdConfigureTCKFreq commandID = 0x0d
	cmdSetLEDs          commandID = 0x0e
	cmdTest             commandID = 0x0f
)

func (id commandID) String() string {
	switch id {
	case cmdScanIn:
		return "scan-in"
	case cmdSlowScanIn:
		return "slow-scan-in"
	case cmdScanOut:
		return "scan-out"
	case cmdSlowScanOut:
		return "slow-scan-out"
	case cmdScanIO:
		return "scan-io"
	case cmdSlowScanIO:
		return "slow-scan-io"
	case cmdClockTMS:
		return "clock-tms"
	case cmdSlowClockTMS:
		return "slow-clock-tms"
	case cmdClockTCK:
		return "clock-tck"
	case cmdSleepUs:
		return "sleep-us"
	case cmdSleepMs:
		return "sleep-ms"
	case cmdGetSignals:
		return "get-signals"
	case cmdSetSignals:
		return "set-signals"
	case cmdConfigureTCKFreq:
		return "configure-tck-freq"
	case cmdSetLEDs:
		return "set-leds"
	case cmdTest:
		return "test"
	default:
		return "unknown"
	}
}

// Signal bits used by get-signals / set-signals. TRST and RESET are
// inverted by the hardware at the physical pin, but this command speaks
// the logical (non-inverted) form: asserted = bit set.
const (
	signalTDI   = 0x01
	signalTDO   = 0x02
	signalTMS   = 0x04
	signalTCK   = 0x08
	signalTRST  = 0x10
	signalRESET = 0x20
	signalBRKIN = 0x40
	signalOCDSE = 0x80
)

// LED bitfield for set-leds. If both the "on" and "off" bit for the same
// LED are set, "off" wins.
const (
	ledComOn  = 0x01
	ledRunOn  = 0x02
	ledComOff = 0x04
	ledRunOff = 0x08
)

const testCommandPayload = 0xAA

// tckSpeedMap is the ULINK's entire speed table: only two dividers are
// ever selected by firmware, per spec REDESIGN note (c). Indices beyond
// this table are a hard error rather than silently leaving khz unset.
var tckSpeedMap = []uint32{150, 100}
