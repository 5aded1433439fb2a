package goulink

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/google/gousb"
	log "github.com/sirupsen/logrus"
)

// firmwareAddr is the wIndex value accompanying every firmware-load
// vendor control transfer; the EZ-USB protocol fixes it at zero and
// carries the real destination address in wValue instead.
const firmwareAddr = 0x0000

// FirmwarePath is the default location of the OpenULINK Intel-HEX
// firmware image. The original driver resolved this at build time from
// PKGLIBDIR; a single well-known path is simpler for a standalone Go
// module. The OPENULINK_FIRMWARE environment variable, read once at
// package initialization, replaces it, as does DriverConfig.FirmwarePath.
var FirmwarePath = "/usr/local/share/openulink/ulink_firmware.hex"

func init() {
	if p := os.Getenv("OPENULINK_FIRMWARE"); p != "" {
		FirmwarePath = p
	}
}

// hexSection is one contiguous run of firmware bytes destined for a
// single base address in EZ-USB code space.
type hexSection struct {
	baseAddress uint16
	data        []byte
}

// parseIntelHex reads an Intel-HEX image and coalesces its data records
// into contiguous sections, splitting whenever a record's address is not
// immediately adjacent to the section being built or the section would
// exceed sectionBufferSize. Only record types 00 (data), 01
// (end-of-file) and 04 (extended linear address) are recognized; the
// EZ-USB firmware images this driver loads never use segmented (type
// 02/03) addressing.
func parseIntelHex(r io.Reader) ([]hexSection, error) {
	var sections []hexSection
	var upper uint32

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] != ':' {
			return nil, NewFirmwareError(fmt.Sprintf("malformed HEX line %q: missing ':'", line), nil)
		}

		raw, err := hex.DecodeString(line[1:])
		if err != nil {
			return nil, NewFirmwareError("malformed HEX line: bad hex digits", err)
		}
		if len(raw) < 5 {
			return nil, NewFirmwareError("malformed HEX line: too short", nil)
		}

		byteCount := int(raw[0])
		addr := uint16(raw[1])<<8 | uint16(raw[2])
		recType := raw[3]
		payload := raw[4 : 4+byteCount]
		checksum := raw[4+byteCount]

		var sum byte
		for _, b := range raw[:4+byteCount] {
			sum += b
		}
		if byte(-sum) != checksum {
			return nil, NewFirmwareError(fmt.Sprintf("checksum mismatch on HEX line %q", line), nil)
		}

		switch recType {
		case 0x00:
			full := upper | uint32(addr)
			sections = appendHexData(sections, uint16(full), payload)
		case 0x01:
			return sections, nil
		case 0x04:
			if len(payload) != 2 {
				return nil, NewFirmwareError("malformed extended linear address record", nil)
			}
			upper = uint32(convertToUint16(payload, bigEndian)) << 16
		default:
			// Other record types (start address, segmented addressing)
			// never appear in EZ-USB firmware images; ignore them.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, NewFirmwareError("reading HEX image", err)
	}

	return sections, nil
}

// appendHexData extends the current section if addr is contiguous with
// it and it has room left, otherwise starts a new one.
func appendHexData(sections []hexSection, addr uint16, data []byte) []hexSection {
	if len(sections) > 0 {
		last := &sections[len(sections)-1]
		end := last.baseAddress + uint16(len(last.data))
		if end == addr && len(last.data)+len(data) <= sectionBufferSize {
			last.data = append(last.data, data...)
			return sections
		}
	}
	section := hexSection{baseAddress: addr, data: append([]byte(nil), data...)}
	return append(sections, section)
}

// downloadFirmware puts the EZ-USB microcontroller into reset, writes
// every section of the OpenULINK firmware image over the vendor control
// endpoint, then resumes the microcontroller.
func downloadFirmware(dev *gousb.Device) error {
	f, err := os.Open(FirmwarePath)
	if err != nil {
		return NewFirmwareError("opening firmware image at "+FirmwarePath, err)
	}
	defer f.Close()

	sections, err := parseIntelHex(f)
	if err != nil {
		return err
	}

	if err := writeCPUCS(dev, cpuInReset); err != nil {
		return NewFirmwareError("putting EZ-USB CPU into reset", err)
	}

	for i, sec := range sections {
		log.Debugf("firmware section %d at addr 0x%04x (size 0x%04x)", i, sec.baseAddress, len(sec.data))
		if err := writeFirmwareSection(dev, sec); err != nil {
			return NewFirmwareError(fmt.Sprintf("writing firmware section %d", i), err)
		}
	}

	if err := writeCPUCS(dev, cpuRunning); err != nil {
		return NewFirmwareError("resuming EZ-USB CPU", err)
	}

	return nil
}

// writeCPUCS sets the EZ-USB CPUCS register to put the core into or out
// of reset.
func writeCPUCS(dev *gousb.Device, value byte) error {
	buf := []byte{value}
	n, err := dev.Control(gousb.ControlOut|gousb.ControlVendor|gousb.ControlDevice,
		firmwareLoadRequest, cpucsRegister, 0, buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return NewTransportError("short CPUCS control write", nil)
	}
	return nil
}

// writeFirmwareSection sends one section in chunks of at most 64 bytes,
// the limit the EZ-USB control endpoint accepts per transfer.
func writeFirmwareSection(dev *gousb.Device, sec hexSection) error {
	addr := sec.baseAddress
	remaining := sec.data

	for len(remaining) > 0 {
		chunk := remaining
		if len(chunk) > maxBurstBytes {
			chunk = chunk[:maxBurstBytes]
		}

		n, err := dev.Control(gousb.ControlOut|gousb.ControlVendor|gousb.ControlDevice,
			firmwareLoadRequest, addr, firmwareAddr, chunk)
		if err != nil {
			return err
		}
		if n != len(chunk) {
			return NewTransportError("short firmware section control write", nil)
		}

		addr += uint16(len(chunk))
		remaining = remaining[len(chunk):]
	}

	return nil
}
