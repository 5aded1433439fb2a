package goulink

import "fmt"

// Khz validates a requested TCK rate against the adapter's fixed ceiling.
// It always resolves to divider index 0 (150 kHz): ulink_khz in the
// reference driver validates khz and hard-codes jtag_speed to 0 no
// matter what value was requested, so there never was a khz-to-divider
// mapping to reproduce here, just the range check.
func Khz(khz uint32) (int, error) {
	if khz == 0 {
		return 0, NewInvalidRequestError("RCLK is not supported")
	}
	if khz > tckSpeedMap[0] {
		return 0, NewInvalidRequestError(fmt.Sprintf("ULINK maximum TCK frequency is %d kHz, got %d", tckSpeedMap[0], khz))
	}
	return 0, nil
}

// SpeedDiv resolves a divider index to its TCK rate in kHz.
func SpeedDiv(index int) (uint32, error) {
	if index < 0 || index >= len(tckSpeedMap) {
		return 0, NewInvalidRequestError(fmt.Sprintf("unsupported speed index %d", index))
	}
	return tckSpeedMap[index], nil
}

// Speed records the adapter's selected TCK divider. The reference driver
// never actually reprograms adapter timing here -- configure-tck-freq is
// declared in the wire protocol but no call site in the original source
// ever emits it, so TCK rate selection is host-side bookkeeping only.
// Validating the index is still worth doing: it's the one place a caller
// finds out an index is out of range before anything downstream silently
// assumes 150 kHz.
func (d *Driver) Speed(index int) error {
	if _, err := SpeedDiv(index); err != nil {
		return err
	}
	d.speedIndex = index
	return nil
}
