package goulink

// tlrSequence is the fixed 5-bit TMS=1 sequence that reaches
// Test-Logic-Reset from any TAP state.
const (
	tlrTMSCount = 5
	tlrTMSBits  = 0xFF
)

// translateTLRReset emits one clock-tms(5, 0xFF) command and sets the
// follower to RESET, regardless of its current state.
func (d *Driver) translateTLRReset() error {
	cmd := newWireCommand(cmdClockTMS)
	payload, err := cmd.allocateOut(2)
	if err != nil {
		return err
	}
	payload[0] = tlrTMSCount
	payload[1] = tlrTMSBits
	cmd.inboundBufferOwner = true

	if err := d.appendCommand(cmd); err != nil {
		return err
	}

	d.tap.moveTo(TapReset)
	return nil
}

// translateLineReset emits a single set-signals command driving the TRST
// and SRST lines. The mask bits are written in their
// logical (non-inverted) form; hardware inversion happens at the
// signal-display layer, not here.
func (d *Driver) translateLineReset(req LineResetRequest) error {
	var low, high byte

	if req.TRST {
		high |= signalTRST
	} else {
		low |= signalTRST
	}

	if req.SRST {
		high |= signalRESET
	} else {
		low |= signalRESET
	}

	cmd := newWireCommand(cmdSetSignals)
	payload, err := cmd.allocateOut(2)
	if err != nil {
		return err
	}
	payload[0] = low
	payload[1] = high
	cmd.inboundBufferOwner = true

	if err := d.appendCommand(cmd); err != nil {
		return err
	}

	if req.TRST {
		d.tap.moveTo(TapReset)
	}
	return nil
}
