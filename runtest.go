package goulink

// translateRunTest moves to Idle if not already there, clocks TCK
// Cycles times, then moves to EndState if it differs from Idle.
func (d *Driver) translateRunTest(req RunTestRequest) error {
	if err := d.tap.setEndState(TapIdle); err != nil {
		return err
	}

	if d.tap.current != TapIdle {
		if err := d.emitTMSPath(pathTMSBits(d.tap.current, TapIdle)); err != nil {
			return err
		}
		d.tap.moveTo(TapIdle)
	}

	cmd := newWireCommand(cmdClockTCK)
	payload, err := cmd.allocateOut(2)
	if err != nil {
		return err
	}
	payload[0] = byte(req.Cycles)
	payload[1] = byte(req.Cycles >> 8)
	cmd.inboundBufferOwner = true
	if err := d.appendCommand(cmd); err != nil {
		return err
	}

	if req.EndState != TapIdle {
		if err := d.tap.setEndState(req.EndState); err != nil {
			return err
		}
		if err := d.emitTMSPath(pathTMSBits(TapIdle, req.EndState)); err != nil {
			return err
		}
		d.tap.moveTo(req.EndState)
	}

	return nil
}

// emitTMSPath emits a single clock-tms command for a precomputed TMS
// path. A zero-length path (already at the destination) emits nothing.
func (d *Driver) emitTMSPath(path tmsPath) error {
	if path.count == 0 {
		return nil
	}
	cmd := newWireCommand(cmdClockTMS)
	payload, err := cmd.allocateOut(2)
	if err != nil {
		return err
	}
	payload[0] = path.count
	payload[1] = path.bits
	cmd.inboundBufferOwner = true
	return d.appendCommand(cmd)
}
