package goulink

import log "github.com/sirupsen/logrus"

// getSignals queues a get-signals command and returns the snapshot it
// will populate once the batch executes. Used during init and by
// CommsPoller; the core request translators never need adapter signal
// state.
func (d *Driver) getSignals() (*SignalSnapshot, error) {
	snapshot := &SignalSnapshot{}

	cmd := newWireCommand(cmdGetSignals)
	buf := make([]byte, 2)
	if err := cmd.allocateInView(buf); err != nil {
		return nil, err
	}
	cmd.needsPostprocessing = true
	cmd.inboundBufferOwner = true
	cmd.origin = &signalsOrigin{snapshot: snapshot}

	if err := d.appendCommand(cmd); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// logSignalStates prints the adapter's reported signal levels, inverting
// TRST/RESET back to their physical (active-low) sense for display --
// the wire protocol itself always carries them in logical form.
func logSignalStates(s *SignalSnapshot) {
	log.Infof(
		"ULINK signal states: TDI=%d TDO=%d TMS=%d TCK=%d TRST=%d SRST=%d",
		boolBit(s.Output&signalTDI != 0),
		boolBit(s.Input&signalTDO != 0),
		boolBit(s.Output&signalTMS != 0),
		boolBit(s.Output&signalTCK != 0),
		boolBit(s.Output&signalTRST == 0),
		boolBit(s.Output&signalRESET == 0),
	)
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// setLEDs queues a set-leds command. If both the "on" and "off" bit are
// set for the same LED, "off" wins -- matching the adapter firmware's own
// precedence.
func (d *Driver) setLEDs(comOn, runOn, comOff, runOff bool) error {
	var bits byte
	if comOn {
		bits |= ledComOn
	}
	if runOn {
		bits |= ledRunOn
	}
	if comOff {
		bits |= ledComOff
	}
	if runOff {
		bits |= ledRunOff
	}
	if bits&ledComOn != 0 && bits&ledComOff != 0 {
		bits &^= ledComOn
	}
	if bits&ledRunOn != 0 && bits&ledRunOff != 0 {
		bits &^= ledRunOn
	}

	cmd := newWireCommand(cmdSetLEDs)
	payload, err := cmd.allocateOut(1)
	if err != nil {
		return err
	}
	payload[0] = bits
	cmd.inboundBufferOwner = true
	return d.appendCommand(cmd)
}
