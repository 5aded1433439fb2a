package goulink

// postProcess walks an executed batch in order and distributes captured
// bits into the caller-supplied buffers of the requests that produced
// each command. It dispatches on the wire command's origin, which the
// translators set when they emit it.
func (d *Driver) postProcess(b *batch) error {
	for _, cmd := range b.commands {
		if !cmd.needsPostprocessing {
			continue
		}

		switch origin := cmd.origin.(type) {
		case *scanChunk:
			if err := origin.apply(); err != nil {
				return err
			}
		case *signalsOrigin:
			if len(cmd.payloadInView) < 2 {
				return NewProtocolError("get-signals reply shorter than 2 bytes")
			}
			origin.snapshot.Input = cmd.payloadInView[0]
			origin.snapshot.Output = cmd.payloadInView[1]
		default:
			// scan-out chunks, and any other command without a
			// registered origin, need no post-processing.
		}
	}
	return nil
}

// signalsOrigin is the origin attached to a get-signals command (issued
// during init or by CommsPoller); the post-processor fills in its
// snapshot in place.
type signalsOrigin struct {
	snapshot *SignalSnapshot
}

// SignalSnapshot captures the adapter's get-signals reply.
type SignalSnapshot struct {
	Input  byte
	Output byte
}
