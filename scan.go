package goulink

// scanChunk is the origin attached to the final wire command of a split
// scan; it is what the post-processor consults to finish unpacking the
// captured bits into the caller's buffer. Earlier chunks of a
// split scan carry no origin since they need no post-processing.
type scanChunk struct {
	req          *ScanRequest
	byteOffset   int
	length       int
	bitsLastByte int
}

// apply clears any garbage bits the adapter may have placed above
// bitsLastByte in the final captured byte -- the caller's buffer already
// received its bytes directly (transfer.go scatters straight into the
// ScanRequest's own TDO slice), so this is the only unpacking left to do.
func (c *scanChunk) apply() error {
	if c.bitsLastByte >= 8 || c.length == 0 {
		return nil
	}
	mask := byte(1<<uint(c.bitsLastByte)) - 1
	last := c.byteOffset + c.length - 1
	if last >= len(c.req.TDO) {
		return NewProtocolError("scan chunk result offset out of range")
	}
	c.req.TDO[last] &= mask
	return nil
}

func scanCommandID(t ScanType) commandID {
	// The "slow" command variants exist in the wire protocol but no
	// speed-selection predicate is ever exercised: this driver always
	// emits the fast variant.
	switch t {
	case ScanTypeIn:
		return cmdScanIn
	case ScanTypeOut:
		return cmdScanOut
	default:
		return cmdScanIO
	}
}

// translateScan splits an N-bit IR/DR scan into one wire command per
// up-to-58-byte chunk, entering the shift state once, pausing between
// chunks, and exiting to the requested end state on the last chunk.
func (d *Driver) translateScan(req *ScanRequest) error {
	if req.Bits <= 0 {
		return NewInvalidRequestError("zero-bit scan")
	}
	if err := d.tap.setEndState(req.EndState); err != nil {
		return err
	}

	shiftState, pauseState := TapShiftDR, TapPauseDR
	if req.Kind == ScanIR {
		shiftState, pauseState = TapShiftIR, TapPauseIR
	}

	totalBytes := (req.Bits + 7) / 8
	bitsLastByte := ((req.Bits - 1) % 8) + 1

	captures := req.Type == ScanTypeIn || req.Type == ScanTypeIO
	drives := req.Type == ScanTypeOut || req.Type == ScanTypeIO

	if captures && len(req.TDO) < totalBytes {
		return NewInvalidRequestError("TDO buffer too small for scan")
	}
	if drives && len(req.TDI) < totalBytes {
		return NewInvalidRequestError("TDI buffer too small for scan")
	}

	first := pathTMSBits(d.tap.current, shiftState)
	last := pathTMSBits(shiftState, req.EndState)
	pause := pathTMSBits(shiftState, pauseState)
	resume := pathTMSBits(pauseState, shiftState)

	offset := 0
	for offset < totalBytes {
		remaining := totalBytes - offset
		isLast := remaining <= maxScanChunkBytes
		chunkLen := remaining
		if !isLast {
			chunkLen = maxScanChunkBytes
		}

		startTMS := resume
		if offset == 0 {
			startTMS = first
		}
		endTMS := pause
		chunkBitsLastByte := 8
		if isLast {
			endTMS = last
			chunkBitsLastByte = bitsLastByte
		}

		cmd := newWireCommand(scanCommandID(req.Type))
		outLen := scanHeaderBytes
		if drives {
			outLen += chunkLen
		}
		payload, err := cmd.allocateOut(outLen)
		if err != nil {
			return err
		}
		payload[0] = byte(chunkLen)
		payload[1] = byte(chunkBitsLastByte)
		payload[2] = byte(startTMS.count<<4) | byte(endTMS.count)
		payload[3] = startTMS.bits
		payload[4] = endTMS.bits
		if drives {
			copy(payload[scanHeaderBytes:], req.TDI[offset:offset+chunkLen])
		}

		if captures {
			if err := cmd.allocateInView(req.TDO[offset : offset+chunkLen]); err != nil {
				return err
			}
			if isLast {
				cmd.needsPostprocessing = true
				cmd.inboundBufferOwner = true
				cmd.origin = &scanChunk{
					req:          req,
					byteOffset:   offset,
					length:       chunkLen,
					bitsLastByte: chunkBitsLastByte,
				}
			}
		} else if isLast {
			// scan-out carries no inbound bytes, so it owns nothing
			// to release, but it is still the batch's last word on
			// this request.
			cmd.inboundBufferOwner = true
		}

		if err := d.appendCommand(cmd); err != nil {
			return err
		}

		offset += chunkLen
	}

	d.tap.moveTo(req.EndState)
	return nil
}
