package goulink

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// selfTest issues a single test command with a short 200 ms timeout. If
// the round trip fails, the adapter may be left holding a
// Bulk IN packet from a previous, abruptly terminated session -- a bare
// read attempt drains it so the adapter isn't stuck waiting forever for
// a host that will never come back for it.
func (d *Driver) selfTest() error {
	cmd := newWireCommand(cmdTest)
	payload, err := cmd.allocateOut(1)
	if err != nil {
		return err
	}
	payload[0] = testCommandPayload
	cmd.inboundBufferOwner = true

	d.batch.append(cmd)

	saved := d.timeout
	d.timeout = initTransferTimeoutMs * time.Millisecond
	err = d.executeBatch(d.batch)
	d.timeout = saved
	d.batch.clear()

	if err != nil {
		log.Warn("test command failed, attempting to drain a stranded bulk IN packet")

		dummy := make([]byte, maxBurstBytes)
		if _, drainErr := d.transport.readIn(dummy, initTransferTimeoutMs*time.Millisecond); drainErr != nil {
			return NewTransportError("cannot communicate with ULINK adapter; disconnect and reconnect it", drainErr)
		}
		log.Info("recovered from a stranded bulk IN packet")
	}

	return nil
}
