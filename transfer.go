package goulink

import (
	"time"

	"github.com/google/gousb"
	log "github.com/sirupsen/logrus"
)

// bulkTransport is the synchronous USB exchange a Driver performs against
// bulk endpoint 2. It is an interface so tests can exercise the batch
// serialize/scatter logic without real hardware.
type bulkTransport interface {
	writeOut(buf []byte, timeout time.Duration) (int, error)
	readIn(buf []byte, timeout time.Duration) (int, error)
}

// gousbBulkTransport is the production transport, backed by a claimed
// interface's single IN/OUT bulk endpoint pair at bulkEndpointAddress.
type gousbBulkTransport struct {
	out *gousb.OutEndpoint
	in  *gousb.InEndpoint
}

func newGousbBulkTransport(iface *gousb.Interface) (*gousbBulkTransport, error) {
	out, err := iface.OutEndpoint(bulkEndpointAddress)
	if err != nil {
		return nil, NewTransportError("opening bulk OUT endpoint", err)
	}
	in, err := iface.InEndpoint(bulkEndpointAddress)
	if err != nil {
		return nil, NewTransportError("opening bulk IN endpoint", err)
	}
	return &gousbBulkTransport{out: out, in: in}, nil
}

func (t *gousbBulkTransport) writeOut(buf []byte, timeout time.Duration) (int, error) {
	return bulkWriteTimeout(t.out, buf, timeout)
}

func (t *gousbBulkTransport) readIn(buf []byte, timeout time.Duration) (int, error) {
	return bulkReadTimeout(t.in, buf, timeout)
}

// executeBatch performs the synchronous USB exchange for one batch:
// serialize every command's [id, payload...] back to back into a
// single outbound buffer, write it, and -- iff any command expects
// inbound bytes -- read exactly that many bytes back and scatter them
// across the commands in original order.
func (d *Driver) executeBatch(b *batch) error {
	out := make([]byte, 0, maxBurstBytes)
	countIn := 0

	for _, cmd := range b.commands {
		out = append(out, byte(cmd.id))
		out = append(out, cmd.payloadOut...)
		countIn += cmd.inboundLen()
	}

	if len(out) > maxBurstBytes {
		return NewProtocolError("serialized batch exceeds 64 bytes")
	}

	log.Tracef("bulk OUT %d bytes (%d commands)", len(out), len(b.commands))
	n, err := d.transport.writeOut(out, d.timeout)
	if err != nil {
		return NewTransportError("bulk OUT write", err)
	}
	if n != len(out) {
		return NewProtocolError("short bulk OUT write")
	}

	if countIn == 0 {
		return nil
	}

	in := make([]byte, maxBurstBytes)
	log.Tracef("bulk IN %d bytes expected", countIn)
	n, err = d.transport.readIn(in[:countIn], d.timeout)
	if err != nil {
		return NewTransportError("bulk IN read", err)
	}
	if n != countIn {
		return NewProtocolError("short bulk IN read")
	}

	offset := 0
	for _, cmd := range b.commands {
		want := cmd.inboundLen()
		if want == 0 {
			continue
		}
		copy(cmd.payloadInView, in[offset:offset+want])
		offset += want
	}

	return nil
}
