package goulink

import "time"

// fakeTransport is a bulkTransport that plays back canned inbound replies
// and records every outbound write, so the batch serialize/scatter path
// (transfer.go) and the translators above it can be exercised without
// real hardware.
type fakeTransport struct {
	writes [][]byte
	reads  [][]byte // one entry consumed per readIn call, in order

	writeErr error
	readErr  error
	shortRead int // if >0, truncate every read reply to this length
}

func (f *fakeTransport) writeOut(buf []byte, timeout time.Duration) (int, error) {
	cp := append([]byte(nil), buf...)
	f.writes = append(f.writes, cp)
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(buf), nil
}

func (f *fakeTransport) readIn(buf []byte, timeout time.Duration) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.reads) == 0 {
		return 0, nil
	}
	reply := f.reads[0]
	f.reads = f.reads[1:]

	n := copy(buf, reply)
	if f.shortRead > 0 && f.shortRead < n {
		n = f.shortRead
	}
	return n, nil
}

func newTestDriver(transport bulkTransport) *Driver {
	return &Driver{
		transport: transport,
		timeout:   time.Second,
		tap:       newTapFollower(),
		batch:     newBatch(),
	}
}
