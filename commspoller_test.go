package goulink

import (
	"sync"
	"testing"
	"time"
)

func TestCommsPollerReportsTransitions(t *testing.T) {
	ft := &fakeTransport{reads: [][]byte{
		{0x00, 0x00},
		{0x00, signalTCK},
		{0x00, signalTCK | signalTMS},
	}}
	d := newTestDriver(ft)

	var mu sync.Mutex
	var events []byte
	poller := NewCommsPoller(d, 2*time.Millisecond, func(bit byte, asserted bool) {
		mu.Lock()
		defer mu.Unlock()
		if asserted {
			events = append(events, bit)
		}
	})

	poller.Start()
	time.Sleep(30 * time.Millisecond)
	poller.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(events) == 0 {
		t.Fatal("expected at least one transition to be reported")
	}
}

func TestCommsPollerStartIsIdempotent(t *testing.T) {
	d := newTestDriver(&fakeTransport{reads: [][]byte{{0, 0}}})
	poller := NewCommsPoller(d, time.Hour, func(byte, bool) {})
	poller.Start()
	poller.Start()
	poller.Stop()
}
