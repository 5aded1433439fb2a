// based on the channel-poll/callback shape of rtt.go

package goulink

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// SignalChangeCb is invoked once per poll for every signal bit whose
// asserted state flipped since the previous poll, in ascending bit-index
// order -- the same "sorted, then dispatch per entry" shape
// ReadRttChannels uses for its channel buffers, applied here to signal
// bits instead of RAM-resident ring buffers.
type SignalChangeCb func(bit byte, asserted bool)

// CommsPoller periodically reads the adapter's signal state between
// batches and reports bit transitions. Each poll queues a get-signals
// command on the Driver's pending batch (Driver.getSignals) and flushes
// it (Driver.flush); nothing serializes these calls against ExecuteQueue
// on the same Driver.
type CommsPoller struct {
	driver   *Driver
	interval time.Duration
	callback SignalChangeCb

	mu       sync.Mutex
	previous byte
	haveRead bool

	running int32
	stop    chan struct{}
	done    chan struct{}
}

// NewCommsPoller builds a poller that samples d's output signals every
// interval and reports transitions to cb. Start must be called
// separately; building a CommsPoller never spawns a goroutine on its
// own. The core request pipeline never spawns goroutines either; this
// poller is the one caller-started exception.
func NewCommsPoller(d *Driver, interval time.Duration, cb SignalChangeCb) *CommsPoller {
	return &CommsPoller{
		driver:   d,
		interval: interval,
		callback: cb,
	}
}

// Start launches the polling goroutine. Calling Start twice without an
// intervening Stop is a no-op.
func (p *CommsPoller) Start() {
	if !atomic.CompareAndSwapInt32(&p.running, 0, 1) {
		return
	}
	p.stop = make(chan struct{})
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				if err := p.poll(); err != nil {
					log.Warnf("comms poller: %v", err)
				}
			}
		}
	}()
}

// Stop signals the polling goroutine to exit and waits for it to finish.
func (p *CommsPoller) Stop() {
	if !atomic.CompareAndSwapInt32(&p.running, 1, 0) {
		return
	}
	close(p.stop)
	<-p.done
}

func (p *CommsPoller) poll() error {
	snapshot, err := p.driver.getSignals()
	if err != nil {
		return err
	}
	if err := p.driver.flush(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.haveRead {
		p.previous = snapshot.Output
		p.haveRead = true
		return nil
	}

	changed := p.previous ^ snapshot.Output
	if changed == 0 {
		return nil
	}

	var bits []byte
	for bit := byte(0); bit < 8; bit++ {
		mask := byte(1) << bit
		if changed&mask != 0 {
			bits = append(bits, mask)
		}
	}
	sort.Slice(bits, func(i, j int) bool { return bits[i] < bits[j] })

	for _, mask := range bits {
		p.callback(mask, snapshot.Output&mask != 0)
	}
	p.previous = snapshot.Output

	return nil
}
