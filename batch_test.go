package goulink

import "testing"

func TestBatchAppendTracksUsage(t *testing.T) {
	b := newBatch()
	if !b.empty() {
		t.Fatal("new batch is not empty")
	}

	cmd := newWireCommand(cmdTest)
	if _, err := cmd.allocateOut(1); err != nil {
		t.Fatal(err)
	}
	b.append(cmd)

	if b.empty() {
		t.Fatal("batch is empty after append")
	}
	if b.outboundUsed != 2 {
		t.Fatalf("outboundUsed = %d, want 2", b.outboundUsed)
	}
	if b.inboundUsed != 0 {
		t.Fatalf("inboundUsed = %d, want 0", b.inboundUsed)
	}
}

func TestBatchWouldOverflow(t *testing.T) {
	b := newBatch()

	big := newWireCommand(cmdScanOut)
	if _, err := big.allocateOut(maxBurstBytes); err != nil {
		t.Fatal(err)
	}
	if !b.wouldOverflow(big) {
		t.Fatal("wouldOverflow(65-byte command on empty batch) = false, want true")
	}

	small := newWireCommand(cmdSleepUs)
	if _, err := small.allocateOut(2); err != nil {
		t.Fatal(err)
	}
	if b.wouldOverflow(small) {
		t.Fatal("wouldOverflow(3-byte command on empty batch) = true, want false")
	}
	b.append(small)

	again := newWireCommand(cmdSleepUs)
	if _, err := again.allocateOut(maxBurstBytes - 3); err != nil {
		t.Fatal(err)
	}
	if !b.wouldOverflow(again) {
		t.Fatal("wouldOverflow should report true once outbound sum would exceed 64")
	}
}

func TestBatchClearResetsState(t *testing.T) {
	b := newBatch()
	cmd := newWireCommand(cmdTest)
	cmd.allocateOut(1)
	b.append(cmd)

	b.clear()
	if !b.empty() || b.outboundUsed != 0 || b.inboundUsed != 0 {
		t.Fatalf("batch not reset after clear: empty=%v out=%d in=%d", b.empty(), b.outboundUsed, b.inboundUsed)
	}
}

func TestWireCommandDuplicateAllocation(t *testing.T) {
	cmd := newWireCommand(cmdScanIn)
	if _, err := cmd.allocateOut(1); err != nil {
		t.Fatal(err)
	}
	if _, err := cmd.allocateOut(1); err == nil || !IsKind(err, KindProtocol) {
		t.Fatalf("second allocateOut: err = %v, want KindProtocol error", err)
	}

	if err := cmd.allocateInView(make([]byte, 1)); err != nil {
		t.Fatal(err)
	}
	if err := cmd.allocateInView(make([]byte, 1)); err == nil || !IsKind(err, KindProtocol) {
		t.Fatalf("second allocateInView: err = %v, want KindProtocol error", err)
	}
}
