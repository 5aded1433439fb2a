package goulink

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTranslateScanSingleChunk(t *testing.T) {
	d := newTestDriver(&fakeTransport{})

	tdi := []byte{0xAB, 0xCD}
	tdo := make([]byte, 2)
	req := &ScanRequest{
		Kind:     ScanDR,
		Type:     ScanTypeIO,
		Bits:     12,
		TDI:      tdi,
		TDO:      tdo,
		EndState: TapIdle,
	}

	if err := d.translateScan(req); err != nil {
		t.Fatalf("translateScan: %v", err)
	}

	if len(d.batch.commands) != 1 {
		t.Fatalf("got %d commands, want 1", len(d.batch.commands))
	}

	cmd := d.batch.commands[0]
	if cmd.id != cmdScanIO {
		t.Errorf("command id = %s, want scan-io", cmd.id)
	}
	if !cmd.needsPostprocessing || !cmd.inboundBufferOwner {
		t.Error("single-chunk scan's only command must carry post-processing and ownership")
	}

	wantHeader := []byte{2, 4} // 2 bytes, 4 bits in the last byte
	if diff := cmp.Diff(wantHeader, cmd.payloadOut[:2]); diff != "" {
		t.Errorf("scan header bytes[0:2] mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(tdi, cmd.payloadOut[scanHeaderBytes:]); diff != "" {
		t.Errorf("TDI payload mismatch (-want +got):\n%s", diff)
	}

	if d.tap.current != TapIdle {
		t.Errorf("follower ended at %s, want IDLE", d.tap.current)
	}
}

func TestTranslateScanSplitsOversizedScan(t *testing.T) {
	d := newTestDriver(&fakeTransport{})

	totalBytes := maxScanChunkBytes + 10
	tdo := make([]byte, totalBytes)
	req := &ScanRequest{
		Kind:     ScanDR,
		Type:     ScanTypeIn,
		Bits:     totalBytes * 8,
		TDO:      tdo,
		EndState: TapIdle,
	}

	if err := d.translateScan(req); err != nil {
		t.Fatalf("translateScan: %v", err)
	}

	if len(d.batch.commands) != 2 {
		t.Fatalf("got %d commands, want 2", len(d.batch.commands))
	}

	first, last := d.batch.commands[0], d.batch.commands[1]
	if first.needsPostprocessing {
		t.Error("first (non-final) chunk must not need post-processing")
	}
	if !last.needsPostprocessing || !last.inboundBufferOwner {
		t.Error("final chunk must carry post-processing and ownership")
	}

	if len(first.payloadInView) != maxScanChunkBytes {
		t.Errorf("first chunk inbound len = %d, want %d", len(first.payloadInView), maxScanChunkBytes)
	}
	if len(last.payloadInView) != 10 {
		t.Errorf("last chunk inbound len = %d, want 10", len(last.payloadInView))
	}

	// The two chunks' inbound views must alias disjoint, contiguous
	// ranges of the caller's TDO buffer, in order.
	if &first.payloadInView[0] != &tdo[0] {
		t.Error("first chunk does not alias the start of the caller's TDO buffer")
	}
	if &last.payloadInView[0] != &tdo[maxScanChunkBytes] {
		t.Error("last chunk does not alias tdo[maxScanChunkBytes]")
	}
}

func TestTranslateScanRejectsZeroBits(t *testing.T) {
	d := newTestDriver(&fakeTransport{})
	req := &ScanRequest{Bits: 0, EndState: TapIdle}
	err := d.translateScan(req)
	if err == nil || !IsKind(err, KindInvalidRequest) {
		t.Fatalf("translateScan(0 bits): err = %v, want KindInvalidRequest", err)
	}
}

func TestScanChunkApplyMasksTrailingBits(t *testing.T) {
	req := &ScanRequest{TDO: []byte{0xFF}}
	chunk := &scanChunk{req: req, byteOffset: 0, length: 1, bitsLastByte: 3}

	if err := chunk.apply(); err != nil {
		t.Fatal(err)
	}
	if req.TDO[0] != 0x07 {
		t.Errorf("masked byte = %#02x, want 0x07", req.TDO[0])
	}
}
