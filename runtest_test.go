package goulink

import "testing"

func TestTranslateRunTestFromIdle(t *testing.T) {
	d := newTestDriver(&fakeTransport{})
	d.tap.moveTo(TapIdle)

	if err := d.translateRunTest(RunTestRequest{Cycles: 0x0102, EndState: TapIdle}); err != nil {
		t.Fatal(err)
	}

	if len(d.batch.commands) != 1 {
		t.Fatalf("got %d commands, want 1 (no TMS moves needed)", len(d.batch.commands))
	}
	cmd := d.batch.commands[0]
	if cmd.id != cmdClockTCK {
		t.Errorf("id = %s, want clock-tck", cmd.id)
	}
	if cmd.payloadOut[0] != 0x02 || cmd.payloadOut[1] != 0x01 {
		t.Errorf("cycles payload = %v, want little-endian [0x02 0x01]", cmd.payloadOut)
	}
}

func TestTranslateRunTestMovesToIdleFirst(t *testing.T) {
	d := newTestDriver(&fakeTransport{})
	d.tap.moveTo(TapShiftDR)

	if err := d.translateRunTest(RunTestRequest{Cycles: 10, EndState: TapIdle}); err != nil {
		t.Fatal(err)
	}

	// One TMS move into Idle, then the clock-tck command.
	if len(d.batch.commands) != 2 {
		t.Fatalf("got %d commands, want 2", len(d.batch.commands))
	}
	if d.batch.commands[0].id != cmdClockTMS {
		t.Errorf("first command id = %s, want clock-tms", d.batch.commands[0].id)
	}
	if d.batch.commands[1].id != cmdClockTCK {
		t.Errorf("second command id = %s, want clock-tck", d.batch.commands[1].id)
	}
	if d.tap.current != TapIdle {
		t.Errorf("follower current = %s, want IDLE", d.tap.current)
	}
}

func TestTranslateRunTestExitsToNonIdleEndState(t *testing.T) {
	d := newTestDriver(&fakeTransport{})
	d.tap.moveTo(TapIdle)

	if err := d.translateRunTest(RunTestRequest{Cycles: 1, EndState: TapPauseDR}); err != nil {
		t.Fatal(err)
	}

	// clock-tck, then a TMS move out to PauseDR.
	if len(d.batch.commands) != 2 {
		t.Fatalf("got %d commands, want 2", len(d.batch.commands))
	}
	if d.batch.commands[1].id != cmdClockTMS {
		t.Errorf("second command id = %s, want clock-tms", d.batch.commands[1].id)
	}
	if d.tap.current != TapPauseDR {
		t.Errorf("follower current = %s, want PAUSE-DR", d.tap.current)
	}
}
