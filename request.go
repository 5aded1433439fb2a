package goulink

// Request is an abstract JTAG operation produced by a higher-level JTAG
// engine and consumed by ExecuteQueue. The concrete types below are the
// only implementations; the interface is sealed via the unexported
// method.
type Request interface {
	isRequest()
}

// ScanKind distinguishes an instruction-register scan from a
// data-register scan.
type ScanKind int

const (
	ScanIR ScanKind = iota
	ScanDR
)

// ScanType distinguishes which direction(s) a scan moves data.
type ScanType int

const (
	// ScanTypeIn captures TDO only; no TDI bytes are sent.
	ScanTypeIn ScanType = iota
	// ScanTypeOut drives TDI only; no TDO bytes are captured.
	ScanTypeOut
	// ScanTypeIO both drives TDI and captures TDO.
	ScanTypeIO
)

// ScanRequest shifts Bits bits through the instruction or data register.
type ScanRequest struct {
	Kind     ScanKind
	Type     ScanType
	Bits     int
	TDI      []byte // caller-owned; read for ScanTypeOut/ScanTypeIO
	TDO      []byte // caller-owned, len ceil(Bits/8); filled for ScanTypeIn/ScanTypeIO
	EndState TapState
}

func (*ScanRequest) isRequest() {}

// ResetRequest drives the TAP through Test-Logic-Reset via five TMS=1
// clocks, regardless of starting state.
type ResetRequest struct{}

func (ResetRequest) isRequest() {}

// RunTestRequest clocks TCK Cycles times from Idle (entering Idle first if
// necessary) and leaves the TAP in EndState.
type RunTestRequest struct {
	Cycles   uint16
	EndState TapState
}

func (RunTestRequest) isRequest() {}

// LineResetRequest drives the TRST and SRST signal lines directly. Values
// are logical (asserted = true) and the set-signals command carries them
// in that logical form; the hardware inverts TRST and RESET at the pins.
type LineResetRequest struct {
	TRST bool
	SRST bool
}

func (LineResetRequest) isRequest() {}

// SleepRequest asks the adapter itself to delay by Microseconds before
// processing the next command in the batch. A host-side sleep would be
// wrong here: queued commands ahead of this one haven't executed yet, so
// sleeping on the host measures the wrong interval.
type SleepRequest struct {
	Microseconds uint16
}

func (SleepRequest) isRequest() {}

// PathmoveRequest asks for an arbitrary walk across TAP states. Not
// implemented: ExecuteQueue accepts it and emits no commands.
type PathmoveRequest struct {
	States []TapState
}

func (PathmoveRequest) isRequest() {}
