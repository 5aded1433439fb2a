package goulink

import "github.com/boljen/go-bitmap"

// TapState is one of the 16 states of the standard JTAG TAP state machine.
type TapState uint8

const (
	TapReset TapState = iota
	TapIdle
	TapSelectDR
	TapCaptureDR
	TapShiftDR
	TapExit1DR
	TapPauseDR
	TapExit2DR
	TapUpdateDR
	TapSelectIR
	TapCaptureIR
	TapShiftIR
	TapExit1IR
	TapPauseIR
	TapExit2IR
	TapUpdateIR

	tapStateCount
)

func (s TapState) String() string {
	switch s {
	case TapReset:
		return "RESET"
	case TapIdle:
		return "IDLE"
	case TapSelectDR:
		return "SELECT-DR"
	case TapCaptureDR:
		return "CAPTURE-DR"
	case TapShiftDR:
		return "SHIFT-DR"
	case TapExit1DR:
		return "EXIT1-DR"
	case TapPauseDR:
		return "PAUSE-DR"
	case TapExit2DR:
		return "EXIT2-DR"
	case TapUpdateDR:
		return "UPDATE-DR"
	case TapSelectIR:
		return "SELECT-IR"
	case TapCaptureIR:
		return "CAPTURE-IR"
	case TapShiftIR:
		return "SHIFT-IR"
	case TapExit1IR:
		return "EXIT1-IR"
	case TapPauseIR:
		return "PAUSE-IR"
	case TapExit2IR:
		return "EXIT2-IR"
	case TapUpdateIR:
		return "UPDATE-IR"
	default:
		return "INVALID"
	}
}

// tapTransitions[s][tms] is the state reached from s when TMS=tms is
// clocked in. This is the standard JTAG TAP graph, as data rather than
// ad-hoc computation (cf. constants.go's command-id tables).
var tapTransitions = [tapStateCount][2]TapState{
	TapReset:     {TapIdle, TapReset},
	TapIdle:      {TapIdle, TapSelectDR},
	TapSelectDR:  {TapCaptureDR, TapSelectIR},
	TapCaptureDR: {TapShiftDR, TapExit1DR},
	TapShiftDR:   {TapShiftDR, TapExit1DR},
	TapExit1DR:   {TapPauseDR, TapUpdateDR},
	TapPauseDR:   {TapPauseDR, TapExit2DR},
	TapExit2DR:   {TapShiftDR, TapUpdateDR},
	TapUpdateDR:  {TapIdle, TapSelectDR},
	TapSelectIR:  {TapCaptureIR, TapReset},
	TapCaptureIR: {TapShiftIR, TapExit1IR},
	TapShiftIR:   {TapShiftIR, TapExit1IR},
	TapExit1IR:   {TapPauseIR, TapUpdateIR},
	TapPauseIR:   {TapPauseIR, TapExit2IR},
	TapExit2IR:   {TapShiftIR, TapUpdateIR},
	TapUpdateIR:  {TapIdle, TapSelectDR},
}

// stableStates is a bitmap over TapState marking the four states a TAP can
// idle in indefinitely: RESET, IDLE, IRPAUSE, DRPAUSE.
var stableStates = func() bitmap.Bitmap {
	b := bitmap.New(int(tapStateCount))
	b.Set(int(TapReset), true)
	b.Set(int(TapIdle), true)
	b.Set(int(TapPauseDR), true)
	b.Set(int(TapPauseIR), true)
	return b
}()

// IsStableState reports whether state is one of RESET, IDLE, IRPAUSE or
// DRPAUSE.
func IsStableState(state TapState) bool {
	if state >= tapStateCount {
		return false
	}
	return stableStates.Get(int(state))
}

// tmsPath is a TMS bit sequence, LSB-first, of at most 7 bits -- the graph
// diameter of the 16-state JTAG TAP machine.
type tmsPath struct {
	count uint8
	bits  uint8
}

// pathTMSBits returns the TMS bit sequence, LSB-first, that drives the TAP
// from `from` to `to`. Computed by breadth-first search over the fixed
// transition table: the table is tiny (16 nodes, out-degree 2), so a plain
// BFS is clearer than hand-unrolling every pair and is still O(1) for all
// practical purposes.
func pathTMSBits(from, to TapState) tmsPath {
	if from == to {
		return tmsPath{}
	}

	type frame struct {
		state TapState
		path  tmsPath
	}

	visited := make([]bool, tapStateCount)
	visited[from] = true
	queue := []frame{{from, tmsPath{}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for tms := uint8(0); tms < 2; tms++ {
			next := tapTransitions[cur.state][tms]
			nextPath := tmsPath{
				count: cur.path.count + 1,
				bits:  cur.path.bits | (tms << cur.path.count),
			}

			if next == to {
				return nextPath
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, frame{next, nextPath})
			}
		}
	}

	// Unreachable for any pair drawn from this graph: every state can
	// reach every other within 7 transitions.
	return tmsPath{}
}

// pathLen returns the length of pathTMSBits(from, to); never exceeds 7.
func pathLen(from, to TapState) int {
	return int(pathTMSBits(from, to).count)
}

// tapFollower tracks the TAP's current state and the end state the caller
// currently wants, and synthesizes TMS transitions between them. It is
// mutated only by request translators and the scan translator's
// post-emission update.
type tapFollower struct {
	current TapState
	end     TapState
}

func newTapFollower() *tapFollower {
	return &tapFollower{current: TapReset, end: TapIdle}
}

// setEndState updates the desired end state. Fails with InvalidRequest if
// state is not one of the four stable states.
func (f *tapFollower) setEndState(state TapState) error {
	if !IsStableState(state) {
		return NewInvalidRequestError("end state " + state.String() + " is not stable")
	}
	f.end = state
	return nil
}

// pathToEnd returns the TMS path from the current state to the tracked end
// state, without moving the follower.
func (f *tapFollower) pathToEnd() tmsPath {
	return pathTMSBits(f.current, f.end)
}

// moveTo advances the follower's current state, recording that the TAP
// physically reached it (the caller is responsible for having actually
// emitted the corresponding TMS sequence).
func (f *tapFollower) moveTo(state TapState) {
	f.current = state
}
