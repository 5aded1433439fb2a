package goulink

// batch is an ordered, bounded sequence of wire commands forming one USB
// round-trip: produced empty, commands appended in emission order,
// executed, then cleared. A growable contiguous slice is preferable here
// to a pointer-linked queue -- the upper bound is small (at most 64
// one-byte commands) and sequential scan dominates every consumer
// (serialize, scatter, post-process).
type batch struct {
	commands     []*wireCommand
	outboundUsed int
	inboundUsed  int
}

func newBatch() *batch {
	return &batch{commands: make([]*wireCommand, 0, maxBurstBytes)}
}

// wouldOverflow reports whether appending cmd would push either running
// sum past the 64-byte ceiling the adapter firmware parses per direction.
func (b *batch) wouldOverflow(cmd *wireCommand) bool {
	return b.outboundUsed+cmd.outboundLen() > maxBurstBytes ||
		b.inboundUsed+cmd.inboundLen() > maxBurstBytes
}

func (b *batch) append(cmd *wireCommand) {
	b.commands = append(b.commands, cmd)
	b.outboundUsed += cmd.outboundLen()
	b.inboundUsed += cmd.inboundLen()
}

func (b *batch) empty() bool {
	return len(b.commands) == 0
}

// clear releases the batch's commands. Outbound payloads always belong to
// the command that allocated them and go with it; inbound buffers are
// shared, so only commands flagged as the owner are meant to release
// theirs -- in Go that's simply "let the GC have it", this method exists
// to document and enforce the ordering (clear happens only after
// execute+postprocess have consumed every view).
func (b *batch) clear() {
	b.commands = b.commands[:0]
	b.outboundUsed = 0
	b.inboundUsed = 0
}
