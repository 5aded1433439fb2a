package goulink

// translatePathmove is unimplemented: it accepts the request and emits
// no commands. A correct implementation would walk arbitrary
// neighbouring TAP states, emitting a TMS sequence of at most 7 bits
// per hop while respecting the 64-byte batch cap -- left undone since
// the upstream JTAG engines this driver targets route around it.
func (d *Driver) translatePathmove(req PathmoveRequest) error {
	return nil
}
