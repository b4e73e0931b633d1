package wlp

const (
	opCodeOutputGeometry    = 0
	opCodeOutputMode        = 1
	opCodeOutputDone        = 2
	opCodeOutputScale       = 3
	opCodeOutputName        = 4
	opCodeOutputDescription = 5
)

const (
	opCodeOutputRelease = 0
)

// OutputHandler receives wl_output events. The compositor sends the full
// set of properties after binding and again on changes, terminated by
// Done. Name and Description require output version 4.
type OutputHandler interface {
	Geometry(x, y, physicalWidth, physicalHeight, subpixel int32, make, model string, transform int32) error
	Mode(flags uint32, width, height, refresh int32) error
	Done() error
	Scale(factor int32) error
	Name(name string) error
	Description(description string) error
}

// OutputEvent decodes one wl_output event and dispatches it to h.
// Unknown opcodes are ignored.
func OutputEvent(h OutputHandler, m Message) error {
	switch m.Opcode {
	case opCodeOutputGeometry:
		x, err := m.ReadInt32()
		if err != nil {
			return err
		}
		y, err := m.ReadInt32()
		if err != nil {
			return err
		}
		pw, err := m.ReadInt32()
		if err != nil {
			return err
		}
		ph, err := m.ReadInt32()
		if err != nil {
			return err
		}
		subpixel, err := m.ReadInt32()
		if err != nil {
			return err
		}
		mk, err := m.ReadString()
		if err != nil {
			return err
		}
		model, err := m.ReadString()
		if err != nil {
			return err
		}
		transform, err := m.ReadInt32()
		if err != nil {
			return err
		}
		return h.Geometry(x, y, pw, ph, subpixel, mk, model, transform)
	case opCodeOutputMode:
		flags, err := m.ReadUint32()
		if err != nil {
			return err
		}
		width, err := m.ReadInt32()
		if err != nil {
			return err
		}
		height, err := m.ReadInt32()
		if err != nil {
			return err
		}
		refresh, err := m.ReadInt32()
		if err != nil {
			return err
		}
		return h.Mode(flags, width, height, refresh)
	case opCodeOutputDone:
		return h.Done()
	case opCodeOutputScale:
		factor, err := m.ReadInt32()
		if err != nil {
			return err
		}
		return h.Scale(factor)
	case opCodeOutputName:
		name, err := m.ReadString()
		if err != nil {
			return err
		}
		return h.Name(name)
	case opCodeOutputDescription:
		description, err := m.ReadString()
		if err != nil {
			return err
		}
		return h.Description(description)
	}
	return nil
}

func OutputRelease(c *Conn, output ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(output)
	return c.commit(opCodeOutputRelease, nil)
}
