package wlp

import "encoding/binary"

const (
	opCodeFractionalScaleManagerDestroy            = 0
	opCodeFractionalScaleManagerGetFractionalScale = 1
)

const (
	opCodeFractionalScaleDestroy = 0
)

const (
	opCodeFractionalScalePreferredScale = 0
)

func FractionalScaleManagerDestroy(c *Conn, manager ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(manager)
	return c.commit(opCodeFractionalScaleManagerDestroy, nil)
}

// FractionalScaleManagerGetFractionalScale creates a fractional-scale
// extension object for the surface.
func FractionalScaleManagerGetFractionalScale(c *Conn, manager, fractionalScale, surface ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(manager)
	binary.Write(b, hostByteOrder, uint32(fractionalScale))
	binary.Write(b, hostByteOrder, uint32(surface))
	return c.commit(opCodeFractionalScaleManagerGetFractionalScale, nil)
}

func FractionalScaleDestroy(c *Conn, fractionalScale ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(fractionalScale)
	return c.commit(opCodeFractionalScaleDestroy, nil)
}

// FractionalScaleHandler receives the preferred scale for a surface,
// expressed in 120ths (a scale of 180 means 1.5x).
type FractionalScaleHandler interface {
	PreferredScale(scale uint32) error
}

// FractionalScaleEvent decodes one wp_fractional_scale_v1 event and
// dispatches it to h.
func FractionalScaleEvent(h FractionalScaleHandler, m Message) error {
	if m.Opcode != opCodeFractionalScalePreferredScale {
		return nil
	}
	scale, err := m.ReadUint32()
	if err != nil {
		return err
	}
	return h.PreferredScale(scale)
}
