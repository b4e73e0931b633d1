package wlp

import "encoding/binary"

const (
	opCodeCompositorCreateSurface = 0
	opCodeCompositorCreateRegion  = 1
)

// CompositorCreateSurface creates a new surface with the given id.
func CompositorCreateSurface(c *Conn, compositor, surface ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(compositor)
	binary.Write(b, hostByteOrder, uint32(surface))
	return c.commit(opCodeCompositorCreateSurface, nil)
}

// CompositorCreateRegion creates a new region with the given id.
func CompositorCreateRegion(c *Conn, compositor, region ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(compositor)
	binary.Write(b, hostByteOrder, uint32(region))
	return c.commit(opCodeCompositorCreateRegion, nil)
}
