package wlp

import "encoding/binary"

const (
	opCodeViewporterDestroy     = 0
	opCodeViewporterGetViewport = 1
)

const (
	opCodeViewportDestroy        = 0
	opCodeViewportSetSource      = 1
	opCodeViewportSetDestination = 2
)

func ViewporterDestroy(c *Conn, viewporter ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(viewporter)
	return c.commit(opCodeViewporterDestroy, nil)
}

// ViewporterGetViewport creates a viewport extension for the surface,
// letting the client crop and scale what the compositor samples from it.
func ViewporterGetViewport(c *Conn, viewporter, viewport, surface ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(viewporter)
	binary.Write(b, hostByteOrder, uint32(viewport))
	binary.Write(b, hostByteOrder, uint32(surface))
	return c.commit(opCodeViewporterGetViewport, nil)
}

func ViewportDestroy(c *Conn, viewport ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(viewport)
	return c.commit(opCodeViewportDestroy, nil)
}

// ViewportSetSource selects the source rectangle sampled from the buffer,
// in surface-local coordinates. All -1 unsets the rectangle.
func ViewportSetSource(c *Conn, viewport ObjectID, x, y, width, height float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(viewport)
	binary.Write(b, hostByteOrder, float64ToFixed(x))
	binary.Write(b, hostByteOrder, float64ToFixed(y))
	binary.Write(b, hostByteOrder, float64ToFixed(width))
	binary.Write(b, hostByteOrder, float64ToFixed(height))
	return c.commit(opCodeViewportSetSource, nil)
}

// ViewportSetDestination sets the surface size the source rectangle is
// scaled to. -1, -1 unsets the destination.
func ViewportSetDestination(c *Conn, viewport ObjectID, width, height int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(viewport)
	binary.Write(b, hostByteOrder, width)
	binary.Write(b, hostByteOrder, height)
	return c.commit(opCodeViewportSetDestination, nil)
}
