package wlp

import "encoding/binary"

// zwlr_layer_shell_v1 layers, background to overlay.
const (
	LayerShellLayerBackground uint32 = 0
	LayerShellLayerBottom     uint32 = 1
	LayerShellLayerTop        uint32 = 2
	LayerShellLayerOverlay    uint32 = 3
)

// zwlr_layer_surface_v1 anchor bits.
const (
	LayerSurfaceAnchorTop    uint32 = 1
	LayerSurfaceAnchorBottom uint32 = 2
	LayerSurfaceAnchorLeft   uint32 = 4
	LayerSurfaceAnchorRight  uint32 = 8
)

const (
	opCodeLayerShellGetLayerSurface = 0
	opCodeLayerShellDestroy         = 1
)

const (
	opCodeLayerSurfaceSetSize          = 0
	opCodeLayerSurfaceSetAnchor        = 1
	opCodeLayerSurfaceSetExclusiveZone = 2
	opCodeLayerSurfaceSetMargin        = 3
	opCodeLayerSurfaceAckConfigure     = 6
	opCodeLayerSurfaceDestroy          = 7
)

const (
	opCodeLayerSurfaceConfigure = 0
	opCodeLayerSurfaceClosed    = 1
)

// LayerShellGetLayerSurface turns the surface into a layer surface on the
// given output and layer. A zero output id lets the compositor choose.
func LayerShellGetLayerSurface(c *Conn, shell, layerSurface, surface, output ObjectID, layer uint32, namespace string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(shell)
	binary.Write(b, hostByteOrder, uint32(layerSurface))
	binary.Write(b, hostByteOrder, uint32(surface))
	binary.Write(b, hostByteOrder, uint32(output))
	binary.Write(b, hostByteOrder, layer)
	putString(b, namespace)
	return c.commit(opCodeLayerShellGetLayerSurface, nil)
}

func LayerShellDestroy(c *Conn, shell ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(shell)
	return c.commit(opCodeLayerShellDestroy, nil)
}

// LayerSurfaceHandler receives zwlr_layer_surface_v1 events. Configure
// must be acknowledged with LayerSurfaceAckConfigure before the next
// commit; Closed means the surface should be destroyed.
type LayerSurfaceHandler interface {
	Configure(serial, width, height uint32) error
	Closed() error
}

// LayerSurfaceEvent decodes one zwlr_layer_surface_v1 event and
// dispatches it to h.
func LayerSurfaceEvent(h LayerSurfaceHandler, m Message) error {
	switch m.Opcode {
	case opCodeLayerSurfaceConfigure:
		serial, err := m.ReadUint32()
		if err != nil {
			return err
		}
		width, err := m.ReadUint32()
		if err != nil {
			return err
		}
		height, err := m.ReadUint32()
		if err != nil {
			return err
		}
		return h.Configure(serial, width, height)
	case opCodeLayerSurfaceClosed:
		return h.Closed()
	}
	return nil
}

func LayerSurfaceSetSize(c *Conn, layerSurface ObjectID, width, height uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(layerSurface)
	binary.Write(b, hostByteOrder, width)
	binary.Write(b, hostByteOrder, height)
	return c.commit(opCodeLayerSurfaceSetSize, nil)
}

func LayerSurfaceSetAnchor(c *Conn, layerSurface ObjectID, anchor uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(layerSurface)
	binary.Write(b, hostByteOrder, anchor)
	return c.commit(opCodeLayerSurfaceSetAnchor, nil)
}

// LayerSurfaceSetExclusiveZone of -1 makes the surface ignore other
// exclusive zones, which is what a wallpaper wants.
func LayerSurfaceSetExclusiveZone(c *Conn, layerSurface ObjectID, zone int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(layerSurface)
	binary.Write(b, hostByteOrder, zone)
	return c.commit(opCodeLayerSurfaceSetExclusiveZone, nil)
}

func LayerSurfaceSetMargin(c *Conn, layerSurface ObjectID, top, right, bottom, left int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(layerSurface)
	binary.Write(b, hostByteOrder, top)
	binary.Write(b, hostByteOrder, right)
	binary.Write(b, hostByteOrder, bottom)
	binary.Write(b, hostByteOrder, left)
	return c.commit(opCodeLayerSurfaceSetMargin, nil)
}

func LayerSurfaceAckConfigure(c *Conn, layerSurface ObjectID, serial uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(layerSurface)
	binary.Write(b, hostByteOrder, serial)
	return c.commit(opCodeLayerSurfaceAckConfigure, nil)
}

func LayerSurfaceDestroy(c *Conn, layerSurface ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(layerSurface)
	return c.commit(opCodeLayerSurfaceDestroy, nil)
}
