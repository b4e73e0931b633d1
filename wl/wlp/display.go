package wlp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	DisplayErrorInvalidObject = 0 // server couldn't find object
	DisplayErrorInvalidMethod = 1 // method doesn't exist on the specified interface
	DisplayErrorNoMemory      = 2 // server is out of memory
)

const (
	opCodeDisplayError    = 0
	opCodeDisplayDeleteID = 1
)

const (
	opCodeDisplaySync        = 0
	opCodeDisplayGetRegistry = 1
)

// DisplayHandler receives wl_display events. The error event is not part
// of the interface: a compositor-reported error always aborts the session,
// so DisplayEvent turns it into a returned error directly.
//
// DeleteID is sent when the server acknowledges the destruction of an
// object; after it, the client may reuse the object id.
type DisplayHandler interface {
	DeleteID(id ObjectID) error
}

// DisplayEvent decodes one wl_display event and dispatches it to h.
// Unknown opcodes are ignored.
func DisplayEvent(h DisplayHandler, m Message) error {
	switch m.Opcode {
	case opCodeDisplayError:
		objectID, err := m.ReadUint32()
		if err != nil {
			return err
		}
		code, err := m.ReadUint32()
		if err != nil {
			return err
		}
		message, err := m.ReadString()
		if err != nil {
			return err
		}
		return errors.Errorf("fatal compositor error on object %d (code %d): %s", objectID, code, message)
	case opCodeDisplayDeleteID:
		id, err := m.ReadUint32()
		if err != nil {
			return err
		}
		return h.DeleteID(ObjectID(id))
	}
	return nil
}

// DisplaySync asks the server to emit the done event on the callback
// object once every request sent before it has been processed. The
// callback is destroyed by the compositor after it fires.
func DisplaySync(c *Conn, display, callback ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(display)
	binary.Write(b, hostByteOrder, uint32(callback))
	return c.commit(opCodeDisplaySync, nil)
}

// DisplayGetRegistry creates the registry object that lists and binds the
// globals available from the compositor.
func DisplayGetRegistry(c *Conn, display, registry ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(display)
	binary.Write(b, hostByteOrder, uint32(registry))
	return c.commit(opCodeDisplayGetRegistry, nil)
}
