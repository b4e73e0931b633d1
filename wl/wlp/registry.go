package wlp

import "encoding/binary"

const (
	opCodeRegistryGlobal       = 0
	opCodeRegistryGlobalRemove = 1
)

const (
	opCodeRegistryBind = 0
)

// RegistryHandler receives wl_registry events.
//
// Global announces one capability: an advertised name (a numeric handle
// chosen by the server), the interface it implements, and the highest
// version the server supports. GlobalRemove announces that a previously
// advertised global is gone.
type RegistryHandler interface {
	Global(name uint32, iface string, version uint32) error
	GlobalRemove(name uint32) error
}

// RegistryEvent decodes one wl_registry event and dispatches it to h.
// Unknown opcodes are ignored.
func RegistryEvent(h RegistryHandler, m Message) error {
	switch m.Opcode {
	case opCodeRegistryGlobal:
		name, err := m.ReadUint32()
		if err != nil {
			return err
		}
		iface, err := m.ReadString()
		if err != nil {
			return err
		}
		version, err := m.ReadUint32()
		if err != nil {
			return err
		}
		return h.Global(name, iface, version)
	case opCodeRegistryGlobalRemove:
		name, err := m.ReadUint32()
		if err != nil {
			return err
		}
		return h.GlobalRemove(name)
	}
	return nil
}

// RegistryBind associates the advertised global name with the
// client-chosen id, fixing its interface and version.
func RegistryBind(c *Conn, registry ObjectID, name uint32, iface string, version uint32, id ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(registry)
	binary.Write(b, hostByteOrder, name)
	putString(b, iface)
	binary.Write(b, hostByteOrder, version)
	binary.Write(b, hostByteOrder, uint32(id))
	return c.commit(opCodeRegistryBind, nil)
}
