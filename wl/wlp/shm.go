package wlp

import (
	"encoding/binary"
	"os"
)

// wl_shm buffer memory layouts used by this client. XRGB8888 and
// ARGB8888 have small fixed codes; every other format code is its DRM
// fourcc value.
const (
	ShmFormatArgb8888 uint32 = 0
	ShmFormatXrgb8888 uint32 = 1
	ShmFormatXbgr8888 uint32 = 0x34324258 // 'XB24'
	ShmFormatRgb888   uint32 = 0x34324752 // 'RG24'
	ShmFormatBgr888   uint32 = 0x34324742 // 'BG24'
)

const (
	opCodeShmFormat = 0
)

const (
	opCodeShmCreatePool = 0
)

const (
	opCodeShmPoolCreateBuffer = 0
	opCodeShmPoolDestroy      = 1
	opCodeShmPoolResize       = 2
)

// ShmHandler receives wl_shm events. Format is emitted once per memory
// layout the compositor can accept for shared-memory buffers.
type ShmHandler interface {
	Format(format uint32)
}

// ShmEvent decodes one wl_shm event and dispatches it to h.
func ShmEvent(h ShmHandler, m Message) error {
	if m.Opcode != opCodeShmFormat {
		return nil
	}
	format, err := m.ReadUint32()
	if err != nil {
		return err
	}
	h.Format(format)
	return nil
}

// ShmCreatePool shares the file's memory with the compositor as a pool of
// the given size. The descriptor travels as ancillary socket data.
func ShmCreatePool(c *Conn, shm, pool ObjectID, f *os.File, size int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(shm)
	binary.Write(b, hostByteOrder, uint32(pool))
	binary.Write(b, hostByteOrder, size)
	return c.commit(opCodeShmCreatePool, encodeFD(f))
}

// ShmPoolCreateBuffer carves a buffer out of the pool at the given byte
// offset.
func ShmPoolCreateBuffer(c *Conn, pool, buffer ObjectID, offset, width, height, stride int32, format uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(pool)
	binary.Write(b, hostByteOrder, uint32(buffer))
	binary.Write(b, hostByteOrder, offset)
	binary.Write(b, hostByteOrder, width)
	binary.Write(b, hostByteOrder, height)
	binary.Write(b, hostByteOrder, stride)
	binary.Write(b, hostByteOrder, format)
	return c.commit(opCodeShmPoolCreateBuffer, nil)
}

func ShmPoolDestroy(c *Conn, pool ObjectID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begin(pool)
	return c.commit(opCodeShmPoolDestroy, nil)
}

func ShmPoolResize(c *Conn, pool ObjectID, size int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.begin(pool)
	binary.Write(b, hostByteOrder, size)
	return c.commit(opCodeShmPoolResize, nil)
}
