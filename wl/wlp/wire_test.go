package wlp

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connPair(t *testing.T) (*Conn, *net.UnixConn) {
	t.Helper()
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	require.NoError(t, err)
	toConn := func(fd int) *net.UnixConn {
		f := os.NewFile(uintptr(fd), "pair")
		defer f.Close()
		c, err := net.FileConn(f)
		require.NoError(t, err)
		return c.(*net.UnixConn)
	}
	local, peer := toConn(fds[0]), toConn(fds[1])
	t.Cleanup(func() {
		local.Close()
		peer.Close()
	})
	return NewConn(local), peer
}

func readRaw(t *testing.T, peer *net.UnixConn) (ObjectID, uint16, []byte) {
	t.Helper()
	hdr := make([]byte, 8)
	_, err := io.ReadFull(peer, hdr)
	require.NoError(t, err)
	sender, opcode, size := DecodeHeader(hdr)
	payload := make([]byte, size-8)
	_, err = io.ReadFull(peer, payload)
	require.NoError(t, err)
	return sender, opcode, payload
}

func writeEvent(t *testing.T, peer *net.UnixConn, sender ObjectID, opcode uint16, payload []byte) {
	t.Helper()
	buf := &bytes.Buffer{}
	binary.Write(buf, hostByteOrder, uint32(sender))
	binary.Write(buf, hostByteOrder, uint32(len(payload)+8)<<16|uint32(opcode))
	buf.Write(payload)
	_, err := peer.Write(buf.Bytes())
	require.NoError(t, err)
}

func TestDecodeHeader(t *testing.T) {
	buf := make([]byte, 8)
	hostByteOrder.PutUint32(buf[:4], 42)
	hostByteOrder.PutUint32(buf[4:], 20<<16|5)

	id, opcode, size := DecodeHeader(buf)
	assert.Equal(t, ObjectID(42), id)
	assert.Equal(t, uint16(5), opcode)
	assert.Equal(t, 20, size)
}

func TestRegistryBindWireFormat(t *testing.T) {
	c, peer := connPair(t)
	require.NoError(t, RegistryBind(c, 2, 17, "wl_shm", 1, 4))

	sender, opcode, payload := readRaw(t, peer)
	assert.Equal(t, ObjectID(2), sender)
	assert.Equal(t, uint16(opCodeRegistryBind), opcode)

	assert.Equal(t, uint32(17), hostByteOrder.Uint32(payload[0:]))
	assert.Equal(t, uint32(len("wl_shm")+1), hostByteOrder.Uint32(payload[4:]))
	assert.Equal(t, "wl_shm", string(payload[8:8+6]))
	assert.Zero(t, payload[14], "string must be NUL terminated")
	// "wl_shm\0" is 7 bytes, padded to 8
	assert.Equal(t, uint32(1), hostByteOrder.Uint32(payload[16:]))
	assert.Equal(t, uint32(4), hostByteOrder.Uint32(payload[20:]))
	assert.Len(t, payload, 24)
}

func TestDisplaySyncWireFormat(t *testing.T) {
	c, peer := connPair(t)
	require.NoError(t, DisplaySync(c, 1, 3))

	sender, opcode, payload := readRaw(t, peer)
	assert.Equal(t, ObjectID(1), sender)
	assert.Equal(t, uint16(opCodeDisplaySync), opcode)
	assert.Equal(t, uint32(3), hostByteOrder.Uint32(payload))
}

type recordingRegistryHandler struct {
	name    uint32
	iface   string
	version uint32
	removed []uint32
}

func (h *recordingRegistryHandler) Global(name uint32, iface string, version uint32) error {
	h.name, h.iface, h.version = name, iface, version
	return nil
}

func (h *recordingRegistryHandler) GlobalRemove(name uint32) error {
	h.removed = append(h.removed, name)
	return nil
}

func TestRecvAndDecodeGlobalEvent(t *testing.T) {
	c, peer := connPair(t)

	body := &bytes.Buffer{}
	binary.Write(body, hostByteOrder, uint32(9))
	putString(body, "wl_compositor")
	binary.Write(body, hostByteOrder, uint32(6))
	writeEvent(t, peer, 2, opCodeRegistryGlobal, body.Bytes())

	msg, err := c.Recv()
	require.NoError(t, err)
	assert.Equal(t, ObjectID(2), msg.Sender)

	h := &recordingRegistryHandler{}
	require.NoError(t, RegistryEvent(h, msg))
	assert.Equal(t, uint32(9), h.name)
	assert.Equal(t, "wl_compositor", h.iface)
	assert.Equal(t, uint32(6), h.version)
}

func TestTruncatedEventIsError(t *testing.T) {
	c, peer := connPair(t)
	// global event with only 2 payload bytes: too short for the name
	writeEvent(t, peer, 2, opCodeRegistryGlobal, []byte{1, 2})

	msg, err := c.Recv()
	require.NoError(t, err)
	err = RegistryEvent(&recordingRegistryHandler{}, msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestDisplayErrorEventBecomesError(t *testing.T) {
	c, peer := connPair(t)

	body := &bytes.Buffer{}
	binary.Write(body, hostByteOrder, uint32(4))
	binary.Write(body, hostByteOrder, uint32(DisplayErrorInvalidObject))
	putString(body, "no such object")
	writeEvent(t, peer, 1, opCodeDisplayError, body.Bytes())

	msg, err := c.Recv()
	require.NoError(t, err)
	err = DisplayEvent(nil, msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such object")
	assert.Contains(t, err.Error(), "object 4")
}

func TestRecvFailsOnClosedPeer(t *testing.T) {
	c, peer := connPair(t)
	peer.Close()
	_, err := c.Recv()
	assert.Error(t, err)
}

func TestMessageReadString(t *testing.T) {
	body := &bytes.Buffer{}
	putString(body, "a")
	binary.Write(body, hostByteOrder, uint32(7))
	m := Message{Sender: 1, payload: body.Bytes()}

	s, err := m.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "a", s)

	// padding must be skipped so the next argument lines up
	v, err := m.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v)
}
