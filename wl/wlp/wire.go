package wlp

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"os"
	"sync"
	"syscall"

	"github.com/pkg/errors"
)

// ObjectID identifies one live protocol object for the duration of a
// session. Zero is never a valid id.
type ObjectID uint32

// Conn frames requests and events on a wayland socket. Requests are
// serialized into a shared buffer under a mutex; events are read one
// complete message at a time with Recv.
type Conn struct {
	mu  sync.Mutex
	c   *net.UnixConn
	buf *bytes.Buffer
	hdr [8]byte
}

func NewConn(c *net.UnixConn) *Conn {
	return &Conn{
		c:   c,
		buf: &bytes.Buffer{},
	}
}

func (c *Conn) Close() error {
	return c.c.Close()
}

// Recv blocks until one complete message is available and returns it.
// It fails if the peer closes the connection or the read fails, which
// callers treat as unrecoverable.
func (c *Conn) Recv() (Message, error) {
	if _, err := io.ReadFull(c.c, c.hdr[:]); err != nil {
		return Message{}, errors.Wrap(err, "unable to read message header")
	}
	sender, opcode, size := DecodeHeader(c.hdr[:])
	if size < 8 {
		return Message{}, errors.Errorf("invalid message size %d from object %d", size, sender)
	}
	payload := make([]byte, size-8)
	if _, err := io.ReadFull(c.c, payload); err != nil {
		return Message{}, errors.Wrapf(err, "unable to read %d payload bytes from object %d", size-8, sender)
	}
	return Message{Sender: sender, Opcode: opcode, payload: payload}, nil
}

// begin starts a new request from sender. The size/opcode word is left
// zero and patched by commit. Callers must hold c.mu.
func (c *Conn) begin(sender ObjectID) *bytes.Buffer {
	c.buf.Reset()
	binary.Write(c.buf, hostByteOrder, uint32(sender))
	binary.Write(c.buf, hostByteOrder, uint32(0))
	return c.buf
}

func (c *Conn) commit(opcode uint16, oob []byte) error {
	hostByteOrder.PutUint32(c.buf.Bytes()[4:8], uint32(c.buf.Len())<<16|uint32(opcode))
	if _, _, err := c.c.WriteMsgUnix(c.buf.Bytes(), oob, nil); err != nil {
		return errors.Wrap(err, "unable to write request")
	}
	return nil
}

func encodeFD(f *os.File) []byte {
	if f == nil {
		return nil
	}
	return syscall.UnixRights(int(f.Fd()))
}

func putString(b *bytes.Buffer, s string) {
	binary.Write(b, hostByteOrder, uint32(len(s)+1))
	b.WriteString(s)
	b.WriteByte(0)
	if pad := paddedLen(s) - len(s) - 1; pad > 0 {
		b.Write(make([]byte, pad))
	}
}

// Message is one framed event: the sender object id, the opcode relative
// to the sender's interface, and the raw argument payload. The ReadXxx
// methods consume arguments in wire order and fail on truncation instead
// of panicking, since a short payload means the session is desynchronized.
type Message struct {
	Sender  ObjectID
	Opcode  uint16
	payload []byte
	off     int
}

func (m *Message) ReadUint32() (uint32, error) {
	if m.off+4 > len(m.payload) {
		return 0, errors.Errorf("message from object %d truncated at offset %d", m.Sender, m.off)
	}
	v := hostByteOrder.Uint32(m.payload[m.off:])
	m.off += 4
	return v, nil
}

func (m *Message) ReadInt32() (int32, error) {
	v, err := m.ReadUint32()
	return int32(v), err
}

func (m *Message) ReadFixed() (float64, error) {
	v, err := m.ReadInt32()
	return fixedToFloat64(v), err
}

func (m *Message) ReadString() (string, error) {
	n, err := m.ReadUint32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	padded := (int(n) + 3) &^ 3
	if m.off+padded > len(m.payload) {
		return "", errors.Errorf("string argument from object %d truncated at offset %d", m.Sender, m.off)
	}
	s := string(m.payload[m.off : m.off+int(n)-1])
	m.off += padded
	return s, nil
}
