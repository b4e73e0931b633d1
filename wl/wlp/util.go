package wlp

import (
	"encoding/binary"
	"math"
	"unsafe"
)

var hostByteOrder binary.ByteOrder

func init() {
	var endianCheck uint32 = 0x1
	b := (*[4]byte)(unsafe.Pointer(&endianCheck))
	if b[0] == 1 {
		hostByteOrder = binary.LittleEndian
	} else {
		hostByteOrder = binary.BigEndian
	}
}

func fixedToFloat64(fixed int32) float64 {
	i := ((1023 + 44) << 52) + (1 << 51) + uint64(fixed)
	return math.Float64frombits(i) - (3 << 43)
}

func float64ToFixed(float float64) int32 {
	float += 3 << 43
	return int32(math.Float64bits(float))
}

// DecodeHeader splits the first 8 bytes of a message into the sender
// object id, the opcode, and the total message size (header included).
func DecodeHeader(buf []byte) (id ObjectID, opcode uint16, size int) {
	id = ObjectID(hostByteOrder.Uint32(buf[:4]))
	arg2 := hostByteOrder.Uint32(buf[4:8])
	opcode = uint16(arg2 & 0xFFFF)
	size = int(arg2 >> 16)
	return
}

// paddedLen rounds a string argument's wire length (including the NUL
// terminator) up to the next 32-bit boundary.
func paddedLen(s string) int {
	return (len(s) + 1 + 3) &^ 3
}
