// Package ipc implements the control protocol between the swww CLI and
// the running daemon: a unix socket carrying length-prefixed cbor
// messages, plus the pixel-format model both sides share.
package ipc

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// Coord is one axis of a position, either an absolute pixel offset or a
// fraction of the output dimension.
type Coord struct {
	Value   float32 `cbor:"value"`
	Percent bool    `cbor:"percent,omitempty"`
}

type Position struct {
	X Coord `cbor:"x"`
	Y Coord `cbor:"y"`
}

// ToPixel resolves the position against the output dimensions.
func (p Position) ToPixel(width, height uint32, invertY bool) (float32, float32) {
	x := p.X.Value
	if p.X.Percent {
		x *= float32(width)
	}
	y := p.Y.Value
	switch {
	case p.Y.Percent && invertY:
		y = (1.0 - y) * float32(height)
	case p.Y.Percent:
		y *= float32(height)
	case invertY:
		y = float32(height) - y
	}
	return x, y
}

// ToPercent expresses the position as fractions of the output dimensions.
func (p Position) ToPercent(width, height uint32) (float32, float32) {
	x := p.X.Value
	if !p.X.Percent {
		x /= float32(width)
	}
	y := p.Y.Value
	if !p.Y.Percent {
		y /= float32(height)
	}
	return x, y
}

// BgImg describes what an output currently displays: an image by path,
// or a solid color when Path is empty.
type BgImg struct {
	Path  string   `cbor:"path,omitempty"`
	Color [3]uint8 `cbor:"color,omitempty"`
}

func (b BgImg) String() string {
	if b.Path == "" {
		return fmt.Sprintf("color: %02X%02X%02X", b.Color[0], b.Color[1], b.Color[2])
	}
	return fmt.Sprintf("image: %s", b.Path)
}

// BgInfo is the queryable state of one output.
type BgInfo struct {
	Name        string      `cbor:"name"`
	Width       uint32      `cbor:"width"`
	Height      uint32      `cbor:"height"`
	ScaleFactor int32       `cbor:"scale_factor"`
	Img         BgImg       `cbor:"img"`
	PixelFormat PixelFormat `cbor:"pixel_format"`
}

// RealDim is the buffer dimension after applying the scale factor.
func (b BgInfo) RealDim() (uint32, uint32) {
	return b.Width * uint32(b.ScaleFactor), b.Height * uint32(b.ScaleFactor)
}

func (b BgInfo) String() string {
	return fmt.Sprintf("%s: %dx%d, scale: %d, currently displaying: %s",
		b.Name, b.Width, b.Height, b.ScaleFactor, b.Img)
}

type TransitionType uint8

const (
	TransitionSimple TransitionType = iota
	TransitionFade
	TransitionOuter
	TransitionWipe
	TransitionGrow
	TransitionWave
)

// Transition describes how the daemon animates from the current image to
// the next one.
type Transition struct {
	Type     TransitionType `cbor:"type"`
	Duration float32        `cbor:"duration"`
	Step     uint8          `cbor:"step"`
	FPS      uint16         `cbor:"fps"`
	Angle    float64        `cbor:"angle"`
	Pos      Position       `cbor:"pos"`
	Bezier   [4]float32     `cbor:"bezier"`
	Wave     [2]float32     `cbor:"wave"`
	InvertY  bool           `cbor:"invert_y,omitempty"`
}

type Clear struct {
	Color   [3]uint8 `cbor:"color"`
	Outputs []string `cbor:"outputs"`
}

// Img carries one decoded image and the path it came from.
type Img struct {
	Path string `cbor:"path"`
	Data []byte `cbor:"data"`
}

type ImgEntry struct {
	Img     Img      `cbor:"img"`
	Outputs []string `cbor:"outputs"`
}

type ImageRequest struct {
	Transition Transition `cbor:"transition"`
	Entries    []ImgEntry `cbor:"entries"`
}

type AnimationFrame struct {
	Data  []byte        `cbor:"data"`
	Delay time.Duration `cbor:"delay"`
}

type Animation struct {
	Frames      []AnimationFrame `cbor:"frames"`
	Path        string           `cbor:"path"`
	Width       uint32           `cbor:"width"`
	Height      uint32           `cbor:"height"`
	PixelFormat PixelFormat      `cbor:"pixel_format"`
}

type AnimationEntry struct {
	Animation Animation `cbor:"animation"`
	Outputs   []string  `cbor:"outputs"`
}

type RequestType uint8

const (
	RequestPing RequestType = iota
	RequestQuery
	RequestKill
	RequestClear
	RequestImg
	RequestAnimation
)

// Request is one command from the CLI to the daemon. The payload field
// matching Type is set; the others stay nil.
type Request struct {
	Type      RequestType      `cbor:"type"`
	Clear     *Clear           `cbor:"clear,omitempty"`
	Img       *ImageRequest    `cbor:"img,omitempty"`
	Animation []AnimationEntry `cbor:"animation,omitempty"`
}

type AnswerType uint8

const (
	AnswerOk AnswerType = iota
	AnswerErr
	AnswerInfo
	AnswerPing
)

// Answer is the daemon's reply to one request.
type Answer struct {
	Type AnswerType `cbor:"type"`
	Err  string     `cbor:"err,omitempty"`
	Info []BgInfo   `cbor:"info,omitempty"`
	// Configured reports, in reply to a ping, whether the daemon has
	// finished its compositor handshake.
	Configured bool `cbor:"configured,omitempty"`
}

// maxBlockLen bounds one framed message. Even a full set of 4K animation
// frames stays well under this.
const maxBlockLen = 1 << 30

func writeBlock(w io.Writer, body []byte) error {
	bw := bufio.NewWriter(w)
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64(len(body)))
	if _, err := bw.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "failed to write serialized length")
	}
	if _, err := bw.Write(body); err != nil {
		return errors.Wrap(err, "failed to write serialized body")
	}
	return errors.Wrap(bw.Flush(), "failed to flush message")
}

func readBlock(r io.Reader) ([]byte, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read serialized length")
	}
	n := binary.LittleEndian.Uint64(hdr[:])
	if n > maxBlockLen {
		return nil, errors.Errorf("message length %d exceeds limit", n)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, errors.Wrap(err, "failed to read message body")
	}
	return body, nil
}

func (r *Request) Send(w io.Writer) error {
	body, err := cbor.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "failed to encode request")
	}
	return writeBlock(w, body)
}

func ReadRequest(r io.Reader) (*Request, error) {
	body, err := readBlock(r)
	if err != nil {
		return nil, err
	}
	req := &Request{}
	if err := cbor.Unmarshal(body, req); err != nil {
		return nil, errors.Wrap(err, "failed to decode request")
	}
	return req, nil
}

func (a *Answer) Send(w io.Writer) error {
	body, err := cbor.Marshal(a)
	if err != nil {
		return errors.Wrap(err, "failed to encode answer")
	}
	return writeBlock(w, body)
}

func ReadAnswer(r io.Reader) (*Answer, error) {
	body, err := readBlock(r)
	if err != nil {
		return nil, err
	}
	ans := &Answer{}
	if err := cbor.Unmarshal(body, ans); err != nil {
		return nil, errors.Wrap(err, "failed to decode answer")
	}
	return ans, nil
}
