package ipc

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRoundtrip(t *testing.T) {
	req := &Request{
		Type: RequestClear,
		Clear: &Clear{
			Color:   [3]uint8{0xaa, 0xbb, 0xcc},
			Outputs: []string{"DP-1", "HDMI-A-1"},
		},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, req.Send(buf))

	got, err := ReadRequest(buf)
	require.NoError(t, err)
	assert.Equal(t, RequestClear, got.Type)
	require.NotNil(t, got.Clear)
	assert.Equal(t, req.Clear.Color, got.Clear.Color)
	assert.Equal(t, req.Clear.Outputs, got.Clear.Outputs)
	assert.Nil(t, got.Img)
}

func TestImageRequestRoundtrip(t *testing.T) {
	req := &Request{
		Type: RequestImg,
		Img: &ImageRequest{
			Transition: Transition{
				Type:     TransitionWipe,
				Duration: 1.5,
				Step:     90,
				FPS:      30,
				Angle:    45,
				Pos:      Position{X: Coord{Value: 0.5, Percent: true}, Y: Coord{Value: 120}},
				Bezier:   [4]float32{0.25, 0.1, 0.25, 1},
			},
			Entries: []ImgEntry{{
				Img:     Img{Path: "/tmp/a.png", Data: []byte{1, 2, 3}},
				Outputs: []string{"DP-1"},
			}},
		},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, req.Send(buf))
	got, err := ReadRequest(buf)
	require.NoError(t, err)
	require.NotNil(t, got.Img)
	assert.Equal(t, req.Img.Transition, got.Img.Transition)
	assert.Equal(t, req.Img.Entries, got.Img.Entries)
}

func TestAnswerRoundtrip(t *testing.T) {
	ans := &Answer{
		Type: AnswerInfo,
		Info: []BgInfo{{
			Name:        "DP-1",
			Width:       2560,
			Height:      1440,
			ScaleFactor: 2,
			Img:         BgImg{Path: "/wall/a.jpg"},
			PixelFormat: PixelFormatXbgr,
		}},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, ans.Send(buf))
	got, err := ReadAnswer(buf)
	require.NoError(t, err)
	assert.Equal(t, ans.Info, got.Info)
}

func TestReadRequestRejectsOversizedLength(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f})
	_, err := ReadRequest(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}

func TestBgInfo(t *testing.T) {
	info := BgInfo{
		Name:        "eDP-1",
		Width:       1920,
		Height:      1080,
		ScaleFactor: 2,
		Img:         BgImg{Color: [3]uint8{0x12, 0x34, 0x56}},
		PixelFormat: PixelFormatBgr,
	}
	w, h := info.RealDim()
	assert.Equal(t, uint32(3840), w)
	assert.Equal(t, uint32(2160), h)
	assert.Equal(t, "eDP-1: 1920x1080, scale: 2, currently displaying: color: 123456", info.String())

	info.Img = BgImg{Path: "/wall/b.png"}
	assert.Contains(t, info.String(), "image: /wall/b.png")
}

func TestPositionToPixel(t *testing.T) {
	p := Position{X: Coord{Value: 0.5, Percent: true}, Y: Coord{Value: 100}}

	x, y := p.ToPixel(200, 400, false)
	assert.Equal(t, float32(100), x)
	assert.Equal(t, float32(100), y)

	_, y = p.ToPixel(200, 400, true)
	assert.Equal(t, float32(300), y)
}

func TestPixelFormatProperties(t *testing.T) {
	assert.Equal(t, 3, PixelFormatBgr.Channels())
	assert.Equal(t, 4, PixelFormatXrgb.Channels())
	assert.True(t, PixelFormatRgb.MustSwapRAndBChannels())
	assert.False(t, PixelFormatXbgr.MustSwapRAndBChannels())
	assert.True(t, PixelFormatRgb.CanCopyDirectlyOntoWlBuffer())
	assert.False(t, PixelFormatXrgb.CanCopyDirectlyOntoWlBuffer())
}

func TestParsePixelFormat(t *testing.T) {
	for _, s := range []string{"bgr", "rgb", "xbgr", "xrgb"} {
		f, err := ParsePixelFormat(s)
		require.NoError(t, err)
		assert.Equal(t, s, f.String())
	}
	_, err := ParsePixelFormat("argb")
	assert.Error(t, err)
}

func TestSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, filepath.Join("/run/user/1000", "swww.socket"), SocketPath())

	t.Setenv("XDG_RUNTIME_DIR", "")
	assert.Equal(t, filepath.Join("/tmp/swww", "swww.socket"), SocketPath())
}

func TestCachePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	got, err := CachePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "swww"), got)
	assert.DirExists(t, got)
}
