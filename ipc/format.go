package ipc

import "github.com/pkg/errors"

// PixelFormat is the in-memory channel layout the daemon decodes images
// into. It is negotiated once against the compositor's advertised wl_shm
// formats and then shared with clients so they can pre-process frames.
type PixelFormat uint8

const (
	// PixelFormatBgr needs no channel swap and copies directly onto a
	// wl buffer.
	PixelFormatBgr PixelFormat = iota
	// PixelFormatRgb needs R and B swapped client-side but still copies
	// directly.
	PixelFormatRgb
	// PixelFormatXbgr needs no swap but every pixel gains a padding byte
	// when copied.
	PixelFormatXbgr
	// PixelFormatXrgb needs both the swap and the padding byte. It is
	// the layout every compositor must support, so it is the default.
	PixelFormatXrgb
)

// Channels is the number of bytes per pixel in this layout.
func (f PixelFormat) Channels() int {
	switch f {
	case PixelFormatRgb, PixelFormatBgr:
		return 3
	default:
		return 4
	}
}

// MustSwapRAndBChannels reports whether the client has to swap the red
// and blue channels before handing pixels to the daemon.
func (f PixelFormat) MustSwapRAndBChannels() bool {
	return f == PixelFormatRgb || f == PixelFormatXrgb
}

// CanCopyDirectlyOntoWlBuffer reports whether decoded pixels can be
// copied onto a wl buffer without per-pixel padding.
func (f PixelFormat) CanCopyDirectlyOntoWlBuffer() bool {
	return f == PixelFormatBgr || f == PixelFormatRgb
}

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatBgr:
		return "bgr"
	case PixelFormatRgb:
		return "rgb"
	case PixelFormatXbgr:
		return "xbgr"
	case PixelFormatXrgb:
		return "xrgb"
	default:
		return "unknown"
	}
}

// ParsePixelFormat converts a CLI flag value into a PixelFormat.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch s {
	case "bgr":
		return PixelFormatBgr, nil
	case "rgb":
		return PixelFormatRgb, nil
	case "xbgr":
		return PixelFormatXbgr, nil
	case "xrgb":
		return PixelFormatXrgb, nil
	default:
		return 0, errors.Errorf("unrecognized pixel format %q (want bgr, rgb, xbgr or xrgb)", s)
	}
}
