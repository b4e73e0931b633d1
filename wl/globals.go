// Package wl negotiates a session with the wayland compositor: it owns
// the object-id registry, discovers and binds the globals the daemon
// needs, and settles the pixel format shared-memory buffers will use.
package wl

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/JohnRTitor/swww/ipc"
	"github.com/JohnRTitor/swww/wl/wlp"
)

var log = logrus.WithField("subsys", "wayland")

// requiredGlobal is one interface the daemon cannot run without.
type requiredGlobal struct {
	iface   string
	id      wlp.ObjectID
	typ     ObjectType
	version uint32
}

var requiredGlobals = [4]requiredGlobal{
	{"wl_compositor", CompositorID, TypeCompositor, 4},
	{"wl_shm", ShmID, TypeShm, 1},
	{"wp_viewporter", ViewporterID, TypeViewporter, 1},
	{"zwlr_layer_shell_v1", LayerShellID, TypeLayerShell, 3},
}

const fractionalScaleIface = "wp_fractional_scale_manager_v1"

// State is the negotiated session. It only exists once Init has fully
// succeeded, and everything except the object manager is immutable from
// then on.
type State struct {
	conn            *wlp.Conn
	objects         *ObjectManager
	pixelFormat     ipc.PixelFormat
	fractionalScale bool
	outputNames     []uint32
}

// Conn is the compositor connection, exclusively owned by the daemon.
func (s *State) Conn() *wlp.Conn { return s.conn }

// Objects is the shared id registry for objects created after bootstrap.
func (s *State) Objects() *ObjectManager { return s.objects }

// PixelFormat is the negotiated buffer memory layout.
func (s *State) PixelFormat() ipc.PixelFormat { return s.pixelFormat }

// ShmFormat is the wl_shm format code matching PixelFormat.
func (s *State) ShmFormat() uint32 {
	switch s.pixelFormat {
	case ipc.PixelFormatBgr:
		return wlp.ShmFormatBgr888
	case ipc.PixelFormatRgb:
		return wlp.ShmFormatRgb888
	case ipc.PixelFormatXbgr:
		return wlp.ShmFormatXbgr8888
	default:
		return wlp.ShmFormatXrgb8888
	}
}

// FractionalScaleSupport reports whether the compositor offers the
// fractional-scale manager.
func (s *State) FractionalScaleSupport() bool { return s.fractionalScale }

// OutputNames are the advertised registry names of every usable output.
func (s *State) OutputNames() []uint32 { return s.outputNames }

// Init connects to the compositor and runs the full handshake. Every
// failure is unrecoverable: the caller logs it and exits. Init never
// terminates the process itself.
func Init(forced *ipc.PixelFormat) (*State, error) {
	uc, err := connect()
	if err != nil {
		return nil, err
	}
	conn := wlp.NewConn(uc)
	st, err := bootstrap(conn, forced)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return st, nil
}

// initializer is the scratch state of the handshake. It implements the
// wlp handler interfaces for the events a compositor may send before the
// session is fully set up.
type initializer struct {
	objects        *ObjectManager
	globalNames    [4]uint32 // advertised names, indexed like requiredGlobals; 0 = missing
	outputNames    []uint32
	fractionalName uint32 // advertised name of the optional manager; 0 = absent
	pixelFormat    ipc.PixelFormat
	forcedFormat   bool
	awaitCallback  wlp.ObjectID
	roundtripDone  bool
}

// bootstrap drives the two-phase handshake.
//
// The compositor processes requests strictly in order but announces
// globals asynchronously, so one sync roundtrip enumerates them and a
// second confirms the bind requests took effect before anything uses the
// bound ids.
func bootstrap(conn *wlp.Conn, forced *ipc.PixelFormat) (*State, error) {
	objects := NewObjectManager()
	in := &initializer{
		objects:     objects,
		pixelFormat: ipc.PixelFormatXrgb,
	}
	if forced != nil {
		log.Infof("forced usage of wl_shm format: %s", *forced)
		in.pixelFormat = *forced
		in.forcedFormat = true
	}

	if err := wlp.DisplayGetRegistry(conn, DisplayID, RegistryID); err != nil {
		return nil, err
	}
	// the discovery callback takes the first id after the registry; the
	// compositor deletes it again before that id is rebound below
	firstCallback := RegistryID + 1
	objects.assign(firstCallback, TypeCallback)
	if err := wlp.DisplaySync(conn, DisplayID, firstCallback); err != nil {
		return nil, err
	}

	// phase 1: enumerate globals until the discovery callback is deleted
	in.awaitCallback = firstCallback
	for !in.roundtripDone {
		msg, err := conn.Recv()
		if err != nil {
			return nil, err
		}
		switch msg.Sender {
		case DisplayID:
			err = wlp.DisplayEvent(in, msg)
		case RegistryID:
			err = wlp.RegistryEvent(in, msg)
		case firstCallback:
			err = wlp.CallbackEvent(in, msg)
		case ShmID:
			// some compositors interleave format events with discovery
			err = wlp.ShmEvent(in, msg)
		default:
			return nil, errors.Errorf("did not receive expected discovery events from registry: message from unexpected object %d", msg.Sender)
		}
		if err != nil {
			return nil, err
		}
	}

	for i := range requiredGlobals {
		if in.globalNames[i] == 0 {
			return nil, errors.Errorf("compositor does not implement required interface: %s", requiredGlobals[i].iface)
		}
	}

	for i := range requiredGlobals {
		g := &requiredGlobals[i]
		objects.assign(g.id, g.typ)
		if err := wlp.RegistryBind(conn, RegistryID, in.globalNames[i], g.iface, g.version, g.id); err != nil {
			return nil, err
		}
	}

	fractionalScale := in.fractionalName != 0
	if fractionalScale {
		objects.assign(FractionalScaleManagerID, TypeFractionalScaleManager)
		if err := wlp.RegistryBind(conn, RegistryID, in.fractionalName, fractionalScaleIface, 1, FractionalScaleManagerID); err != nil {
			return nil, err
		}
	}

	// the confirmation callback id is contiguous with whatever got bound
	secondCallback := LayerShellID + 1
	if fractionalScale {
		secondCallback = FractionalScaleManagerID + 1
	}
	objects.assign(secondCallback, TypeCallback)
	if err := wlp.DisplaySync(conn, DisplayID, secondCallback); err != nil {
		return nil, err
	}

	// phase 2: wait for the binds to be acknowledged. Once the mandatory
	// objects exist, late registry chatter is tolerated.
	in.awaitCallback = secondCallback
	in.roundtripDone = false
	for !in.roundtripDone {
		msg, err := conn.Recv()
		if err != nil {
			return nil, err
		}
		switch msg.Sender {
		case DisplayID:
			err = wlp.DisplayEvent(in, msg)
		case RegistryID:
			err = wlp.RegistryEvent(in, msg)
		case ShmID:
			err = wlp.ShmEvent(in, msg)
		case secondCallback:
			err = wlp.CallbackEvent(in, msg)
		default:
			log.Errorf("received unexpected event from object %d during initialization", msg.Sender)
		}
		if err != nil {
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"pixel_format":     in.pixelFormat,
		"fractional_scale": fractionalScale,
		"outputs":          len(in.outputNames),
	}).Debug("initialization over")

	return &State{
		conn:            conn,
		objects:         objects,
		pixelFormat:     in.pixelFormat,
		fractionalScale: fractionalScale,
		outputNames:     in.outputNames,
	}, nil
}

// DeleteID implements wlp.DisplayHandler. During the handshake the only
// object the compositor may delete is the callback we are waiting on;
// anything else means the session is desynchronized.
func (in *initializer) DeleteID(id wlp.ObjectID) error {
	if id != in.awaitCallback {
		return errors.Errorf("object %d deleted during initialization while awaiting callback %d", id, in.awaitCallback)
	}
	in.roundtripDone = true
	return in.objects.Remove(id)
}

// Done implements wlp.CallbackHandler.
func (in *initializer) Done(sender wlp.ObjectID, _ uint32) {
	which := "second"
	if sender == RegistryID+1 {
		which = "first"
	}
	log.Debugf("initialization: %s callback done", which)
}

// Global implements wlp.RegistryHandler.
func (in *initializer) Global(name uint32, iface string, version uint32) error {
	if name == 0 {
		return errors.Errorf("compositor advertised %s with invalid global name 0", iface)
	}
	switch iface {
	case fractionalScaleIface:
		in.fractionalName = name
	case "wl_output":
		if version < 4 {
			log.Errorf("wl_output implementation must have at least version 4 for swww-daemon, got %d; skipping output %d", version, name)
			return nil
		}
		in.outputNames = append(in.outputNames, name)
	default:
		for i := range requiredGlobals {
			g := &requiredGlobals[i]
			if g.iface != iface {
				continue
			}
			if version < g.version {
				return errors.Errorf("%s version must be at least %d for swww, compositor advertised %d", iface, g.version, version)
			}
			in.globalNames[i] = name
			break
		}
	}
	return nil
}

// GlobalRemove implements wlp.RegistryHandler. Globals vanishing this
// early is rare enough that we don't deal with it.
func (in *initializer) GlobalRemove(name uint32) error {
	return errors.Errorf("global %d removed during initialization", name)
}

// Format implements wlp.ShmHandler. The decision is a monotonic
// preference reduction so its result does not depend on the order the
// compositor enumerates formats in: bgr beats rgb beats xbgr beats the
// xrgb default. A forced format disables the reduction entirely.
func (in *initializer) Format(format uint32) {
	if in.forcedFormat {
		return
	}
	switch format {
	case wlp.ShmFormatXrgb8888:
		log.Debug("available shm format: xrgb")
	case wlp.ShmFormatXbgr8888:
		log.Debug("available shm format: xbgr")
		if in.pixelFormat == ipc.PixelFormatXrgb {
			in.pixelFormat = ipc.PixelFormatXbgr
		}
	case wlp.ShmFormatRgb888:
		log.Debug("available shm format: rgb")
		if in.pixelFormat != ipc.PixelFormatBgr {
			in.pixelFormat = ipc.PixelFormatRgb
		}
	case wlp.ShmFormatBgr888:
		log.Debug("available shm format: bgr")
		in.pixelFormat = ipc.PixelFormatBgr
	}
}
