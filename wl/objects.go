package wl

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/JohnRTitor/swww/wl/wlp"
)

// ObjectType is the interface tag bound to a live object id. Opcodes are
// meaningless on their own: what a message means depends on which
// interface its sender id is currently bound to, and for dynamically
// created objects that binding only exists at runtime, in the
// ObjectManager.
type ObjectType uint8

const (
	TypeDisplay ObjectType = iota
	TypeRegistry
	TypeCallback
	TypeCompositor
	TypeShm
	TypeShmPool
	TypeBuffer
	TypeSurface
	TypeRegion
	TypeViewporter
	TypeViewport
	TypeLayerShell
	TypeLayerSurface
	TypeOutput
	TypeFractionalScaleManager
	TypeFractionalScale
)

var objectTypeNames = [...]string{
	TypeDisplay:                "wl_display",
	TypeRegistry:               "wl_registry",
	TypeCallback:               "wl_callback",
	TypeCompositor:             "wl_compositor",
	TypeShm:                    "wl_shm",
	TypeShmPool:                "wl_shm_pool",
	TypeBuffer:                 "wl_buffer",
	TypeSurface:                "wl_surface",
	TypeRegion:                 "wl_region",
	TypeViewporter:             "wp_viewporter",
	TypeViewport:               "wp_viewport",
	TypeLayerShell:             "zwlr_layer_shell_v1",
	TypeLayerSurface:           "zwlr_layer_surface_v1",
	TypeOutput:                 "wl_output",
	TypeFractionalScaleManager: "wp_fractional_scale_manager_v1",
	TypeFractionalScale:        "wp_fractional_scale_v1",
}

func (t ObjectType) String() string {
	if int(t) < len(objectTypeNames) {
		return objectTypeNames[t]
	}
	return "unknown"
}

// Reserved object ids. 1 and 2 exist before any negotiation; 3 through 8
// are assigned by the bootstrap (two short-lived sync callbacks, the four
// mandatory globals, and the optional fractional-scale manager). These
// values are never constructed by hand outside this package.
const (
	DisplayID                wlp.ObjectID = 1
	RegistryID               wlp.ObjectID = 2
	CompositorID             wlp.ObjectID = 3
	ShmID                    wlp.ObjectID = 4
	ViewporterID             wlp.ObjectID = 5
	LayerShellID             wlp.ObjectID = 6
	FractionalScaleManagerID wlp.ObjectID = 7
)

// firstDynamicID is the first id the allocator hands out; everything
// below it belongs to the bootstrap.
const firstDynamicID wlp.ObjectID = 9

// ObjectManager owns the id -> interface-type mapping for every live
// object. All three operations are atomic with respect to each other;
// after the bootstrap any goroutine may create or remove objects.
type ObjectManager struct {
	mu   sync.Mutex
	objs map[wlp.ObjectID]ObjectType
	free []wlp.ObjectID
	next wlp.ObjectID
}

func NewObjectManager() *ObjectManager {
	return &ObjectManager{
		objs: map[wlp.ObjectID]ObjectType{
			DisplayID:  TypeDisplay,
			RegistryID: TypeRegistry,
		},
		next: firstDynamicID,
	}
}

// Create allocates a fresh id bound to t, reusing a freed id when one is
// available and otherwise taking the lowest never-used id above the
// reserved range.
func (m *ObjectManager) Create(t ObjectType) wlp.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	var id wlp.ObjectID
	if n := len(m.free); n > 0 {
		id = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		id = m.next
		m.next++
	}
	m.objs[id] = t
	return id
}

// Get returns the interface type currently bound to id. An unknown id
// means the compositor sent a message for an object we never created, or
// one we already destroyed.
func (m *ObjectManager) Get(id wlp.ObjectID) (ObjectType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.objs[id]
	if !ok {
		return 0, errors.Errorf("object %d is not bound to any interface", id)
	}
	return t, nil
}

// Remove unbinds id, making it eligible for reuse. Removing an id that
// is not live is a protocol-level bug and reported as such.
func (m *ObjectManager) Remove(id wlp.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objs[id]; !ok {
		return errors.Errorf("cannot remove object %d: not bound to any interface", id)
	}
	delete(m.objs, id)
	if id >= firstDynamicID {
		m.free = append(m.free, id)
	}
	return nil
}

// assign records a reserved id's type during the bootstrap. The
// allocator never hands these ids out, so no free-list bookkeeping is
// needed.
func (m *ObjectManager) assign(id wlp.ObjectID, t ObjectType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objs[id] = t
}
