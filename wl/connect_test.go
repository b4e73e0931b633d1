package wl

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenUnix(t *testing.T) (string, *net.UnixListener) {
	t.Helper()
	// keep the socket path short; sun_path caps out around 108 bytes
	dir, err := os.MkdirTemp("/tmp", "swww-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "wayland-9")
	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return path, l
}

func TestConnectAbsoluteDisplayPath(t *testing.T) {
	path, _ := listenUnix(t)
	t.Setenv("WAYLAND_DISPLAY", path)
	t.Setenv("XDG_RUNTIME_DIR", "")
	os.Unsetenv("WAYLAND_SOCKET")

	conn, err := connect()
	require.NoError(t, err)
	conn.Close()
}

func TestConnectJoinsRuntimeDir(t *testing.T) {
	path, _ := listenUnix(t)
	t.Setenv("WAYLAND_DISPLAY", filepath.Base(path))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Dir(path))
	os.Unsetenv("WAYLAND_SOCKET")

	conn, err := connect()
	require.NoError(t, err)
	conn.Close()
}

func TestConnectMissingEnvNamesVariable(t *testing.T) {
	os.Unsetenv("WAYLAND_SOCKET")
	t.Setenv("WAYLAND_DISPLAY", "")
	_, err := connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WAYLAND_DISPLAY")

	t.Setenv("WAYLAND_DISPLAY", "wayland-1")
	t.Setenv("XDG_RUNTIME_DIR", "")
	_, err = connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XDG_RUNTIME_DIR")
}

func TestConnectInheritedSocketFD(t *testing.T) {
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	require.NoError(t, err)
	defer syscall.Close(fds[1])

	t.Setenv("WAYLAND_SOCKET", strconv.Itoa(fds[0]))

	conn, err := connect()
	require.NoError(t, err)
	defer conn.Close()

	_, hasVar := os.LookupEnv("WAYLAND_SOCKET")
	assert.False(t, hasVar, "WAYLAND_SOCKET must be consumed exactly once")

	// the connection really is the inherited socket
	go conn.Write([]byte("ping"))
	buf := make([]byte, 4)
	n, err := syscall.Read(fds[1], buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf[:n]))
}

func TestConnectBadSocketFDValue(t *testing.T) {
	t.Setenv("WAYLAND_SOCKET", "not-a-number")
	_, err := connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WAYLAND_SOCKET")
}
