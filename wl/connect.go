package wl

import (
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// connect resolves and opens the compositor socket from the environment:
// an inherited, pre-connected descriptor in WAYLAND_SOCKET, or the path
// in WAYLAND_DISPLAY (joined with XDG_RUNTIME_DIR when relative).
func connect() (*net.UnixConn, error) {
	if v, ok := os.LookupEnv("WAYLAND_SOCKET"); ok {
		fd, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.Wrap(err, "invalid fd in WAYLAND_SOCKET env var")
		}
		// consume the variable so child processes don't also inherit it
		os.Unsetenv("WAYLAND_SOCKET")
		if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
			return nil, errors.Wrap(err, "failed to set FD_CLOEXEC on WAYLAND_SOCKET fd")
		}
		f := os.NewFile(uintptr(fd), "wayland-socket")
		defer f.Close()
		conn, err := net.FileConn(f)
		if err != nil {
			return nil, errors.Wrap(err, "unable to use WAYLAND_SOCKET fd as a connection")
		}
		uc, ok := conn.(*net.UnixConn)
		if !ok {
			conn.Close()
			return nil, errors.New("WAYLAND_SOCKET fd is not a unix socket")
		}
		return uc, nil
	}

	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		return nil, errors.New("failed to detect wayland compositor: WAYLAND_DISPLAY not set")
	}
	sockPath := display
	if !filepath.IsAbs(sockPath) {
		runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
		if runtimeDir == "" {
			return nil, errors.New("failed to detect wayland compositor: XDG_RUNTIME_DIR not set")
		}
		if !filepath.IsAbs(runtimeDir) {
			return nil, errors.Errorf("failed to detect wayland compositor: XDG_RUNTIME_DIR (%s) is not absolute", runtimeDir)
		}
		sockPath = filepath.Join(runtimeDir, display)
	}

	addr, err := net.ResolveUnixAddr("unix", sockPath)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to resolve unix socket address (%s)", sockPath)
	}
	conn, err := net.DialUnix("unix", nil, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to connect to wayland server at (%s)", sockPath)
	}
	return conn, nil
}
