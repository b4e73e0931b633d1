package ipc

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// SocketPath is where the daemon listens for control requests.
func SocketPath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = "/tmp/swww"
	}
	return filepath.Join(runtimeDir, "swww.socket")
}

// CachePath returns the directory used to remember which image each
// output displays, creating it if needed.
func CachePath() (string, error) {
	var dir string
	if cache := os.Getenv("XDG_CACHE_HOME"); cache != "" {
		dir = filepath.Join(cache, "swww")
	} else if home := os.Getenv("HOME"); home != "" {
		dir = filepath.Join(home, ".cache", "swww")
	} else {
		return "", errors.New("failed to read both XDG_CACHE_HOME and HOME env vars")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create cache path %q", dir)
	}
	return dir, nil
}
