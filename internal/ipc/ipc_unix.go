//go:build !windows

package ipc

import (
	"net"
	"os"
	"path/filepath"
	"time"
)

func defaultEndpoint() string {
	// Linux: prefer XDG_RUNTIME_DIR
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, ServerName+".sock")
	}
	// macOS / fallback
	return filepath.Join(os.TempDir(), ServerName+".sock")
}

func dialEndpoint(addr string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", addr, timeout)
}
