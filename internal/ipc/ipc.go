// Package ipc resolves and dials the well-known local endpoint where the
// CopyQ server listens for its clipboard monitor.
//
// The endpoint is a Unix domain socket on Linux and macOS and a named pipe
// on Windows. The monitor is the connecting side; the server owns the
// listener. The connect handshake is the only blocking operation in the
// monitor and is bounded by ConnectTimeout — failure to connect is fatal,
// the server being the monitor's sole reason to exist.
package ipc

import (
	"net"
	"os"
	"time"
)

// ServerName is the well-known endpoint name shared with the server.
const ServerName = "copyq_monitor"

// ConnectTimeout bounds the initial connection handshake.
const ConnectTimeout = 2000 * time.Millisecond

// Endpoint returns the platform endpoint address for the monitor channel.
// On unix systems the COPYQ_MONITOR_SOCKET env var overrides the default
// path.
func Endpoint() string {
	if s := os.Getenv("COPYQ_MONITOR_SOCKET"); s != "" {
		return s
	}
	return defaultEndpoint()
}

// Dial connects to the server endpoint, waiting at most ConnectTimeout.
func Dial() (net.Conn, error) {
	return dialEndpoint(Endpoint(), ConnectTimeout)
}
