// Package listener binds the first free TCP port at or above a preferred one.
package listener

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Listen tries host:port, host:port+1, ... for up to attempts ports and keeps
// the first listener that binds. Only "address in use" moves on to the next
// port; any other bind error is returned as is.
func Listen(host string, port, attempts int) (net.Listener, error) {
	if attempts < 1 {
		attempts = 1
	}
	for i := range attempts {
		addr := net.JoinHostPort(host, fmt.Sprint(port+i))
		lis, err := net.Listen("tcp", addr)
		if err == nil {
			return lis, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("listen %s: %w", addr, err)
		}
	}
	return nil, fmt.Errorf("no free port in %d..%d", port, port+attempts-1)
}

// Port returns the TCP port lis is bound to.
func Port(lis net.Listener) int {
	if a, ok := lis.Addr().(*net.TCPAddr); ok {
		return a.Port
	}
	return 0
}
