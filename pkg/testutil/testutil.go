// Package testutil provides testing utilities for the reconai application
package testutil

import (
	"context"
	"net"
	"testing"
	"time"
)

// WithTimeout creates a context with timeout for tests
func WithTimeout(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

// Listen opens a TCP listener on a loopback port and returns it with the
// bound port number. Callers own closing the listener.
func Listen(t *testing.T) (net.Listener, int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to open listener: %v", err)
	}
	return ln, ln.Addr().(*net.TCPAddr).Port
}

// BannerListener serves a fixed banner to every connection until the
// listener is closed. An empty banner accepts and closes silently.
func BannerListener(t *testing.T, banner string) (net.Listener, int) {
	t.Helper()

	ln, port := Listen(t)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				if banner != "" {
					c.Write([]byte(banner))
				}
				time.Sleep(100 * time.Millisecond)
			}(conn)
		}
	}()
	return ln, port
}
