package portscan

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"
)

// startListener starts a local TCP listener that writes greeting (when not
// empty) to every accepted connection. Returns the listener port.
func startListener(t *testing.T, greeting string) (int, func()) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start listener: %v", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				if greeting != "" {
					c.Write([]byte(greeting))
				}
				time.Sleep(100 * time.Millisecond)
			}(conn)
		}
	}()

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("Failed to split listener address: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	return port, func() { ln.Close() }
}

// closedPort grabs a free port and releases it so nothing is listening there.
func closedPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to reserve port: %v", err)
	}
	_, portStr, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()

	port, _ := strconv.Atoi(portStr)
	return port
}

func TestProbe_OpenPortWithBanner(t *testing.T) {
	port, cleanup := startListener(t, "220 mail.example.com ESMTP ready\r\n")
	defer cleanup()

	result := Probe(context.Background(), "127.0.0.1", port, DefaultConnectTimeout, DefaultBannerWait)

	if !result.Open {
		t.Fatalf("Expected port %d to be open", port)
	}
	if result.Banner != "220 mail.example.com ESMTP ready" {
		t.Errorf("Unexpected banner: %q", result.Banner)
	}
	if result.Port != port {
		t.Errorf("Expected port %d in result, got %d", port, result.Port)
	}
}

func TestProbe_OpenPortWithoutBanner(t *testing.T) {
	port, cleanup := startListener(t, "")
	defer cleanup()

	result := Probe(context.Background(), "127.0.0.1", port, DefaultConnectTimeout, 200*time.Millisecond)

	if !result.Open {
		t.Fatalf("Expected port %d to be open", port)
	}
	if result.Banner != "" {
		t.Errorf("Expected empty banner for silent service, got %q", result.Banner)
	}
}

func TestProbe_ClosedPort(t *testing.T) {
	port := closedPort(t)

	result := Probe(context.Background(), "127.0.0.1", port, DefaultConnectTimeout, DefaultBannerWait)

	if result.Open {
		t.Fatalf("Expected port %d to be closed", port)
	}
	if result.Banner != "" {
		t.Errorf("Closed port must not carry a banner, got %q", result.Banner)
	}
}

func TestProbe_CancelledContext(t *testing.T) {
	port, cleanup := startListener(t, "hello")
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Probe(ctx, "127.0.0.1", port, DefaultConnectTimeout, DefaultBannerWait)

	if result.Open {
		t.Error("Probe with cancelled context must report the port closed")
	}
}

func TestProbe_ClosedPortWithinDeadline(t *testing.T) {
	port := closedPort(t)

	start := time.Now()
	Probe(context.Background(), "127.0.0.1", port, DefaultConnectTimeout, DefaultBannerWait)
	elapsed := time.Since(start)

	// Connect refusals on loopback come back immediately; allow tolerance
	// over the connect deadline for slow CI machines.
	if elapsed > DefaultConnectTimeout+500*time.Millisecond {
		t.Errorf("Probe of closed port took %v, expected under connect deadline", elapsed)
	}
}
