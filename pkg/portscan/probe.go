package portscan

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// maxBannerBytes caps how much of a service greeting is captured.
const maxBannerBytes = 1024

// PortResult is the outcome of probing a single port.
type PortResult struct {
	Port    int    `json:"port"`
	Open    bool   `json:"open"`
	Service string `json:"service"`
	Banner  string `json:"banner,omitempty"`
}

// Probe attempts a TCP connect to address:port within connectTimeout. On an
// open port it waits up to bannerWait for the service to volunteer a banner.
// Probe never fails: every connect error, whatever its cause, is reported as
// a closed port, and a silent or unreadable banner leaves Banner empty.
func Probe(ctx context.Context, address string, port int, connectTimeout, bannerWait time.Duration) PortResult {
	result := PortResult{
		Port:    port,
		Service: ServiceName(port),
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(address, fmt.Sprintf("%d", port)))
	if err != nil {
		// refused, timeout, unreachable: all read as closed
		return result
	}
	defer conn.Close()

	result.Open = true
	result.Banner = readBanner(conn, bannerWait)
	result.Service = identifyService(port, result.Banner)
	return result
}

// readBanner reads whatever the service sends first, under its own deadline.
// No data within the deadline is normal for protocols where the client
// speaks first (HTTP, TLS), so errors here are swallowed.
func readBanner(conn net.Conn, wait time.Duration) string {
	if err := conn.SetReadDeadline(time.Now().Add(wait)); err != nil {
		return ""
	}

	buf := make([]byte, maxBannerBytes)
	n, _ := conn.Read(buf)
	if n <= 0 {
		return ""
	}

	return strings.TrimSpace(strings.ToValidUTF8(string(buf[:n]), ""))
}
