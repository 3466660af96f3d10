package portscan

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"reconai/pkg/errors"
)

func TestServiceName(t *testing.T) {
	testCases := []struct {
		port     int
		expected string
	}{
		{22, "SSH"},
		{443, "HTTPS"},
		{587, "SMTP (Submission)"},
		{3306, "MySQL"},
		{27017, "MongoDB"},
		{12345, "Unknown"},
	}

	for _, tc := range testCases {
		if actual := ServiceName(tc.port); actual != tc.expected {
			t.Errorf("ServiceName(%d) = %q, expected %q", tc.port, actual, tc.expected)
		}
	}
}

func TestScanner_PreservesPortOrder(t *testing.T) {
	openPort, cleanup := startListener(t, "SSH-2.0-OpenSSH_9.6\r\n")
	defer cleanup()

	ports := []int{closedPort(t), openPort, closedPort(t)}

	scanner := NewScanner(
		WithPorts(ports),
		WithConnectTimeout(time.Second),
		WithBannerWait(300*time.Millisecond),
	)

	result, err := scanner.Scan(context.Background(), "127.0.0.1")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(result.Ports) != len(ports) {
		t.Fatalf("Expected %d results, got %d", len(ports), len(result.Ports))
	}
	for i, want := range ports {
		if result.Ports[i].Port != want {
			t.Errorf("Result %d: expected port %d, got %d", i, want, result.Ports[i].Port)
		}
	}

	if !result.Ports[1].Open {
		t.Error("Listener port not reported open")
	}
	if result.Ports[0].Open || result.Ports[2].Open {
		t.Error("Closed ports reported open")
	}
	if result.Ports[1].Banner != "SSH-2.0-OpenSSH_9.6" {
		t.Errorf("Unexpected banner: %q", result.Ports[1].Banner)
	}
}

func TestScanner_UnresolvableHost(t *testing.T) {
	scanner := NewScanner(WithConnectTimeout(time.Second))

	result, err := scanner.Scan(context.Background(), "definitely-not-a-host.invalid")
	if err == nil {
		t.Fatal("Expected resolution error for unresolvable host")
	}
	if result != nil {
		t.Errorf("Expected no result on resolution failure, got %+v", result)
	}

	var resErr *errors.ResolutionError
	if !stderrors.As(err, &resErr) {
		t.Fatalf("Expected *errors.ResolutionError, got %T: %v", err, err)
	}
	if resErr.Host != "definitely-not-a-host.invalid" {
		t.Errorf("ResolutionError carries wrong host: %q", resErr.Host)
	}
}

func TestScanner_DerivedViews(t *testing.T) {
	openPort, cleanup := startListener(t, "220 ready\r\n")
	defer cleanup()

	silentPort, cleanupSilent := startListener(t, "")
	defer cleanupSilent()

	ports := []int{openPort, closedPort(t), silentPort}

	scanner := NewScanner(
		WithPorts(ports),
		WithConnectTimeout(time.Second),
		WithBannerWait(200*time.Millisecond),
	)

	result, err := scanner.Scan(context.Background(), "127.0.0.1")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	open := result.OpenPorts()
	if len(open) != 2 {
		t.Fatalf("Expected 2 open ports, got %d: %v", len(open), open)
	}
	if open[0] != openPort || open[1] != silentPort {
		t.Errorf("Open ports out of probe order: %v", open)
	}

	if closed := result.ClosedPorts(); len(closed) != 1 {
		t.Errorf("Expected 1 closed port, got %v", closed)
	}

	services := result.Services()
	if len(services) != 2 {
		t.Errorf("Services map should cover open ports only, got %v", services)
	}

	banners := result.Banners()
	if len(banners) != 1 {
		t.Fatalf("Expected exactly one banner, got %v", banners)
	}
	if banners[openPort] != "220 ready" {
		t.Errorf("Unexpected banner for port %d: %q", openPort, banners[openPort])
	}
}

func TestScanner_ExpiredContext(t *testing.T) {
	scanner := NewScanner(
		WithPorts([]int{closedPort(t), closedPort(t)}),
		WithConnectTimeout(time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	// A scan cut short must not pass off unprobed ports as closed data.
	result, err := scanner.Scan(ctx, "127.0.0.1")
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected context.DeadlineExceeded, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected no result after deadline expiry, got %+v", result)
	}
}

func TestScanner_ExpiredContextWithRateLimit(t *testing.T) {
	scanner := NewScanner(
		WithPorts([]int{closedPort(t), closedPort(t), closedPort(t)}),
		WithConnectTimeout(time.Second),
		WithRateLimit(1),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// The limiter may refuse the wait before the deadline itself passes, so
	// only an error of some kind is guaranteed here.
	result, err := scanner.Scan(ctx, "127.0.0.1")
	if err == nil {
		t.Fatal("Expected an error when the deadline cuts the paced scan short")
	}
	if result != nil {
		t.Errorf("Expected no result after deadline expiry, got %+v", result)
	}
}

func TestScanner_BoundedWorkers(t *testing.T) {
	ports := make([]int, 0, 8)
	for i := 0; i < 8; i++ {
		ports = append(ports, closedPort(t))
	}

	scanner := NewScanner(
		WithPorts(ports),
		WithWorkers(2),
		WithConnectTimeout(time.Second),
	)

	if scanner.workers != 2 {
		t.Fatalf("Expected 2 workers, got %d", scanner.workers)
	}

	result, err := scanner.Scan(context.Background(), "127.0.0.1")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Ports) != len(ports) {
		t.Errorf("Expected %d results, got %d", len(ports), len(result.Ports))
	}
}

func TestScanner_WorkersNeverExceedPorts(t *testing.T) {
	scanner := NewScanner(WithPorts([]int{80, 443}), WithWorkers(50))
	if scanner.workers != 2 {
		t.Errorf("Expected workers capped at port count, got %d", scanner.workers)
	}
}

func TestResolveIPv4(t *testing.T) {
	testCases := []struct {
		name    string
		target  string
		want    string
		wantErr bool
	}{
		{
			name:   "ipv4 literal passes through",
			target: "192.0.2.10",
			want:   "192.0.2.10",
		},
		{
			name:   "loopback",
			target: "127.0.0.1",
			want:   "127.0.0.1",
		},
		{
			name:    "unresolvable host",
			target:  "nonexistent.invalid",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveIPv4(tc.target)

			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error resolving %q, got %q", tc.target, got)
				}
				return
			}

			if err != nil {
				t.Fatalf("ResolveIPv4(%q) failed: %v", tc.target, err)
			}
			if got != tc.want {
				t.Errorf("ResolveIPv4(%q) = %q, expected %q", tc.target, got, tc.want)
			}
		})
	}
}
