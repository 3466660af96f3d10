package intel

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	apperrors "reconai/pkg/errors"
	"reconai/pkg/portscan"
	"reconai/pkg/testutil"
)

func TestNetworkModule_LocalScan(t *testing.T) {
	ln, openPort := testutil.BannerListener(t, "SSH-2.0-OpenSSH_9.6\r\n")
	defer ln.Close()

	scanner := portscan.NewScanner(
		portscan.WithPorts([]int{openPort}),
		portscan.WithConnectTimeout(time.Second),
		portscan.WithBannerWait(100*time.Millisecond),
	)

	payload, err := NewNetworkModule(scanner).Collect(context.Background(), Target{Value: "127.0.0.1"})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	network := payload.(*NetworkPayload)
	if network.IPAddress != "127.0.0.1" {
		t.Errorf("Expected resolved address 127.0.0.1, got %q", network.IPAddress)
	}
	if len(network.OpenPorts) != 1 || network.OpenPorts[0] != openPort {
		t.Errorf("Expected open port %d, got %v", openPort, network.OpenPorts)
	}
}

func TestNetworkModule_DeadlineExpiryIsErrorOutcome(t *testing.T) {
	scanner := portscan.NewScanner(
		portscan.WithPorts([]int{80, 443}),
		portscan.WithConnectTimeout(time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	out := Run(ctx, NewNetworkModule(scanner), Target{Value: "127.0.0.1"})
	if out.OK() {
		t.Fatal("Expected error outcome when the deadline expires mid-scan")
	}
	if out.Err != context.DeadlineExceeded.Error() {
		t.Errorf("Expected the timeout reason, got %q", out.Err)
	}
}

func TestNetworkModule_UnresolvableHostIsModuleError(t *testing.T) {
	scanner := portscan.NewScanner(
		portscan.WithPorts([]int{80}),
		portscan.WithConnectTimeout(500*time.Millisecond),
	)

	_, err := NewNetworkModule(scanner).Collect(context.Background(), Target{
		Value: "definitely-not-a-real-host.invalid",
	})
	if err == nil {
		t.Fatal("Expected resolution error")
	}

	var resErr *apperrors.ResolutionError
	if !stderrors.As(err, &resErr) {
		t.Errorf("Expected ResolutionError, got %T: %v", err, err)
	}

	// Through the runner this becomes an error outcome, not a crash.
	out := Run(context.Background(), NewNetworkModule(scanner), Target{Value: "definitely-not-a-real-host.invalid"})
	if out.OK() {
		t.Error("Expected error outcome for unresolvable host")
	}
}
