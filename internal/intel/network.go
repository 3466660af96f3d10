package intel

import (
	"context"
	"time"

	"reconai/pkg/portscan"
)

// NetworkModule runs the TCP port reconnaissance. It is the only module
// whose probe failure taxonomy matters: an unresolvable host is a module
// error, while individual closed ports are ordinary data.
type NetworkModule struct {
	scanner *portscan.Scanner
}

func NewNetworkModule(scanner *portscan.Scanner) *NetworkModule {
	if scanner == nil {
		scanner = portscan.NewScanner()
	}
	return &NetworkModule{scanner: scanner}
}

func (m *NetworkModule) Name() string { return ModuleNetwork }

func (m *NetworkModule) Collect(ctx context.Context, target Target) (Payload, error) {
	result, err := m.scanner.Scan(ctx, target.Value)
	if err != nil {
		return nil, err
	}

	return &NetworkPayload{
		Target:      target.Value,
		IPAddress:   result.Address,
		Timestamp:   time.Now().UTC(),
		Ports:       result.Ports,
		OpenPorts:   result.OpenPorts(),
		ClosedPorts: result.ClosedPorts(),
		Services:    result.Services(),
		Banners:     result.Banners(),
	}, nil
}
