// Package portscan implements concurrent TCP reconnaissance against a fixed
// set of commonly exposed ports.
package portscan

import (
	"context"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"reconai/pkg/errors"
	"reconai/pkg/logger"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultConnectTimeout bounds each TCP connect attempt.
	DefaultConnectTimeout = 2 * time.Second
	// DefaultBannerWait bounds the banner read on an open port.
	DefaultBannerWait = 1 * time.Second
)

// ScannerOpts holds scanner construction options.
type ScannerOpts struct {
	ports          []int
	workers        int
	connectTimeout time.Duration
	bannerWait     time.Duration
	limiter        *rate.Limiter
	logger         *logger.Logger
}

type OptFunc func(*ScannerOpts)

// Scanner probes a target's ports through a bounded worker pool and reports
// results in the order of the configured port list.
type Scanner struct {
	ScannerOpts
}

// NewScanner creates a scanner for the CommonPorts set. The worker pool
// defaults to the port-list length, so the whole set is in flight at once
// while larger custom lists stay capped.
func NewScanner(opts ...OptFunc) *Scanner {
	o := ScannerOpts{
		ports:          CommonPorts,
		connectTimeout: DefaultConnectTimeout,
		bannerWait:     DefaultBannerWait,
		logger:         logger.NewLogger(logrus.InfoLevel),
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.workers <= 0 {
		o.workers = len(CommonPorts)
	}
	if o.workers > len(o.ports) {
		o.workers = len(o.ports)
	}

	return &Scanner{ScannerOpts: o}
}

func WithPorts(ports []int) OptFunc {
	return func(opts *ScannerOpts) {
		if len(ports) > 0 {
			opts.ports = ports
		}
	}
}

func WithWorkers(n int) OptFunc {
	return func(opts *ScannerOpts) {
		opts.workers = n
	}
}

func WithConnectTimeout(d time.Duration) OptFunc {
	return func(opts *ScannerOpts) {
		if d > 0 {
			opts.connectTimeout = d
		}
	}
}

func WithBannerWait(d time.Duration) OptFunc {
	return func(opts *ScannerOpts) {
		if d > 0 {
			opts.bannerWait = d
		}
	}
}

// WithRateLimit paces probe starts to at most probesPerSecond.
func WithRateLimit(probesPerSecond float64) OptFunc {
	return func(opts *ScannerOpts) {
		if probesPerSecond > 0 {
			opts.limiter = rate.NewLimiter(rate.Limit(probesPerSecond), 1)
		}
	}
}

func WithLogger(l *logger.Logger) OptFunc {
	return func(opts *ScannerOpts) {
		opts.logger = l
	}
}

// ScanResult carries every per-port outcome for one target, ordered as the
// configured port list regardless of probe completion order.
type ScanResult struct {
	Target  string
	Address string
	Ports   []PortResult
}

// OpenPorts lists the open ports in probe order.
func (r *ScanResult) OpenPorts() []int {
	open := make([]int, 0, len(r.Ports))
	for _, p := range r.Ports {
		if p.Open {
			open = append(open, p.Port)
		}
	}
	return open
}

// ClosedPorts lists the ports that did not accept a connection, in probe order.
func (r *ScanResult) ClosedPorts() []int {
	closed := make([]int, 0, len(r.Ports))
	for _, p := range r.Ports {
		if !p.Open {
			closed = append(closed, p.Port)
		}
	}
	return closed
}

// Services maps each open port to its service label.
func (r *ScanResult) Services() map[int]string {
	services := make(map[int]string)
	for _, p := range r.Ports {
		if p.Open {
			services[p.Port] = p.Service
		}
	}
	return services
}

// Banners maps each open port to the banner it volunteered, if any.
func (r *ScanResult) Banners() map[int]string {
	banners := make(map[int]string)
	for _, p := range r.Ports {
		if p.Open && p.Banner != "" {
			banners[p.Port] = p.Banner
		}
	}
	return banners
}

// Scan resolves the target and probes every configured port. An unresolvable
// target is a ResolutionError; individual port failures are data, not errors.
// Cancelling ctx stops outstanding probes and surfaces ctx.Err, since a cut
// short scan would otherwise report unprobed ports as closed.
func (s *Scanner) Scan(ctx context.Context, target string) (*ScanResult, error) {
	address, err := ResolveIPv4(target)
	if err != nil {
		return nil, errors.NewResolutionError(target, err)
	}

	s.logger.WithFields(logger.Fields{
		"target":  target,
		"address": address,
		"ports":   len(s.ports),
		"workers": s.workers,
	}).Debug("Port scan started")

	results := make([]PortResult, len(s.ports))
	for i, port := range s.ports {
		results[i] = PortResult{Port: port, Service: ServiceName(port)}
	}

	jobs := make(chan int, len(s.ports))
	var wg sync.WaitGroup

	// The limiter can refuse a wait before the deadline actually passes, so
	// its error is kept separately from ctx.Err.
	var limiterErr error
	var limiterOnce sync.Once

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if s.limiter != nil {
					if err := s.limiter.Wait(ctx); err != nil {
						limiterOnce.Do(func() { limiterErr = err })
						return
					}
				}
				results[idx] = Probe(ctx, address, s.ports[idx], s.connectTimeout, s.bannerWait)
			}
		}()
	}

	for idx := range s.ports {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limiterErr != nil {
		return nil, limiterErr
	}

	result := &ScanResult{
		Target:  target,
		Address: address,
		Ports:   results,
	}

	s.logger.WithFields(logger.Fields{
		"target": target,
		"open":   len(result.OpenPorts()),
	}).Debug("Port scan finished")

	return result, nil
}

// ResolveIPv4 resolves a hostname to its first IPv4 address. IP literals
// pass through untouched.
func ResolveIPv4(target string) (string, error) {
	if ip := net.ParseIP(target); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4.String(), nil
		}
		return ip.String(), nil
	}

	ips, err := net.LookupIP(target)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return ips[0].String(), nil
}
