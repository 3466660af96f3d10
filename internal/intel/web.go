package intel

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// auditedHeaders is the security-header set the module grades against.
var auditedHeaders = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-Content-Type-Options",
	"X-XSS-Protection",
	"Referrer-Policy",
	"Permissions-Policy",
}

const (
	webRequestTimeout = 10 * time.Second
	tlsProbeTimeout   = 5 * time.Second
	maxRobotsBytes    = 16 * 1024
)

// WebModule inspects the HTTP services a target exposes: response headers on
// both schemes, a security-header audit, technology fingerprints, crawl
// artifacts, and the certificate on 443.
type WebModule struct {
	client *http.Client
}

func NewWebModule() *WebModule {
	return &WebModule{
		client: &http.Client{
			Timeout: webRequestTimeout,
			Transport: &http.Transport{
				// Reconnaissance wants the headers even from hosts with
				// broken certificate chains.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

func (m *WebModule) Name() string { return ModuleWeb }

func (m *WebModule) Collect(ctx context.Context, target Target) (Payload, error) {
	host := strings.TrimPrefix(strings.TrimPrefix(target.Value, "https://"), "http://")
	host = strings.TrimSuffix(host, "/")

	payload := &WebPayload{
		Target:       target.Value,
		Timestamp:    time.Now().UTC(),
		StatusCodes:  make(map[string]int),
		HTTPHeaders:  map[string]string{},
		HTTPSHeaders: map[string]string{},
		Technologies: []string{},
	}

	httpsURL := "https://" + host
	httpURL := "http://" + host

	var auditSource http.Header

	if resp, err := m.get(ctx, httpsURL); err == nil {
		payload.StatusCodes["https"] = resp.StatusCode
		payload.HTTPSHeaders = flattenHeaders(resp.Header)
		auditSource = resp.Header
		resp.Body.Close()
	}

	if resp, err := m.get(ctx, httpURL); err == nil {
		payload.StatusCodes["http"] = resp.StatusCode
		payload.HTTPHeaders = flattenHeaders(resp.Header)
		if auditSource == nil {
			auditSource = resp.Header
		}
		resp.Body.Close()
	}

	if auditSource != nil {
		payload.SecurityHeaders = auditSecurityHeaders(auditSource)
		payload.Technologies = detectTechnologies(auditSource)
	}

	payload.RobotsTxt = m.fetchBody(ctx, httpsURL+"/robots.txt")
	if m.exists(ctx, httpsURL+"/sitemap.xml") {
		payload.Sitemap = "Found"
	}

	payload.TLS = probeTLS(ctx, host)

	return payload, nil
}

func (m *WebModule) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return m.client.Do(req)
}

func (m *WebModule) fetchBody(ctx context.Context, url string) string {
	resp, err := m.get(ctx, url)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return ""
	}
	return string(body)
}

func (m *WebModule) exists(ctx context.Context, url string) bool {
	resp, err := m.get(ctx, url)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func flattenHeaders(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for key, values := range h {
		flat[key] = strings.Join(values, ", ")
	}
	return flat
}

func auditSecurityHeaders(h http.Header) SecurityHeaders {
	audit := SecurityHeaders{Headers: make(map[string]string, len(auditedHeaders))}

	present := 0
	for _, name := range auditedHeaders {
		if value := h.Get(name); value != "" {
			audit.Headers[name] = value
			present++
		} else {
			audit.Headers[name] = "Missing"
		}
	}

	audit.Score = fmt.Sprintf("%d/%d", present, len(auditedHeaders))
	audit.Grade = headerGrade(present, len(auditedHeaders))
	return audit
}

func headerGrade(score, total int) string {
	percentage := float64(score) / float64(total) * 100
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

func detectTechnologies(h http.Header) []string {
	technologies := []string{}

	server := strings.ToLower(h.Get("Server"))
	switch {
	case strings.Contains(server, "nginx"):
		technologies = append(technologies, "Nginx")
	case strings.Contains(server, "apache"):
		technologies = append(technologies, "Apache")
	case strings.Contains(server, "cloudflare"):
		technologies = append(technologies, "Cloudflare")
	case strings.Contains(server, "microsoft"), strings.Contains(server, "iis"):
		technologies = append(technologies, "IIS")
	}

	poweredBy := strings.ToLower(h.Get("X-Powered-By"))
	switch {
	case strings.Contains(poweredBy, "php"):
		technologies = append(technologies, "PHP")
	case strings.Contains(poweredBy, "asp.net"):
		technologies = append(technologies, "ASP.NET")
	}

	return technologies
}

// probeTLS connects to port 443 and reads the served certificate. Failures
// are recorded in the payload, not raised: a host without TLS is a finding.
func probeTLS(ctx context.Context, host string) TLSInfo {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: tlsProbeTimeout},
		Config: &tls.Config{
			ServerName:         hostname,
			InsecureSkipVerify: true,
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(hostname, "443"))
	if err != nil {
		return TLSInfo{Error: err.Error()}
	}
	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return TLSInfo{Error: "not a TLS connection"}
	}

	state := tlsConn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return TLSInfo{Error: "no peer certificate presented"}
	}

	cert := state.PeerCertificates[0]
	return TLSInfo{
		SubjectCN:    cert.Subject.CommonName,
		Issuer:       cert.Issuer.String(),
		NotBefore:    cert.NotBefore,
		NotAfter:     cert.NotAfter,
		SerialNumber: cert.SerialNumber.String(),
		Protocol:     tls.VersionName(state.Version),
		SAN:          cert.DNSNames,
	}
}
