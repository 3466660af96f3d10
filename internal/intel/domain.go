package intel

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"github.com/miekg/dns"
)

// commonSubdomains is the fixed candidate list probed during subdomain
// enumeration.
var commonSubdomains = []string{
	"www", "mail", "ftp", "webmail", "smtp", "pop", "ns1", "ns2",
	"admin", "api", "dev", "staging", "test", "blog", "shop",
	"vpn", "remote", "portal", "support", "help", "docs",
}

var dnsRecordTypes = []uint16{
	dns.TypeA, dns.TypeAAAA, dns.TypeMX, dns.TypeNS,
	dns.TypeTXT, dns.TypeSOA, dns.TypeCNAME,
}

const dnsTimeout = 5 * time.Second

// DomainModule gathers WHOIS registration data, typed DNS records, common
// subdomains, and reverse DNS of the resolved addresses.
type DomainModule struct {
	client *dns.Client
	server string
}

type DomainOpt func(*DomainModule)

// WithDNSServer overrides the resolver, as "host:port".
func WithDNSServer(server string) DomainOpt {
	return func(m *DomainModule) {
		if server != "" {
			m.server = server
		}
	}
}

func NewDomainModule(opts ...DomainOpt) *DomainModule {
	m := &DomainModule{
		client: &dns.Client{Timeout: dnsTimeout},
		server: "8.8.8.8:53",
	}

	// Prefer the system resolver when one is configured.
	if conf, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(conf.Servers) > 0 {
		m.server = net.JoinHostPort(conf.Servers[0], conf.Port)
	}

	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *DomainModule) Name() string { return ModuleDomain }

func (m *DomainModule) Collect(ctx context.Context, target Target) (Payload, error) {
	payload := &DomainPayload{
		Target:      target.Value,
		Timestamp:   time.Now().UTC(),
		DNSRecords:  make(map[string][]string, len(dnsRecordTypes)),
		Subdomains:  []Subdomain{},
		IPAddresses: []string{},
		Nameservers: []string{},
		MailServers: []string{},
		ReverseDNS:  []ReverseDNSEntry{},
	}

	payload.Whois = m.lookupWhois(target.Value)

	for _, qtype := range dnsRecordTypes {
		name := dns.TypeToString[qtype]
		records := m.query(ctx, target.Value, qtype)
		payload.DNSRecords[name] = records

		switch qtype {
		case dns.TypeA:
			payload.IPAddresses = append(payload.IPAddresses, records...)
		case dns.TypeNS:
			payload.Nameservers = append(payload.Nameservers, records...)
		case dns.TypeMX:
			payload.MailServers = append(payload.MailServers, records...)
		}
	}

	for _, sub := range commonSubdomains {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fqdn := fmt.Sprintf("%s.%s", sub, target.Value)
		if addrs := m.query(ctx, fqdn, dns.TypeA); len(addrs) > 0 {
			payload.Subdomains = append(payload.Subdomains, Subdomain{
				Subdomain:   fqdn,
				IPAddresses: addrs,
			})
		}
	}

	// Reverse DNS of the first few addresses is enough signal.
	ips := payload.IPAddresses
	if len(ips) > 5 {
		ips = ips[:5]
	}
	for _, ip := range ips {
		if host := m.reverseLookup(ctx, ip); host != "" {
			payload.ReverseDNS = append(payload.ReverseDNS, ReverseDNSEntry{IP: ip, Hostname: host})
		}
	}

	return payload, nil
}

func (m *DomainModule) lookupWhois(domain string) WhoisInfo {
	raw, err := whois.Whois(domain)
	if err != nil {
		return WhoisInfo{Error: err.Error()}
	}

	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		return WhoisInfo{Error: err.Error()}
	}

	info := WhoisInfo{
		NameServers: []string{},
		Status:      []string{},
		Emails:      []string{},
	}
	if parsed.Registrar != nil {
		info.Registrar = parsed.Registrar.Name
	}
	if d := parsed.Domain; d != nil {
		info.CreationDate = d.CreatedDate
		info.ExpirationDate = d.ExpirationDate
		info.NameServers = append(info.NameServers, d.NameServers...)
		info.Status = append(info.Status, d.Status...)
	}
	if r := parsed.Registrant; r != nil {
		info.Org = r.Organization
		info.Country = r.Country
		if r.Email != "" {
			info.Emails = append(info.Emails, r.Email)
		}
	}
	return info
}

// query resolves one record type, returning the record data as presentation
// strings. Lookup failures read as an empty record set, matching how an
// absent record looks.
func (m *DomainModule) query(ctx context.Context, name string, qtype uint16) []string {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	resp, _, err := m.client.ExchangeContext(ctx, msg, m.server)
	if err != nil || resp == nil || resp.Rcode != dns.RcodeSuccess {
		return []string{}
	}

	records := make([]string, 0, len(resp.Answer))
	for _, rr := range resp.Answer {
		if rr.Header().Rrtype != qtype {
			continue
		}
		records = append(records, recordData(rr))
	}
	return records
}

func (m *DomainModule) reverseLookup(ctx context.Context, ip string) string {
	arpa, err := dns.ReverseAddr(ip)
	if err != nil {
		return ""
	}

	msg := new(dns.Msg)
	msg.SetQuestion(arpa, dns.TypePTR)
	msg.RecursionDesired = true

	resp, _, err := m.client.ExchangeContext(ctx, msg, m.server)
	if err != nil || resp == nil {
		return ""
	}
	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return strings.TrimSuffix(ptr.Ptr, ".")
		}
	}
	return ""
}

// recordData strips the RR header, leaving just the record data the way a
// zone file shows it.
func recordData(rr dns.RR) string {
	full := rr.String()
	header := rr.Header().String()
	if strings.HasPrefix(full, header) {
		return strings.TrimSpace(full[len(header):])
	}
	return full
}
