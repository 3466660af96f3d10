package portscan

import "strings"

// signature maps a banner substring to the service that produced it. Matching
// is first-hit over an ordered list so specific products win over generic
// protocol greetings.
type signature struct {
	match   string
	service string
}

var bannerSignatures = []signature{
	{"SSH-2.0-OpenSSH", "OpenSSH"},
	{"SSH-", "SSH"},
	{"ESMTP Postfix", "Postfix SMTP"},
	{"ESMTP Exim", "Exim SMTP"},
	{"ESMTP", "SMTP"},
	{"FTP", "FTP"},
	{"SMTP", "SMTP"},
	{"+OK", "POP3"},
	{"* OK", "IMAP"},
	{"HTTP/", "HTTP"},
	{"nginx", "Nginx"},
	{"Apache", "Apache"},
	{"Microsoft-IIS", "IIS"},
	{"mysql_native_password", "MySQL"},
	{"MariaDB", "MariaDB"},
	{"MongoDB", "MongoDB"},
	{"-ERR wrong number", "Redis"},
	{"Redis", "Redis"},
	{"RFB ", "VNC"},
	{"AMQP", "RabbitMQ"},
	// Bare 220 greetings with no product hint read as SMTP. FTP servers
	// open with 220 too, but every common one names FTP in the banner.
	{"220 ", "SMTP"},
	{"220-", "SMTP"},
}

// identifyService refines the port-table label using the captured banner.
// With no banner, or no match, the port-number label stands.
func identifyService(port int, banner string) string {
	if banner != "" {
		for _, sig := range bannerSignatures {
			if strings.Contains(banner, sig.match) {
				return sig.service
			}
		}
	}
	return ServiceName(port)
}
