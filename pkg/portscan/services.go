package portscan

// CommonPorts is the default probe set: the ports most often exposed by
// internet-facing hosts, in the order results are reported.
var CommonPorts = []int{
	21, 22, 23, 25, 53, 80, 110, 143, 443, 465,
	587, 993, 995, 3306, 3389, 5432, 5900, 8080, 8443, 27017,
}

var serviceNames = map[int]string{
	21:    "FTP",
	22:    "SSH",
	23:    "Telnet",
	25:    "SMTP",
	53:    "DNS",
	80:    "HTTP",
	110:   "POP3",
	143:   "IMAP",
	443:   "HTTPS",
	465:   "SMTPS",
	587:   "SMTP (Submission)",
	993:   "IMAPS",
	995:   "POP3S",
	3306:  "MySQL",
	3389:  "RDP",
	5432:  "PostgreSQL",
	5900:  "VNC",
	8080:  "HTTP-Proxy",
	8443:  "HTTPS-Alt",
	27017: "MongoDB",
}

// ServiceName maps a port number to its conventional service label.
func ServiceName(port int) string {
	if name, ok := serviceNames[port]; ok {
		return name
	}
	return "Unknown"
}
