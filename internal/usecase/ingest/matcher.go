package ingest

import (
	"net/mail"
	"strings"

	"github.com/johnquangdev/clientpulse/internal/domain/entities"
)

// ParseSender extracts the bare address from a "Name <user@domain>" or
// bare-address header. ok is false for anything without a usable address.
func ParseSender(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	if addr, err := mail.ParseAddress(header); err == nil {
		return normalizeAddress(addr.Address)
	}

	// Headers with unquoted special characters in the display name fail
	// strict parsing; fall back to the last angle-bracketed part.
	if open := strings.LastIndex(header, "<"); open != -1 {
		if end := strings.Index(header[open:], ">"); end != -1 {
			return normalizeAddress(header[open+1 : open+end])
		}
		return "", false
	}
	return normalizeAddress(header)
}

func normalizeAddress(addr string) (string, bool) {
	addr = strings.ToLower(strings.TrimSpace(addr))
	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 || strings.ContainsAny(addr, " \t<>,;") {
		return "", false
	}
	return addr, true
}

// DomainOf returns the domain part of a normalised address
func DomainOf(addr string) string {
	if at := strings.LastIndex(addr, "@"); at != -1 {
		return addr[at+1:]
	}
	return ""
}

// FindClientForEmail resolves a sender header to a client: exact domain match
// first, then exact contact email match, first hit in directory order. It
// returns nil when nothing matches or the header is malformed.
func FindClientForEmail(clients []entities.Client, fromHeader string) *entities.Client {
	addr, ok := ParseSender(fromHeader)
	if !ok {
		return nil
	}
	domain := DomainOf(addr)

	for i := range clients {
		if clients[i].HasDomain(domain) {
			return &clients[i]
		}
	}
	for i := range clients {
		if clients[i].HasContactEmail(addr) {
			return &clients[i]
		}
	}
	return nil
}
