// Package ntrip implements an NTRIP v1/v2 client (spec §4.9): URL
// parsing, sourcetable retrieval, the connect/stream state machine,
// GGA uplink pacing, and an RTCM forwarder onto a primary device
// session, grounded on the teacher lineage's EnhancedNTrip/OpenEnhancedNtrip
// client and its path-parsing convention (adapted here into a proper
// parser rather than ad hoc string splitting).
package ntrip

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidURL is returned when a caster path cannot be parsed.
var ErrInvalidURL = errors.New("ntrip: invalid url")

const (
	DefaultPort = 2101
)

// URL is a parsed NTRIP caster address: [user[:pass]@]host[:port][/mountpoint].
// Host may be an IPv6 literal in brackets, e.g. [::1]:2101/MOUNT.
type URL struct {
	Username   string
	Password   string
	Host       string
	Port       int
	Mountpoint string
	TLS        bool
}

// ParseURL parses a caster path into its components (spec §4.9's
// scenario S4). It accepts both a bare ntrip path
// ("user:pass@host:port/mount") and a full "ntrip://"/"ntrips://" URL.
func ParseURL(raw string) (URL, error) {
	var u URL
	s := raw
	switch {
	case strings.HasPrefix(s, "ntrips://"):
		u.TLS = true
		s = s[len("ntrips://"):]
	case strings.HasPrefix(s, "ntrip://"):
		s = s[len("ntrip://"):]
	}

	if at := strings.LastIndex(s, "@"); at >= 0 {
		auth := s[:at]
		s = s[at+1:]
		if colon := strings.IndexByte(auth, ':'); colon >= 0 {
			u.Username = auth[:colon]
			u.Password = auth[colon+1:]
		} else {
			u.Username = auth
		}
	}

	hostPort := s
	if slash := strings.IndexByte(s, '/'); slash >= 0 {
		hostPort = s[:slash]
		u.Mountpoint = s[slash+1:]
	}

	host, port, err := splitHostPort(hostPort)
	if err != nil {
		return URL{}, err
	}
	u.Host = host
	u.Port = port
	if u.Port == 0 {
		u.Port = DefaultPort
	}
	if u.Host == "" {
		return URL{}, fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}
	return u, nil
}

// splitHostPort separates a host[:port] pair, honoring IPv6 bracket
// notation ("[::1]:2101") the way net.SplitHostPort does, but
// tolerating a bare host with no port (net.SplitHostPort requires
// one).
func splitHostPort(hostPort string) (host string, port int, err error) {
	if hostPort == "" {
		return "", 0, nil
	}
	if hostPort[0] == '[' {
		end := strings.IndexByte(hostPort, ']')
		if end < 0 {
			return "", 0, fmt.Errorf("%w: unterminated IPv6 literal in %q", ErrInvalidURL, hostPort)
		}
		host = hostPort[1:end]
		rest := hostPort[end+1:]
		if strings.HasPrefix(rest, ":") {
			port, err = strconv.Atoi(rest[1:])
			if err != nil {
				return "", 0, fmt.Errorf("%w: bad port in %q", ErrInvalidURL, hostPort)
			}
		}
		return host, port, nil
	}

	if idx := strings.LastIndexByte(hostPort, ':'); idx >= 0 && strings.Count(hostPort, ":") == 1 {
		host = hostPort[:idx]
		port, err = strconv.Atoi(hostPort[idx+1:])
		if err != nil {
			return "", 0, fmt.Errorf("%w: bad port in %q", ErrInvalidURL, hostPort)
		}
		return host, port, nil
	}
	return hostPort, 0, nil
}

// Address returns the dial-ready "host:port" string, bracketing an
// IPv6 host.
func (u URL) Address() string {
	host := u.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return fmt.Sprintf("%s:%d", host, u.Port)
}
