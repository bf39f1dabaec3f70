package ntrip

import (
	"strconv"
	"strings"
)

// EntryKind tags a sourcetable line as one of the three NTRIP record
// types.
type EntryKind int

const (
	EntryStream EntryKind = iota
	EntryCaster
	EntryNetwork
)

// StreamEntry describes one STR record: a mountpoint carrying RTCM (or
// other) corrections.
type StreamEntry struct {
	Mountpoint string
	Identifier string
	Format     string
	FormatDet  string
	Carrier    string
	NavSystem  string
	Network    string
	Country    string
	Latitude   float64
	Longitude  float64
	NMEARequired bool
	Solution   string
	Generator  string
	Compress   string
	Auth       string
	Fee        bool
	Bitrate    int
}

// CasterEntry describes one CAS record: another caster this one
// relays through.
type CasterEntry struct {
	Host       string
	Port       int
	Identifier string
	Operator   string
	NMEA       bool
	Country    string
	Latitude   float64
	Longitude  float64
}

// NetworkEntry describes one NET record: the network a stream
// belongs to.
type NetworkEntry struct {
	Identifier string
	Operator   string
	Auth       string
	Fee        bool
	WebNet     string
	WebStr     string
	WebReg     string
}

// Sourcetable is the parsed result of a GET / request (spec §4.9).
type Sourcetable struct {
	Streams  []StreamEntry
	Casters  []CasterEntry
	Networks []NetworkEntry
}

// ParseSourcetable parses an NTRIP sourcetable response body — the
// mirror image of the teacher lineage's caster-side
// Sourcetable.String()/StreamEntry.String() generators, which only
// ever formatted outbound records; this module needs to read them.
func ParseSourcetable(body string) Sourcetable {
	var st Sourcetable
	for _, line := range strings.Split(body, "\r\n") {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || line == "ENDSOURCETABLE" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "STR":
			st.Streams = append(st.Streams, parseStreamEntry(fields))
		case "CAS":
			st.Casters = append(st.Casters, parseCasterEntry(fields))
		case "NET":
			st.Networks = append(st.Networks, parseNetworkEntry(fields))
		}
	}
	return st
}

func field(f []string, i int) string {
	if i < 0 || i >= len(f) {
		return ""
	}
	return f[i]
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseStreamEntry(f []string) StreamEntry {
	return StreamEntry{
		Mountpoint:   field(f, 1),
		Identifier:   field(f, 2),
		Format:       field(f, 3),
		FormatDet:    field(f, 4),
		Carrier:      field(f, 5),
		NavSystem:    field(f, 6),
		Network:      field(f, 7),
		Country:      field(f, 8),
		Latitude:     parseFloat(field(f, 9)),
		Longitude:    parseFloat(field(f, 10)),
		NMEARequired: field(f, 11) == "1",
		Solution:     field(f, 12),
		Generator:    field(f, 13),
		Compress:     field(f, 14),
		Auth:         field(f, 15),
		Fee:          field(f, 16) == "Y",
		Bitrate:      parseIntOr0(field(f, 17)),
	}
}

func parseCasterEntry(f []string) CasterEntry {
	return CasterEntry{
		Host:       field(f, 1),
		Port:       parseIntOr0(field(f, 2)),
		Identifier: field(f, 3),
		Operator:   field(f, 4),
		NMEA:       field(f, 5) == "1",
		Country:    field(f, 6),
		Latitude:   parseFloat(field(f, 7)),
		Longitude:  parseFloat(field(f, 8)),
	}
}

func parseNetworkEntry(f []string) NetworkEntry {
	return NetworkEntry{
		Identifier: field(f, 1),
		Operator:   field(f, 2),
		Auth:       field(f, 3),
		Fee:        field(f, 4) == "Y",
		WebNet:     field(f, 5),
		WebStr:     field(f, 6),
		WebReg:     field(f, 7),
	}
}

func parseIntOr0(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
