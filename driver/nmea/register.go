package nmea

import (
	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/lexer"
)

// init registers the NMEA descriptor the way the rest of the driver
// packages do: importing a driver package for its side effects is what
// makes it available in the registry.
func init() {
	driver.Register(&Descriptor)
}

// Descriptor is the NMEA driver's registry entry. It has no trigger
// substring of its own (it is the fallback for any unmatched "$"/"!"
// sentence the registry has not yet attributed to a tighter-matching
// proprietary driver) and no probe/configure hooks, since plain NMEA
// output needs no bring-up sequence.
var Descriptor = driver.Descriptor{
	Name:        "nmea0183",
	PacketType:  lexer.NMEA,
	NumChannels: 12,
	Behavior:    Behavior{},
}
