package skytraq

import (
	"time"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/lexer"
)

func init() {
	driver.Register(&Descriptor)
}

// Descriptor is the Skytraq driver's registry entry.
var Descriptor = driver.Descriptor{
	Name:        "skytraq",
	PacketType:  lexer.Skytraq,
	NumChannels: 32,
	Behavior:    Behavior{},
	InitQuery:   initStage,
	MinCycle:    200 * time.Millisecond,
}
