// Package misc registers identify-only stub drivers for the packet
// families named in the lexer's packet-type enum whose full
// navigation-record layout is out of scope for this module (spec
// §4.7a): CASIC, Allystar, GREIS, SPARTN, Geostar, SuperStar II, iTalk,
// Navcom, and Zodiac. The lexer has no recognizer for these families.
// Each stub logs its driver name and the payload length and decodes
// none of the payload, keeping the registry's dispatch table and
// the lexer's packet-type enum complete and testable without
// inventing undocumented wire formats for families spec.md's prose
// never details.
package misc

import (
	"time"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/lexer"
)

func init() {
	for _, s := range stubs {
		driver.Register(&driver.Descriptor{
			Name:        s.name,
			PacketType:  s.packetType,
			NumChannels: 12,
			Behavior:    identifyOnly{name: s.name},
			MinCycle:    time.Second,
		})
	}
}

type stubSpec struct {
	name       string
	packetType lexer.PacketType
}

var stubs = []stubSpec{
	{"casic", lexer.CASIC},
	{"allystar", lexer.Allystar},
	{"greis", lexer.GREIS},
	{"spartn", lexer.SPARTN},
	{"geostar", lexer.Geostar},
	{"superstar2", lexer.SuperStar2},
	{"italk", lexer.ITalk},
	{"navcom", lexer.Navcom},
	{"zodiac", lexer.Zodiac},
}

// identifyOnly logs that a frame of its family arrived but reports no
// navigation update, since this module does not model these families'
// full record layouts.
type identifyOnly struct {
	name string
}

func (d identifyOnly) Parse(sess *driver.Session, payload []byte) (bool, error) {
	sess.Ctx.Log.WithField("driver", d.name).WithField("bytes", len(payload)).Debug("identified but not decoded")
	return false, nil
}
