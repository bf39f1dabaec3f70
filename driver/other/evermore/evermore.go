// Package evermore decodes EverMore binary protocol packets (spec
// §4.7a): the 0x04 fix record and the 0x06/0x07 channel-status
// records, inside the already-unwrapped 0x10/0x03-framed payload.
package evermore

import (
	"time"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/gpstime"
	"github.com/ntpsec/gpsd-sub004/internal/bytesio"
	"github.com/ntpsec/gpsd-sub004/lexer"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

func init() {
	driver.Register(&Descriptor)
}

type Behavior struct{}

func (Behavior) Parse(sess *driver.Session, payload []byte) (bool, error) {
	if len(payload) < 1 {
		return false, nil
	}
	tag := payload[0]
	body := payload[1:]
	switch tag {
	case 0x04:
		return decodeFix(sess, body), nil
	case 0x06, 0x07:
		return decodeChannelStatus(sess, body), nil
	}
	return false, nil
}

func decodeFix(sess *driver.Session, p []byte) bool {
	if len(p) < 65 {
		return false
	}
	fixMode := p[2]
	week := int(bytesio.U16BE(p, 3))
	tow := float64(bytesio.U32BE(p, 5)) / 100.0
	lat := float64(int32(bytesio.U32BE(p, 9))) * 1e-7
	lon := float64(int32(bytesio.U32BE(p, 13))) * 1e-7
	altMSL := float64(int32(bytesio.U32BE(p, 17))) / 100.0

	fix := sess.Fix
	switch fixMode {
	case 2:
		fix.Mode = navdata.FixMode2D
	case 3:
		fix.Mode = navdata.FixMode3D
	default:
		fix.InvalidatePosition()
		return true
	}
	fix.Geodetic.Lat = lat
	fix.Geodetic.Lon = lon
	fix.Geodetic.AltMSL = altMSL

	w := gpstime.PromoteWeek(week)
	t := gpstime.ResolveWeekTOW(w, tow, 0, sess.Ctx.EffectiveLeapSeconds())
	fix.SetTime(t.Sec, t.Nanosec)
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude | navdata.DirtyMode
	return true
}

func decodeChannelStatus(sess *driver.Session, p []byte) bool {
	if len(p) < 1 {
		return false
	}
	count := int(p[0])
	sess.Sky.Reset()
	for i := 0; i < count; i++ {
		off := 1 + i*6
		if off+6 > len(p) {
			break
		}
		svid := int(p[off])
		snr := float64(p[off+4])
		sat := sess.Sky.Upsert(navdata.GNSSGPS, svid)
		sat.PRN = svid
		sat.SNR = snr
	}
	sess.Fix.Dirty |= navdata.DirtySatellite
	return true
}

// Descriptor is the EverMore driver's registry entry.
var Descriptor = driver.Descriptor{
	Name:        "evermore",
	PacketType:  lexer.Evermore,
	NumChannels: 12,
	Behavior:    Behavior{},
	MinCycle:    time.Second,
}
