// Package sirf decodes SiRF binary protocol messages (spec §4.7a):
// MID 2 (measured navigation data), MID 4 (measured tracker data /
// skyview), MID 41 (geodetic navigation data), and MID 9 (CPU
// throughput, used only as a probe-liveness response).
package sirf

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
	mid := payload[0]
	body := payload[1:]
	switch mid {
	case 2:
		return decodeMID2(sess, body), nil
	case 4:
		return decodeMID4(sess, body), nil
	case 41:
		return decodeMID41(sess, body), nil
	case 9:
		return false, nil // liveness response only
	}
	return false, nil
}

func decodeMID2(sess *driver.Session, p []byte) bool {
	if len(p) < 41 {
		return false
	}
	fix := sess.Fix
	fix.ECEF.X = float64(bytesio.I32BE(p, 0))
	fix.ECEF.Y = float64(bytesio.I32BE(p, 4))
	fix.ECEF.Z = float64(bytesio.I32BE(p, 8))
	fix.ECEF.VX = float64(bytesio.I16BE(p, 12)) / 8.0
	fix.ECEF.VY = float64(bytesio.I16BE(p, 14)) / 8.0
	fix.ECEF.VZ = float64(bytesio.I16BE(p, 16)) / 8.0
	mode := p[19] & 0x07
	switch {
	case mode >= 3 && mode <= 6:
		fix.Mode = navdata.FixMode3D
	case mode == 1 || mode == 2:
		fix.Mode = navdata.FixMode2D
	default:
		fix.Mode = navdata.FixModeNone
	}
	numSV := int(p[28])
	_ = numSV
	fix.Dirty |= navdata.DirtyECEF | navdata.DirtyVECEF | navdata.DirtyMode
	return true
}

func decodeMID4(sess *driver.Session, p []byte) bool {
	if len(p) < 1 {
		return false
	}
	count := int(p[0])
	sess.Sky.Reset()
	for i := 0; i < count; i++ {
		off := 1 + i*15
		if off+15 > len(p) {
			break
		}
		svid := int(p[off])
		cno := 0.0
		for c := 0; c < 10; c++ {
			cno += float64(p[off+5+c])
		}
		cno /= 10.0
		sat := sess.Sky.Upsert(navdata.GNSSGPS, svid)
		sat.PRN = svid
		sat.SNR = cno
	}
	sess.Fix.Dirty |= navdata.DirtySatellite
	return true
}

func decodeMID41(sess *driver.Session, p []byte) bool {
	if len(p) < 91 {
		return false
	}
	fix := sess.Fix
	week := int(bytesio.U16BE(p, 2))
	tow := float64(bytesio.U32BE(p, 4)) / 1000.0
	lat := float64(bytesio.I32BE(p, 23)) * 1e-7
	lon := float64(bytesio.I32BE(p, 27)) * 1e-7
	altEllipsoid := float64(bytesio.I32BE(p, 31)) / 100.0
	altMSL := float64(bytesio.I32BE(p, 35)) / 100.0

	fix.Geodetic.Lat = lat
	fix.Geodetic.Lon = lon
	fix.Geodetic.AltHAE = altEllipsoid
	fix.Geodetic.AltMSL = altMSL
	fix.Mode = navdata.FixMode3D

	w := gpstime.PromoteWeek(week)
	t := gpstime.ResolveWeekTOW(w, tow, 0, sess.Ctx.EffectiveLeapSeconds())
	fix.SetTime(t.Sec, t.Nanosec)
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude | navdata.DirtyMode
	return true
}

// Descriptor is the SiRF driver's registry entry.
var Descriptor = driver.Descriptor{
	Name:        "sirf",
	PacketType:  lexer.SiRF,
	NumChannels: 12,
	Behavior:    Behavior{},
	MinCycle:    200 * time.Millisecond,
}
