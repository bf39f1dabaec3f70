// Package nmea2000 decodes already-PGN-framed CAN payloads (spec
// §4.7a): the CAN arbitration/transport layer is external to this
// module, so each frame arrives as a length-prefixed PGN payload —
// PGN 129025/129026/129029 (position) and 129540 (GNSS satellites in
// view).
package nmea2000

import (
	"time"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/bytesio"
	"github.com/ntpsec/gpsd-sub004/lexer"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

func init() {
	driver.Register(&Descriptor)
}

const (
	pgnPositionRapid  = 129025
	pgnCOGSOGRapid    = 129026
	pgnGNSSPosition   = 129029
	pgnGNSSSatsInView = 129540
)

type Behavior struct{}

func (Behavior) Parse(sess *driver.Session, payload []byte) (bool, error) {
	if len(payload) < 4 {
		return false, nil
	}
	pgn := bytesio.U32LE(payload, 0)
	body := payload[4:]
	switch pgn {
	case pgnPositionRapid:
		return decodePositionRapid(sess, body), nil
	case pgnCOGSOGRapid:
		return decodeCOGSOGRapid(sess, body), nil
	case pgnGNSSPosition:
		return decodeGNSSPosition(sess, body), nil
	case pgnGNSSSatsInView:
		return decodeSatsInView(sess, body), nil
	}
	return false, nil
}

func decodePositionRapid(sess *driver.Session, p []byte) bool {
	if len(p) < 8 {
		return false
	}
	fix := sess.Fix
	fix.Geodetic.Lat = float64(bytesio.I32LE(p, 0)) * 1e-7
	fix.Geodetic.Lon = float64(bytesio.I32LE(p, 4)) * 1e-7
	fix.Dirty |= navdata.DirtyLatLon
	return true
}

func decodeCOGSOGRapid(sess *driver.Session, p []byte) bool {
	if len(p) < 6 {
		return false
	}
	fix := sess.Fix
	fix.Track = float64(bytesio.U16LE(p, 1)) * 1e-4 * 180 / 3.14159265358979323846
	fix.Speed = float64(bytesio.U16LE(p, 3)) / 100.0
	fix.Dirty |= navdata.DirtyTrack | navdata.DirtySpeed
	return true
}

func decodeGNSSPosition(sess *driver.Session, p []byte) bool {
	if len(p) < 32 {
		return false
	}
	fix := sess.Fix
	fix.Geodetic.Lat = float64(bytesio.I64LE(p, 7)) * 1e-16
	fix.Geodetic.Lon = float64(bytesio.I64LE(p, 15)) * 1e-16
	fix.Geodetic.AltHAE = float64(bytesio.I64LE(p, 23)) * 1e-6
	fixType := p[31] & 0x0F
	switch fixType {
	case 1:
		fix.Mode = navdata.FixMode2D
	case 2, 3:
		fix.Mode = navdata.FixMode3D
	default:
		fix.Mode = navdata.FixModeNone
	}
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude | navdata.DirtyMode
	return true
}

func decodeSatsInView(sess *driver.Session, p []byte) bool {
	if len(p) < 2 {
		return false
	}
	count := int(p[1])
	sess.Sky.Reset()
	for i := 0; i < count; i++ {
		off := 2 + i*12
		if off+12 > len(p) {
			break
		}
		svid := int(p[off])
		elev := float64(bytesio.I16LE(p, off+1)) * 1e-4 * 180 / 3.14159265358979323846
		azim := float64(bytesio.U16LE(p, off+3)) * 1e-4 * 180 / 3.14159265358979323846
		snr := float64(bytesio.U16LE(p, off+5)) * 0.01

		sat := sess.Sky.Upsert(navdata.GNSSGPS, svid)
		sat.PRN = svid
		sat.Elevation = elev
		sat.Azimuth = azim
		sat.SNR = snr
	}
	sess.Fix.Dirty |= navdata.DirtySatellite
	return true
}

// Descriptor is the NMEA2000 driver's registry entry.
var Descriptor = driver.Descriptor{
	Name:        "nmea2000",
	PacketType:  lexer.NMEA2000,
	NumChannels: 32,
	Behavior:    Behavior{},
	MinCycle:    time.Second,
}
