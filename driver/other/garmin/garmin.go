// Package garmin decodes the Garmin binary protocol's serial-link
// application records (spec §4.7a): Pid_Pvt_Data (fix) and
// Pid_Sat_Data (skyview), carried inside the DLE-stuffed link layer.
// The lexer has no Garmin framer: a frame that starts with DLE is
// framed as TSIP, so the lexer never emits lexer.GarminSer frames.
package garmin

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
	pidPvtData = 51
	pidSatData = 114
)

type Behavior struct{}

func (Behavior) Parse(sess *driver.Session, payload []byte) (bool, error) {
	if len(payload) < 1 {
		return false, nil
	}
	pid := payload[0]
	body := payload[1:]
	switch pid {
	case pidPvtData:
		return decodePvtData(sess, body), nil
	case pidSatData:
		return decodeSatData(sess, body), nil
	}
	return false, nil
}

func decodePvtData(sess *driver.Session, p []byte) bool {
	if len(p) < 64 {
		return false
	}
	fix := sess.Fix
	alt := float64(bytesio.F32LE(p, 4))
	lon := float64(bytesio.F64LE(p, 32)) * 180 / 3.14159265358979323846
	lat := float64(bytesio.F64LE(p, 40)) * 180 / 3.14159265358979323846
	fixType := p[60]

	switch fixType {
	case 2, 3:
		fix.Mode = navdata.FixMode2D
	case 4, 5:
		fix.Mode = navdata.FixMode3D
	default:
		fix.InvalidatePosition()
		return true
	}
	fix.Geodetic.Lat = lat
	fix.Geodetic.Lon = lon
	fix.Geodetic.AltHAE = alt
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude | navdata.DirtyMode
	return true
}

func decodeSatData(sess *driver.Session, p []byte) bool {
	const recSize = 15
	count := len(p) / recSize
	sess.Sky.Reset()
	for i := 0; i < count; i++ {
		off := i * recSize
		svid := int(p[off])
		snr := float64(bytesio.U16LE(p, off+1))
		elev := int(int8(p[off+3]))
		azim := int(bytesio.U16LE(p, off+4))
		used := p[off+6]&0x04 != 0

		sat := sess.Sky.Upsert(navdata.GNSSGPS, svid)
		sat.PRN = svid
		sat.SNR = snr
		sat.Elevation = float64(elev)
		sat.Azimuth = float64(azim)
		sat.Used = used
	}
	sess.Fix.Dirty |= navdata.DirtySatellite | navdata.DirtyUsed
	return true
}

// Descriptor is the Garmin serial driver's registry entry.
var Descriptor = driver.Descriptor{
	Name:        "garmin_ser",
	PacketType:  lexer.GarminSer,
	NumChannels: 12,
	Behavior:    Behavior{},
	MinCycle:    time.Second,
}
