// Package oncore decodes Motorola Oncore binary records (spec
// §4.7a): the "@@" lead, 2-character record type, fixed-width
// big-endian fields — Ea (position/velocity/time) and Bb
// (almanac/health status).
package oncore

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
	if len(payload) < 2 {
		return false, nil
	}
	recType := string(payload[:2])
	body := payload[2:]
	switch recType {
	case "Ea":
		return decodeEa(sess, body), nil
	case "Bb":
		return decodeBb(sess, body), nil
	}
	return false, nil
}

func decodeEa(sess *driver.Session, p []byte) bool {
	if len(p) < 68 {
		return false
	}
	fix := sess.Fix
	hour := int(p[0])
	minute := int(p[1])
	sec := int(p[2])
	month := int(p[3])
	day := int(p[4])
	year := int(bytesio.U16BE(p, 5))

	lat := float64(int32(bytesio.U32BE(p, 15))) / 3600000.0
	lon := float64(int32(bytesio.U32BE(p, 19))) / 3600000.0
	altMSL := float64(int32(bytesio.U32BE(p, 23))) / 100.0

	dimension := p[32]
	switch dimension {
	case 2:
		fix.Mode = navdata.FixMode2D
	case 3, 4, 5:
		fix.Mode = navdata.FixMode3D
	default:
		fix.InvalidatePosition()
		return true
	}

	fix.Geodetic.Lat = lat
	fix.Geodetic.Lon = lon
	fix.Geodetic.AltMSL = altMSL

	days := daysSince1970(year, month, day)
	totalSec := int64(days)*86400 + int64(hour)*3600 + int64(minute)*60 + int64(sec)
	fix.SetTime(totalSec, 0)
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude | navdata.DirtyMode
	return true
}

func decodeBb(sess *driver.Session, p []byte) bool {
	return false // almanac/health status, not part of the unified datum
}

func daysSince1970(year, month, day int) int {
	days := 0
	for y := 1970; y < year; y++ {
		days += 365
		if (y%4 == 0 && y%100 != 0) || y%400 == 0 {
			days++
		}
	}
	for m := 1; m < month; m++ {
		days += gpstime.DaysInMonth(year, m)
	}
	days += day - 1
	return days
}

// Descriptor is the Oncore driver's registry entry.
var Descriptor = driver.Descriptor{
	Name:        "oncore",
	PacketType:  lexer.Oncore,
	NumChannels: 12,
	Behavior:    Behavior{},
	MinCycle:    time.Second,
}
