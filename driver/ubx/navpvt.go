package ubx

import (
	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/gpstime"
	"github.com/ntpsec/gpsd-sub004/internal/bytesio"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

const (
	classNAV = 0x01
	classRXM = 0x02
	classMON = 0x0A
	classACK = 0x05

	idNavPosECEF  = 0x01
	idNavPosLLH   = 0x02
	idNavDOP      = 0x04
	idNavSOL      = 0x06
	idNavVelECEF  = 0x11
	idNavVelNED   = 0x12
	idNavTimeGPS  = 0x20
	idNavTimeUTC  = 0x21
	idNavSAT      = 0x35
	idNavRELPOSNED = 0x3C
	idNavPVT      = 0x07
	idNavTIMELS   = 0x26
	idNavHPPOSECEF = 0x13
	idNavHPPOSLLH = 0x14
	idNavEOE      = 0x61

	idMonVER = 0x04

	idRXMRAWX  = 0x15
	idRXMSFRBX = 0x13

	idAckACK = 0x01
	idAckNAK = 0x00
)

// decodeNavPVT parses the 92-byte NAV-PVT payload (spec S1's worked
// example): fixType, flags, valid, calendar time+nano, lat/lon in
// 1e-7 degrees, altitude in mm, ground speed, numSV.
func decodeNavPVT(sess *driver.Session, p []byte) bool {
	if len(p) < 92 {
		return false
	}
	fix := sess.Fix

	year := int(bytesio.U16LE(p, 4))
	month := int(p[6])
	day := int(p[7])
	hour := int(p[8])
	min := int(p[9])
	sec := int(p[10])
	validFlags := p[11]
	nano := bytesio.I32LE(p, 16)

	if validFlags&0x04 != 0 { // fullyResolved
		days := daysSince1970(year, month, day)
		totalSec := int64(days)*86400 + int64(hour)*3600 + int64(min)*60 + int64(sec)
		t := gpstime.Time{Sec: totalSec, Nanosec: float64(nano)}
		fix.SetTime(t.Sec, t.Nanosec)
	}

	fixType := p[20]
	flags := p[21]

	lon := float64(bytesio.I32LE(p, 24)) * 1e-7
	lat := float64(bytesio.I32LE(p, 28)) * 1e-7
	heightHAE := float64(bytesio.I32LE(p, 32)) / 1000.0
	heightMSL := float64(bytesio.I32LE(p, 36)) / 1000.0

	groundSpeed := float64(bytesio.I32LE(p, 60)) / 1000.0
	headMot := float64(bytesio.I32LE(p, 64)) * 1e-5

	numSV := int(p[23])

	switch fixType {
	case 2:
		fix.Mode = navdata.FixMode2D
	case 3, 4, 5:
		fix.Mode = navdata.FixMode3D
	default:
		fix.Mode = navdata.FixModeNone
	}

	if fix.Mode != navdata.FixModeNone {
		fix.Geodetic.Lat = lat
		fix.Geodetic.Lon = lon
		fix.Geodetic.AltHAE = heightHAE
		fix.Geodetic.AltMSL = heightMSL
		fix.Speed = groundSpeed
		fix.Track = headMot
	} else {
		fix.InvalidatePosition()
	}

	if flags&0x02 != 0 { // diffSoln
		fix.Status = navdata.FixStatusDGPS
	} else if fix.Mode != navdata.FixModeNone {
		fix.Status = navdata.FixStatusGPS
	}

	_ = numSV
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude | navdata.DirtySpeed | navdata.DirtyTrack | navdata.DirtyMode | navdata.DirtyStatus | navdata.DirtyReportIS
	return true
}

func daysSince1970(year, month, day int) int {
	days := 0
	for y := 1970; y < year; y++ {
		days += 365
		if isLeapYear(y) {
			days++
		}
	}
	for m := 1; m < month; m++ {
		days += gpstime.DaysInMonth(year, m)
	}
	days += day - 1
	return days
}

func isLeapYear(y int) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

func decodeNavDOP(sess *driver.Session, p []byte) bool {
	if len(p) < 18 {
		return false
	}
	fix := sess.Fix
	fix.DOP.G = float64(bytesio.U16LE(p, 4)) * 0.01
	fix.DOP.P = float64(bytesio.U16LE(p, 6)) * 0.01
	fix.DOP.T = float64(bytesio.U16LE(p, 8)) * 0.01
	fix.DOP.V = float64(bytesio.U16LE(p, 10)) * 0.01
	fix.DOP.H = float64(bytesio.U16LE(p, 12)) * 0.01
	fix.DOP.X = float64(bytesio.U16LE(p, 14)) * 0.01
	fix.DOP.Y = float64(bytesio.U16LE(p, 16)) * 0.01
	fix.Dirty |= navdata.DirtyDOP
	return true
}

func decodeNavSAT(sess *driver.Session, p []byte) bool {
	if len(p) < 8 {
		return false
	}
	numSvs := int(p[5])
	sess.Sky.Reset()
	for i := 0; i < numSvs; i++ {
		off := 8 + i*12
		if off+12 > len(p) {
			break
		}
		gnssID := navdata.GNSSID(p[off])
		svID := int(p[off+1])
		cno := int(p[off+2])
		elev := int(int8(p[off+3]))
		azim := int(bytesio.I16LE(p, off+4))
		flags := bytesio.U32LE(p, off+8)

		sat := sess.Sky.Upsert(gnssID, svID)
		sat.PRN = ToPRN(gnssID, svID)
		sat.SNR = float64(cno)
		sat.Elevation = float64(elev)
		sat.Azimuth = float64(azim)
		sat.Used = flags&0x08 != 0
		healthBits := (flags >> 4) & 0x03
		switch healthBits {
		case 1:
			sat.Health = navdata.HealthOK
		case 2:
			sat.Health = navdata.HealthBad
		default:
			sat.Health = navdata.HealthUnknown
		}
	}
	sess.Fix.Dirty |= navdata.DirtySatellite | navdata.DirtyUsed
	return true
}

func decodeNavEOE(sess *driver.Session, p []byte) bool {
	sess.Fix.Dirty |= navdata.DirtyReportIS
	return true
}

func decodeMonVER(sess *driver.Session, p []byte) bool {
	if len(p) < 40 {
		return false
	}
	sess.FirmwareVersion = trimZero(p[0:30])
	sess.HardwareVersion = trimZero(p[30:40])
	return true
}

func trimZero(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}
