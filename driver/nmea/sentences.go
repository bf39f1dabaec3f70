package nmea

import (
	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/gpstime"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

// parseGGA decodes $--GGA time/position/fix-quality/altitude/geoid-sep.
// Time here is time-of-day only; it is merged with the most recently
// seen date from RMC/ZDA (spec §4.4).
func parseGGA(sess *driver.Session, st *State, f []string) bool {
	fix := sess.Fix
	quality := parseInt(field(f, 6))
	if quality == navdata.InvalidCount || quality == 0 {
		fix.InvalidatePosition()
		return true
	}

	lat := parseLat(field(f, 2), field(f, 3))
	lon := parseLon(field(f, 4), field(f, 5))
	alt := parseFloat(field(f, 9))
	geoidSep := parseFloat(field(f, 11))

	fix.Geodetic.Lat = lat
	fix.Geodetic.Lon = lon
	fix.Geodetic.AltMSL = alt
	if navdata.IsValid(alt) && navdata.IsValid(geoidSep) {
		fix.Geodetic.AltHAE = alt + geoidSep
	}
	fix.GeoidSep = geoidSep
	fix.Mode = navdata.FixMode3D
	fix.Status = qualityToStatus(quality)
	fix.DGPSAge = parseFloat(field(f, 13))
	fix.DGPSStationID = parseInt(field(f, 14))
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude | navdata.DirtyMode | navdata.DirtyStatus

	if st.haveDate {
		applyTimeOfDay(sess, st, field(f, 1))
	}
	return true
}

func qualityToStatus(q int) navdata.FixStatus {
	switch q {
	case 1:
		return navdata.FixStatusGPS
	case 2:
		return navdata.FixStatusDGPS
	case 4:
		return navdata.FixStatusRTKFix
	case 5:
		return navdata.FixStatusRTKFloat
	case 6:
		return navdata.FixStatusDeadReckoning
	default:
		return navdata.FixStatusUnknown
	}
}

func parseGLL(sess *driver.Session, f []string) bool {
	valid := field(f, 6)
	if valid != "A" {
		return false
	}
	fix := sess.Fix
	fix.Geodetic.Lat = parseLat(field(f, 1), field(f, 2))
	fix.Geodetic.Lon = parseLon(field(f, 3), field(f, 4))
	fix.Dirty |= navdata.DirtyLatLon
	return true
}

func parseGSA(sess *driver.Session, f []string) bool {
	fixType := field(f, 2)
	switch fixType {
	case "2":
		sess.Fix.Mode = navdata.FixMode2D
	case "3":
		sess.Fix.Mode = navdata.FixMode3D
	case "1":
		sess.Fix.Mode = navdata.FixModeNone
	}
	// fields 3..14 are used-satellite PRNs
	for i := 3; i <= 14; i++ {
		prn := parseInt(field(f, i))
		if prn == navdata.InvalidCount {
			continue
		}
		markUsedByPRN(sess, prn)
	}
	sess.Fix.DOP.P = parseFloat(field(f, 15))
	sess.Fix.DOP.H = parseFloat(field(f, 16))
	sess.Fix.DOP.V = parseFloat(field(f, 17))
	sess.Fix.Dirty |= navdata.DirtyMode | navdata.DirtyDOP | navdata.DirtyUsed
	return true
}

func markUsedByPRN(sess *driver.Session, prn int) {
	for i := range sess.Sky.Satellites {
		if sess.Sky.Satellites[i].PRN == prn {
			sess.Sky.Satellites[i].Used = true
		}
	}
}

// parseGSV accumulates a multi-sentence satellites-in-view report,
// keyed by (total, current, first-slot) per spec §4.4.
func parseGSV(sess *driver.Session, st *State, f []string) bool {
	total := parseInt(field(f, 1))
	current := parseInt(field(f, 2))
	if current == 1 {
		sess.Sky.Reset()
	}
	st.gsvTotal, st.gsvCurrent = total, current

	for i := 0; i < 4; i++ {
		base := 4 + i*4
		svid := parseInt(field(f, base))
		if svid == navdata.InvalidCount {
			continue
		}
		sat := sess.Sky.Upsert(st.defaultGNSS, svid)
		sat.Elevation = parseFloat(field(f, base+1))
		sat.Azimuth = parseFloat(field(f, base+2))
		sat.SNR = parseFloat(field(f, base+3))
		sat.PRN = svid
	}
	sess.Fix.Dirty |= navdata.DirtySatellite
	return current == total
}

func parseRMC(sess *driver.Session, st *State, f []string) bool {
	valid := field(f, 2)

	dateStr := field(f, 9)
	if len(dateStr) == 6 {
		st.day = atoi2(dateStr[0:2])
		st.month = atoi2(dateStr[2:4])
		st.year = 2000 + atoi2(dateStr[4:6])
		st.haveDate = true
	}

	applyTimeOfDay(sess, st, field(f, 1))

	if valid != "A" {
		return false
	}
	sess.Fix.Geodetic.Lat = parseLat(field(f, 3), field(f, 4))
	sess.Fix.Geodetic.Lon = parseLon(field(f, 5), field(f, 6))
	sess.Fix.Speed = parseFloat(field(f, 7)) * knotsToMPS
	sess.Fix.Track = parseFloat(field(f, 8))
	sess.Fix.MagVar = parseMagVar(field(f, 10), field(f, 11))
	sess.Fix.Dirty |= navdata.DirtyLatLon | navdata.DirtySpeed | navdata.DirtyTrack
	return true
}

const knotsToMPS = 0.514444

func parseMagVar(value, hemi string) float64 {
	v := parseFloat(value)
	if !navdata.IsValid(v) {
		return navdata.NaN
	}
	if hemi == "W" {
		return -v
	}
	return v
}

func parseVTG(sess *driver.Session, f []string) bool {
	sess.Fix.Track = parseFloat(field(f, 1))
	speedKnots := parseFloat(field(f, 5))
	speedKmh := parseFloat(field(f, 7))
	if navdata.IsValid(speedKnots) {
		sess.Fix.Speed = speedKnots * knotsToMPS
	} else if navdata.IsValid(speedKmh) {
		sess.Fix.Speed = speedKmh / 3.6
	}
	sess.Fix.Dirty |= navdata.DirtyTrack | navdata.DirtySpeed
	return true
}

func parseZDA(sess *driver.Session, st *State, f []string) bool {
	day := parseInt(field(f, 2))
	month := parseInt(field(f, 3))
	year := parseInt(field(f, 4))
	if day != navdata.InvalidCount && month != navdata.InvalidCount && year != navdata.InvalidCount {
		st.day, st.month, st.year = day, month, year
		st.haveDate = true
	}
	applyTimeOfDay(sess, st, field(f, 1))
	return true
}

func parseGST(sess *driver.Session, f []string) bool {
	sess.Fix.Err.EPH = parseFloat(field(f, 6))
	sess.Fix.Err.EPV = parseFloat(field(f, 8))
	return true
}

func parseGBS(sess *driver.Session, f []string) bool {
	sess.Fix.Err.EPH = parseFloat(field(f, 2))
	sess.Fix.Err.EPV = parseFloat(field(f, 4))
	return true
}

// applyTimeOfDay merges an hhmmss(.ss) time-of-day field with the most
// recently known date, resolving through the shared gpstime package so
// the result lines up with binary-driver timestamps.
func applyTimeOfDay(sess *driver.Session, st *State, hhmmss string) {
	if len(hhmmss) < 6 || !st.haveDate {
		return
	}
	hh := atoi2(hhmmss[0:2])
	mm := atoi2(hhmmss[2:4])
	ss := atoi2(hhmmss[4:6])

	days := daysSinceEpoch(st.year, st.month, st.day)
	sec := int64(days)*86400 + int64(hh)*3600 + int64(mm)*60 + int64(ss)
	t := gpstime.Time{Sec: sec}
	sess.Fix.SetTime(t.Sec, t.Nanosec)
}

func atoi2(s string) int {
	if len(s) != 2 {
		return 0
	}
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

// daysSinceEpoch returns days since the Unix epoch for the given
// calendar date, UTC, using a simple proleptic Gregorian count.
func daysSinceEpoch(year, month, day int) int {
	days := 0
	if year >= 1970 {
		for y := 1970; y < year; y++ {
			days += 365
			if isLeap(y) {
				days++
			}
		}
	} else {
		for y := year; y < 1970; y++ {
			days -= 365
			if isLeap(y) {
				days--
			}
		}
	}
	for m := 1; m < month; m++ {
		days += gpstime.DaysInMonth(year, m)
	}
	days += day - 1
	return days
}

func isLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}
