package ubx

import (
	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/gpstime"
	"github.com/ntpsec/gpsd-sub004/internal/bytesio"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

func decodeNavPosECEF(sess *driver.Session, p []byte) bool {
	if len(p) < 20 {
		return false
	}
	fix := sess.Fix
	fix.ECEF.X = float64(bytesio.I32LE(p, 4)) / 100.0
	fix.ECEF.Y = float64(bytesio.I32LE(p, 8)) / 100.0
	fix.ECEF.Z = float64(bytesio.I32LE(p, 12)) / 100.0
	fix.ECEF.PAcc = float64(bytesio.U32LE(p, 16)) / 100.0
	fix.Dirty |= navdata.DirtyECEF
	return true
}

func decodeNavVelECEF(sess *driver.Session, p []byte) bool {
	if len(p) < 20 {
		return false
	}
	fix := sess.Fix
	fix.ECEF.VX = float64(bytesio.I32LE(p, 4)) / 100.0
	fix.ECEF.VY = float64(bytesio.I32LE(p, 8)) / 100.0
	fix.ECEF.VZ = float64(bytesio.I32LE(p, 12)) / 100.0
	fix.ECEF.VAcc = float64(bytesio.U32LE(p, 16)) / 100.0
	fix.Dirty |= navdata.DirtyVECEF
	return true
}

func decodeNavPosLLH(sess *driver.Session, p []byte) bool {
	if len(p) < 28 {
		return false
	}
	fix := sess.Fix
	fix.Geodetic.Lon = float64(bytesio.I32LE(p, 4)) * 1e-7
	fix.Geodetic.Lat = float64(bytesio.I32LE(p, 8)) * 1e-7
	fix.Geodetic.AltHAE = float64(bytesio.I32LE(p, 12)) / 1000.0
	fix.Geodetic.AltMSL = float64(bytesio.I32LE(p, 16)) / 1000.0
	fix.Err.EPH = float64(bytesio.U32LE(p, 20)) / 1000.0
	fix.Err.EPV = float64(bytesio.U32LE(p, 24)) / 1000.0
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude
	return true
}

func decodeNavVelNED(sess *driver.Session, p []byte) bool {
	if len(p) < 36 {
		return false
	}
	fix := sess.Fix
	fix.NED.N = float64(bytesio.I32LE(p, 4)) / 100.0
	fix.NED.E = float64(bytesio.I32LE(p, 8)) / 100.0
	fix.NED.D = float64(bytesio.I32LE(p, 12)) / 100.0
	fix.Speed = float64(bytesio.U32LE(p, 16)) / 100.0
	fix.Track = float64(bytesio.I32LE(p, 24)) * 1e-5
	fix.Dirty |= navdata.DirtyNED | navdata.DirtySpeed | navdata.DirtyTrack
	return true
}

func decodeNavHPPosECEF(sess *driver.Session, p []byte) bool {
	if len(p) < 28 {
		return false
	}
	fix := sess.Fix
	base := float64(bytesio.I32LE(p, 8))
	hp := float64(int8(p[20]))
	fix.ECEF.X = (base + hp*0.01) / 100.0
	base = float64(bytesio.I32LE(p, 12))
	hp = float64(int8(p[21]))
	fix.ECEF.Y = (base + hp*0.01) / 100.0
	base = float64(bytesio.I32LE(p, 16))
	hp = float64(int8(p[22]))
	fix.ECEF.Z = (base + hp*0.01) / 100.0
	fix.ECEF.PAcc = float64(bytesio.U32LE(p, 24)) / 10000.0
	fix.Dirty |= navdata.DirtyECEF
	return true
}

func decodeNavHPPosLLH(sess *driver.Session, p []byte) bool {
	if len(p) < 36 {
		return false
	}
	fix := sess.Fix
	lonBase := float64(bytesio.I32LE(p, 8))
	latBase := float64(bytesio.I32LE(p, 12))
	heightBase := float64(bytesio.I32LE(p, 16))
	hpLon := float64(int8(p[24]))
	hpLat := float64(int8(p[25]))
	hpHeight := float64(int8(p[26]))
	fix.Geodetic.Lon = (lonBase + hpLon*0.01) * 1e-7
	fix.Geodetic.Lat = (latBase + hpLat*0.01) * 1e-7
	fix.Geodetic.AltHAE = (heightBase + hpHeight*0.1) / 1000.0
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude
	return true
}

func decodeNavRELPOSNED(sess *driver.Session, p []byte) bool {
	if len(p) < 64 {
		return false
	}
	fix := sess.Fix
	fix.NED.N = float64(bytesio.I32LE(p, 8)) / 100.0
	fix.NED.E = float64(bytesio.I32LE(p, 12)) / 100.0
	fix.NED.D = float64(bytesio.I32LE(p, 16)) / 100.0
	fix.Dirty |= navdata.DirtyNED
	return true
}

func decodeNavTimeGPS(sess *driver.Session, p []byte) bool {
	if len(p) < 16 {
		return false
	}
	valid := p[11]
	if valid&0x04 == 0 { // leapSValid
		return false
	}
	leap := int(int8(p[12]))
	week := int(bytesio.U16LE(p, 8))
	tow := float64(bytesio.U32LE(p, 0)) / 1000.0
	fAc := float64(bytesio.I32LE(p, 4))
	sess.Ctx.LeapSeconds = leap
	t := gpstime.ResolveWeekTOW(week, tow, fAc, leap)
	sess.Fix.SetTime(t.Sec, t.Nanosec)
	return true
}

func decodeNavTimeUTC(sess *driver.Session, p []byte) bool {
	if len(p) < 20 {
		return false
	}
	valid := p[19]
	if valid&0x04 == 0 { // utc standard resolved
		return false
	}
	year := int(bytesio.U16LE(p, 12))
	month := int(p[14])
	day := int(p[15])
	hour := int(p[16])
	min := int(p[17])
	sec := int(p[18])
	days := daysSince1970(year, month, day)
	totalSec := int64(days)*86400 + int64(hour)*3600 + int64(min)*60 + int64(sec)
	sess.Fix.SetTime(totalSec, 0)
	return true
}

// decodeNavTIMELS surfaces a pending leap-second change when the event
// is due within 23 hours (spec §4.5 "leap-second pending warning").
func decodeNavTIMELS(sess *driver.Session, p []byte) bool {
	if len(p) < 24 {
		return false
	}
	currentLeap := p[9]
	srcOfCurrLs := p[8]
	if srcOfCurrLs != 0 {
		sess.Ctx.LeapSeconds = int(currentLeap)
	}
	validFlags := p[23]
	if validFlags&0x02 != 0 { // timeToLsEvent valid
		// countToLsEvent in navdata.Fix is out of scope; the warning
		// itself is carried by the driver's log, since Fix has no
		// leap-pending field in the unified datum.
		secToEvent := bytesio.I32LE(p, 16)
		if secToEvent > 0 && secToEvent <= 23*3600 {
			sess.Ctx.Log.WithField("seconds_to_leap_event", secToEvent).Warn("upcoming leap second")
		}
	}
	return false
}

func decodeRXMRAWX(sess *driver.Session, p []byte) bool {
	if len(p) < 16 {
		return false
	}
	rcvTow := bytesio.F64LE(p, 0)
	week := int(bytesio.U16LE(p, 8))
	leap := int(int8(p[10]))
	numMeas := int(p[11])

	t := gpstime.ResolveWeekTOW(week, rcvTow, 0, leap)
	sess.RawMeas.TimeSec = t.Sec
	sess.RawMeas.TimeNanosec = t.Nanosec
	sess.RawMeas.Measurements = sess.RawMeas.Measurements[:0]

	for i := 0; i < numMeas; i++ {
		off := 16 + i*32
		if off+32 > len(p) {
			break
		}
		pr := bytesio.F64LE(p, off)
		cp := bytesio.F64LE(p, off+8)
		doppler := float64(bytesio.F32LE(p, off+16))
		gnss := navdata.GNSSID(p[off+20])
		svID := int(p[off+21])
		cno := int(p[off+23])
		lockTime := float64(bytesio.U16LE(p, off+24))

		m := navdata.NewRawMeasurement(gnss, svID)
		m.Pseudorange = pr
		m.CarrierPhase = cp
		m.Doppler = doppler
		m.SNR = float64(cno)
		m.LockTime = lockTime / 1000.0
		sess.RawMeas.Measurements = append(sess.RawMeas.Measurements, m)
	}
	sess.Fix.Dirty |= navdata.DirtyRaw
	return true
}

func decodeRXMSFRBX(sess *driver.Session, p []byte) bool {
	if len(p) < 8 {
		return false
	}
	sess.Fix.Dirty |= navdata.DirtySubframe
	return true
}

func decodeAckACK(sess *driver.Session, p []byte) bool {
	if len(p) < 2 {
		return false
	}
	sess.Ctx.Log.WithField("class", p[0]).WithField("id", p[1]).Debug("UBX ACK-ACK")
	return false
}

func decodeAckNAK(sess *driver.Session, p []byte) bool {
	if len(p) < 2 {
		return false
	}
	sess.Ctx.Log.WithField("class", p[0]).WithField("id", p[1]).Warn("UBX ACK-NAK")
	return false
}
