// Package skytraq decodes Skytraq binary protocol messages (spec
// §4.7): position/velocity (0xDC), raw measurement (0xDD), skyview
// (0xDE/0xDF), GPS/UTC time (0xE0/0xE2), and subframe data (0xE3),
// brought up through a 46-stage configuration dialog.
package skytraq

import (
	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/gpstime"
	"github.com/ntpsec/gpsd-sub004/internal/bytesio"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

// totalConfigStages is the length of the configuration dialog (spec
// §4.7's worked scenario S3: "exactly 46 distinct command frames").
const totalConfigStages = 46

// State is the Skytraq driver's private subrecord: the staged
// configuration-dialog cursor, advanced once every 3 received packets.
type State struct {
	packetsSinceStage int
	stage             int
	lastWeek          int
	lastLeap          int
}

func stateOf(sess *driver.Session) *State {
	st, ok := sess.Private.(*State)
	if !ok {
		st = &State{}
		sess.Private = st
	}
	return st
}

// Behavior implements driver.Behavior for the Skytraq family.
type Behavior struct{}

func (Behavior) Parse(sess *driver.Session, payload []byte) (bool, error) {
	if len(payload) < 1 {
		return false, nil
	}
	st := stateOf(sess)
	id := payload[0]
	body := payload[1:]

	switch id {
	case 0xDC:
		return decodeNavData(sess, st, body), nil
	case 0xDD:
		return decodeRawMeas(sess, st, body), nil
	case 0xDE:
		return decodeChannelStatus(sess, body), nil
	case 0xDF:
		return decodeRawMeasStatus(sess, body), nil
	case 0xE0:
		return decodeGPSTime(sess, st, body), nil
	case 0xE2:
		return decodeUTCTime(sess, body), nil
	case 0xE3:
		return decodeSubframe(sess, body), nil
	}
	return false, nil
}

func decodeNavData(sess *driver.Session, st *State, p []byte) bool {
	if len(p) < 58 {
		return false
	}
	fixMode := p[0]
	numSV := int(p[1])
	week := int(bytesio.U16BE(p, 2))
	tow := float64(bytesio.U32BE(p, 4)) / 100.0

	lat := float64(int32(bytesio.U32BE(p, 8))) * 1e-7
	lon := float64(int32(bytesio.U32BE(p, 12))) * 1e-7
	altEllipsoid := float64(int32(bytesio.U32BE(p, 16))) / 100.0
	altMSL := float64(int32(bytesio.U32BE(p, 20))) / 100.0

	gdop := float64(bytesio.U16BE(p, 24)) * 0.01
	pdop := float64(bytesio.U16BE(p, 26)) * 0.01
	hdop := float64(bytesio.U16BE(p, 28)) * 0.01
	vdop := float64(bytesio.U16BE(p, 30)) * 0.01
	tdop := float64(bytesio.U16BE(p, 32)) * 0.01

	ecefVX := float64(int32(bytesio.U32BE(p, 34))) / 100.0
	ecefVY := float64(int32(bytesio.U32BE(p, 38))) / 100.0
	ecefVZ := float64(int32(bytesio.U32BE(p, 42))) / 100.0

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
	fix.Geodetic.AltHAE = altEllipsoid
	fix.Geodetic.AltMSL = altMSL
	fix.DOP = navdata.DOP{G: gdop, P: pdop, H: hdop, V: vdop, T: tdop}
	fix.ECEF.VX, fix.ECEF.VY, fix.ECEF.VZ = ecefVX, ecefVY, ecefVZ
	fix.Status = navdata.FixStatusGPS
	_ = numSV

	w := gpstime.PromoteWeek(week)
	st.lastWeek = w
	t := gpstime.ResolveWeekTOW(w, tow, 0, st.lastLeap)
	fix.SetTime(t.Sec, t.Nanosec)

	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude | navdata.DirtyMode |
		navdata.DirtyStatus | navdata.DirtyDOP | navdata.DirtyVECEF
	return true
}

func decodeRawMeas(sess *driver.Session, st *State, p []byte) bool {
	if len(p) < 1 {
		return false
	}
	count := int(p[0])
	sess.RawMeas.Measurements = sess.RawMeas.Measurements[:0]
	for i := 0; i < count; i++ {
		off := 1 + i*23
		if off+23 > len(p) {
			break
		}
		svid := int(p[off])
		cno := float64(p[off+1])
		pr := bytesio.F64BE(p, off+2)
		cp := bytesio.F64BE(p, off+10)
		doppler := float64(bytesio.F32BE(p, off+18))

		m := navdata.NewRawMeasurement(navdata.GNSSGPS, svid)
		m.SNR = cno
		m.Pseudorange = pr
		m.CarrierPhase = cp
		m.Doppler = doppler
		sess.RawMeas.Measurements = append(sess.RawMeas.Measurements, m)
	}
	sess.Fix.Dirty |= navdata.DirtyRaw
	return true
}

func decodeChannelStatus(sess *driver.Session, p []byte) bool {
	if len(p) < 1 {
		return false
	}
	count := int(p[0])
	sess.Sky.Reset()
	for i := 0; i < count; i++ {
		off := 1 + i*9
		if off+9 > len(p) {
			break
		}
		svid := int(p[off])
		snr := float64(p[off+2])
		used := p[off+3]&0x08 != 0

		sat := sess.Sky.Upsert(navdata.GNSSGPS, svid)
		sat.PRN = svid
		sat.SNR = snr
		sat.Used = used
	}
	sess.Fix.Dirty |= navdata.DirtySatellite | navdata.DirtyUsed
	return true
}

func decodeRawMeasStatus(sess *driver.Session, p []byte) bool {
	return false // measurement-time status only, no datum field to update
}

func decodeGPSTime(sess *driver.Session, st *State, p []byte) bool {
	if len(p) < 8 {
		return false
	}
	valid := bytesio.U16BE(p, 0)
	if valid&0x01 == 0 {
		return false
	}
	week := int(bytesio.U16BE(p, 2))
	leap := int(bytesio.U16BE(p, 4))
	tow := float64(bytesio.U32BE(p, 4)) / 1000.0
	w := gpstime.PromoteWeek(week)
	st.lastWeek, st.lastLeap = w, leap
	sess.Ctx.LeapSeconds = leap
	t := gpstime.ResolveWeekTOW(w, tow, 0, leap)
	sess.Fix.SetTime(t.Sec, t.Nanosec)
	return true
}

func decodeUTCTime(sess *driver.Session, p []byte) bool {
	if len(p) < 14 {
		return false
	}
	year := int(bytesio.U16BE(p, 2))
	month := int(p[4])
	day := int(p[5])
	hour := int(p[6])
	minute := int(p[7])
	sec := int(p[8])
	days := daysSince1970(year, month, day)
	totalSec := int64(days)*86400 + int64(hour)*3600 + int64(minute)*60 + int64(sec)
	sess.Fix.SetTime(totalSec, 0)
	return true
}

func decodeSubframe(sess *driver.Session, p []byte) bool {
	sess.Fix.Dirty |= navdata.DirtySubframe
	return true
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
