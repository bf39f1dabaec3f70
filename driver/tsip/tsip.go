// Package tsip decodes Trimble Standard Interface Protocol packets
// (spec §4.6): the v0 report catalog (0x41..0x8f-*) and the 0x1c-83
// product-ID report. v0 and v1 packets share the lexer's DLE framing;
// no v1 length or checksum is checked. The hardware code decoded from
// 0x1c-83 is recorded but does not select a configuration preamble.
package tsip

import (
	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/gpstime"
	"github.com/ntpsec/gpsd-sub004/internal/bytesio"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

// HardwareCode identifies the receiver family, decoded from the
// 0x1c-83 hardware report and stored in State.Hardware.
type HardwareCode int

const (
	HardwareUnknown HardwareCode = iota
	HardwareGeneric
	HardwareAcutimeGold
	HardwareRES360
)

// State is the TSIP driver's private subrecord.
type State struct {
	IsV1     bool
	Hardware HardwareCode

	lastWeek int
	lastLeap int
}

func stateOf(sess *driver.Session) *State {
	st, ok := sess.Private.(*State)
	if !ok {
		st = &State{}
		sess.Private = st
	}
	return st
}

// Behavior implements driver.Behavior for the TSIP family, dispatching
// on the packet ID (first byte) and, for super-packets, the subcode
// (second byte).
type Behavior struct{}

func (Behavior) Parse(sess *driver.Session, payload []byte) (bool, error) {
	if len(payload) < 1 {
		return false, nil
	}
	st := stateOf(sess)
	id := payload[0]
	body := payload[1:]

	switch id {
	case 0x41:
		return decode41(sess, body), nil
	case 0x42:
		return decode42(sess, body), nil
	case 0x43:
		return decode43(sess, body), nil
	case 0x45:
		return decode45(sess, body), nil
	case 0x46:
		return decode46(sess, body), nil
	case 0x47:
		return decode47(sess, body), nil
	case 0x4a:
		return decode4a(sess, body), nil
	case 0x4b:
		return decode4b(sess, st, body), nil
	case 0x54:
		return decode54(sess, body), nil
	case 0x55:
		return decode55(sess, body), nil
	case 0x56:
		return decode56(sess, body), nil
	case 0x57:
		return decode57(sess, body), nil
	case 0x5a:
		return decode5a(sess, body), nil
	case 0x5c:
		return decode5c(sess, body), nil
	case 0x6c:
		return decode6c(sess, body), nil
	case 0x6d:
		return decode6d(sess, body), nil
	case 0x82:
		return decode82(sess, body), nil
	case 0x83:
		return decode83(sess, st, body), nil
	case 0x84:
		return decode84(sess, st, body), nil
	case 0x13:
		return false, nil // parity/framing error report, log-only
	case 0x1c:
		return decode1c(sess, st, body), nil
	case 0x8f:
		if len(body) < 1 {
			return false, nil
		}
		sub := body[0]
		sp := body[1:]
		switch sub {
		case 0x20:
			return decode8f20(sess, st, sp), nil
		case 0x23:
			return decode8f23(sess, st, sp), nil
		}
		return false, nil
	case 0xbb:
		return decodeBB(sess, body), nil
	}
	return false, nil
}

func decode41(sess *driver.Session, p []byte) bool {
	if len(p) < 12 {
		return false
	}
	st := stateOf(sess)
	tow := float64(bytesio.F32BE(p, 0))
	week := int(bytesio.F32BE(p, 4))
	leap := int(bytesio.F32BE(p, 8))
	w := gpstime.PromoteWeek(week)
	st.lastWeek, st.lastLeap = w, leap
	t := gpstime.ResolveWeekTOW(w, tow, 0, leap)
	sess.Fix.SetTime(t.Sec, t.Nanosec)
	return true
}

func decode42(sess *driver.Session, p []byte) bool {
	if len(p) < 12 {
		return false
	}
	fix := sess.Fix
	fix.ECEF.X = float64(bytesio.F32BE(p, 0))
	fix.ECEF.Y = float64(bytesio.F32BE(p, 4))
	fix.ECEF.Z = float64(bytesio.F32BE(p, 8))
	fix.Dirty |= navdata.DirtyECEF
	return true
}

func decode43(sess *driver.Session, p []byte) bool {
	if len(p) < 16 {
		return false
	}
	fix := sess.Fix
	fix.ECEF.VX = float64(bytesio.F32BE(p, 0))
	fix.ECEF.VY = float64(bytesio.F32BE(p, 4))
	fix.ECEF.VZ = float64(bytesio.F32BE(p, 8))
	fix.Dirty |= navdata.DirtyVECEF
	return true
}

func decode45(sess *driver.Session, p []byte) bool {
	if len(p) < 10 {
		return false
	}
	sess.FirmwareVersion = itoa(int(p[0])) + "." + itoa(int(p[1]))
	return false
}

func decode46(sess *driver.Session, p []byte) bool {
	if len(p) < 2 {
		return false
	}
	status := p[0]
	if status != 0 {
		sess.Fix.Status = navdata.FixStatusUnknown
	}
	return false
}

func decode47(sess *driver.Session, p []byte) bool {
	if len(p) < 1 {
		return false
	}
	count := int(p[0])
	sess.Sky.Reset()
	for i := 0; i < count; i++ {
		off := 1 + i*5
		if off+5 > len(p) {
			break
		}
		svid := int(p[off])
		snr := float64(bytesio.F32BE(p, off+1))
		sat := sess.Sky.Upsert(navdata.GNSSGPS, svid)
		sat.PRN = svid
		sat.SNR = snr
	}
	sess.Fix.Dirty |= navdata.DirtySatellite
	return true
}

func decode4a(sess *driver.Session, p []byte) bool {
	if len(p) < 12 {
		return false
	}
	fix := sess.Fix
	fix.Geodetic.Lat = float64(bytesio.F32BE(p, 0)) * 180 / 3.14159265358979323846
	fix.Geodetic.Lon = float64(bytesio.F32BE(p, 4)) * 180 / 3.14159265358979323846
	fix.Geodetic.AltHAE = float64(bytesio.F32BE(p, 8))
	fix.Mode = navdata.FixMode3D
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude | navdata.DirtyMode
	return true
}

func decode4b(sess *driver.Session, st *State, p []byte) bool {
	if len(p) < 3 {
		return false
	}
	machineID := p[0]
	_ = machineID
	status := p[1]
	if status&0x01 != 0 {
		sess.Fix.InvalidatePosition()
	}
	return false
}

func decode54(sess *driver.Session, p []byte) bool {
	return false // one-satellite bias/bias-rate report, not part of the unified datum
}

func decode55(sess *driver.Session, p []byte) bool {
	return false // I/O options; config ack only
}

func decode56(sess *driver.Session, p []byte) bool {
	if len(p) < 20 {
		return false
	}
	fix := sess.Fix
	fix.NED.E = float64(bytesio.F32BE(p, 0))
	fix.NED.N = float64(bytesio.F32BE(p, 4))
	fix.NED.D = float64(bytesio.F32BE(p, 8))
	fix.Dirty |= navdata.DirtyNED
	return true
}

func decode57(sess *driver.Session, p []byte) bool {
	return false // last-fix computation info, diagnostic only
}

func decode5a(sess *driver.Session, p []byte) bool {
	return false // raw measurement data, superseded by 0x5c in this dialect
}

func decode5c(sess *driver.Session, p []byte) bool {
	if len(p) < 24 {
		return false
	}
	svid := int(p[0])
	snr := float64(p[1]) / 4.0
	elev := float64(bytesio.F32BE(p, 4)) * 180 / 3.14159265358979323846
	azim := float64(bytesio.F32BE(p, 8)) * 180 / 3.14159265358979323846
	sat := sess.Sky.Upsert(navdata.GNSSGPS, svid)
	sat.PRN = svid
	sat.SNR = snr
	sat.Elevation = elev
	sat.Azimuth = azim
	sess.Fix.Dirty |= navdata.DirtySatellite
	return true
}

func decode6c(sess *driver.Session, p []byte) bool {
	if len(p) < 1 {
		return false
	}
	count := int(p[0])
	used := 0
	for i := 0; i < count; i++ {
		off := 1 + i*4
		if off+1 > len(p) {
			break
		}
		prn := int(p[off])
		for j := range sess.Sky.Satellites {
			if sess.Sky.Satellites[j].PRN == prn {
				sess.Sky.Satellites[j].Used = true
				used++
			}
		}
	}
	sess.Fix.Dirty |= navdata.DirtyUsed
	return true
}

func decode6d(sess *driver.Session, p []byte) bool {
	if len(p) < 17 {
		return false
	}
	fixDims := p[0] & 0x07
	switch fixDims {
	case 3, 4:
		sess.Fix.Mode = navdata.FixMode2D
	case 5, 6, 7:
		sess.Fix.Mode = navdata.FixMode3D
	default:
		sess.Fix.Mode = navdata.FixModeNone
	}
	sess.Fix.DOP.P = float64(bytesio.F32BE(p, 1))
	sess.Fix.DOP.H = float64(bytesio.F32BE(p, 5))
	sess.Fix.DOP.V = float64(bytesio.F32BE(p, 9))
	sess.Fix.DOP.T = float64(bytesio.F32BE(p, 13))
	sess.Fix.Dirty |= navdata.DirtyMode | navdata.DirtyDOP
	return true
}

func decode82(sess *driver.Session, p []byte) bool {
	if len(p) < 1 {
		return false
	}
	mode := p[0]
	if mode&0x01 != 0 {
		sess.Fix.Status = navdata.FixStatusDGPS
	}
	return false
}

// decode83 is v1's double-precision XYZ ECEF report.
func decode83(sess *driver.Session, st *State, p []byte) bool {
	if len(p) < 36 {
		return false
	}
	fix := sess.Fix
	fix.ECEF.X = bytesio.F64BE(p, 0)
	fix.ECEF.Y = bytesio.F64BE(p, 8)
	fix.ECEF.Z = bytesio.F64BE(p, 16)
	tow := bytesio.F64BE(p, 24)
	t := gpstime.ResolveWeekTOW(st.lastWeek, tow, 0, st.lastLeap)
	fix.SetTime(t.Sec, t.Nanosec)
	fix.Dirty |= navdata.DirtyECEF
	return true
}

// decode84 is v1's double-precision lat/lon/alt report.
func decode84(sess *driver.Session, st *State, p []byte) bool {
	if len(p) < 36 {
		return false
	}
	fix := sess.Fix
	fix.Geodetic.Lat = bytesio.F64BE(p, 0) * 180 / 3.14159265358979323846
	fix.Geodetic.Lon = bytesio.F64BE(p, 8) * 180 / 3.14159265358979323846
	fix.Geodetic.AltHAE = bytesio.F64BE(p, 16)
	fix.Mode = navdata.FixMode3D
	tow := bytesio.F64BE(p, 24)
	t := gpstime.ResolveWeekTOW(st.lastWeek, tow, 0, st.lastLeap)
	fix.SetTime(t.Sec, t.Nanosec)
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude | navdata.DirtyMode
	return true
}

// decode1c handles the 0x1c super-packet family; subcode 0x81 is
// firmware version (not modeled here), 0x83 is hardware/product ID,
// recorded in st.Hardware.
func decode1c(sess *driver.Session, st *State, p []byte) bool {
	if len(p) < 1 {
		return false
	}
	sub := p[0]
	if sub != 0x83 || len(p) < 5 {
		return false
	}
	productID := bytesio.U32BE(p, 1)
	switch {
	case productID == 0:
		st.Hardware = HardwareGeneric
	case productID >= 1 && productID < 100:
		st.Hardware = HardwareAcutimeGold
	default:
		st.Hardware = HardwareRES360
	}
	return false
}

// decode8f20 is the 0x8f-20 super-packet: the primary timing/position
// fix used by the older v0 dialect. Velocity uses a scale of 0.005 or
// 0.02 m/s per LSB depending on a flag bit (spec §4.6).
func decode8f20(sess *driver.Session, st *State, p []byte) bool {
	if len(p) < 56 {
		return false
	}
	flags := p[2]
	scale := 0.005
	if flags&0x01 != 0 {
		scale = 0.02
	}

	week := int(bytesio.U16BE(p, 0))
	w := gpstime.PromoteWeek(week)
	st.lastWeek = w

	vE := float64(int16(bytesio.U16BE(p, 4))) * scale
	vN := float64(int16(bytesio.U16BE(p, 6))) * scale
	vU := float64(int16(bytesio.U16BE(p, 8))) * scale

	tow := float64(bytesio.U32BE(p, 10)) / 1000.0
	lat := float64(int32(bytesio.U32BE(p, 16))) * (3.14159265358979323846 / (2 << 30)) * 180 / 3.14159265358979323846
	lon := float64(int32(bytesio.U32BE(p, 20))) * (3.14159265358979323846 / (2 << 30)) * 180 / 3.14159265358979323846
	alt := float64(int32(bytesio.U32BE(p, 24))) / 100.0

	fix := sess.Fix
	fix.Geodetic.Lat = lat
	fix.Geodetic.Lon = lon
	fix.Geodetic.AltHAE = alt
	fix.NED.N = vN
	fix.NED.E = vE
	fix.NED.D = -vU
	fix.Mode = navdata.FixMode3D

	t := gpstime.ResolveWeekTOW(w, tow, 0, st.lastLeap)
	fix.SetTime(t.Sec, t.Nanosec)
	fix.Dirty |= navdata.DirtyLatLon | navdata.DirtyAltitude | navdata.DirtyNED | navdata.DirtyMode
	return true
}

// decode8f23 carries the leap-second count alongside a compact ECEF
// fix in the newer v0 super-packet dialect.
func decode8f23(sess *driver.Session, st *State, p []byte) bool {
	if len(p) < 20 {
		return false
	}
	tow := float64(bytesio.U32BE(p, 0)) / 1000.0
	week := int(bytesio.U16BE(p, 4))
	leap := int(int16(bytesio.U16BE(p, 6)))
	w := gpstime.PromoteWeek(week)
	st.lastWeek, st.lastLeap = w, leap
	sess.Ctx.LeapSeconds = leap

	fix := sess.Fix
	fix.ECEF.X = float64(int32(bytesio.U32BE(p, 8))) / 100.0
	fix.ECEF.Y = float64(int32(bytesio.U32BE(p, 12))) / 100.0
	fix.ECEF.Z = float64(int32(bytesio.U32BE(p, 16))) / 100.0

	t := gpstime.ResolveWeekTOW(w, tow, 0, leap)
	fix.SetTime(t.Sec, t.Nanosec)
	fix.Dirty |= navdata.DirtyECEF
	return true
}

func decodeBB(sess *driver.Session, p []byte) bool {
	if len(p) < 2 {
		return false
	}
	st := stateOf(sess)
	mode := p[1]
	_ = mode
	st.IsV1 = true
	return false
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
