package ubx

import (
	"time"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/bytesio"
)

const (
	parityNone = 0
	parityEven = 1
	parityOdd  = 2
)

// buildCfgPrt builds the 20-byte UBX-CFG-PRT payload (spec §4.5): port
// id 1 (UART1), reserved, txReady disabled, a vendor mode bitfield
// encoding charLen/parity/stopBits, baud rate, and in/out protocol
// masks.
func buildCfgPrt(baud int, parity byte, stopBits int, nmeaOut bool) []byte {
	p := make([]byte, 20)
	p[0] = 1 // portID UART1

	mode := uint32(0xC0) // charLen=8 bits, bits 6:7 == 11
	switch parity {
	case 'E', 'e':
		mode |= parityEven << 9
	case 'O', 'o':
		mode |= parityOdd << 9
	default:
		mode |= 0x04 << 9 // "no parity" sentinel per u-blox protocol
	}
	if stopBits == 2 {
		mode |= 1 << 12
	}
	bytesio.PutU32LE(p, 4, mode)
	bytesio.PutU32LE(p, 8, uint32(baud))

	inProtoMask := uint16(0x0007) // UBX+NMEA+RTCM in
	var outProtoMask uint16
	if nmeaOut {
		outProtoMask = 0x0002
	} else {
		outProtoMask = 0x0001
	}
	bytesio.PutU16LE(p, 12, inProtoMask)
	bytesio.PutU16LE(p, 14, outProtoMask)
	return p
}

// SpeedSwitch re-issues cfg-prt with a new baud rate (spec §4.5
// "Speed switch re-issues cfg-prt with the new baud").
func SpeedSwitch(sess *driver.Session, baud int, parity byte, stopBits int) error {
	if !sess.Ctx.CanConfigure() {
		return nil
	}
	sess.Baud, sess.Parity, sess.StopBits = baud, parity, stopBits
	return sendUBX(sess, classCFG, idCfgPrt, buildCfgPrt(baud, parity, stopBits, false))
}

// ModeSwitch enables the NAV-* message set and disables NMEA-* (binary
// mode) or the inverse (NMEA mode).
func ModeSwitch(sess *driver.Session, binary bool) error {
	if !sess.Ctx.CanConfigure() {
		return nil
	}
	return sendUBX(sess, classCFG, idCfgPrt, buildCfgPrt(sess.Baud, sess.Parity, sess.StopBits, !binary))
}

// RateSwitch sets the NAV measurement period, clamped to
// [min_cycle, 65535] ms (spec §4.5).
func RateSwitch(sess *driver.Session, period time.Duration) error {
	if !sess.Ctx.CanConfigure() {
		return nil
	}
	ms := period.Milliseconds()
	minCycle := sess.Ctx.MinCycle(100 * time.Millisecond).Milliseconds()
	if ms < minCycle {
		ms = minCycle
	}
	if ms > 65535 {
		ms = 65535
	}
	payload := make([]byte, 6)
	bytesio.PutU16LE(payload, 0, uint16(ms))
	bytesio.PutU16LE(payload, 2, 1) // navRate: 1 measurement per cycle
	bytesio.PutU16LE(payload, 4, 1) // timeRef: GPS time
	return sendUBX(sess, classCFG, idCfgRate, payload)
}

const (
	classCFG   = 0x06
	idCfgPrt   = 0x00
	idCfgRate  = 0x08
	idCfgMsg   = 0x01
)

func sendUBX(sess *driver.Session, class, id byte, payload []byte) error {
	if sess.Write == nil {
		return nil
	}
	frame := encodeUBX(class, id, payload)
	_, err := sess.Write(frame)
	return err
}

// encodeUBX wraps payload in UBX framing with a correct Fletcher
// checksum, the mirror image of the lexer's UBX recognizer.
func encodeUBX(class, id byte, payload []byte) []byte {
	length := len(payload)
	body := make([]byte, 4+length)
	body[0] = class
	body[1] = id
	bytesio.PutU16LE(body, 2, uint16(length))
	copy(body[4:], payload)

	var ckA, ckB byte
	for _, b := range body {
		ckA += b
		ckB += ckA
	}

	frame := make([]byte, 0, 8+length)
	frame = append(frame, 0xB5, 0x62)
	frame = append(frame, body...)
	frame = append(frame, ckA, ckB)
	return frame
}
