package tsip

import (
	"time"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/lexer"
)

func init() {
	driver.Register(&Descriptor)
}

// probeSequence polls hardware ID, then time, then position/velocity,
// then re-polls periodically (spec §4.6: "periodic re-poll of
// time/mode/signal levels/health, at least every 5s").
func probeSequence(sess *driver.Session, counter int) error {
	switch counter % 5 {
	case 0:
		return sendTSIP(sess, 0x1c, []byte{0x03})
	case 1:
		return sendTSIP(sess, 0x21, nil)
	case 2:
		return sendTSIP(sess, 0x27, nil)
	case 3:
		return sendTSIP(sess, 0x3c, nil)
	}
	return nil
}

func sendTSIP(sess *driver.Session, id byte, payload []byte) error {
	if sess.Write == nil {
		return nil
	}
	frame := encodeTSIP(id, payload)
	_, err := sess.Write(frame)
	return err
}

// encodeTSIP wraps payload in TSIP's DLE byte-stuffed framing: lead
// 0x10, packet ID, stuffed payload, trailer 0x10 0x03.
func encodeTSIP(id byte, payload []byte) []byte {
	out := make([]byte, 0, 4+2*len(payload))
	out = append(out, 0x10, id)
	for _, b := range payload {
		out = append(out, b)
		if b == 0x10 {
			out = append(out, 0x10)
		}
	}
	out = append(out, 0x10, 0x03)
	return out
}

// Descriptor is the TSIP driver's registry entry. It is sticky (spec
// §4.6: hardware-code-routed configuration persists across re-opens).
var Descriptor = driver.Descriptor{
	Name:        "tsip",
	PacketType:  lexer.TSIP,
	NumChannels: 12,
	Behavior:    Behavior{},
	InitQuery:   probeSequence,
	Sticky:      true,
	MinCycle:    200 * time.Millisecond,
}
