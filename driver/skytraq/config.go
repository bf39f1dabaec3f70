package skytraq

import (
	"github.com/ntpsec/gpsd-sub004/driver"
)

// messageIDs is the ordered list of output-message-enable commands
// sent one per configuration stage: the seven IDs 0xDC, 0xDD, 0xDE,
// 0xDF, 0xE0, 0xE2, 0xE3 repeated in that order until the list holds
// totalConfigStages entries (spec §4.7 scenario S3).
var messageIDs = buildMessageIDs()

func buildMessageIDs() []byte {
	ids := make([]byte, 0, totalConfigStages)
	base := []byte{0xDC, 0xDD, 0xDE, 0xDF, 0xE0, 0xE2, 0xE3}
	for len(ids) < totalConfigStages {
		ids = append(ids, base...)
	}
	return ids[:totalConfigStages]
}

// initStage advances the configuration dialog by one frame every 3
// received packets (spec §4.7: "advancing one stage per 3 received
// packets"), sending exactly totalConfigStages frames then going idle.
func initStage(sess *driver.Session, counter int) error {
	st := stateOf(sess)
	if st.stage >= totalConfigStages {
		return nil
	}
	st.packetsSinceStage++
	if st.packetsSinceStage < 3 {
		return nil
	}
	st.packetsSinceStage = 0

	msgID := messageIDs[st.stage]
	st.stage++
	return sendConfigureOutput(sess, msgID)
}

// sendConfigureOutput builds and writes a "configure output message"
// command enabling msgID at 1 Hz on the current interface.
func sendConfigureOutput(sess *driver.Session, msgID byte) error {
	if sess.Write == nil {
		return nil
	}
	payload := []byte{0x09, msgID, 0x01, 0x00}
	frame := encodeSkytraq(payload)
	_, err := sess.Write(frame)
	return err
}

// encodeSkytraq wraps payload in Skytraq's A0 A1 framing: 16-bit
// big-endian length, payload, XOR checksum, CR LF terminator.
func encodeSkytraq(payload []byte) []byte {
	n := len(payload)
	out := make([]byte, 0, 7+n)
	out = append(out, 0xA0, 0xA1, byte(n>>8), byte(n))
	out = append(out, payload...)
	var cksum byte
	for _, b := range payload {
		cksum ^= b
	}
	out = append(out, cksum, '\r', '\n')
	return out
}
