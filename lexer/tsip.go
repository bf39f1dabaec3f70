package lexer

// recognizeTSIP frames a TSIP packet (either v0 or v1 header
// convention; the lexer does not distinguish them, since both share
// identical wire framing: 0x10 lead, byte-stuffed payload where a
// literal 0x10 is escaped as 0x10 0x10, terminated by 0x10 0x03). The
// driver/tsip package interprets the unstuffed payload according to
// whichever header convention the active device speaks.
func (l *Lexer) recognizeTSIP() (Result, int) {
	n := l.ring.Len()
	if n < 2 {
		return Result{Status: NoFrameYet}, 0
	}

	payload := make([]byte, 0, 32)
	i := 1
	for i < n {
		b := l.ring.At(i)
		if b != 0x10 {
			payload = append(payload, b)
			i++
			if i > MaxPacketSize {
				l.ring.Discard(i)
				return Result{Status: BadFrame, Reason: "overlong tsip"}, i
			}
			continue
		}
		if i+1 >= n {
			return Result{Status: NoFrameYet}, 0
		}
		next := l.ring.At(i + 1)
		switch next {
		case 0x10:
			payload = append(payload, 0x10)
			i += 2
		case 0x03:
			total := i + 2
			raw := append([]byte(nil), l.ring.Slice(0, total)...)
			out := append([]byte(nil), payload...)
			l.ring.Discard(total)
			return Result{Status: FrameOK, Type: TSIP, Payload: out, Raw: raw}, total
		default:
			total := i + 2
			l.ring.Discard(total)
			return Result{Status: BadFrame, Reason: "bad tsip escape"}, total
		}
	}
	return Result{Status: NoFrameYet}, 0
}
