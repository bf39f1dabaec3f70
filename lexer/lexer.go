package lexer

// Lexer is the hierarchical framing recognizer (spec §4.2). It is not
// safe for concurrent use; the single-threaded event loop that owns a
// device session is expected to call Advance then repeatedly Next until
// NoFrameYet.
type Lexer struct {
	ring *ringBuffer
	mask TypeMask

	chunked      bool
	chunkState   chunkState
	chunkLeft    int
	chunkScratch []byte

	rtcmSink RTCMSink
	aisSink  AISSink
}

// New returns a Lexer that initially accepts every packet type.
func New() *Lexer {
	return &Lexer{
		ring: newRingBuffer(RingBufferSize),
		mask: AllTypes,
	}
}

// SetTypeMask narrows (or widens) the set of packet types Next will
// emit; frames of other types are silently discarded.
func (l *Lexer) SetTypeMask(m TypeMask) { l.mask = m }

// SetRTCMSink installs the seam that framed RTCM3 messages are
// forwarded to.
func (l *Lexer) SetRTCMSink(s RTCMSink) { l.rtcmSink = s }

// SetAISSink installs the seam that framed AIVDM/AIVDO sentences are
// forwarded to.
func (l *Lexer) SetAISSink(s AISSink) { l.aisSink = s }

// EnableChunked turns on the HTTP chunked-transfer overlay (used while
// the active "driver" is an NTRIP client in chunked mode): Advance
// bytes are first de-chunked before being fed to the framing
// recognizers.
func (l *Lexer) EnableChunked() {
	l.chunked = true
	l.chunkState = chunkWantSize
	l.chunkLeft = 0
	l.chunkScratch = l.chunkScratch[:0]
}

// DisableChunked turns the overlay back off.
func (l *Lexer) DisableChunked() {
	l.chunked = false
}

// Advance appends newly-read bytes to the lexer's input.
func (l *Lexer) Advance(p []byte) {
	if !l.chunked {
		l.ring.Append(p)
		return
	}
	out := l.dechunkInto(p)
	l.ring.Append(out)
}

// Next attempts to recognize and emit exactly one frame from the
// currently buffered bytes.
func (l *Lexer) Next() Result {
	for {
		if l.ring.Len() == 0 {
			return Result{Status: NoFrameYet}
		}
		res, consumed := l.tryRecognize()
		if consumed == 0 {
			// Nothing recognizable yet but also nothing to discard:
			// waiting on more bytes.
			return Result{Status: NoFrameYet}
		}
		if res.Status == NoFrameYet {
			return res
		}
		if res.Status == FrameOK && !l.mask.Allows(res.Type) {
			// Masked out: drop silently and keep scanning.
			continue
		}
		return res
	}
}

// tryRecognize inspects the head of the ring and either emits a frame,
// emits a bad-frame, or reports that more bytes are needed. It returns
// the number of bytes it discarded/consumed from the ring as a side
// effect (frame emission and discards both advance the head).
func (l *Lexer) tryRecognize() (Result, int) {
	b0 := l.ring.At(0)

	switch {
	case b0 == '$' || b0 == '!':
		return l.recognizeNMEA()
	case b0 == '#':
		return l.recognizeComment()
	case b0 == 0xB5:
		return l.recognizeUBX()
	case b0 == 0x10:
		return l.recognizeTSIP()
	case b0 == 0xA0:
		return l.recognizeA0()
	case b0 == 0xD3:
		return l.recognizeRTCM3()
	default:
		// Unrecognized lead byte at a sync position: framing-desync,
		// discard one byte and keep searching (spec §4.2 failure
		// semantics).
		l.ring.Discard(1)
		return Result{Status: BadFrame, Reason: "framing-desync"}, 1
	}
}

func (l *Lexer) recognizeComment() (Result, int) {
	n := l.ring.Len()
	for i := 0; i < n; i++ {
		if l.ring.At(i) == '\n' {
			raw := append([]byte(nil), l.ring.Slice(0, i+1)...)
			l.ring.Discard(i + 1)
			return Result{Status: FrameOK, Type: Comment, Payload: raw, Raw: raw}, i + 1
		}
		if i+1 > MaxPacketSize {
			l.ring.Discard(i + 1)
			return Result{Status: BadFrame, Reason: "overlong comment"}, i + 1
		}
	}
	return Result{Status: NoFrameYet}, 0
}

// recognizeNMEA handles both plain NMEA ('$') and AIVDM/AIVDO ('!')
// leads, since they share identical framing (terminator + *HH
// checksum).
func (l *Lexer) recognizeNMEA() (Result, int) {
	n := l.ring.Len()
	if n < 2 {
		return Result{Status: NoFrameYet}, 0
	}
	// Talker must be uppercase alphabetic per spec.
	if !isUpperAlpha(l.ring.At(1)) {
		l.ring.Discard(1)
		return Result{Status: BadFrame, Reason: "framing-desync"}, 1
	}

	for i := 1; i < n; i++ {
		c := l.ring.At(i)
		if c == '\r' || c == '\n' {
			// Terminator with no '*' seen: malformed, discard whole
			// region up to and including terminator.
			l.ring.Discard(i + 1)
			return Result{Status: BadFrame, Reason: "unterminated nmea checksum"}, i + 1
		}
		if c == '*' {
			if i+3 > n {
				if i+3 > MaxPacketSize {
					l.ring.Discard(i + 3)
					return Result{Status: BadFrame, Reason: "overlong nmea"}, i + 3
				}
				return Result{Status: NoFrameYet}, 0
			}
			hex := l.ring.Slice(i+1, i+3)
			want, ok := parseHexByte(hex)
			if !ok {
				l.ring.Discard(i + 3)
				return Result{Status: BadFrame, Reason: "bad checksum digits"}, i + 3
			}
			got := nmeaChecksum(l.ring.Slice(1, i))
			// find terminator after the checksum digits
			end := i + 3
			for end < n && (l.ring.At(end) == '\r' || l.ring.At(end) == '\n') {
				end++
			}
			if end == i+3 && end >= n {
				// Haven't seen the terminator yet; wait, unless we're
				// already at max size.
				if end > MaxPacketSize {
					raw := append([]byte(nil), l.ring.Slice(0, end)...)
					l.ring.Discard(end)
					return Result{Status: BadFrame, Reason: "overlong nmea", Payload: raw}, end
				}
				return Result{Status: NoFrameYet}, 0
			}
			raw := append([]byte(nil), l.ring.Slice(0, end)...)
			payload := append([]byte(nil), l.ring.Slice(1, i)...)
			l.ring.Discard(end)
			if got != want {
				return Result{Status: BadFrame, Reason: "checksum", Raw: raw}, end
			}
			ptype := NMEA
			if len(payload) >= 5 && (string(payload[:5]) == "AIVDM" || string(payload[:5]) == "AIVDO") {
				ptype = AIVDM
				if l.aisSink != nil {
					l.aisSink.HandleAIS(payload)
				}
			}
			return Result{Status: FrameOK, Type: ptype, Payload: payload, Raw: raw}, end
		}
		if i > MaxPacketSize {
			l.ring.Discard(i)
			return Result{Status: BadFrame, Reason: "overlong nmea"}, i
		}
	}
	return Result{Status: NoFrameYet}, 0
}

func (l *Lexer) recognizeUBX() (Result, int) {
	n := l.ring.Len()
	if n < 2 {
		return Result{Status: NoFrameYet}, 0
	}
	if l.ring.At(1) != 0x62 {
		l.ring.Discard(1)
		return Result{Status: BadFrame, Reason: "framing-desync"}, 1
	}
	if n < 6 {
		return Result{Status: NoFrameYet}, 0
	}
	length := int(l.ring.At(4)) | int(l.ring.At(5))<<8
	if length < 0 || length > MaxPacketSize {
		l.ring.Discard(2)
		return Result{Status: BadFrame, Reason: "length overflow"}, 2
	}
	total := 6 + length + 2
	if n < total {
		if total > MaxPacketSize+8 {
			l.ring.Discard(2)
			return Result{Status: BadFrame, Reason: "length overflow"}, 2
		}
		return Result{Status: NoFrameYet}, 0
	}
	body := l.ring.Slice(2, 6+length) // class,id,lenL,lenH,payload
	ckA, ckB := ubxChecksum(body)
	gotA, gotB := l.ring.At(6+length), l.ring.At(6+length+1)
	raw := append([]byte(nil), l.ring.Slice(0, total)...)
	payload := append([]byte(nil), l.ring.Slice(6, 6+length)...)
	l.ring.Discard(total)
	if ckA != gotA || ckB != gotB {
		return Result{Status: BadFrame, Reason: "checksum", Raw: raw}, total
	}
	return Result{Status: FrameOK, Type: UBX, Payload: payload, Raw: raw}, total
}

func (l *Lexer) recognizeA0() (Result, int) {
	n := l.ring.Len()
	if n < 2 {
		return Result{Status: NoFrameYet}, 0
	}
	switch l.ring.At(1) {
	case 0xA1:
		return l.recognizeSkytraq()
	case 0xA2:
		return l.recognizeSiRF()
	default:
		l.ring.Discard(1)
		return Result{Status: BadFrame, Reason: "framing-desync"}, 1
	}
}

func (l *Lexer) recognizeSkytraq() (Result, int) {
	n := l.ring.Len()
	if n < 4 {
		return Result{Status: NoFrameYet}, 0
	}
	length := int(l.ring.At(2))<<8 | int(l.ring.At(3))
	if length < 0 || length > MaxPacketSize {
		l.ring.Discard(2)
		return Result{Status: BadFrame, Reason: "length overflow"}, 2
	}
	total := 4 + length + 1 + 2 // payload + checksum + CR LF
	if n < total {
		if total > MaxPacketSize+8 {
			l.ring.Discard(2)
			return Result{Status: BadFrame, Reason: "length overflow"}, 2
		}
		return Result{Status: NoFrameYet}, 0
	}
	if l.ring.At(4+length+1) != '\r' || l.ring.At(4+length+2) != '\n' {
		l.ring.Discard(2)
		return Result{Status: BadFrame, Reason: "missing terminator"}, 2
	}
	payload := append([]byte(nil), l.ring.Slice(4, 4+length)...)
	want := l.ring.At(4 + length)
	got := xorChecksum(payload)
	raw := append([]byte(nil), l.ring.Slice(0, total)...)
	l.ring.Discard(total)
	if got != want {
		return Result{Status: BadFrame, Reason: "checksum", Raw: raw}, total
	}
	return Result{Status: FrameOK, Type: Skytraq, Payload: payload, Raw: raw}, total
}

func (l *Lexer) recognizeSiRF() (Result, int) {
	n := l.ring.Len()
	if n < 4 {
		return Result{Status: NoFrameYet}, 0
	}
	length := int(l.ring.At(2))<<8 | int(l.ring.At(3))
	if length < 0 || length > MaxPacketSize {
		l.ring.Discard(2)
		return Result{Status: BadFrame, Reason: "length overflow"}, 2
	}
	total := 4 + length + 2 + 2 // payload + 2-byte sum + 0xB0 0xB3
	if n < total {
		if total > MaxPacketSize+8 {
			l.ring.Discard(2)
			return Result{Status: BadFrame, Reason: "length overflow"}, 2
		}
		return Result{Status: NoFrameYet}, 0
	}
	if l.ring.At(total-2) != 0xB0 || l.ring.At(total-1) != 0xB3 {
		l.ring.Discard(2)
		return Result{Status: BadFrame, Reason: "missing terminator"}, 2
	}
	payload := append([]byte(nil), l.ring.Slice(4, 4+length)...)
	wantSum := uint16(l.ring.At(4+length))<<8 | uint16(l.ring.At(4+length+1))
	gotSum := sirfChecksum(payload)
	raw := append([]byte(nil), l.ring.Slice(0, total)...)
	l.ring.Discard(total)
	if gotSum != wantSum {
		return Result{Status: BadFrame, Reason: "checksum", Raw: raw}, total
	}
	return Result{Status: FrameOK, Type: SiRF, Payload: payload, Raw: raw}, total
}

func (l *Lexer) recognizeRTCM3() (Result, int) {
	n := l.ring.Len()
	if n < 3 {
		return Result{Status: NoFrameYet}, 0
	}
	length := (int(l.ring.At(1))<<8 | int(l.ring.At(2))) & 0x03FF
	total := 3 + length + 3 // header + payload + crc24
	if n < total {
		if total > MaxPacketSize+8 {
			l.ring.Discard(1)
			return Result{Status: BadFrame, Reason: "length overflow"}, 1
		}
		return Result{Status: NoFrameYet}, 0
	}
	body := l.ring.Slice(0, 3+length)
	wantCRC := uint32(l.ring.At(3+length))<<16 | uint32(l.ring.At(3+length+1))<<8 | uint32(l.ring.At(3+length+2))
	gotCRC := rtcm3CRC24Q(body)
	raw := append([]byte(nil), l.ring.Slice(0, total)...)
	payload := append([]byte(nil), l.ring.Slice(3, 3+length)...)
	l.ring.Discard(total)
	if gotCRC != wantCRC {
		return Result{Status: BadFrame, Reason: "checksum", Raw: raw}, total
	}
	if l.rtcmSink != nil && length >= 2 {
		msgType := int(payload[0])<<4 | int(payload[1])>>4
		l.rtcmSink.HandleRTCM(msgType, payload)
	}
	return Result{Status: FrameOK, Type: RTCM3, Payload: payload, Raw: raw}, total
}

func isUpperAlpha(b byte) bool { return b >= 'A' && b <= 'Z' }

func parseHexByte(b []byte) (byte, bool) {
	hi, ok1 := hexDigit(b[0])
	lo, ok2 := hexDigit(b[1])
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

func hexDigit(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	default:
		return 0, false
	}
}
