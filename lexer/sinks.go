package lexer

// RTCMSink receives fully-framed RTCM3 messages. Bit-level
// decoding of RTCM content is explicitly out of scope for this module;
// a consumer (e.g. an RTK engine) implements this interface to receive
// the framed bytes for its own decoding.
type RTCMSink interface {
	HandleRTCM(msgType int, payload []byte)
}

// AISSink receives fully-framed AIVDM/AIVDO sentences. Like RTCMSink,
// 6-bit-armor payload decoding is out of scope here; this seam exists
// so a consumer can do that decoding itself.
type AISSink interface {
	HandleAIS(payload []byte)
}
