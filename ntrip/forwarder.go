package ntrip

import "io"

// DeviceForwarder implements lexer.RTCMSink by writing decoded RTCM3
// bytes onto a primary device session's writer, the cross-device
// coupling called for in spec §1 ("RTCM corrections injected into the
// drivers") and §5.
type DeviceForwarder struct {
	Target io.Writer
}

// NewDeviceForwarder wraps w as an RTCM sink.
func NewDeviceForwarder(w io.Writer) *DeviceForwarder {
	return &DeviceForwarder{Target: w}
}

// HandleRTCM implements lexer.RTCMSink by forwarding the framed
// payload verbatim to the primary device; msgType is not needed for a
// plain pass-through forward.
func (f *DeviceForwarder) HandleRTCM(msgType int, payload []byte) {
	if f.Target == nil {
		return
	}
	_, _ = f.Target.Write(payload)
}
