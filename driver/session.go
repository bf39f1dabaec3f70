package driver

import "github.com/ntpsec/gpsd-sub004/lexer"

// Stage is the device-session lifecycle state (spec §4.3 / §3
// "Device session... Lifecycle: created at device open, mutated by
// lexer/driver on every packet, destroyed on close").
type Stage int

const (
	StageProbe Stage = iota
	StageIdentify
	StageConfigure
	StageStream
	StageReactivate
)

// Feed pushes newly read bytes through the session's lexer and
// dispatches every resulting frame to the driver registry, returning
// the number of frames that produced a reportable update.
func (sess *Session) Feed(data []byte) (updates int, lastErr error) {
	sess.Lexer.Advance(data)
	for {
		res := sess.Lexer.Next()
		switch res.Status {
		case lexer.NoFrameYet:
			return updates, lastErr
		case lexer.BadFrame:
			continue
		}
		ok, err := Dispatch(sess, res)
		if err != nil {
			lastErr = err
		}
		if ok {
			updates++
		}
	}
}

// Reactivate re-enters the StageReactivate hook for the session's
// active driver, used when the external loop detects a device has gone
// quiet and is being re-probed without a full close/reopen.
func (sess *Session) Reactivate() {
	if sess.Active != nil && sess.Active.EventHook != nil {
		sess.Active.EventHook(sess, HookReactivate, sess.CycleCounter)
	}
}

// Wakeup invokes the active driver's wakeup hook, used by periodic
// keep-alive polling.
func (sess *Session) Wakeup() {
	if sess.Active != nil && sess.Active.EventHook != nil {
		sess.Active.EventHook(sess, HookWakeup, sess.CycleCounter)
	}
}
