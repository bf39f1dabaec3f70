package driver

import (
	"strings"
	"time"

	"github.com/ntpsec/gpsd-sub004/lexer"
)

// Registry holds the process-wide immutable ordered array of driver
// descriptors (spec §3 "Ownership": "The driver registry holds a
// process-wide immutable ordered array of driver descriptors").
// Register is called from each driver package's init() function, in
// the teacher's registration style, so that importing a driver package
// for its side effects is what makes it available.
type Registry struct {
	descriptors []*Descriptor
}

var global = &Registry{}

// Register appends d to the process-wide registry. Order matters: when
// an NMEA sentence could match more than one trigger, the first
// registered match wins (spec §4.3 rule 2).
func Register(d *Descriptor) {
	global.descriptors = append(global.descriptors, d)
}

// ResetRegistryForTest clears the process-wide registry. It exists only
// for test isolation between packages that each register their own
// descriptors at init time; production code never calls it.
func ResetRegistryForTest() {
	global.descriptors = nil
}

// All returns the registered descriptors in registration order.
func All() []*Descriptor {
	return global.descriptors
}

// ByPacketType returns the first descriptor tagged with t, or nil.
func ByPacketType(t lexer.PacketType) *Descriptor {
	for _, d := range global.descriptors {
		if d.PacketType == t {
			return d
		}
	}
	return nil
}

// MatchTrigger returns the first descriptor whose NMEATrigger is a
// prefix of sentence, or nil (spec §4.3 rule 2).
func MatchTrigger(sentence string) *Descriptor {
	for _, d := range global.descriptors {
		if d.NMEATrigger != "" && strings.HasPrefix(sentence, d.NMEATrigger) {
			return d
		}
	}
	return nil
}

// Activate switches sess to d, invoking the outgoing driver's
// HookDeactivate and the incoming driver's HookDriverSwitch/HookIdentified
// hooks. Sticky drivers (spec: "sticky drivers remain across
// re-opens") are not overridden by this call when called from the
// ordinary dispatch path — callers that want to force a switch away
// from a sticky driver must do so explicitly.
func (sess *Session) Activate(d *Descriptor) {
	if sess.Active == d {
		return
	}
	if sess.Active != nil && sess.Active.EventHook != nil {
		sess.Active.EventHook(sess, HookDeactivate, sess.CycleCounter)
	}
	sess.Active = d
	sess.ConfigStage = 0
	if d != nil && d.EventHook != nil {
		d.EventHook(sess, HookDriverSwitch, 0)
		d.EventHook(sess, HookIdentified, 0)
	}
}

// Dispatch feeds one lexer result through the registry's selection
// rules (spec §4.3) and, if a driver is or becomes active, decodes the
// payload. It returns true if the active driver reported an update.
func Dispatch(sess *Session, res lexer.Result) (bool, error) {
	if res.Status != lexer.FrameOK {
		return false, nil
	}

	sess.CycleCounter++
	sess.LastSeen = time.Now()

	if res.Type == lexer.NMEA {
		sentence := string(res.Payload)
		if sess.Active == nil || !sess.Active.Sticky {
			if d := MatchTrigger(sentence); d != nil {
				if sess.Active != d {
					sess.Activate(d)
				} else if d.EventHook != nil {
					d.EventHook(sess, HookTriggerMatch, sess.CycleCounter)
				}
			} else if sess.Active == nil {
				// No proprietary trigger matched and no driver has been
				// identified yet: fall back to the plain NMEA
				// descriptor (spec §4.3 rule 1: "unknown" is
				// NMEA-permissive).
				if d := ByPacketType(lexer.NMEA); d != nil {
					sess.Activate(d)
				}
			}
		}
	} else if sess.Active == nil || sess.Active.PacketType != res.Type {
		if d := ByPacketType(res.Type); d != nil {
			sess.Activate(d)
		}
	}

	if sess.Active == nil || sess.Active.Behavior == nil {
		return false, nil
	}

	updated, err := sess.Active.Behavior.Parse(sess, res.Payload)

	if sess.Active.EventHook != nil {
		sess.Active.EventHook(sess, HookConfigure, sess.ConfigStage)
	}
	runProbe(sess)

	return updated, err
}

// runProbe advances a staged probe/configuration sequence by exactly
// one step per received packet (spec §4.3 rule 5), if the active
// driver and context allow configuration writes.
func runProbe(sess *Session) {
	d := sess.Active
	if d == nil || !sess.Ctx.CanConfigure() {
		return
	}
	if d.InitQuery != nil {
		_ = d.InitQuery(sess, sess.ConfigStage)
		sess.ConfigStage++
	}
}
