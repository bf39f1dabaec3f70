// Package driver holds the driver registry and the per-device session
// lifecycle state machine (spec §4.3): probe -> identify -> configure
// -> stream -> reactivate.
package driver

import (
	"time"

	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
	"github.com/ntpsec/gpsd-sub004/lexer"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

// HookEvent enumerates the lifecycle points a Descriptor's EventHook is
// invoked at.
type HookEvent int

const (
	HookIdentified HookEvent = iota
	HookConfigure
	HookReactivate
	HookDeactivate
	HookTriggerMatch
	HookWakeup
	HookDriverSwitch
)

// Behavior is the per-driver trait object (spec's "dynamic dispatch on
// drivers... implement as a trait/interface with one method per
// lifecycle hook"). Optional hooks are represented by a nil function
// field on Descriptor rather than a method every Behavior must
// implement, so a simple driver (e.g. plain NMEA) need not stub out
// probing or rate-switching.
type Behavior interface {
	// Parse decodes one already-framed payload of this driver's packet
	// type into the device session's unified datum / skyview / raw
	// measurement set. It returns true if a reportable update occurred.
	Parse(sess *Session, payload []byte) (bool, error)
}

// ControlSender wraps a payload in this driver's command framing and
// writes it to the device.
type ControlSender func(sess *Session, msg []byte) error

// ProbeFunc sends the next probe in a staged identification/bring-up
// sequence; counter is the number of packets received since the driver
// became active (spec: "probes...spaced across successive received
// packets, not time").
type ProbeFunc func(sess *Session, counter int) error

// SpeedSwitcher reconfigures the device's serial parameters.
type SpeedSwitcher func(sess *Session, baud int, parity byte, stopBits int) error

// ModeSwitcher switches the device between binary and NMEA output.
type ModeSwitcher func(sess *Session, binary bool) error

// RateSwitcher reconfigures the device's report period.
type RateSwitcher func(sess *Session, period time.Duration) error

// EventHookFunc is invoked on the lifecycle events listed by HookEvent.
type EventHookFunc func(sess *Session, event HookEvent, counter int)

// Descriptor is one entry of the driver registry.
type Descriptor struct {
	Name        string
	PacketType  lexer.PacketType
	NumChannels int

	Behavior Behavior

	Probe         ProbeFunc
	InitQuery     ProbeFunc
	ControlSend   ControlSender
	SpeedSwitch   SpeedSwitcher
	ModeSwitch    ModeSwitcher
	RateSwitch    RateSwitcher
	EventHook     EventHookFunc
	MinCycle      time.Duration
	Sticky        bool
	NMEATrigger   string
}

// Session is the per-connected-device record (spec §3 "Device
// session"). The lexer, active driver, and unified datum are all owned
// exclusively by the session that created them.
type Session struct {
	Ctx  *gpscontext.Context
	Path string

	Lexer *lexer.Lexer

	Active *Descriptor

	CycleCounter int
	LastSeen     time.Time

	ConfigStage int

	FirmwareVersion string
	HardwareVersion string

	Baud     int
	Parity   byte
	StopBits int

	Fix     *navdata.Fix
	Sky     navdata.Skyview
	RawMeas navdata.RawMeasurementSet

	// Private is the per-family driver-private subrecord (e.g. TSIP's
	// v0/v1 mode flag, Skytraq's staged-init counter). Each driver
	// package defines its own concrete type and type-asserts it back
	// out of this field.
	Private interface{}

	Write func(p []byte) (int, error)
}

// NewSession creates a device session with a fresh lexer and datum.
func NewSession(ctx *gpscontext.Context, path string, write func([]byte) (int, error)) *Session {
	return &Session{
		Ctx:   ctx,
		Path:  path,
		Lexer: lexer.New(),
		Fix:   navdata.NewFix(),
		Write: write,
	}
}
