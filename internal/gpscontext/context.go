// Package gpscontext holds the process-wide, read-mostly state that the
// lexer and drivers need but that must never live behind a package-level
// global: leap seconds, the best-known GPS week, the configured debug
// level, and the read-only/passive write-suppression flags.
//
// A *Context is created once by the caller that owns the device registry
// and passed by reference into every lexer, driver, and NTRIP client it
// creates. The single-threaded event loop described in the concurrency
// model sequences all writes to it, so no internal locking is done here.
package gpscontext

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Config carries the configuration inputs the core recognizes, per the
// spec's "no free-form config" stance: readonly, passive, debug level,
// and an optional override of a driver's minimum cycle time.
type Config struct {
	ReadOnly         bool
	Passive          bool
	DebugLevel       int
	MinCycleOverride time.Duration
}

// Context is the shared, read-mostly state threaded through the lexer,
// driver registry, and every driver instance.
type Context struct {
	Config Config
	Log    logrus.FieldLogger

	// LeapSeconds is the best currently-known TAI-UTC offset. Zero means
	// "unknown"; resolvers fall back to the compiled-in baseline below.
	LeapSeconds int

	// GPSWeek is the best currently-known (possibly 10-bit-rolled-over)
	// GPS week, updated as drivers decode week fields.
	GPSWeek int
}

// BaselineLeapSeconds is the compiled-in leap-second count used when a
// device has not yet reported one. Updated periodically as new leap
// seconds are scheduled; stale values only affect time display precision
// by whole seconds, never fix validity.
const BaselineLeapSeconds = 18

// New builds a Context with the given logger (or logrus.StandardLogger()
// if nil) and the compiled-in leap-second baseline.
func New(cfg Config, log logrus.FieldLogger) *Context {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Context{
		Config:      cfg,
		Log:         log,
		LeapSeconds: BaselineLeapSeconds,
	}
}

// EffectiveLeapSeconds returns ctx.LeapSeconds if a device has reported
// one, else the compiled-in baseline.
func (ctx *Context) EffectiveLeapSeconds() int {
	if ctx.LeapSeconds > 0 {
		return ctx.LeapSeconds
	}
	return BaselineLeapSeconds
}

// CanWrite reports whether the driver is allowed to send anything at all
// to the device (readonly suppresses every write, including probes).
func (ctx *Context) CanWrite() bool {
	return !ctx.Config.ReadOnly
}

// CanConfigure reports whether the driver is allowed to send
// configuration writes. Passive mode allows probes (which are required
// for identification) but not configuration.
func (ctx *Context) CanConfigure() bool {
	return ctx.CanWrite() && !ctx.Config.Passive
}

// MinCycle returns the driver's minimum cycle time, honoring the
// configured override when it is positive.
func (ctx *Context) MinCycle(driverMin time.Duration) time.Duration {
	if ctx.Config.MinCycleOverride > 0 {
		return ctx.Config.MinCycleOverride
	}
	return driverMin
}
