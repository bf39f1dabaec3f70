// Package navdata holds the unified navigation datum that every protocol
// family's decoder writes into, the satellite skyview, and the raw
// measurement set, all using the validity-sentinel convention (NaN for
// floats, negative for counts) instead of separate boolean flags, the
// same convention the teacher's RTKStatus used for its "no covariance
// yet" case.
package navdata

import "math"

// FixMode is the 2D/3D solution type.
type FixMode int

const (
	FixModeNone FixMode = iota
	FixMode2D
	FixMode3D
)

// FixStatus classifies how the fix was produced.
type FixStatus int

const (
	FixStatusUnknown FixStatus = iota
	FixStatusGPS
	FixStatusDGPS
	FixStatusRTKFix
	FixStatusRTKFloat
	FixStatusDeadReckoning
	FixStatusGNSSDR
	FixStatusTimeOnly
	FixStatusSimulated
)

func (s FixStatus) String() string {
	switch s {
	case FixStatusGPS:
		return "gps"
	case FixStatusDGPS:
		return "dgps"
	case FixStatusRTKFix:
		return "rtk_fix"
	case FixStatusRTKFloat:
		return "rtk_float"
	case FixStatusDeadReckoning:
		return "dead_reckoning"
	case FixStatusGNSSDR:
		return "gnss_dr"
	case FixStatusTimeOnly:
		return "time_only"
	case FixStatusSimulated:
		return "simulated"
	default:
		return "unknown"
	}
}

// NaN is the shared invalid-float sentinel.
var NaN = math.NaN()

// IsValid reports whether f is a usable (non-NaN) value.
func IsValid(f float64) bool { return !math.IsNaN(f) }

// InvalidCount is the shared invalid-count sentinel.
const InvalidCount = -1

// DirtyMask is a bitset of datum categories touched by decoders. Bits
// accumulate; nothing in this module clears or publishes the mask.
type DirtyMask uint32

const (
	DirtyTime DirtyMask = 1 << iota
	DirtyLatLon
	DirtyAltitude
	DirtySpeed
	DirtyTrack
	DirtyMode
	DirtyStatus
	DirtyDOP
	DirtySatellite
	DirtyUsed
	DirtyECEF
	DirtyVECEF
	DirtyNED
	DirtyVNED
	DirtyRaw
	DirtySubframe
	DirtyReportIS
	DirtyClearIS
)

// Geodetic holds latitude/longitude/altitude in the WGS84 ellipsoidal
// and mean-sea-level senses.
type Geodetic struct {
	Lat    float64 // degrees
	Lon    float64 // degrees
	AltHAE float64 // meters, height above ellipsoid
	AltMSL float64 // meters, height above mean sea level
}

// ECEF holds earth-centered earth-fixed position, velocity, and their
// accuracy estimates.
type ECEF struct {
	X, Y, Z    float64 // meters
	VX, VY, VZ float64 // meters/second
	PAcc       float64 // meters
	VAcc       float64 // meters/second
}

// NEDVelocity holds north/east/down velocity components.
type NEDVelocity struct {
	N, E, D float64 // meters/second
}

// DOP holds dilution-of-precision figures.
type DOP struct {
	G, P, H, V, T, X, Y float64
}

// ErrorEstimate holds error estimates for position, velocity, speed,
// and track.
type ErrorEstimate struct {
	EPH float64 // meters, horizontal position error
	EPV float64 // meters, vertical position error
	EPS float64 // meters/second, speed error
	EPT float64 // seconds, time error
}

// Fix is the unified navigation datum (spec §3 "Unified navigation
// datum"): every protocol family's decoder writes into one of these via
// the owning device session.
type Fix struct {
	TimeSec     int64
	TimeNanosec float64
	TimeValid   bool

	Mode   FixMode
	Status FixStatus

	Geodetic Geodetic
	ECEF     ECEF
	NED      NEDVelocity
	DOP      DOP
	Err      ErrorEstimate

	MagVar float64 // degrees

	DGPSStationID int
	DGPSAge       float64 // seconds

	Speed float64 // meters/second
	Track float64 // degrees true
	Climb float64 // meters/second

	GeoidSep float64 // meters, geoid separation (N)

	Dirty DirtyMask
}

// NewFix returns a Fix with every field at its invalid sentinel.
func NewFix() *Fix {
	return &Fix{
		Mode:   FixModeNone,
		Status: FixStatusUnknown,
		Geodetic: Geodetic{
			Lat: NaN, Lon: NaN, AltHAE: NaN, AltMSL: NaN,
		},
		ECEF: ECEF{
			X: NaN, Y: NaN, Z: NaN,
			VX: NaN, VY: NaN, VZ: NaN,
			PAcc: NaN, VAcc: NaN,
		},
		NED: NEDVelocity{N: NaN, E: NaN, D: NaN},
		DOP: DOP{G: NaN, P: NaN, H: NaN, V: NaN, T: NaN, X: NaN, Y: NaN},
		Err: ErrorEstimate{EPH: NaN, EPV: NaN, EPS: NaN, EPT: NaN},
		MagVar:        NaN,
		DGPSStationID: InvalidCount,
		DGPSAge:       NaN,
		Speed:         NaN,
		Track:         NaN,
		Climb:         NaN,
		GeoidSep:      NaN,
	}
}

// InvalidatePosition clears lat/lon/altHAE/altMSL to NaN and marks the
// mode as no_fix, per the invariant: "if mode = no_fix, lat/lon/alt are
// marked invalid".
func (f *Fix) InvalidatePosition() {
	f.Mode = FixModeNone
	f.Geodetic.Lat = NaN
	f.Geodetic.Lon = NaN
	f.Geodetic.AltHAE = NaN
	f.Geodetic.AltMSL = NaN
	f.Dirty |= DirtyLatLon | DirtyAltitude | DirtyMode
}

// SetTime advances the datum's time field and marks it valid; callers
// must have already run the reading through a leap-second-aware
// resolver (see package gpstime) before calling this.
func (f *Fix) SetTime(sec int64, nanosec float64) {
	f.TimeSec = sec
	f.TimeNanosec = nanosec
	f.TimeValid = true
	f.Dirty |= DirtyTime
}
