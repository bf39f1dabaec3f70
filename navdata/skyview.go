package navdata

// GNSSID identifies the satellite constellation, per the cross-GNSS
// numbering the NMEA/UBX decoders both map into.
type GNSSID int

const (
	GNSSGPS     GNSSID = 0
	GNSSSBAS    GNSSID = 1
	GNSSGalileo GNSSID = 2
	GNSSBeiDou  GNSSID = 3
	GNSSIMES    GNSSID = 4
	GNSSQZSS    GNSSID = 5
	GNSSGLONASS GNSSID = 6
	GNSSIRNSS   GNSSID = 20
)

// Health summarizes a satellite's signal-health flag.
type Health int

const (
	HealthUnknown Health = iota
	HealthOK
	HealthBad
)

// Satellite is one entry of a Skyview.
type Satellite struct {
	GNSSID GNSSID
	SVID   int // per-GNSS satellite ID
	PRN    int // cross-GNSS "NMEA PRN"; InvalidCount if unmapped
	SigID  int

	// Elevation/azimuth are NaN until the satellite has been tracked at
	// least once (spec invariant: "elevation/azimuth absent iff not yet
	// tracked").
	Elevation float64 // degrees, -90..90
	Azimuth   float64 // degrees, 0..360

	SNR    float64 // dB-Hz, NaN if not carrying signal
	Used   bool
	Health Health
}

// NewSatellite returns a Satellite with elevation/azimuth/SNR at their
// invalid sentinels.
func NewSatellite(gnssID GNSSID, svid int) Satellite {
	return Satellite{
		GNSSID:    gnssID,
		SVID:      svid,
		PRN:       InvalidCount,
		Elevation: NaN,
		Azimuth:   NaN,
		SNR:       NaN,
		Health:    HealthUnknown,
	}
}

// Tracked reports whether the satellite has a plausible elevation and
// azimuth, i.e. has been seen in a tracking report rather than just an
// almanac/visibility listing.
func (s Satellite) Tracked() bool {
	return IsValid(s.Elevation) && IsValid(s.Azimuth)
}

// Skyview is the ordered set of satellites currently known to a device
// session, accumulated across one or more partial reports (e.g. NMEA
// GSV's multi-sentence sequence, or a UBX NAV-SAT single packet).
type Skyview struct {
	Satellites []Satellite
}

// Upsert finds (by GNSSID, SVID) or appends a satellite, returning a
// pointer the caller can mutate in place.
func (sv *Skyview) Upsert(gnssID GNSSID, svid int) *Satellite {
	for i := range sv.Satellites {
		if sv.Satellites[i].GNSSID == gnssID && sv.Satellites[i].SVID == svid {
			return &sv.Satellites[i]
		}
	}
	sv.Satellites = append(sv.Satellites, NewSatellite(gnssID, svid))
	return &sv.Satellites[len(sv.Satellites)-1]
}

// Reset clears the skyview, used when a driver reports a total
// satellite-in-view count that indicates the prior accumulation is
// stale (e.g. a new GSV group starting at sentence 1).
func (sv *Skyview) Reset() {
	sv.Satellites = sv.Satellites[:0]
}

// UsedCount returns how many satellites are flagged as contributing to
// the current fix.
func (sv *Skyview) UsedCount() int {
	n := 0
	for _, s := range sv.Satellites {
		if s.Used {
			n++
		}
	}
	return n
}
