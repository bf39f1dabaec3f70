package navdata

// RawMeasurement is one pseudorange/carrier-phase/Doppler observation,
// as decoded from e.g. UBX RXM-RAWX. Each field is NaN when invalid,
// following the spec's "each field uses NaN when invalid" rule rather
// than a separate per-field validity flag.
type RawMeasurement struct {
	GNSSID GNSSID
	SVID   int
	SigID  int

	// ObsCode is the RINEX 3 observation code, e.g. "1C", "2W", "5X".
	ObsCode string

	Pseudorange  float64 // meters
	CarrierPhase float64 // cycles
	Doppler      float64 // Hz
	CodePhase    float64
	DeltaRange   float64

	LockTime float64 // seconds
	SNR      float64 // dB-Hz

	LossOfLock     bool
	TrackingStatus uint32 // bitset, driver-family specific
}

// NewRawMeasurement returns a RawMeasurement with every numeric field
// at its NaN sentinel.
func NewRawMeasurement(gnssID GNSSID, svid int) RawMeasurement {
	return RawMeasurement{
		GNSSID:       gnssID,
		SVID:         svid,
		Pseudorange:  NaN,
		CarrierPhase: NaN,
		Doppler:      NaN,
		CodePhase:    NaN,
		DeltaRange:   NaN,
		LockTime:     NaN,
		SNR:          NaN,
	}
}

// RawMeasurementSet is the ordered set of observations from a single
// epoch, keyed implicitly by emission order (a driver appends one per
// tracked signal).
type RawMeasurementSet struct {
	TimeSec     int64
	TimeNanosec float64
	Measurements []RawMeasurement
}
