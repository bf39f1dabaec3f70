// Package nmea decodes NMEA-0183 sentences (spec §4.4): the standard
// position/satellite/time sentences, tolerant of missing fields (an
// empty field between commas is invalid, not zero). The major
// proprietary variants are recognized but not decoded.
package nmea

import (
	"strconv"
	"strings"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

// State is the NMEA driver's private subrecord: accumulated GSV state
// and the most recent date (for merging with GGA's time-of-day-only
// field).
type State struct {
	gsvTotal   int
	gsvCurrent int
	gsvSlot    int

	haveDate bool
	year     int
	month    int
	day      int

	// defaultGNSS is set from the talker prefix for satellites whose
	// record lacks an explicit system code.
	defaultGNSS navdata.GNSSID
}

func stateOf(sess *driver.Session) *State {
	st, ok := sess.Private.(*State)
	if !ok {
		st = &State{}
		sess.Private = st
	}
	return st
}

// Behavior implements driver.Behavior for the NMEA family.
type Behavior struct{}

func (Behavior) Parse(sess *driver.Session, payload []byte) (bool, error) {
	sentence := string(payload)
	fields := strings.Split(sentence, ",")
	if len(fields) == 0 || len(fields[0]) < 5 {
		return false, nil
	}
	talker := fields[0][:2]
	kind := fields[0][2:]

	st := stateOf(sess)
	st.defaultGNSS = gnssIDForTalker(talker)

	switch {
	case kind == "GGA":
		return parseGGA(sess, st, fields), nil
	case kind == "GLL":
		return parseGLL(sess, fields), nil
	case kind == "GSA":
		return parseGSA(sess, fields), nil
	case kind == "GSV":
		return parseGSV(sess, st, fields), nil
	case kind == "RMC":
		return parseRMC(sess, st, fields), nil
	case kind == "VTG":
		return parseVTG(sess, fields), nil
	case kind == "ZDA":
		return parseZDA(sess, st, fields), nil
	case kind == "GST":
		return parseGST(sess, fields), nil
	case kind == "GBS":
		return parseGBS(sess, fields), nil
	case strings.HasPrefix(sentence, "PGRM"):
		return false, nil
	case strings.HasPrefix(sentence, "PMTK"):
		return false, nil
	case strings.HasPrefix(sentence, "PASHR,RID"):
		return false, nil
	case strings.HasPrefix(sentence, "PFEC,GP"):
		return false, nil
	case strings.HasPrefix(sentence, "PTNT"):
		return false, nil
	case strings.HasPrefix(sentence, "PSRF"):
		return false, nil
	default:
		return false, nil
	}
}

func gnssIDForTalker(talker string) navdata.GNSSID {
	switch talker {
	case "GP":
		return navdata.GNSSGPS
	case "GL":
		return navdata.GNSSGLONASS
	case "GA":
		return navdata.GNSSGalileo
	case "GB", "BD":
		return navdata.GNSSBeiDou
	case "GQ", "QZ":
		return navdata.GNSSQZSS
	case "GI":
		return navdata.GNSSIRNSS
	default:
		return navdata.GNSSGPS
	}
}

func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}

func parseFloat(s string) float64 {
	if s == "" {
		return navdata.NaN
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return navdata.NaN
	}
	return v
}

func parseInt(s string) int {
	if s == "" {
		return navdata.InvalidCount
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return navdata.InvalidCount
	}
	return v
}

// parseLat converts NMEA's ddmm.mmmm latitude field plus hemisphere
// letter into signed decimal degrees.
func parseLat(value, hemi string) float64 {
	return parseDM(value, hemi, "S")
}

// parseLon converts NMEA's dddmm.mmmm longitude field plus hemisphere
// letter into signed decimal degrees.
func parseLon(value, hemi string) float64 {
	return parseDM(value, hemi, "W")
}

// parseDM converts a degrees+minutes field (the whole-number part is
// degrees*100+minutes, regardless of whether degrees has 2 or 3
// digits) into signed decimal degrees.
func parseDM(value, hemi, negativeHemi string) float64 {
	if value == "" {
		return navdata.NaN
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return navdata.NaN
	}
	whole := float64(int64(v / 100))
	minutes := v - whole*100
	result := whole + minutes/60
	if hemi == negativeHemi {
		result = -result
	}
	return result
}
