// Package pseudonmea renders the unified navigation datum back out as
// NMEA 0183 sentences (spec §4.10): the mirror image of driver/nmea's
// parser, used so that any binary-protocol driver's fix can be
// re-exposed to NMEA-only downstream consumers.
package pseudonmea

import (
	"fmt"
	"math"
	"strings"

	"github.com/ntpsec/gpsd-sub004/gpstime"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

const maxGSVPerSentence = 4

// Encoder renders a Fix/Skyview pair into the sentence set a consumer
// expects from a live NMEA talker: GGA, RMC, GSA, GSV (one per four
// satellites), ZDA, and GBS when an error estimate is present.
type Encoder struct {
	// TalkerID is the two-letter NMEA talker prefix, e.g. "GP", "GN".
	TalkerID string
}

// NewEncoder returns an Encoder using the "GN" (GNSS, multi-constellation)
// talker ID.
func NewEncoder() *Encoder {
	return &Encoder{TalkerID: "GN"}
}

// Encode renders every applicable sentence for the given fix/skyview,
// in GGA/RMC/GSA/GSV.../ZDA/GBS order.
func (e *Encoder) Encode(fix *navdata.Fix, sky *navdata.Skyview) []string {
	var out []string
	out = append(out, e.gga(fix))
	out = append(out, e.rmc(fix))
	out = append(out, e.gsa(fix, sky)...)
	out = append(out, e.gsv(sky)...)
	if fix.TimeValid {
		out = append(out, e.zda(fix))
	}
	if navdata.IsValid(fix.Err.EPH) || navdata.IsValid(fix.Err.EPV) {
		out = append(out, e.gbs(fix))
	}
	return out
}

func (e *Encoder) sentence(kind string, fields ...string) string {
	body := e.TalkerID + kind
	if len(fields) > 0 {
		body += "," + strings.Join(fields, ",")
	}
	return "$" + body + "*" + checksumHex(body)
}

func checksumHex(body string) string {
	var c byte
	for i := 0; i < len(body); i++ {
		c ^= body[i]
	}
	return fmt.Sprintf("%02X", c)
}

func (e *Encoder) gga(fix *navdata.Fix) string {
	lat, latHemi := formatLat(fix.Geodetic.Lat)
	lon, lonHemi := formatLon(fix.Geodetic.Lon)
	return e.sentence("GGA",
		formatTime(fix),
		lat, latHemi,
		lon, lonHemi,
		formatInt(statusToQuality(fix.Status)),
		"", // satellites used count is not tracked on Fix itself
		formatFloat(fix.DOP.H, 1),
		formatFloat(fix.Geodetic.AltMSL, 1), "M",
		formatFloat(fix.GeoidSep, 1), "M",
		formatFloat(fix.DGPSAge, 1),
		formatDGPSStation(fix.DGPSStationID),
	)
}

func statusToQuality(s navdata.FixStatus) int {
	switch s {
	case navdata.FixStatusGPS:
		return 1
	case navdata.FixStatusDGPS:
		return 2
	case navdata.FixStatusRTKFix:
		return 4
	case navdata.FixStatusRTKFloat:
		return 5
	case navdata.FixStatusDeadReckoning:
		return 6
	default:
		return 0
	}
}

func (e *Encoder) rmc(fix *navdata.Fix) string {
	status := "V"
	if fix.Mode != navdata.FixModeNone {
		status = "A"
	}
	lat, latHemi := formatLat(fix.Geodetic.Lat)
	lon, lonHemi := formatLon(fix.Geodetic.Lon)
	return e.sentence("RMC",
		formatTime(fix),
		status,
		lat, latHemi,
		lon, lonHemi,
		formatFloat(fix.Speed/0.514444, 1),
		formatFloat(fix.Track, 1),
		formatDate(fix),
		formatMagVar(fix.MagVar),
		magVarHemi(fix.MagVar),
	)
}

func (e *Encoder) gsa(fix *navdata.Fix, sky *navdata.Skyview) []string {
	var used []string
	for _, sat := range sky.Satellites {
		if sat.Used && sat.PRN != navdata.InvalidCount {
			used = append(used, formatInt(sat.PRN))
		}
	}
	for len(used) < 12 {
		used = append(used, "")
	}
	fixType := "1"
	switch fix.Mode {
	case navdata.FixMode2D:
		fixType = "2"
	case navdata.FixMode3D:
		fixType = "3"
	}
	fields := append([]string{"A", fixType}, used[:12]...)
	fields = append(fields, formatFloat(fix.DOP.P, 1), formatFloat(fix.DOP.H, 1), formatFloat(fix.DOP.V, 1))
	return []string{e.sentence("GSA", fields...)}
}

func (e *Encoder) gsv(sky *navdata.Skyview) []string {
	n := len(sky.Satellites)
	if n == 0 {
		return nil
	}
	total := (n + maxGSVPerSentence - 1) / maxGSVPerSentence
	var out []string
	for i := 0; i < total; i++ {
		fields := []string{formatInt(total), formatInt(i + 1), formatInt(n)}
		for j := 0; j < maxGSVPerSentence; j++ {
			idx := i*maxGSVPerSentence + j
			if idx >= n {
				break
			}
			sat := sky.Satellites[idx]
			fields = append(fields,
				formatInt(sat.SVID),
				formatFloat(sat.Elevation, 0),
				formatFloat(sat.Azimuth, 0),
				formatFloat(sat.SNR, 0),
			)
		}
		out = append(out, e.sentence("GSV", fields...))
	}
	return out
}

func (e *Encoder) zda(fix *navdata.Fix) string {
	t := gpstime.Time{Sec: fix.TimeSec, Nanosec: fix.TimeNanosec}.ToStd()
	return e.sentence("ZDA",
		formatTime(fix),
		fmt.Sprintf("%02d", t.Day()),
		fmt.Sprintf("%02d", int(t.Month())),
		fmt.Sprintf("%04d", t.Year()),
		"00", "00",
	)
}

func (e *Encoder) gbs(fix *navdata.Fix) string {
	return e.sentence("GBS",
		formatTime(fix),
		formatFloat(fix.Err.EPH, 1),
		formatFloat(fix.Err.EPH, 1),
		formatFloat(fix.Err.EPV, 1),
		"", "", "", "",
	)
}

func formatTime(fix *navdata.Fix) string {
	if !fix.TimeValid {
		return ""
	}
	t := gpstime.Time{Sec: fix.TimeSec, Nanosec: fix.TimeNanosec}.ToStd()
	return fmt.Sprintf("%02d%02d%05.2f", t.Hour(), t.Minute(), float64(t.Second())+float64(t.Nanosecond())/1e9)
}

func formatDate(fix *navdata.Fix) string {
	if !fix.TimeValid {
		return ""
	}
	t := gpstime.Time{Sec: fix.TimeSec, Nanosec: fix.TimeNanosec}.ToStd()
	return fmt.Sprintf("%02d%02d%02d", t.Day(), int(t.Month()), t.Year()%100)
}

func formatLat(lat float64) (value, hemi string) {
	if !navdata.IsValid(lat) {
		return "", ""
	}
	hemi = "N"
	if lat < 0 {
		hemi = "S"
		lat = -lat
	}
	deg := math.Trunc(lat)
	min := (lat - deg) * 60
	return fmt.Sprintf("%02d%08.5f", int(deg), min), hemi
}

func formatLon(lon float64) (value, hemi string) {
	if !navdata.IsValid(lon) {
		return "", ""
	}
	hemi = "E"
	if lon < 0 {
		hemi = "W"
		lon = -lon
	}
	deg := math.Trunc(lon)
	min := (lon - deg) * 60
	return fmt.Sprintf("%03d%08.5f", int(deg), min), hemi
}

func formatFloat(v float64, prec int) string {
	if !navdata.IsValid(v) {
		return ""
	}
	return fmt.Sprintf("%.*f", prec, v)
}

func formatInt(v int) string {
	if v == navdata.InvalidCount {
		return ""
	}
	return fmt.Sprintf("%d", v)
}

func formatDGPSStation(id int) string {
	if id == navdata.InvalidCount {
		return ""
	}
	return fmt.Sprintf("%04d", id)
}

func formatMagVar(v float64) string {
	if !navdata.IsValid(v) {
		return ""
	}
	return fmt.Sprintf("%.1f", math.Abs(v))
}

func magVarHemi(v float64) string {
	if !navdata.IsValid(v) {
		return ""
	}
	if v < 0 {
		return "W"
	}
	return "E"
}
