// Package ubx decodes u-blox UBX binary messages (spec §4.5): NAV-*
// fix/time/skyview reports, MON-VER identification, RXM-* raw
// measurements, and a cfg-prt-based configuration writer.
package ubx

import "github.com/ntpsec/gpsd-sub004/navdata"

// prnRange is one piecewise segment of the bidirectional (gnssId,svId)
// <-> NMEA-PRN mapping table (spec §4.5): the static-table
// re-architecture called for in place of a long switch block.
type prnRange struct {
	gnssID   navdata.GNSSID
	svLo     int
	svHi     int
	prnBase  int // PRN of svLo
}

var prnTable = []prnRange{
	{navdata.GNSSGPS, 1, 32, 1},
	{navdata.GNSSSBAS, 120, 151, 33},
	{navdata.GNSSSBAS, 152, 158, 152},
	{navdata.GNSSGalileo, 1, 36, 301},
	{navdata.GNSSBeiDou, 1, 37, 401},
	{navdata.GNSSQZSS, 1, 7, 193},
	{navdata.GNSSGLONASS, 1, 32, 65},
	{navdata.GNSSIMES, 1, 10, 173},
}

// ToPRN maps (gnssId, svId) to the cross-GNSS NMEA PRN, or
// navdata.InvalidCount if out of the documented domain.
func ToPRN(gnssID navdata.GNSSID, svID int) int {
	for _, r := range prnTable {
		if r.gnssID == gnssID && svID >= r.svLo && svID <= r.svHi {
			return r.prnBase + (svID - r.svLo)
		}
	}
	return navdata.InvalidCount
}

// FromPRN is the inverse of ToPRN: given an NMEA PRN, returns the
// (gnssId, svId) pair, or (GNSSGPS, InvalidCount) if out of domain.
func FromPRN(prn int) (navdata.GNSSID, int) {
	for _, r := range prnTable {
		span := r.svHi - r.svLo
		if prn >= r.prnBase && prn <= r.prnBase+span {
			return r.gnssID, r.svLo + (prn - r.prnBase)
		}
	}
	return navdata.GNSSGPS, navdata.InvalidCount
}
