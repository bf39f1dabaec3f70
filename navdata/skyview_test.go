package navdata

import "testing"

func TestSkyviewUpsertFindsExisting(t *testing.T) {
	var sv Skyview
	a := sv.Upsert(GNSSGPS, 5)
	a.Elevation = 45
	a.Azimuth = 180

	b := sv.Upsert(GNSSGPS, 5)
	if b.Elevation != 45 {
		t.Fatalf("expected Upsert to return the same record for the same (gnss,svid)")
	}
	if len(sv.Satellites) != 1 {
		t.Fatalf("expected one satellite, got %d", len(sv.Satellites))
	}
}

func TestSkyviewUntrackedUntilSeen(t *testing.T) {
	var sv Skyview
	s := sv.Upsert(GNSSGalileo, 12)
	if s.Tracked() {
		t.Fatalf("freshly inserted satellite should not be tracked")
	}
	s.Elevation = 10
	s.Azimuth = 20
	if !sv.Satellites[0].Tracked() {
		t.Fatalf("expected tracked once elevation/azimuth set")
	}
}

func TestSkyviewUsedCount(t *testing.T) {
	var sv Skyview
	sv.Upsert(GNSSGPS, 1).Used = true
	sv.Upsert(GNSSGPS, 2).Used = false
	sv.Upsert(GNSSGLONASS, 3).Used = true
	if got := sv.UsedCount(); got != 2 {
		t.Fatalf("UsedCount() = %d, want 2", got)
	}
}

func TestSkyviewReset(t *testing.T) {
	var sv Skyview
	sv.Upsert(GNSSGPS, 1)
	sv.Reset()
	if len(sv.Satellites) != 0 {
		t.Fatalf("expected empty skyview after Reset")
	}
}
