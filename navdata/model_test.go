package navdata

import "testing"

func TestNewFixSentinels(t *testing.T) {
	f := NewFix()
	if f.Mode != FixModeNone {
		t.Fatalf("expected no_fix mode by default")
	}
	if IsValid(f.Geodetic.Lat) || IsValid(f.Geodetic.Lon) {
		t.Fatalf("expected lat/lon to start invalid")
	}
	if f.DGPSStationID != InvalidCount {
		t.Fatalf("expected invalid DGPS station id sentinel")
	}
}

func TestInvalidatePosition(t *testing.T) {
	f := NewFix()
	f.Mode = FixMode3D
	f.Geodetic.Lat = 37.0
	f.Geodetic.Lon = -122.0
	f.InvalidatePosition()
	if f.Mode != FixModeNone {
		t.Fatalf("expected mode reset to no_fix")
	}
	if IsValid(f.Geodetic.Lat) || IsValid(f.Geodetic.Lon) {
		t.Fatalf("expected lat/lon invalidated")
	}
	if f.Dirty&DirtyMode == 0 {
		t.Fatalf("expected mode dirty bit set")
	}
}

func TestSetTimeMarksDirty(t *testing.T) {
	f := NewFix()
	f.SetTime(1000, 0.5)
	if !f.TimeValid {
		t.Fatalf("expected time valid after SetTime")
	}
	if f.Dirty&DirtyTime == 0 {
		t.Fatalf("expected time dirty bit set")
	}
}
