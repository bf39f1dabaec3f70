package ubx

import (
	"testing"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/bytesio"
	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

func newTestSession() *driver.Session {
	ctx := gpscontext.New(gpscontext.Config{}, nil)
	return driver.NewSession(ctx, "/dev/test", nil)
}

// buildNavPVT constructs a 92-byte NAV-PVT payload matching the worked
// example: 2024-03-15T10:00:00Z, mode=3D, lat≈37.4, lon≈-122.0,
// altHAE≈30, altMSL≈-2.
func buildNavPVT() []byte {
	p := make([]byte, 92)
	bytesio.PutU16LE(p, 4, 2024)
	p[6] = 3  // month
	p[7] = 15 // day
	p[8] = 10 // hour
	p[9] = 0  // min
	p[10] = 0 // sec
	p[11] = 0x07 // validDate|validTime|fullyResolved
	bytesio.PutU32LE(p, 16, 0) // nano

	p[20] = 3 // fixType 3D
	p[21] = 0x01 // diffSoln off, but gnssFixOK
	p[23] = 9    // numSV

	bytesio.PutU32LE(p, 24, uint32(int32(-122000000))) // lon 1e-7 deg
	bytesio.PutU32LE(p, 28, uint32(int32(374000000)))  // lat 1e-7 deg
	bytesio.PutU32LE(p, 32, uint32(int32(30000)))       // height HAE mm
	bytesio.PutU32LE(p, 36, uint32(int32(-2000)))       // hMSL mm
	return p
}

func TestDecodeNavPVTHappyPath(t *testing.T) {
	sess := newTestSession()
	body := buildNavPVT()
	payload := append([]byte{classNAV, idNavPVT}, body...)

	ok, err := Behavior{}.Parse(sess, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected an update")
	}
	if sess.Fix.Mode != navdata.FixMode3D {
		t.Fatalf("mode = %v, want 3D", sess.Fix.Mode)
	}
	if sess.Fix.Status != navdata.FixStatusGPS {
		t.Fatalf("status = %v, want gps", sess.Fix.Status)
	}
	if diff := sess.Fix.Geodetic.Lat - 37.4; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("lat = %v, want ~37.4", sess.Fix.Geodetic.Lat)
	}
	if diff := sess.Fix.Geodetic.Lon - (-122.0); diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("lon = %v, want ~-122.0", sess.Fix.Geodetic.Lon)
	}
	if diff := sess.Fix.Geodetic.AltHAE - 30; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("altHAE = %v, want ~30", sess.Fix.Geodetic.AltHAE)
	}
	if diff := sess.Fix.Geodetic.AltMSL - (-2); diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("altMSL = %v, want ~-2", sess.Fix.Geodetic.AltMSL)
	}
	if !sess.Fix.TimeValid {
		t.Fatalf("expected time to be resolved")
	}
}

func TestPRNBijection(t *testing.T) {
	cases := []struct {
		gnssID navdata.GNSSID
		svID   int
	}{
		{navdata.GNSSGPS, 1},
		{navdata.GNSSGPS, 32},
		{navdata.GNSSSBAS, 120},
		{navdata.GNSSSBAS, 158},
		{navdata.GNSSGalileo, 1},
		{navdata.GNSSBeiDou, 37},
		{navdata.GNSSQZSS, 7},
		{navdata.GNSSGLONASS, 32},
		{navdata.GNSSIMES, 1},
	}
	for _, c := range cases {
		prn := ToPRN(c.gnssID, c.svID)
		if prn == navdata.InvalidCount {
			t.Fatalf("ToPRN(%v,%d) returned invalid", c.gnssID, c.svID)
		}
		gotGNSS, gotSV := FromPRN(prn)
		if gotGNSS != c.gnssID || gotSV != c.svID {
			t.Fatalf("round trip (%v,%d) -> prn %d -> (%v,%d)", c.gnssID, c.svID, prn, gotGNSS, gotSV)
		}
	}
}

func TestDecodeNavSATPopulatesSkyview(t *testing.T) {
	sess := newTestSession()
	body := make([]byte, 8+12)
	body[5] = 1 // numSvs
	off := 8
	body[off] = byte(navdata.GNSSGPS)
	body[off+1] = 14 // svID
	body[off+2] = 40 // cno
	body[off+3] = byte(int8(35))
	bytesio.PutU16LE(body, 0, 0) // unused iTOW portion for test
	bytesio.PutU32LE(body, off+8, 0x18) // used flag + health=1(ok)

	payload := append([]byte{classNAV, idNavSAT}, body...)
	ok, err := Behavior{}.Parse(sess, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected an update")
	}
	if len(sess.Sky.Satellites) != 1 {
		t.Fatalf("expected 1 satellite, got %d", len(sess.Sky.Satellites))
	}
	sat := sess.Sky.Satellites[0]
	if !sat.Used {
		t.Fatalf("expected satellite marked used")
	}
	if sat.PRN != 14 {
		t.Fatalf("PRN = %d, want 14", sat.PRN)
	}
}
