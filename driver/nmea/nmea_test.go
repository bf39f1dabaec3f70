package nmea

import (
	"testing"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

func newTestSession() *driver.Session {
	ctx := gpscontext.New(gpscontext.Config{}, nil)
	return driver.NewSession(ctx, "/dev/test", nil)
}

func TestParseGGAFixQuality(t *testing.T) {
	sess := newTestSession()
	ok, err := Behavior{}.Parse(sess, []byte("GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected an update")
	}
	if !navdata.IsValid(sess.Fix.Geodetic.Lat) {
		t.Fatalf("expected valid latitude")
	}
	wantLat := 48 + 7.038/60
	if diff := sess.Fix.Geodetic.Lat - wantLat; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("lat = %v, want %v", sess.Fix.Geodetic.Lat, wantLat)
	}
	if sess.Fix.Status != navdata.FixStatusGPS {
		t.Fatalf("expected gps status, got %v", sess.Fix.Status)
	}
}

func TestParseGGANoFixInvalidatesPosition(t *testing.T) {
	sess := newTestSession()
	sess.Fix.Geodetic.Lat = 10
	sess.Fix.Mode = navdata.FixMode3D
	_, _ = Behavior{}.Parse(sess, []byte("GPGGA,123519,,,,,0,00,,,,,,,"))
	if navdata.IsValid(sess.Fix.Geodetic.Lat) {
		t.Fatalf("expected lat invalidated on quality=0")
	}
	if sess.Fix.Mode != navdata.FixModeNone {
		t.Fatalf("expected no_fix mode")
	}
}

func TestParseRMCAndGGATimeMerge(t *testing.T) {
	sess := newTestSession()
	st := stateOf(sess)
	_, _ = Behavior{}.Parse(sess, []byte("GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W"))
	if !st.haveDate {
		t.Fatalf("expected RMC to populate date")
	}
	if !sess.Fix.TimeValid {
		t.Fatalf("expected RMC alone to resolve a timestamp")
	}
	rmcSec := sess.Fix.TimeSec
	_, _ = Behavior{}.Parse(sess, []byte("GPGGA,123520,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"))
	if sess.Fix.TimeSec != rmcSec+1 {
		t.Fatalf("expected GGA time-of-day merged with the RMC date: got %d, want %d", sess.Fix.TimeSec, rmcSec+1)
	}
}

func TestParseGSVAccumulatesAcrossSentences(t *testing.T) {
	sess := newTestSession()
	_, _ = Behavior{}.Parse(sess, []byte("GPGSV,2,1,08,01,40,083,46,02,17,308,41,12,07,344,39,14,22,228,45"))
	if len(sess.Sky.Satellites) != 4 {
		t.Fatalf("expected 4 satellites after first sentence, got %d", len(sess.Sky.Satellites))
	}
	done, _ := Behavior{}.Parse(sess, []byte("GPGSV,2,2,08,15,20,300,30,18,05,100,25"))
	if !done {
		t.Fatalf("expected final GSV sentence to report completion")
	}
	if len(sess.Sky.Satellites) != 6 {
		t.Fatalf("expected 6 satellites after second sentence, got %d", len(sess.Sky.Satellites))
	}
}

func TestParseLatLonHemispheres(t *testing.T) {
	if got := parseLat("4807.038", "S"); got >= 0 {
		t.Fatalf("expected negative latitude for S hemisphere, got %v", got)
	}
	if got := parseLon("01131.000", "W"); got >= 0 {
		t.Fatalf("expected negative longitude for W hemisphere, got %v", got)
	}
}

func TestParseVTGPrefersKnots(t *testing.T) {
	sess := newTestSession()
	_, _ = Behavior{}.Parse(sess, []byte("GPVTG,084.4,T,,M,022.4,N,041.5,K"))
	want := 022.4 * knotsToMPS
	if diff := sess.Fix.Speed - want; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("speed = %v, want %v", sess.Fix.Speed, want)
	}
}
