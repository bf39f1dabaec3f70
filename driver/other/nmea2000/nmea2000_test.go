package nmea2000

import (
	"testing"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/bytesio"
	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
)

func TestDecodePositionRapid(t *testing.T) {
	ctx := gpscontext.New(gpscontext.Config{}, nil)
	sess := driver.NewSession(ctx, "/dev/test", nil)

	payload := make([]byte, 12)
	bytesio.PutU32LE(payload, 0, pgnPositionRapid)
	bytesio.PutU32LE(payload[4:], 0, uint32(int32(374000000)))
	bytesio.PutU32LE(payload[4:], 4, uint32(int32(-122000000)))

	ok, err := Behavior{}.Parse(sess, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected an update")
	}
	if diff := sess.Fix.Geodetic.Lat - 37.4; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("lat = %v, want ~37.4", sess.Fix.Geodetic.Lat)
	}
}
