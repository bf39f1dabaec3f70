package garmin

import (
	"testing"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
)

func TestDecodeSatDataCount(t *testing.T) {
	ctx := gpscontext.New(gpscontext.Config{}, nil)
	sess := driver.NewSession(ctx, "/dev/test", nil)

	body := make([]byte, 15*2)
	body[0] = 5
	body[15] = 6
	ok, err := Behavior{}.Parse(sess, append([]byte{pidSatData}, body...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected an update")
	}
	if len(sess.Sky.Satellites) != 2 {
		t.Fatalf("expected 2 satellites, got %d", len(sess.Sky.Satellites))
	}
	if sess.Sky.Satellites[0].PRN != 5 {
		t.Fatalf("PRN = %d, want 5", sess.Sky.Satellites[0].PRN)
	}
}
