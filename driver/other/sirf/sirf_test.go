package sirf

import (
	"testing"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
)

func TestDecodeMID2FixMode(t *testing.T) {
	ctx := gpscontext.New(gpscontext.Config{}, nil)
	sess := driver.NewSession(ctx, "/dev/test", nil)

	body := make([]byte, 41)
	body[19] = 4 // 3D fix mode
	ok, err := Behavior{}.Parse(sess, append([]byte{2}, body...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected an update")
	}
}
