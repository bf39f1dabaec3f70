package oncore

import (
	"testing"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
)

func TestDecodeEaFixMode(t *testing.T) {
	ctx := gpscontext.New(gpscontext.Config{}, nil)
	sess := driver.NewSession(ctx, "/dev/test", nil)

	body := make([]byte, 68)
	body[3] = 3 // month
	body[4] = 1 // day
	body[5] = 7 // year hi byte of 2024 (big-endian U16 at offset 5)
	body[6] = 232
	body[32] = 3 // 3D dimension
	ok, err := Behavior{}.Parse(sess, append([]byte("Ea"), body...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected an update")
	}
}
