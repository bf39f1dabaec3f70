package evermore

import (
	"testing"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/bytesio"
	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
	"github.com/ntpsec/gpsd-sub004/navdata"
)

func TestDecodeFixNoFixInvalidates(t *testing.T) {
	ctx := gpscontext.New(gpscontext.Config{}, nil)
	sess := driver.NewSession(ctx, "/dev/test", nil)
	sess.Fix.Geodetic.Lat = 10

	body := make([]byte, 65)
	body[2] = 0 // no fix
	ok, err := Behavior{}.Parse(sess, append([]byte{0x04}, body...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected an update")
	}
	if navdata.IsValid(sess.Fix.Geodetic.Lat) {
		t.Fatalf("expected lat invalidated")
	}
}

func TestDecodeFixResolvesWeek(t *testing.T) {
	ctx := gpscontext.New(gpscontext.Config{}, nil)
	sess := driver.NewSession(ctx, "/dev/test", nil)

	body := make([]byte, 65)
	body[2] = 3 // 3D fix
	bytesio.PutU16BE(body, 3, 905)
	ok, err := Behavior{}.Parse(sess, append([]byte{0x04}, body...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || !sess.Fix.TimeValid {
		t.Fatalf("expected a resolved timestamp")
	}
}
