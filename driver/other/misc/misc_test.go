package misc

import (
	"testing"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
)

func TestIdentifyOnlyNeverReportsUpdate(t *testing.T) {
	ctx := gpscontext.New(gpscontext.Config{}, nil)
	sess := driver.NewSession(ctx, "/dev/test", nil)

	d := identifyOnly{name: "casic"}
	ok, err := d.Parse(sess, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("identify-only stub must never report an update")
	}
}

func TestStubsRegisteredForEveryFamily(t *testing.T) {
	if len(stubs) != 9 {
		t.Fatalf("expected 9 stub families, got %d", len(stubs))
	}
	for _, s := range stubs {
		d := driver.ByPacketType(s.packetType)
		if d == nil || d.Name != s.name {
			t.Fatalf("expected %q registered for its packet type, got %+v", s.name, d)
		}
	}
}
