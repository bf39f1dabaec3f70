package tsip

import (
	"math"
	"testing"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/bytesio"
	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
)

func newTestSession() *driver.Session {
	ctx := gpscontext.New(gpscontext.Config{}, nil)
	return driver.NewSession(ctx, "/dev/test", nil)
}

// TestWeekRolloverScenario covers spec S2: week=905, leap=18 resolves
// through the promoted week 2953.
func TestWeekRolloverScenario(t *testing.T) {
	sess := newTestSession()
	body := make([]byte, 12)
	// 0x41 payload is big-endian floats: tow, week, leap.
	putF32BE(body, 0, 0)
	putF32BE(body, 4, 905)
	putF32BE(body, 8, 18)

	ok := decode41(sess, body)
	if !ok {
		t.Fatalf("expected update")
	}
	st := stateOf(sess)
	if st.lastWeek != 2953 {
		t.Fatalf("resolved week = %d, want 2953", st.lastWeek)
	}
}

func putF32BE(buf []byte, off int, v float32) {
	bytesio.PutU32BE(buf, off, math.Float32bits(v))
}
