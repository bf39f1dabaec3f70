package skytraq

import (
	"testing"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
)

type capturingWriter struct {
	frames [][]byte
}

func (w *capturingWriter) write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	w.frames = append(w.frames, cp)
	return len(p), nil
}

func newTestSession(w *capturingWriter) *driver.Session {
	ctx := gpscontext.New(gpscontext.Config{}, nil)
	return driver.NewSession(ctx, "/dev/test", w.write)
}

// TestConfigDialogSendsExactly46Frames covers spec scenario S3: 46
// command frames at 3-packets-per-stage, then idle.
func TestConfigDialogSendsExactly46Frames(t *testing.T) {
	w := &capturingWriter{}
	sess := newTestSession(w)

	for i := 0; i < totalConfigStages*3+10; i++ {
		_ = initStage(sess, i)
	}

	if len(w.frames) != totalConfigStages {
		t.Fatalf("sent %d frames, want %d", len(w.frames), totalConfigStages)
	}

	st := stateOf(sess)
	if st.stage != totalConfigStages {
		t.Fatalf("stage = %d, want %d", st.stage, totalConfigStages)
	}
}

func TestDecodeNavDataFixMode(t *testing.T) {
	w := &capturingWriter{}
	sess := newTestSession(w)
	body := make([]byte, 58)
	body[0] = 3 // 3D fix

	ok, err := Behavior{}.Parse(sess, append([]byte{0xDC}, body...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected an update")
	}
}
