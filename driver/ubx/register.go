package ubx

import (
	"time"

	"github.com/ntpsec/gpsd-sub004/driver"
	"github.com/ntpsec/gpsd-sub004/lexer"
)

func init() {
	driver.Register(&Descriptor)
}

// pollMonVer sends a zero-length poll request for MON-VER.
func pollMonVer(sess *driver.Session) error {
	return sendUBX(sess, classMON, idMonVER, nil)
}

// initStage advances the bring-up sequence by one step per received
// packet (spec §4.3 rule 5): poll the firmware version, then switch to
// binary NAV output, then set the measurement rate.
func initStage(sess *driver.Session, counter int) error {
	switch counter {
	case 0:
		return pollMonVer(sess)
	case 1:
		return ModeSwitch(sess, true)
	case 2:
		return RateSwitch(sess, time.Second)
	}
	return nil
}

// Descriptor is the u-blox UBX driver's registry entry.
var Descriptor = driver.Descriptor{
	Name:        "ubx",
	PacketType:  lexer.UBX,
	NumChannels: 72,
	Behavior:    Behavior{},
	InitQuery:   initStage,
	SpeedSwitch: SpeedSwitch,
	ModeSwitch:  ModeSwitch,
	RateSwitch:  RateSwitch,
	MinCycle:    100 * time.Millisecond,
}
