// Command gpsdrive is a minimal host for the receiver-driver subsystem:
// it opens one GNSS device (serial or TCP), optionally an NTRIP
// correction feed forwarded into that device, and prints the unified
// fix as it updates, re-rendered as NMEA. It exists to exercise the
// driver/lexer/navdata/ntrip stack end to end; a production daemon
// would replace this with its own service loop and wire protocol (out
// of scope, spec.md §1).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ntpsec/gpsd-sub004/driver"
	_ "github.com/ntpsec/gpsd-sub004/driver/nmea"
	_ "github.com/ntpsec/gpsd-sub004/driver/other/misc"
	_ "github.com/ntpsec/gpsd-sub004/driver/other/evermore"
	_ "github.com/ntpsec/gpsd-sub004/driver/other/garmin"
	_ "github.com/ntpsec/gpsd-sub004/driver/other/nmea2000"
	_ "github.com/ntpsec/gpsd-sub004/driver/other/oncore"
	_ "github.com/ntpsec/gpsd-sub004/driver/other/sirf"
	_ "github.com/ntpsec/gpsd-sub004/driver/skytraq"
	_ "github.com/ntpsec/gpsd-sub004/driver/tsip"
	_ "github.com/ntpsec/gpsd-sub004/driver/ubx"
	"github.com/ntpsec/gpsd-sub004/internal/gpscontext"
	"github.com/ntpsec/gpsd-sub004/internal/session"
	"github.com/ntpsec/gpsd-sub004/ntrip"
	"github.com/ntpsec/gpsd-sub004/pseudonmea"
	"github.com/ntpsec/gpsd-sub004/transport/serialport"
	"github.com/ntpsec/gpsd-sub004/transport/tcpclient"
)

func main() {
	device := flag.String("device", "", "device path: a serial port (/dev/ttyUSB0[:baud]) or host:port for a TCP-exposed receiver")
	tcpMode := flag.Bool("tcp", false, "treat -device as a TCP address instead of a serial port")
	readOnly := flag.Bool("readonly", false, "never write configuration or poll bytes to the device")
	ntripURL := flag.String("ntrip", "", "optional NTRIP caster path to stream RTCM corrections from, forwarded into the device")
	debugLevel := flag.Int("debug", 0, "debug verbosity, 0-5 (spec §2's gpsd debug-level convention)")
	flag.Parse()

	log := logrus.New()
	if *debugLevel > 0 {
		log.SetLevel(logrus.DebugLevel)
	}

	if *device == "" {
		fmt.Fprintln(os.Stderr, "gpsdrive: -device is required")
		os.Exit(1)
	}

	rw, err := openTransport(*device, *tcpMode, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open device")
	}
	defer rw.Close()

	ctx := gpscontext.New(gpscontext.Config{
		ReadOnly:   *readOnly,
		DebugLevel: *debugLevel,
	}, log)

	sid := session.NewID()
	sess := driver.NewSession(ctx, *device, rw.Write)
	devLog := log.WithFields(logrus.Fields{"device": *device, "session": sid})

	if *ntripURL != "" {
		startNtrip(*ntripURL, sess, devLog)
	}

	encoder := pseudonmea.NewEncoder()
	buf := make([]byte, 4096)
	for {
		n, err := rw.Read(buf)
		if err != nil {
			devLog.WithError(err).Error("device read failed")
			return
		}
		if n == 0 {
			continue
		}
		updates, err := sess.Feed(buf[:n])
		if err != nil {
			devLog.WithError(err).Warn("decode error")
		}
		if updates == 0 {
			continue
		}
		for _, line := range encoder.Encode(sess.Fix, &sess.Sky) {
			fmt.Println(line)
		}
	}
}

// readWriteCloser is the minimal seam both transports satisfy.
type readWriteCloser interface {
	io.Reader
	io.Writer
	io.Closer
}

func openTransport(device string, tcpMode bool, log logrus.FieldLogger) (readWriteCloser, error) {
	if tcpMode {
		c, err := tcpclient.Open(device, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	p, err := serialport.Open(device, log)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// startNtrip opens an NTRIP stream in the background and forwards its
// RTCM corrections into sess's device write path (spec §4.9: "NTRIP
// runs as a parallel pseudo-device whose decoded RTCM output is
// written back into the primary GNSS device").
func startNtrip(raw string, sess *driver.Session, log logrus.FieldLogger) {
	u, err := ntrip.ParseURL(raw)
	if err != nil {
		log.WithError(err).Error("invalid ntrip url, skipping correction feed")
		return
	}
	client := ntrip.NewClient(u, log)
	client.SetSink(ntrip.NewDeviceForwarder(writerFunc(sess.Write)))
	if err := client.Connect(); err != nil {
		log.WithError(err).Error("ntrip connect failed")
		return
	}
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if client.GetState() != ntrip.StateStreaming {
				log.Warn("ntrip stream ended")
				return
			}
		}
	}()
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
