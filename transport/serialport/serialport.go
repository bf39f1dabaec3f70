// Package serialport opens and manages the serial-port transport a
// device session reads and writes through, adapted from the teacher
// lineage's SerialComm (pkg/gnssgo/stream/serial.go) into a
// logrus-logged, mutex-protected wrapper around go.bug.st/serial that
// a driver.Session's SpeedSwitcher can reopen at a new baud rate
// without losing the caller's handle.
package serialport

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

const (
	defaultBaudRate = 9600
	defaultDataBits = 8
	defaultStopBits = 1
	defaultTimeout  = 100 * time.Millisecond
)

// Port is an open serial device: thread-safe read/write, and a
// ChangeBaud that closes and reopens the underlying handle in place so
// a driver's speed-switch hook can call it mid-session (spec §4.3's
// "SpeedSwitch" operation).
type Port struct {
	log logrus.FieldLogger

	mu      sync.Mutex
	path    string
	mode    *serial.Mode
	timeout time.Duration
	handle  serial.Port
	lastErr error
}

// Open opens path, parsed in the teacher's "port[:baud[:databits[:parity[:stopbits]]]]"
// convention, e.g. "/dev/ttyUSB0:115200:8:N:1".
func Open(path string, log logrus.FieldLogger) (*Port, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	port, baud, dataBits, parity, stopBits := parsePath(path)

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: dataBits,
		StopBits: stopBitsOf(stopBits),
		Parity:   parityOf(parity),
	}

	log.WithFields(logrus.Fields{
		"port": port, "baud": baud, "databits": dataBits,
		"parity": string(parity), "stopbits": stopBits,
	}).Debug("opening serial port")

	h, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", port, err)
	}
	if err := h.SetReadTimeout(defaultTimeout); err != nil {
		h.Close()
		return nil, fmt.Errorf("serialport: set timeout %s: %w", port, err)
	}

	return &Port{
		log:     log,
		path:    port,
		mode:    mode,
		timeout: defaultTimeout,
		handle:  h,
	}, nil
}

// parsePath splits the teacher's colon-delimited path convention into
// its component fields, defaulting whatever is omitted.
func parsePath(path string) (port string, baud, dataBits int, parity byte, stopBits int) {
	baud, dataBits, stopBits = defaultBaudRate, defaultDataBits, defaultStopBits
	parity = 'N'

	idx := strings.IndexByte(path, ':')
	if idx < 0 {
		return path, baud, dataBits, parity, stopBits
	}
	port = path[:idx]
	parts := strings.Split(path[idx+1:], ":")
	if len(parts) > 0 && parts[0] != "" {
		if v, err := strconv.Atoi(parts[0]); err == nil {
			baud = v
		}
	}
	if len(parts) > 1 && parts[1] != "" {
		if v, err := strconv.Atoi(parts[1]); err == nil {
			dataBits = v
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		parity = parts[2][0]
	}
	if len(parts) > 3 && parts[3] != "" {
		if v, err := strconv.Atoi(parts[3]); err == nil {
			stopBits = v
		}
	}
	return port, baud, dataBits, parity, stopBits
}

func stopBitsOf(n int) serial.StopBits {
	switch n {
	case 2:
		return serial.TwoStopBits
	default:
		return serial.OneStopBit
	}
}

func parityOf(p byte) serial.Parity {
	switch p {
	case 'E', 'e':
		return serial.EvenParity
	case 'O', 'o':
		return serial.OddParity
	default:
		return serial.NoParity
	}
}

// Read fills buf from the port, returning the byte count read before
// any timeout or error (a zero-length, nil-error return means the read
// timeout elapsed with no bytes available).
func (p *Port) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == nil {
		return 0, fmt.Errorf("serialport: %s is closed", p.path)
	}
	n, err := p.handle.Read(buf)
	if err != nil {
		p.lastErr = err
		p.log.WithError(err).Warn("serial read error")
		return 0, err
	}
	return n, nil
}

// Write sends buf to the port.
func (p *Port) Write(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == nil {
		return 0, fmt.Errorf("serialport: %s is closed", p.path)
	}
	n, err := p.handle.Write(buf)
	if err != nil {
		p.lastErr = err
		p.log.WithError(err).Warn("serial write error")
		return 0, err
	}
	return n, nil
}

// ChangeBaud closes and reopens the port at a new baud rate in place,
// the operation a driver's SpeedSwitcher calls after asking the
// receiver to switch its own UART speed (spec §4.3).
func (p *Port) ChangeBaud(baud int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle != nil {
		p.handle.Close()
	}
	p.mode.BaudRate = baud
	h, err := serial.Open(p.path, p.mode)
	if err != nil {
		p.lastErr = err
		p.handle = nil
		return fmt.Errorf("serialport: reopen %s at %d baud: %w", p.path, baud, err)
	}
	if err := h.SetReadTimeout(p.timeout); err != nil {
		h.Close()
		return fmt.Errorf("serialport: set timeout after baud change: %w", err)
	}
	p.handle = h
	p.log.WithField("baud", baud).Info("serial port reopened at new baud rate")
	return nil
}

// Close shuts down the port.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == nil {
		return nil
	}
	err := p.handle.Close()
	p.handle = nil
	return err
}

// LastError returns the most recent read/write error, or nil.
func (p *Port) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
