package ntrip

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ntpsec/gpsd-sub004/lexer"
	"github.com/sirupsen/logrus"
)

// Errors mirror the teacher lineage's ErrNTRIP* sentinel pattern
// (stream/ntrip.go), generalized from a combined server/client struct
// to a client-only state machine per spec §4.9.
var (
	ErrNotConnected       = errors.New("ntrip: not connected")
	ErrAlreadyConnected   = errors.New("ntrip: already connected")
	ErrAuthFailed         = errors.New("ntrip: authentication failed")
	ErrMountpointNotFound = errors.New("ntrip: mountpoint not found")
	ErrCasterError        = errors.New("ntrip: caster error")
)

// State is the client connection state machine (spec §4.9).
type State int

const (
	StateClosed State = iota
	StateConnecting
	StateStreaming
)

// Client is an NTRIP v1/v2 client: it connects to a caster mountpoint,
// runs the stream through a lexer.Lexer so framed RTCM corrections
// reach an installed RTCM sink, and periodically uplinks a GGA
// position report when one is available.
type Client struct {
	URL       URL
	UserAgent string
	Log       logrus.FieldLogger

	mu    sync.Mutex
	state State
	conn  net.Conn
	lex   *lexer.Lexer

	ggaPacer *GGAPacer
}

// NewClient builds a Client for the given caster URL. The client owns
// a lexer.Lexer internally (spec §4.2's chunked-transfer overlay is
// enabled automatically when the caster's response headers declare
// it) so that a Sink installed via SetSink receives already-framed
// RTCM3 messages, not raw HTTP bytes.
func NewClient(u URL, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		URL:       u,
		UserAgent: "gpsd-sub004 NTRIP client/1.0",
		Log:       log,
		lex:       lexer.New(),
		ggaPacer:  NewGGAPacer(),
	}
}

// FetchSourcetable issues a GET / request and parses the response as a
// sourcetable (spec §4.9).
func (c *Client) FetchSourcetable() (Sourcetable, error) {
	conn, err := net.DialTimeout("tcp", c.URL.Address(), 10*time.Second)
	if err != nil {
		return Sourcetable{}, fmt.Errorf("%w: %v", ErrCasterError, err)
	}
	defer conn.Close()

	req := fmt.Sprintf("GET / HTTP/1.1\r\nHost: %s\r\nUser-Agent: %s\r\nConnection: close\r\n\r\n",
		c.URL.Host, c.UserAgent)
	if _, err := io.WriteString(conn, req); err != nil {
		return Sourcetable{}, fmt.Errorf("%w: %v", ErrCasterError, err)
	}

	body, err := io.ReadAll(conn)
	if err != nil && len(body) == 0 {
		return Sourcetable{}, fmt.Errorf("%w: %v", ErrCasterError, err)
	}
	text := string(body)
	if idx := strings.Index(text, "\r\n\r\n"); idx >= 0 {
		text = text[idx+4:]
	}
	return ParseSourcetable(text), nil
}

// Connect opens a streaming connection to the configured mountpoint
// and sends the ICY/NTRIP request headers (spec §4.9's connect phase).
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateClosed {
		return ErrAlreadyConnected
	}
	c.state = StateConnecting

	conn, err := net.DialTimeout("tcp", c.URL.Address(), 10*time.Second)
	if err != nil {
		c.state = StateClosed
		return fmt.Errorf("%w: %v", ErrCasterError, err)
	}

	req := fmt.Sprintf("GET /%s HTTP/1.1\r\nHost: %s\r\nUser-Agent: %s\r\nAccept: */*\r\nConnection: close\r\n",
		c.URL.Mountpoint, c.URL.Host, c.UserAgent)
	if c.URL.Username != "" {
		req += "Authorization: Basic " + basicAuth(c.URL.Username, c.URL.Password) + "\r\n"
	}
	req += "\r\n"

	if _, err := io.WriteString(conn, req); err != nil {
		conn.Close()
		c.state = StateClosed
		return fmt.Errorf("%w: %v", ErrCasterError, err)
	}

	reader := bufio.NewReader(conn)
	status, err := reader.ReadString('\n')
	if err != nil {
		conn.Close()
		c.state = StateClosed
		return fmt.Errorf("%w: %v", ErrCasterError, err)
	}
	if err := checkStatusLine(status); err != nil {
		conn.Close()
		c.state = StateClosed
		return err
	}
	// Drain the remaining headers; the RTCM body follows the blank line.
	// A caster that replies with Transfer-Encoding: chunked (scenario
	// S5) needs the lexer's dechunking overlay turned on before any
	// body bytes are fed in.
	chunked := false
	for {
		line, err := reader.ReadString('\n')
		if err != nil || line == "\r\n" || line == "\n" {
			break
		}
		if strings.EqualFold(strings.TrimSpace(line), "Transfer-Encoding: chunked") {
			chunked = true
		}
	}
	if chunked {
		c.lex.EnableChunked()
	} else {
		c.lex.DisableChunked()
	}

	c.conn = conn
	c.state = StateStreaming
	go c.readLoop(reader)
	return nil
}

func checkStatusLine(status string) error {
	status = strings.TrimSpace(status)
	fields := strings.SplitN(status, " ", 3)
	if len(fields) < 2 {
		// NTRIP v1 casters reply "ICY 200 OK" or just "OK" with no
		// further headers; either is a success.
		if strings.Contains(status, "OK") {
			return nil
		}
		return fmt.Errorf("%w: unexpected response %q", ErrCasterError, status)
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		if strings.Contains(status, "OK") {
			return nil
		}
		return fmt.Errorf("%w: unparseable status %q", ErrCasterError, status)
	}
	switch code {
	case 200:
		return nil
	case 401:
		return ErrAuthFailed
	case 404:
		return ErrMountpointNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrCasterError, code)
	}
}

func basicAuth(user, pass string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}

// readLoop pulls bytes from the caster connection and feeds them
// through the client's lexer.Lexer. Chunked transfer encoding, if the
// caster uses it, was already enabled on c.lex by Connect before this
// loop started. Whatever RTCM sink was installed via SetSink is
// invoked by the lexer itself as it recognizes complete RTCM3
// frames; non-RTCM frame types (casters occasionally echo NMEA, e.g.
// a GGA loopback) are logged at debug level and otherwise ignored.
func (c *Client) readLoop(r *bufio.Reader) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			c.lex.Advance(buf[:n])
			for {
				res := c.lex.Next()
				if res.Status == lexer.NoFrameYet {
					break
				}
				if res.Status == lexer.BadFrame {
					c.Log.WithField("reason", res.Reason).Debug("ntrip stream framing error")
					continue
				}
				if res.Type != lexer.RTCM3 && res.Type != lexer.RTCM2 {
					c.Log.WithField("type", res.Type).Debug("ntrip stream non-RTCM frame")
				}
			}
		}
		if err != nil {
			c.mu.Lock()
			c.state = StateClosed
			c.mu.Unlock()
			if err != io.EOF {
				c.Log.WithError(err).Warn("ntrip read loop stopped")
			}
			return
		}
	}
}

// SetSink installs the RTCM sink that receives framed corrections as
// the lexer recognizes them.
func (c *Client) SetSink(s lexer.RTCMSink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lex.SetRTCMSink(s)
}

// SendGGA uplinks a GGA sentence if the pacer allows one now (spec
// §4.9: "every 5th fix after >=10 valid fixes").
func (c *Client) SendGGA(gga string, fixValid bool) error {
	c.mu.Lock()
	conn := c.conn
	state := c.state
	c.mu.Unlock()
	if state != StateStreaming || conn == nil {
		return ErrNotConnected
	}
	if !c.ggaPacer.ShouldSend(fixValid) {
		return nil
	}
	_, err := io.WriteString(conn, gga+"\r\n")
	return err
}

// Close shuts down the streaming connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		c.state = StateClosed
		return err
	}
	c.state = StateClosed
	return nil
}

// GetState returns the current connection state.
func (c *Client) GetState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
