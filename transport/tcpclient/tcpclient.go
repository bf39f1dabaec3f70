// Package tcpclient is a reconnecting TCP client transport, adapted
// from the teacher lineage's TcpClient/GenTcp (pkg/gnssgo/stream/tcp.go)
// into a logrus-logged wrapper a device session can read/write through
// the same as a serial port, for GNSS receivers exposed over a network
// forwarder instead of a local UART.
package tcpclient

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultPort         = 8000
	defaultDialTimeout  = 10 * time.Second
	defaultReconnectWait = 10 * time.Second
)

// Client is a reconnecting TCP client: Read/Write transparently
// redial on a dropped connection rather than returning an error to the
// caller's session loop immediately, since a flaky network forwarder
// is the expected failure mode rather than the exception.
type Client struct {
	log logrus.FieldLogger

	addr string

	mu            sync.Mutex
	conn          net.Conn
	reconnectWait time.Duration
	lastDialFail  time.Time
}

// Open parses path in the teacher's "[address]:[port]" convention and
// makes an initial connection attempt.
func Open(path string, log logrus.FieldLogger) (*Client, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	addr := decodePath(path)
	c := &Client{
		log:           log,
		addr:          addr,
		reconnectWait: defaultReconnectWait,
	}
	if err := c.dial(); err != nil {
		return nil, err
	}
	return c, nil
}

// decodePath extracts "host:port", defaulting the host to localhost
// and the port to 8000 exactly as the teacher's DecodeTcpPath does,
// minus the NTRIP-specific user/password/mountpoint fields (those are
// handled by the ntrip package here, not this transport).
func decodePath(path string) string {
	host, port := path, ""
	if i := strings.LastIndex(path, ":"); i >= 0 {
		host, port = path[:i], path[i+1:]
	}
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = strconv.Itoa(defaultPort)
	}
	return net.JoinHostPort(host, port)
}

// dial connects, refusing to hammer a down server faster than
// reconnectWait since the last failed attempt.
func (c *Client) dial() error {
	c.mu.Lock()
	if wait := c.reconnectWait - time.Since(c.lastDialFail); !c.lastDialFail.IsZero() && wait > 0 {
		c.mu.Unlock()
		return fmt.Errorf("tcpclient: %s still in reconnect backoff (%s remaining)", c.addr, wait.Round(time.Millisecond))
	}
	c.mu.Unlock()

	conn, err := net.DialTimeout("tcp", c.addr, defaultDialTimeout)
	if err != nil {
		c.mu.Lock()
		c.lastDialFail = time.Now()
		c.mu.Unlock()
		return fmt.Errorf("tcpclient: dial %s: %w", c.addr, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.lastDialFail = time.Time{}
	c.mu.Unlock()
	c.log.WithField("addr", c.addr).Info("tcp client connected")
	return nil
}

// Read fills buf. On a transport-level error (EOF, reset, etc.) it
// closes the connection and returns the bytes read with a nil error;
// the next Read or Write redials.
func (c *Client) Read(buf []byte) (int, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		if err := c.dial(); err != nil {
			return 0, err
		}
		c.mu.Lock()
		conn = c.conn
		c.mu.Unlock()
	}
	n, err := conn.Read(buf)
	if err != nil {
		c.log.WithError(err).Warn("tcp client read error, will redial on next call")
		c.mu.Lock()
		conn.Close()
		c.conn = nil
		c.mu.Unlock()
		return n, nil
	}
	return n, nil
}

// Write sends buf, reconnecting once if the connection has dropped.
func (c *Client) Write(buf []byte) (int, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		if err := c.dial(); err != nil {
			return 0, err
		}
		c.mu.Lock()
		conn = c.conn
		c.mu.Unlock()
	}
	n, err := conn.Write(buf)
	if err != nil {
		c.mu.Lock()
		conn.Close()
		c.conn = nil
		c.mu.Unlock()
		return n, fmt.Errorf("tcpclient: write: %w", err)
	}
	return n, nil
}

// Close shuts down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
