package tcpclient

import (
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestDecodePathDefaults(t *testing.T) {
	require.Equal(t, "localhost:8000", decodePath(""))
	require.Equal(t, "192.168.1.5:2947", decodePath("192.168.1.5:2947"))
}

func TestOpenReadWriteRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 16)
		n, _ := conn.Read(buf)
		conn.Write(buf[:n])
	}()

	c, err := Open(ln.Addr().String(), logrus.New())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Write([]byte("hello"))
	require.NoError(t, err)

	buf := make([]byte, 16)
	c.conn.SetReadDeadline(time.Now().Add(time.Second))
	n, err := c.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf[:n]))
}

func TestDialBackoffRefusesImmediateRetry(t *testing.T) {
	c := &Client{
		log:           logrus.New(),
		addr:          "127.0.0.1:1", // nothing listens here
		reconnectWait: time.Minute,
	}
	err := c.dial()
	require.Error(t, err)
	err2 := c.dial()
	require.Error(t, err2)
	require.Contains(t, err2.Error(), "backoff")
}
