package ntrip

import (
	"bufio"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// scenario S4: an IPv6 literal caster address must round-trip through
// ParseURL/Address without losing the bracket notation.
func TestParseURLIPv6Bracket(t *testing.T) {
	u, err := ParseURL("user:pass@[2001:db8::1]:2101/MOUNT1")
	require.NoError(t, err)
	require.Equal(t, "user", u.Username)
	require.Equal(t, "pass", u.Password)
	require.Equal(t, "2001:db8::1", u.Host)
	require.Equal(t, 2101, u.Port)
	require.Equal(t, "MOUNT1", u.Mountpoint)
	require.Equal(t, "[2001:db8::1]:2101", u.Address())
}

func TestParseURLDefaultPortAndScheme(t *testing.T) {
	u, err := ParseURL("ntrip://caster.example.com/MOUNT2")
	require.NoError(t, err)
	require.Equal(t, "caster.example.com", u.Host)
	require.Equal(t, DefaultPort, u.Port)
	require.False(t, u.TLS)

	u2, err := ParseURL("ntrips://caster.example.com:443/MOUNT3")
	require.NoError(t, err)
	require.True(t, u2.TLS)
	require.Equal(t, 443, u2.Port)
}

// rtcm3Frame builds one valid, checksummed RTCM3 frame carrying an
// arbitrary payload (message type 1005 is used just to be recognizable
// in a debugger; the forwarder doesn't interpret it).
func rtcm3Frame(payload []byte) []byte {
	frame := make([]byte, 3+len(payload)+3)
	frame[0] = 0xD3
	frame[1] = byte(len(payload) >> 8 & 0x03)
	frame[2] = byte(len(payload))
	copy(frame[3:], payload)
	crc := crc24QForTest(frame[:3+len(payload)])
	frame[3+len(payload)] = byte(crc >> 16)
	frame[3+len(payload)+1] = byte(crc >> 8)
	frame[3+len(payload)+2] = byte(crc)
	return frame
}

func crc24QForTest(b []byte) uint32 {
	const poly = 0x1864CFB
	var crc uint32
	for _, v := range b {
		crc ^= uint32(v) << 16
		for i := 0; i < 8; i++ {
			crc <<= 1
			if crc&0x1000000 != 0 {
				crc ^= poly
			}
		}
	}
	return crc & 0xFFFFFF
}

// chunk wraps a payload as one HTTP chunk.
func chunk(p []byte) []byte {
	return []byte(fmt.Sprintf("%x\r\n%s\r\n", len(p), p))
}

type captureSink struct {
	frames [][]byte
}

func (s *captureSink) HandleRTCM(msgType int, payload []byte) {
	frame := make([]byte, len(payload))
	copy(frame, payload)
	s.frames = append(s.frames, frame)
}

// scenario S5: the caster replies with Transfer-Encoding: chunked and
// an RTCM3 frame whose bytes straddle a chunk boundary. The client
// must dechunk before handing the frame to the lexer, and the RTCM
// sink must see exactly one clean frame.
func TestConnectChunkedRTCMFrameAcrossChunkBoundary(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	frame := rtcm3Frame([]byte{0x3E, 0xD0, 0, 0, 0, 0, 0, 0, 0, 0})
	split := 5 // straddle the boundary mid-frame

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		// discard the request line and headers
		for {
			line, err := r.ReadString('\n')
			if err != nil || line == "\r\n" || line == "\n" {
				break
			}
		}
		resp := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n"
		conn.Write([]byte(resp))
		conn.Write(chunk(frame[:split]))
		time.Sleep(20 * time.Millisecond)
		conn.Write(chunk(frame[split:]))
		conn.Write(chunk(nil))
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	portNum := 0
	fmt.Sscanf(port, "%d", &portNum)

	c := NewClient(URL{Host: host, Port: portNum, Mountpoint: "MOUNT"}, logrus.New())
	sink := &captureSink{}
	c.SetSink(sink)
	require.NoError(t, c.Connect())
	defer c.Close()

	require.Eventually(t, func() bool {
		return len(sink.frames) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, frame[3:len(frame)-3], sink.frames[0])
}
