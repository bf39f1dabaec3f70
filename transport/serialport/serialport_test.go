package serialport

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestParsePathDefaults(t *testing.T) {
	port, baud, dataBits, parity, stopBits := parsePath("/dev/ttyUSB0")
	require.Equal(t, "/dev/ttyUSB0", port)
	require.Equal(t, defaultBaudRate, baud)
	require.Equal(t, defaultDataBits, dataBits)
	require.Equal(t, byte('N'), parity)
	require.Equal(t, defaultStopBits, stopBits)
}

func TestParsePathFullySpecified(t *testing.T) {
	port, baud, dataBits, parity, stopBits := parsePath("/dev/ttyACM0:115200:7:E:2")
	require.Equal(t, "/dev/ttyACM0", port)
	require.Equal(t, 115200, baud)
	require.Equal(t, 7, dataBits)
	require.Equal(t, byte('E'), parity)
	require.Equal(t, 2, stopBits)
}

func TestParsePathPartiallySpecified(t *testing.T) {
	port, baud, dataBits, _, _ := parsePath("COM3:4800")
	require.Equal(t, "COM3", port)
	require.Equal(t, 4800, baud)
	require.Equal(t, defaultDataBits, dataBits)
}

func TestStopBitsAndParityMapping(t *testing.T) {
	require.Equal(t, serial.TwoStopBits, stopBitsOf(2))
	require.Equal(t, serial.OneStopBit, stopBitsOf(1))
	require.Equal(t, serial.OneStopBit, stopBitsOf(0))

	require.Equal(t, serial.EvenParity, parityOf('E'))
	require.Equal(t, serial.OddParity, parityOf('o'))
	require.Equal(t, serial.NoParity, parityOf('N'))
}
