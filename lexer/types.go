// Package lexer implements the protocol-dispatching byte lexer: given an
// arbitrary, unlabeled byte stream from a GNSS receiver, it recognizes
// and emits complete, checksum-validated frames for whichever of the
// supported wire protocols the stream actually carries, without being
// told in advance which one that is.
package lexer

// PacketType tags one emitted frame with the protocol family it was
// recognized as belonging to.
type PacketType int

const (
	Bad PacketType = iota
	Comment
	NMEA
	AIVDM
	UBX
	TSIP
	SiRF
	Skytraq
	GarminSer
	GarminUSB
	Zodiac
	Evermore
	ITalk
	Navcom
	Oncore
	SuperStar2
	Geostar
	GREIS
	CASIC
	Allystar
	NMEA2000
	RTCM2
	RTCM3
	SPARTN
	JSON
	GarminTXT
	PPS
)

func (t PacketType) String() string {
	switch t {
	case Bad:
		return "bad"
	case Comment:
		return "comment"
	case NMEA:
		return "nmea"
	case AIVDM:
		return "aivdm"
	case UBX:
		return "ubx"
	case TSIP:
		return "tsip"
	case SiRF:
		return "sirf"
	case Skytraq:
		return "skytraq"
	case GarminSer:
		return "garmin_ser"
	case GarminUSB:
		return "garmin_usb"
	case Zodiac:
		return "zodiac"
	case Evermore:
		return "evermore"
	case ITalk:
		return "italk"
	case Navcom:
		return "navcom"
	case Oncore:
		return "oncore"
	case SuperStar2:
		return "superstar2"
	case Geostar:
		return "geostar"
	case GREIS:
		return "greis"
	case CASIC:
		return "casic"
	case Allystar:
		return "allystar"
	case NMEA2000:
		return "nmea2000"
	case RTCM2:
		return "rtcm2"
	case RTCM3:
		return "rtcm3"
	case SPARTN:
		return "spartn"
	case JSON:
		return "json"
	case GarminTXT:
		return "garmintxt"
	case PPS:
		return "pps"
	default:
		return "unknown"
	}
}

// TypeMask is a bitset of acceptable packet types (spec §4.2's
// "type-mask"): frames of types outside the mask are discarded without
// decode effort. Only SetTypeMask changes it; no driver in this module
// narrows it.
type TypeMask uint32

// AllTypes accepts every packet type; New starts every lexer with it.
// The zero value of TypeMask accepts none.
const AllTypes TypeMask = ^TypeMask(0)

// Bit returns the single-type mask for t.
func Bit(t PacketType) TypeMask { return 1 << TypeMask(t) }

// Allows reports whether t is permitted under m.
func (m TypeMask) Allows(t PacketType) bool { return m&Bit(t) != 0 }

// Result is what Next returns: exactly one of NoFrameYet, a Frame, or a
// BadFrame.
type Result struct {
	Status  Status
	Type    PacketType
	Payload []byte // for Frame: the decoded payload, lead/trailer/checksum stripped
	Raw     []byte // for Frame: the full wire bytes consumed, for re-logging
	Reason  string // for BadFrame
}

// Status distinguishes the three possible outcomes of Next.
type Status int

const (
	NoFrameYet Status = iota
	FrameOK
	BadFrame
)

const (
	// MaxPacketSize bounds a single frame (spec §3: "size >= max packet
	// ~8 KiB"); a length field claiming more than this aborts the
	// framing attempt as a fatal/bad-frame rather than blocking forever
	// waiting for bytes that will never complete a sane frame.
	MaxPacketSize = 8192

	// RingBufferSize is the lexer's input ring capacity.
	RingBufferSize = 2 * MaxPacketSize
)
