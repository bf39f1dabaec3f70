package ubx

import "github.com/ntpsec/gpsd-sub004/driver"

// Behavior implements driver.Behavior for the UBX family, dispatching
// on the (class, id) header of the already-framed payload.
type Behavior struct{}

func (Behavior) Parse(sess *driver.Session, payload []byte) (bool, error) {
	if len(payload) < 2 {
		return false, nil
	}
	class, id := payload[0], payload[1]
	body := payload[2:]

	switch class {
	case classNAV:
		switch id {
		case idNavPVT:
			return decodeNavPVT(sess, body), nil
		case idNavDOP:
			return decodeNavDOP(sess, body), nil
		case idNavSAT:
			return decodeNavSAT(sess, body), nil
		case idNavEOE:
			return decodeNavEOE(sess, body), nil
		case idNavPosECEF:
			return decodeNavPosECEF(sess, body), nil
		case idNavVelECEF:
			return decodeNavVelECEF(sess, body), nil
		case idNavPosLLH:
			return decodeNavPosLLH(sess, body), nil
		case idNavVelNED:
			return decodeNavVelNED(sess, body), nil
		case idNavHPPOSECEF:
			return decodeNavHPPosECEF(sess, body), nil
		case idNavHPPOSLLH:
			return decodeNavHPPosLLH(sess, body), nil
		case idNavRELPOSNED:
			return decodeNavRELPOSNED(sess, body), nil
		case idNavTimeGPS:
			return decodeNavTimeGPS(sess, body), nil
		case idNavTimeUTC:
			return decodeNavTimeUTC(sess, body), nil
		case idNavTIMELS:
			return decodeNavTIMELS(sess, body), nil
		}
	case classRXM:
		switch id {
		case idRXMRAWX:
			return decodeRXMRAWX(sess, body), nil
		case idRXMSFRBX:
			return decodeRXMSFRBX(sess, body), nil
		}
	case classMON:
		if id == idMonVER {
			return decodeMonVER(sess, body), nil
		}
	case classACK:
		switch id {
		case idAckACK:
			return decodeAckACK(sess, body), nil
		case idAckNAK:
			return decodeAckNAK(sess, body), nil
		}
	}
	return false, nil
}
