package socks5

// AuthMethod is a SOCKS5 authentication method identifier, as advertised in
// the method-negotiation phase and echoed back by the server.
type AuthMethod byte

const (
	NoAuthRequired   AuthMethod = 0x00
	GSSAPI           AuthMethod = 0x01
	UsernamePassword AuthMethod = 0x02
	NoAcceptable     AuthMethod = 0xFF
)

func (m AuthMethod) String() string {
	switch m {
	case NoAuthRequired:
		return "NoAuthRequired"
	case GSSAPI:
		return "GSSAPI"
	case UsernamePassword:
		return "UsernamePassword"
	case NoAcceptable:
		return "NoAcceptable"
	default:
		return "Unknown"
	}
}
