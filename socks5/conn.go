package socks5

import (
	"github.com/die-net/socksio"
)

// Conn is a SOCKS5 client connection. The zero value is a fresh connection
// in StateInit, the same value New returns a pointer to.
//
// A Conn is not safe for concurrent use. Operations must be called in the
// order mandated by the SOCKS5 handshake; out-of-order calls fail with a
// *socksio.StateError without mutating state.
type Conn struct {
	state          State
	selectedMethod AuthMethod

	in  socksio.Buffer
	out socksio.OutBuffer

	// broken marks a connection that failed to parse a reply frame; every
	// further call fails until the caller discards the connection.
	broken bool
}

// New constructs a SOCKS5 connection ready for NegotiateAuthMethods.
func New() *Conn {
	return &Conn{}
}

// State reports the connection's current position in the handshake.
func (c *Conn) State() State {
	return c.state
}

// DataToSend returns and clears the bytes queued for send.
func (c *Conn) DataToSend() []byte {
	return c.out.DataToSend()
}

// NegotiateAuthMethods queues the method-negotiation frame advertising
// methods and transitions to StateMethodsSent. It is only valid in
// StateInit, and methods must contain between 1 and 255 entries.
func (c *Conn) NegotiateAuthMethods(methods []AuthMethod) error {
	if c.broken {
		return socksio.NewStateError("connection is unusable after a previous protocol error")
	}
	if c.state != StateInit {
		return socksio.NewStateError("NegotiateAuthMethods called in state %s, want Init", c.state)
	}
	if len(methods) == 0 || len(methods) > 255 {
		return socksio.NewUsageError("methods list length %d out of range 1..255", len(methods))
	}

	buf := make([]byte, 0, 2+len(methods))
	buf = append(buf, 0x05, byte(len(methods)))
	for _, m := range methods {
		buf = append(buf, byte(m))
	}

	c.out.Queue(buf)
	c.state = StateMethodsSent
	return nil
}

// AuthenticateUsernamePassword queues the RFC 1929 sub-negotiation frame
// and transitions to StateAuthSent. It is only valid in StateMethodAccepted
// with a server-selected method of UsernamePassword, and both username and
// password must be between 1 and 255 bytes.
func (c *Conn) AuthenticateUsernamePassword(username, password []byte) error {
	if c.broken {
		return socksio.NewStateError("connection is unusable after a previous protocol error")
	}
	if c.state != StateMethodAccepted || c.selectedMethod != UsernamePassword {
		return socksio.NewStateError("AuthenticateUsernamePassword called in state %s (method %s), want MethodAccepted with UsernamePassword selected", c.state, c.selectedMethod)
	}
	if len(username) == 0 || len(username) > 255 {
		return socksio.NewUsageError("username length %d out of range 1..255", len(username))
	}
	if len(password) == 0 || len(password) > 255 {
		return socksio.NewUsageError("password length %d out of range 1..255", len(password))
	}

	buf := make([]byte, 0, 3+len(username)+len(password))
	buf = append(buf, 0x01, byte(len(username)))
	buf = append(buf, username...)
	buf = append(buf, byte(len(password)))
	buf = append(buf, password...)

	c.out.Queue(buf)
	c.state = StateAuthSent
	return nil
}

// Request queues the CONNECT/BIND request frame for addr:port and
// transitions to StateRequestSent. It is only valid in StateMethodAccepted
// when no authentication is required, or in StateAuthAccepted.
func (c *Conn) Request(cmd socksio.Command, addr string, port uint16) error {
	if c.broken {
		return socksio.NewStateError("connection is unusable after a previous protocol error")
	}
	ready := c.state == StateAuthAccepted ||
		(c.state == StateMethodAccepted && c.selectedMethod == NoAuthRequired)
	if !ready {
		return socksio.NewStateError("Request called in state %s (method %s), want MethodAccepted (no-auth) or AuthAccepted", c.state, c.selectedMethod)
	}
	if cmd == socksio.CommandUDPAssociate {
		return socksio.NewUsageError("UDP_ASSOCIATE is not supported")
	}

	a, err := ClassifyAddress(addr)
	if err != nil {
		return err
	}

	buf := make([]byte, 0, 6+len(a.Domain))
	buf = append(buf, 0x05, byte(cmd), 0x00)
	buf = append(buf, a.encode()...)
	buf = append(buf, socksio.PutUint16(port)...)

	c.out.Queue(buf)
	c.state = StateRequestSent
	return nil
}

// ReceiveData appends b to the inbound buffer and attempts to parse the one
// frame shape valid for the current state. It returns nil, nil if no
// complete frame is yet buffered; partial frames leave the buffer
// untouched. It is only valid in StateMethodsSent, StateAuthSent, or
// StateRequestSent.
func (c *Conn) ReceiveData(b []byte) ([]Event, error) {
	if c.broken {
		return nil, socksio.NewStateError("connection is unusable after a previous protocol error")
	}

	switch c.state {
	case StateMethodsSent:
		c.in.Append(b)
		return c.receiveMethodReply()
	case StateAuthSent:
		c.in.Append(b)
		return c.receiveAuthReply()
	case StateRequestSent:
		c.in.Append(b)
		return c.receiveRequestReply()
	default:
		return nil, socksio.NewStateError("ReceiveData called in state %s, no reply is pending", c.state)
	}
}

func (c *Conn) receiveMethodReply() ([]Event, error) {
	frame, ok := c.in.Peek(2)
	if !ok {
		return nil, nil
	}
	if frame[0] != 0x05 {
		c.broken = true
		return nil, socksio.NewProtocolError("method reply VER byte = 0x%02x, want 0x05", frame[0])
	}

	method := AuthMethod(frame[1])
	c.in.Consume(2)

	if method == NoAcceptable {
		c.state = StateFailed
		return []Event{AuthMethodReply{Method: method}}, nil
	}

	c.selectedMethod = method
	c.state = StateMethodAccepted
	return []Event{AuthMethodReply{Method: method}}, nil
}

func (c *Conn) receiveAuthReply() ([]Event, error) {
	frame, ok := c.in.Peek(2)
	if !ok {
		return nil, nil
	}
	if frame[0] != 0x01 {
		c.broken = true
		return nil, socksio.NewProtocolError("auth reply VER byte = 0x%02x, want 0x01", frame[0])
	}

	success := frame[1] == 0x00
	c.in.Consume(2)

	if success {
		c.state = StateAuthAccepted
	} else {
		c.state = StateFailed
	}
	return []Event{UserPassReply{Success: success}}, nil
}

func (c *Conn) receiveRequestReply() ([]Event, error) {
	header, ok := c.in.Peek(4)
	if !ok {
		return nil, nil
	}
	if header[0] != 0x05 {
		c.broken = true
		return nil, socksio.NewProtocolError("reply VER byte = 0x%02x, want 0x05", header[0])
	}
	if header[2] != 0x00 {
		c.broken = true
		return nil, socksio.NewProtocolError("reply RSV byte = 0x%02x, want 0x00", header[2])
	}

	atyp := header[3]

	var domainLen byte
	if AddressKind(atyp) == Domain {
		lenByte, ok := c.in.Peek(5)
		if !ok {
			return nil, nil
		}
		domainLen = lenByte[4]
		if domainLen == 0 {
			c.broken = true
			return nil, socksio.NewProtocolError("reply DOMAIN length byte is 0")
		}
	}

	addrLen, ok := addrFieldLen(atyp, domainLen)
	if !ok {
		c.broken = true
		return nil, socksio.NewProtocolError("reply ATYP = 0x%02x is not IPv4, IPv6 or DOMAIN", atyp)
	}

	total := 4 + addrLen + 2
	frame, ok := c.in.Peek(total)
	if !ok {
		return nil, nil
	}

	rep := frame[1]
	addr := decodeAddr(atyp, frame[4:4+addrLen])
	port := socksio.Uint16(frame[4+addrLen : total])

	c.in.Consume(total)

	if rep == 0x00 {
		c.state = StateSucceeded
	} else {
		c.state = StateFailed
	}

	return []Event{Reply{Code: ReplyCode(rep), BindAddr: addr, BindPort: port}}, nil
}
