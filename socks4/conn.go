package socks4

import (
	"net"

	"github.com/die-net/socksio"
)

// sentinelIP is the SOCKS4A "invalid" IPv4 address (0.0.0.x, x != 0) that
// signals a trailing domain name in the request. The memo leaves x free;
// this implementation always emits the literal 0.0.0.1.
var sentinelIP = [4]byte{0, 0, 0, 1}

// Conn is a SOCKS4 or SOCKS4A client connection. The zero value behaves
// like New(nil): a SOCKS4 connection with an empty user ID. Use NewA for
// SOCKS4A.
//
// A Conn is not safe for concurrent use. Its UserID is fixed for the
// lifetime of the instance.
type Conn struct {
	UserID           []byte
	AllowDomainNames bool

	state State
	in    socksio.Buffer
	out   socksio.OutBuffer
	// broken marks a connection that failed to parse a reply frame; every
	// further call fails until the caller discards the connection.
	broken bool
}

// New constructs a SOCKS4 connection. userID may be nil or empty.
func New(userID []byte) *Conn {
	return &Conn{UserID: userID}
}

// NewA constructs a SOCKS4A connection, which additionally accepts domain
// names in Request. userID may be nil or empty.
func NewA(userID []byte) *Conn {
	return &Conn{UserID: userID, AllowDomainNames: true}
}

// State reports the connection's current position in the handshake.
func (c *Conn) State() State {
	return c.state
}

// Request queues the SOCKS4/4A request frame for addr:port and transitions
// the connection to AwaitingReply. It is only valid in the Init state.
//
// addr must be a literal IPv4 address unless the connection allows domain
// names (NewA), in which case any other string is treated as an opaque
// domain name.
func (c *Conn) Request(cmd socksio.Command, addr string, port uint16) error {
	if c.broken {
		return socksio.NewStateError("connection is unusable after a previous protocol error")
	}
	if c.state != Init {
		return socksio.NewStateError("Request called in state %s, want Init", c.state)
	}
	if cmd == socksio.CommandUDPAssociate {
		return socksio.NewUsageError("UDP_ASSOCIATE is not supported")
	}

	ip4, domain, err := c.classify(addr)
	if err != nil {
		return err
	}

	buf := make([]byte, 0, 9+len(c.UserID)+len(domain)+1)
	buf = append(buf, 0x04, byte(cmd))
	buf = append(buf, socksio.PutUint16(port)...)
	if domain != nil {
		buf = append(buf, sentinelIP[:]...)
	} else {
		buf = append(buf, ip4...)
	}
	buf = append(buf, c.UserID...)
	buf = append(buf, 0x00)
	if domain != nil {
		buf = append(buf, domain...)
		buf = append(buf, 0x00)
	}

	c.out.Queue(buf)
	c.state = AwaitingReply
	return nil
}

// classify returns either a 4-byte literal IPv4 address or, if the
// connection allows domain names and addr does not parse as IPv4, the raw
// domain name bytes.
func (c *Conn) classify(addr string) (ip4 net.IP, domain []byte, err error) {
	if parsed := net.ParseIP(addr); parsed != nil {
		if v4 := parsed.To4(); v4 != nil {
			return v4, nil, nil
		}
	}
	if !c.AllowDomainNames {
		return nil, nil, socksio.NewUsageError("SOCKS4 requires a literal IPv4 address, got %q", addr)
	}
	return nil, []byte(addr), nil
}

// DataToSend returns and clears the bytes queued for send.
func (c *Conn) DataToSend() []byte {
	return c.out.DataToSend()
}

// ReceiveData appends b to the inbound buffer and attempts to parse the
// 8-byte SOCKS4 reply frame. It returns nil, nil if fewer than 8 bytes are
// buffered. It is only valid in the AwaitingReply state.
func (c *Conn) ReceiveData(b []byte) (*Reply, error) {
	if c.broken {
		return nil, socksio.NewStateError("connection is unusable after a previous protocol error")
	}
	if c.state != AwaitingReply {
		return nil, socksio.NewStateError("ReceiveData called in state %s, want AwaitingReply", c.state)
	}

	c.in.Append(b)

	frame, ok := c.in.Peek(8)
	if !ok {
		return nil, nil
	}

	if frame[0] != 0x00 {
		c.broken = true
		return nil, socksio.NewProtocolError("reply VN byte = 0x%02x, want 0x00", frame[0])
	}

	code := ReplyCode(frame[1])
	if !code.valid() {
		c.broken = true
		return nil, socksio.NewProtocolError("unknown reply code 0x%02x", frame[1])
	}

	port := socksio.Uint16(frame[2:4])
	ip := net.IP(append(net.IP{}, frame[4:8]...))

	c.in.Consume(8)

	if code == RequestGranted {
		c.state = Succeeded
	} else {
		c.state = Failed
	}

	return &Reply{Code: code, Port: port, Addr: ip}, nil
}
