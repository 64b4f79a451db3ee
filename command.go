package socksio

import "fmt"

// Command is a SOCKS request command, shared by SOCKS4/4A and SOCKS5.
type Command byte

const (
	CommandConnect      Command = 0x01
	CommandBind         Command = 0x02
	CommandUDPAssociate Command = 0x03
)

func (c Command) String() string {
	switch c {
	case CommandConnect:
		return "CONNECT"
	case CommandBind:
		return "BIND"
	case CommandUDPAssociate:
		return "UDP_ASSOCIATE"
	default:
		return fmt.Sprintf("Command(0x%02x)", byte(c))
	}
}
