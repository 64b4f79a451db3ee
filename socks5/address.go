package socks5

import (
	"net"

	"github.com/die-net/socksio"
)

// AddressKind is the SOCKS5 ATYP byte: which shape DST.ADDR/BND.ADDR takes.
type AddressKind byte

const (
	IPv4   AddressKind = 0x01
	Domain AddressKind = 0x03
	IPv6   AddressKind = 0x04
)

// Address is a SOCKS5 address, tagged by Kind. Exactly one of IP or Domain
// is populated, matching Kind. Values are produced only by ClassifyAddress
// or by parsing a reply frame; callers should not construct one by hand.
type Address struct {
	Kind   AddressKind
	IP     net.IP
	Domain string
}

func (a Address) String() string {
	switch a.Kind {
	case IPv4, IPv6:
		return a.IP.String()
	case Domain:
		return a.Domain
	default:
		return "<invalid address>"
	}
}

// ClassifyAddress classifies s as an IPv4 literal, an IPv6 literal, or (as a
// fallback) an opaque domain name, by attempting numeric parses in order.
func ClassifyAddress(s string) (Address, error) {
	if ip := net.ParseIP(s); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return Address{Kind: IPv4, IP: v4}, nil
		}
		return Address{Kind: IPv6, IP: ip.To16()}, nil
	}

	if len(s) == 0 || len(s) > 255 {
		return Address{}, socksio.NewUsageError("domain name length %d out of range 1..255", len(s))
	}
	return Address{Kind: Domain, Domain: s}, nil
}

// encode renders a into the DST.ADDR/BND.ADDR wire form: a leading ATYP byte
// followed by the address bytes (4, 16, or a length-prefixed domain).
func (a Address) encode() []byte {
	switch a.Kind {
	case IPv4:
		return append([]byte{byte(IPv4)}, a.IP.To4()...)
	case IPv6:
		return append([]byte{byte(IPv6)}, a.IP.To16()...)
	case Domain:
		b := make([]byte, 0, 2+len(a.Domain))
		b = append(b, byte(Domain), byte(len(a.Domain)))
		return append(b, a.Domain...)
	default:
		panic("socks5: encode called on an unclassified Address")
	}
}

// addrFieldLen returns the wire length of ATYP's address field given the
// value (if any) of a following length byte, matching the two-phase probe
// required for incremental DOMAIN parsing: 4 for IPv4, 16 for IPv6, or
// 1+domainLen for DOMAIN. ok is false for an unrecognized ATYP.
func addrFieldLen(atyp byte, domainLen byte) (n int, ok bool) {
	switch AddressKind(atyp) {
	case IPv4:
		return 4, true
	case IPv6:
		return 16, true
	case Domain:
		return 1 + int(domainLen), true
	default:
		return 0, false
	}
}

// decodeAddr parses the ATYP+address bytes of a reply's BND.ADDR field. b
// must contain exactly the bytes addrFieldLen reported for atyp.
func decodeAddr(atyp byte, b []byte) Address {
	switch AddressKind(atyp) {
	case IPv4:
		return Address{Kind: IPv4, IP: net.IP(append(net.IP{}, b...))}
	case IPv6:
		return Address{Kind: IPv6, IP: net.IP(append(net.IP{}, b...))}
	case Domain:
		return Address{Kind: Domain, Domain: string(b[1:])}
	default:
		panic("socks5: decodeAddr called with unrecognized ATYP")
	}
}
