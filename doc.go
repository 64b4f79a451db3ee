// Package socksio provides the shared building blocks for the client-side
// SOCKS4, SOCKS4A and SOCKS5 negotiation state machines implemented by the
// socks4 and socks5 subpackages.
//
// Everything in this package is sans-I/O: it transforms bytes and typed
// values only. No socket, DNS or timer calls are made anywhere in this
// module. Callers own the transport, feed received bytes in, and drain
// bytes to send out.
package socksio
