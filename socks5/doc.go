// Package socks5 implements the client side of the SOCKS5 negotiation
// handshake defined by RFC 1928, plus the RFC 1929 username/password
// sub-negotiation.
//
// Conn is sans-I/O: method negotiation, optional authentication, and the
// CONNECT/BIND request/reply exchange are all driven by feeding received
// bytes into ReceiveData and draining bytes to send with DataToSend. No
// socket, DNS or timer calls are made anywhere in this package.
package socks5
