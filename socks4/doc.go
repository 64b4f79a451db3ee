// Package socks4 implements the client side of the SOCKS4 and SOCKS4A
// negotiation handshakes described in the SOCKS4 and SOCKS4A memos.
//
// Conn is sans-I/O: it never touches a socket. The caller feeds bytes
// received from the proxy into ReceiveData and drains bytes to send with
// DataToSend, in the order mandated by the two-state handshake (request,
// then reply).
package socks4
