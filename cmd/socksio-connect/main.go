// Command socksio-connect is a minimal example client that drives the
// sans-I/O socks4/socks5 packages over a real TCP connection to a SOCKS
// proxy. It exists to demonstrate the drain/receive contract described by
// the socksio packages; it is not part of the module's public API and is
// excluded from the byte-exactness and fragmentation-invariance test suites
// that live alongside the core packages.
package main

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/die-net/socksio"
	"github.com/die-net/socksio/socks4"
	"github.com/die-net/socksio/socks5"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		proxy    = pflag.String("proxy", "", "SOCKS proxy address, host:port (required)")
		version  = pflag.String("version", "5", "SOCKS protocol version: 4, 4a, or 5")
		target   = pflag.String("target", "", "Target address to CONNECT to, host:port (required)")
		username = pflag.String("user", "", "Username for SOCKS4/4A user_id or SOCKS5 username/password auth")
		password = pflag.String("pass", "", "Password for SOCKS5 username/password auth")
	)
	pflag.Parse()

	if *proxy == "" || *target == "" {
		return fmt.Errorf("--proxy and --target are required")
	}

	targetHost, targetPortStr, err := net.SplitHostPort(*target)
	if err != nil {
		return fmt.Errorf("invalid --target: %w", err)
	}
	targetPort, err := strconv.ParseUint(targetPortStr, 10, 16)
	if err != nil {
		return fmt.Errorf("invalid --target port: %w", err)
	}

	id := uuid.New().String()

	conn, err := net.Dial("tcp", *proxy)
	if err != nil {
		return fmt.Errorf("dial proxy %s: %w", *proxy, err)
	}
	defer conn.Close()

	log.Printf("[%s] connected to proxy %s, negotiating %s CONNECT %s", id, *proxy, *version, *target)

	switch *version {
	case "4", "4a":
		return runSocks4(id, conn, *version == "4a", []byte(*username), targetHost, uint16(targetPort))
	case "5":
		return runSocks5(id, conn, []byte(*username), []byte(*password), targetHost, uint16(targetPort))
	default:
		return fmt.Errorf("unsupported --version %q, want 4, 4a, or 5", *version)
	}
}

func runSocks4(id string, conn net.Conn, socks4a bool, userID []byte, host string, port uint16) error {
	var c *socks4.Conn
	if socks4a {
		c = socks4.NewA(userID)
	} else {
		c = socks4.New(userID)
	}

	if err := c.Request(socksio.CommandConnect, host, port); err != nil {
		return fmt.Errorf("request: %w", err)
	}
	if err := writeAll(conn, c.DataToSend()); err != nil {
		return err
	}

	buf := make([]byte, 256)
	for c.State() == socks4.AwaitingReply {
		n, err := conn.Read(buf)
		if err != nil {
			return fmt.Errorf("read reply: %w", err)
		}
		reply, err := c.ReceiveData(buf[:n])
		if err != nil {
			return fmt.Errorf("parse reply: %w", err)
		}
		if reply != nil {
			log.Printf("[%s] reply: code=%s port=%d addr=%s", id, reply.Code, reply.Port, reply.Addr)
		}
	}

	if c.State() != socks4.Succeeded {
		return fmt.Errorf("proxy rejected the request (state=%s)", c.State())
	}
	log.Printf("[%s] tunnel established", id)
	return nil
}

func runSocks5(id string, conn net.Conn, username, password []byte, host string, port uint16) error {
	c := socks5.New()

	methods := []socks5.AuthMethod{socks5.NoAuthRequired}
	if len(username) > 0 {
		methods = append(methods, socks5.UsernamePassword)
	}
	if err := c.NegotiateAuthMethods(methods); err != nil {
		return fmt.Errorf("negotiate methods: %w", err)
	}
	if err := writeAll(conn, c.DataToSend()); err != nil {
		return err
	}

	if err := pumpUntil(id, conn, c, func() bool { return c.State() != socks5.StateMethodsSent }); err != nil {
		return err
	}

	if c.State() == socks5.StateMethodAccepted && len(username) > 0 {
		if err := c.AuthenticateUsernamePassword(username, password); err != nil {
			return fmt.Errorf("authenticate: %w", err)
		}
		if err := writeAll(conn, c.DataToSend()); err != nil {
			return err
		}
		if err := pumpUntil(id, conn, c, func() bool { return c.State() != socks5.StateAuthSent }); err != nil {
			return err
		}
	}

	if c.State() != socks5.StateMethodAccepted && c.State() != socks5.StateAuthAccepted {
		return fmt.Errorf("proxy did not accept authentication (state=%s)", c.State())
	}

	if err := c.Request(socksio.CommandConnect, host, port); err != nil {
		return fmt.Errorf("request: %w", err)
	}
	if err := writeAll(conn, c.DataToSend()); err != nil {
		return err
	}
	if err := pumpUntil(id, conn, c, func() bool { return c.State() != socks5.StateRequestSent }); err != nil {
		return err
	}

	if c.State() != socks5.StateSucceeded {
		return fmt.Errorf("proxy rejected the request (state=%s)", c.State())
	}
	log.Printf("[%s] tunnel established", id)
	return nil
}

func pumpUntil(id string, conn net.Conn, c *socks5.Conn, done func() bool) error {
	buf := make([]byte, 256)
	for !done() {
		n, err := conn.Read(buf)
		if err != nil {
			if err == io.EOF {
				return fmt.Errorf("proxy closed connection")
			}
			return fmt.Errorf("read: %w", err)
		}
		events, err := c.ReceiveData(buf[:n])
		if err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		for _, ev := range events {
			log.Printf("[%s] event: %#v", id, ev)
		}
	}
	return nil
}

func writeAll(conn net.Conn, b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if _, err := conn.Write(b); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
