// Package client is the terminal side of the relay: stdin lines go to the
// server, server bytes go to stdout untouched.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
)

const (
	// DefaultAddr is where the client connects when no address is given.
	DefaultAddr = "127.0.0.1:9000"
	// DefaultPort is appended to a bare host.
	DefaultPort = "9000"

	// QuitCommand typed on its own line ends the client without being sent.
	QuitCommand = "/quit"
	// QuitLine is sent to the server when the client is interrupted.
	QuitLine = QuitCommand + "\n"
)

// ErrDisconnected is returned when the server closes the connection.
var ErrDisconnected = errors.New("server disconnected")

// Addr normalizes a user-supplied address, adding DefaultPort to a bare host.
func Addr(arg string) string {
	if arg == "" {
		return DefaultAddr
	}
	if _, _, err := net.SplitHostPort(arg); err == nil {
		return arg
	}
	return net.JoinHostPort(arg, DefaultPort)
}

// Run relays between conn and the terminal until stdin ends, the user types
// /quit, the server disconnects or ctx is cancelled. Cancellation counts as an
// interrupt: QuitLine is sent before the connection is closed. conn is always
// closed on return.
func Run(ctx context.Context, conn io.ReadWriteCloser, in io.Reader, out io.Writer) error {
	received := make(chan error, 1)
	go func() {
		received <- receive(conn, out)
	}()

	lctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lines := readLines(lctx, in)

	finish := func(err error) error {
		_ = conn.Close()
		<-received
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_, _ = io.WriteString(conn, QuitLine)
			return finish(nil)
		case err := <-received:
			_ = conn.Close()
			return err
		case line, ok := <-lines:
			if !ok || line == QuitCommand {
				return finish(nil)
			}
			if line == "" {
				continue
			}
			if _, err := io.WriteString(conn, line+"\n"); err != nil {
				return finish(fmt.Errorf("send: %w", err))
			}
		}
	}
}

// receive copies server output verbatim until the connection ends.
func receive(conn io.Reader, out io.Writer) error {
	if _, err := io.Copy(out, conn); err != nil {
		return fmt.Errorf("receive: %w", err)
	}
	return ErrDisconnected
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
