package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

// serverRecorder collects everything the client writes until it hangs up.
func serverRecorder(srv net.Conn) <-chan string {
	got := make(chan string, 1)
	go func() {
		data, _ := io.ReadAll(srv)
		got <- string(data)
	}()
	return got
}

func runAsync(ctx context.Context, conn net.Conn, in io.Reader, out io.Writer) <-chan error {
	done := make(chan error, 1)
	go func() { done <- Run(ctx, conn, in, out) }()
	return done
}

func wait[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
	var zero T
	return zero
}

func TestRunSendsLinesAndStopsAtQuit(t *testing.T) {
	cli, srv := net.Pipe()
	defer srv.Close()
	got := serverRecorder(srv)

	in := strings.NewReader("hello\n\n/nick alice\n/quit\nnever sent\n")
	err := wait(t, runAsync(context.Background(), cli, in, io.Discard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "hello\n/nick alice\n"; wait(t, got) != want {
		t.Fatalf("server expected %q", want)
	}
}

func TestRunStopsAtEndOfInput(t *testing.T) {
	cli, srv := net.Pipe()
	defer srv.Close()
	got := serverRecorder(srv)

	err := wait(t, runAsync(context.Background(), cli, strings.NewReader("/list"), io.Discard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := wait(t, got); s != "/list\n" {
		t.Fatalf("expected %q, got %q", "/list\n", s)
	}
}

func TestRunCopiesServerOutputVerbatim(t *testing.T) {
	cli, srv := net.Pipe()
	stdin, stdinW := io.Pipe()
	defer stdinW.Close()

	var out bytes.Buffer
	done := runAsync(context.Background(), cli, stdin, &out)

	go func() {
		_, _ = srv.Write([]byte("Enter /nick <name> to set nickname\n"))
		_, _ = srv.Write([]byte("Rooms:\n0. lobby (1/40)\n"))
		_ = srv.Close()
	}()

	err := wait(t, done)
	if !errors.Is(err, ErrDisconnected) {
		t.Fatalf("expected ErrDisconnected, got %v", err)
	}
	if want := "Enter /nick <name> to set nickname\nRooms:\n0. lobby (1/40)\n"; out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestRunSendsQuitOnInterrupt(t *testing.T) {
	cli, srv := net.Pipe()
	defer srv.Close()
	got := serverRecorder(srv)

	stdin, stdinW := io.Pipe()
	defer stdinW.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, cli, stdin, io.Discard)
	cancel()

	if err := wait(t, done); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := wait(t, got); s != QuitLine {
		t.Fatalf("expected %q, got %q", QuitLine, s)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{
		"":               DefaultAddr,
		"10.0.0.5":       "10.0.0.5:9000",
		"chat.local:7":   "chat.local:7",
		"::1":            "[::1]:9000",
		"[::1]:9100":     "[::1]:9100",
		"localhost:9000": "localhost:9000",
	}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Errorf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
