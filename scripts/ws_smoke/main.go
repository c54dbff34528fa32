package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/coder/websocket"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

type peer struct {
	name string
	conn *websocket.Conn
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "relay WebSocket address")
	room := flag.String("room", "smoke", "room name to create and join")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	suffix := strconv.FormatInt(time.Now().UnixNano()%100000, 10)
	speaker, err := dial(ctx, *addr, "speaker"+suffix)
	if err != nil {
		return err
	}
	defer speaker.conn.Close(websocket.StatusNormalClosure, "bye")

	listener, err := dial(ctx, *addr, "listener"+suffix)
	if err != nil {
		return err
	}
	defer listener.conn.Close(websocket.StatusNormalClosure, "bye")

	reply, err := speaker.roundTrip(ctx, "/create "+*room)
	if err != nil {
		return err
	}
	fmt.Printf("create: %q\n", reply)

	listing, err := speaker.roundTrip(ctx, "/list")
	if err != nil {
		return err
	}
	id, ok := findRoom(listing, *room)
	if !ok {
		return fmt.Errorf("room %q not listed in %q", *room, listing)
	}
	fmt.Printf("using room %d\n", id)

	for _, p := range []*peer{listener, speaker} {
		reply, err := p.roundTrip(ctx, "/join "+strconv.Itoa(id))
		if err != nil {
			return err
		}
		if reply != "Joined room\n" {
			return fmt.Errorf("%s join: unexpected reply %q", p.name, reply)
		}
	}
	// listener sees the speaker's join notice first
	if _, err := listener.read(ctx); err != nil {
		return err
	}

	if err := speaker.send(ctx, *text); err != nil {
		return err
	}
	got, err := listener.read(ctx)
	if err != nil {
		return err
	}
	want := speaker.name + ": " + *text + "\n"
	if got != want {
		return fmt.Errorf("listener received %q, want %q", got, want)
	}
	fmt.Printf("relayed: %q\n", got)

	for _, p := range []*peer{speaker, listener} {
		_ = p.send(ctx, "/quit")
	}
	return nil
}

func dial(ctx context.Context, addr, name string) (*peer, error) {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	p := &peer{name: name, conn: conn}

	if _, err := p.read(ctx); err != nil {
		return nil, fmt.Errorf("prompt: %w", err)
	}
	reply, err := p.roundTrip(ctx, "/nick "+name)
	if err != nil {
		return nil, err
	}
	if reply != "Nickname set\n" {
		return nil, fmt.Errorf("nick %s: unexpected reply %q", name, reply)
	}
	return p, nil
}

func (p *peer) send(ctx context.Context, line string) error {
	if err := p.conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
		return fmt.Errorf("%s send: %w", p.name, err)
	}
	return nil
}

func (p *peer) read(ctx context.Context) (string, error) {
	_, data, err := p.conn.Read(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%s read: timed out", p.name)
		}
		return "", fmt.Errorf("%s read: %w", p.name, err)
	}
	return string(data), nil
}

func (p *peer) roundTrip(ctx context.Context, line string) (string, error) {
	if err := p.send(ctx, line); err != nil {
		return "", err
	}
	return p.read(ctx)
}

// findRoom returns the highest id listed under name.
func findRoom(listing, name string) (int, bool) {
	id, found := 0, false
	for _, line := range strings.Split(listing, "\n") {
		idText, rest, ok := strings.Cut(line, ". ")
		if !ok {
			continue
		}
		i := strings.LastIndex(rest, " (")
		if i < 0 || rest[:i] != name {
			continue
		}
		n, err := strconv.Atoi(idText)
		if err != nil {
			continue
		}
		id, found = n, true
	}
	return id, found
}
