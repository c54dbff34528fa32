package proto

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		cmd  string
		arg  string
	}{
		{name: "nick", in: "/nick alice\n", cmd: CmdNick, arg: "alice"},
		{name: "extra tokens ignored", in: "/nick alice bob\n", cmd: CmdNick, arg: "alice"},
		{name: "leading whitespace", in: "   /list\n", cmd: CmdList, arg: ""},
		{name: "tabs", in: "/create\tlobby\r\n", cmd: CmdCreate, arg: "lobby"},
		{name: "no argument", in: "/nick\n", cmd: CmdNick, arg: ""},
		{name: "chat", in: "hello there\n", cmd: "hello", arg: "there"},
		{name: "empty", in: "\n", cmd: "", arg: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse([]byte(tt.in))
			if c.Name != tt.cmd {
				t.Fatalf("expected command %q, got %q", tt.cmd, c.Name)
			}
			if got := c.Arg(); got != tt.arg {
				t.Fatalf("expected arg %q, got %q", tt.arg, got)
			}
			if string(c.Raw) != tt.in {
				t.Fatalf("raw unit changed: %q", c.Raw)
			}
		})
	}
}

func TestCommandInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "/join 3\n", want: 3},
		{in: "/join   12\n", want: 12},
		{in: "/join -1\n", want: -1},
		{in: "/join 4abc\n", want: 4},
		{in: "/join abc\n", wantErr: true},
		{in: "/join\n", wantErr: true},
		{in: "/join -\n", wantErr: true},
		{in: "/join 99999999999999999999999\n", wantErr: true},
	}

	for _, tt := range tests {
		got, err := Parse([]byte(tt.in)).Int()
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q: expected %d, got %d (%v)", tt.in, tt.want, got, err)
		}
	}
}

func TestCommandWhisper(t *testing.T) {
	target, text := Parse([]byte("/w bob secret plans\n")).Whisper()
	if target != "bob" || text != " secret plans" {
		t.Fatalf("unexpected whisper split: %q %q", target, text)
	}

	target, text = Parse([]byte("/w bob\n")).Whisper()
	if target != "bob" || text != "" {
		t.Fatalf("unexpected whisper split: %q %q", target, text)
	}
}

func TestReplies(t *testing.T) {
	list := RoomList([]RoomLine{
		{ID: 0, Name: "lobby", Members: 2, Capacity: 40},
		{ID: 1, Name: "games", Members: 0, Capacity: 40},
	})
	if want := "Rooms:\n0. lobby (2/40)\n1. games (0/40)\n"; string(list) != want {
		t.Fatalf("unexpected listing %q", list)
	}
	if got := string(RoomList(nil)); got != "Rooms:\n" {
		t.Fatalf("unexpected empty listing %q", got)
	}
	if got := string(LeftRoom("alice", 0)); got != "alice left room 0\n" {
		t.Fatalf("unexpected left notice %q", got)
	}
	if got := string(JoinedRoom("alice", 1)); got != "alice joined room 1\n" {
		t.Fatalf("unexpected joined notice %q", got)
	}
	if got := string(Whisper("alice", " secret")); got != "(whisper) alice: secret\n" {
		t.Fatalf("unexpected whisper %q", got)
	}
	if got := string(Chat("alice", []byte("hello\n"))); got != "alice: hello\n" {
		t.Fatalf("unexpected chat %q", got)
	}
}

func TestReaderFraming(t *testing.T) {
	r := NewReader(strings.NewReader("/nick alice\nhello\npartial"), 64)

	want := []string{"/nick alice\n", "hello\n", "partial"}
	for _, w := range want {
		unit, err := r.ReadUnit()
		if err != nil {
			t.Fatalf("read unit: %v", err)
		}
		if string(unit) != w {
			t.Fatalf("expected %q, got %q", w, unit)
		}
	}
	if _, err := r.ReadUnit(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestReaderSplitsLongLines(t *testing.T) {
	long := strings.Repeat("x", 40) + "\n"
	r := NewReader(strings.NewReader(long), 16)

	var pieces []string
	for {
		unit, err := r.ReadUnit()
		if err != nil {
			break
		}
		if len(unit) > 16 {
			t.Fatalf("unit exceeds max: %d", len(unit))
		}
		pieces = append(pieces, string(unit))
	}
	if strings.Join(pieces, "") != long {
		t.Fatalf("pieces do not reassemble: %q", pieces)
	}
	if len(pieces) != 3 {
		t.Fatalf("expected 3 pieces, got %d", len(pieces))
	}
}
