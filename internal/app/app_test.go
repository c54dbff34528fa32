package app

import (
	"bufio"
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/wirechat-relay/internal/config"
	"github.com/vovakirdan/wirechat-relay/internal/log"
	"github.com/vovakirdan/wirechat-relay/internal/proto"
)

func TestAppServesAndShutsDown(t *testing.T) {
	cfg := config.Default()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.MaxRooms = 1
	cfg.AuditDBPath = filepath.Join(t.TempDir(), "audit.db")

	application, err := New(cfg, log.Nop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Serve(ctx, ln) }()

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(3 * time.Second))
	r := bufio.NewReader(conn)

	expect := func(want string) {
		t.Helper()
		got, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read (want %q): %v", want, err)
		}
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}

	expect(proto.Prompt)
	_, _ = conn.Write([]byte("/create one\n"))
	expect(proto.ReplyRoomCreated)
	// Limits from config reach the registry.
	_, _ = conn.Write([]byte("/create two\n"))
	expect(proto.ReplyMaxRoomsReached)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("app did not shut down")
	}

	if _, err := r.ReadString('\n'); err == nil {
		t.Fatal("expected connection to be closed on shutdown")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RoomCapacity = 0

	if _, err := New(cfg, log.Nop()); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestJWTConfig(t *testing.T) {
	cfg := config.Default()
	if JWTConfig(cfg).Enabled() {
		t.Fatal("admin auth should be disabled without a secret")
	}

	cfg.AdminJWTSecret = "s3cret"
	jc := JWTConfig(cfg)
	if !jc.Enabled() || jc.Issuer != cfg.AdminJWTIssuer || jc.Audience != cfg.AdminJWTAudience {
		t.Fatalf("unexpected jwt config: %+v", jc)
	}
}
