package core

import (
	"sync"
	"testing"
	"time"
)

type recordSender struct {
	mu    sync.Mutex
	msgs  []string
	err   error
	block chan struct{}
}

func (s *recordSender) Send(p []byte) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, string(p))
	return nil
}

func (s *recordSender) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.msgs...)
}

func mustMessages(t *testing.T, s *recordSender, n int) []string {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if msgs := s.messages(); len(msgs) >= n {
			return msgs
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d messages, got %v", n, s.messages())
	return nil
}
