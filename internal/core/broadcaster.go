package core

import (
	"sync"

	"github.com/rs/zerolog"
)

// Broadcaster fans messages out to room members.
//
// Membership is snapshotted from the Registry and the registry lock is
// released before any delivery starts. Every recipient is written by its
// own goroutine, so a stalled peer holds up only the caller, not the other
// recipients and not the registry. There is no outbound queue: a caller
// returns once every write has finished or failed.
type Broadcaster struct {
	reg *Registry
	log *zerolog.Logger
}

// NewBroadcaster creates a broadcaster over reg.
func NewBroadcaster(reg *Registry, logger *zerolog.Logger) *Broadcaster {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Broadcaster{reg: reg, log: logger}
}

// Broadcast delivers msg to every current member of room id except
// exclude. Pass NoHandle to exclude nobody. It returns the number of
// recipients targeted.
func (b *Broadcaster) Broadcast(id int, msg []byte, exclude Handle) int {
	targets := b.reg.Recipients(id, exclude)
	b.deliver(targets, msg)
	return len(targets)
}

// Whisper delivers msg to the client holding nickname target. It reports
// whether anyone held the name.
func (b *Broadcaster) Whisper(target string, msg []byte) bool {
	to, ok := b.reg.WhisperTarget(target)
	if !ok {
		return false
	}
	b.send(to, msg)
	return true
}

func (b *Broadcaster) deliver(targets []Recipient, msg []byte) {
	switch len(targets) {
	case 0:
		return
	case 1:
		b.send(targets[0], msg)
		return
	}

	var wg sync.WaitGroup
	for _, t := range targets {
		wg.Go(func() {
			b.send(t, msg)
		})
	}
	wg.Wait()
}

// send drops failures; the recipient's own read loop notices a dead
// connection and cleans it up.
func (b *Broadcaster) send(t Recipient, msg []byte) {
	if err := t.Out.Send(msg); err != nil {
		b.log.Debug().Err(err).Stringer("handle", t.Handle).Msg("delivery dropped")
	}
}
