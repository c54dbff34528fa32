package session

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-relay/internal/core"
	"github.com/vovakirdan/wirechat-relay/internal/proto"
	"github.com/vovakirdan/wirechat-relay/internal/store"
)

// Dispatcher interprets the units received on one connection.
// It is not safe for concurrent use; each session owns one.
type Dispatcher struct {
	reg   *core.Registry
	bc    *core.Broadcaster
	store store.Store
	log   *zerolog.Logger

	handle core.Handle
	out    core.Sender
	info   store.Session
}

// NewDispatcher builds the dispatcher for a registered handle. Replies are
// written to out.
func NewDispatcher(reg *core.Registry, bc *core.Broadcaster, st store.Store, logger *zerolog.Logger, h core.Handle, out core.Sender, info store.Session) *Dispatcher {
	if st == nil {
		st = store.Nop{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Dispatcher{
		reg:    reg,
		bc:     bc,
		store:  st,
		log:    logger,
		handle: h,
		out:    out,
		info:   info,
	}
}

// Dispatch handles one unit. It returns true when the client asked to quit.
func (d *Dispatcher) Dispatch(ctx context.Context, unit []byte) (quit bool) {
	cmd := proto.Parse(unit)

	switch cmd.Name {
	case proto.CmdNick:
		d.nick(cmd)
	case proto.CmdList:
		d.list()
	case proto.CmdCreate:
		d.create(ctx, cmd)
	case proto.CmdJoin:
		d.join(cmd)
	case proto.CmdWhisper:
		d.whisper(cmd)
	case proto.CmdExit:
		d.exit()
	case proto.CmdQuit:
		return true
	default:
		d.chat(cmd)
	}
	return false
}

func (d *Dispatcher) nick(cmd proto.Command) {
	err := d.reg.SetNickname(d.handle, cmd.Arg())
	switch {
	case err == nil:
		d.reply(proto.ReplyNicknameSet)
	case errors.Is(err, core.ErrNameTaken):
		d.reply(proto.ReplyNicknameInUse)
	case errors.Is(err, core.ErrInvalidName):
		d.reply(proto.ReplyInvalidNickname)
	default:
		d.log.Warn().Err(err).Msg("set nickname")
	}
}

func (d *Dispatcher) list() {
	rooms := d.reg.ListRooms()
	lines := make([]proto.RoomLine, 0, len(rooms))
	for _, r := range rooms {
		lines = append(lines, proto.RoomLine{
			ID:       r.ID,
			Name:     r.Name,
			Members:  r.Members,
			Capacity: r.Capacity,
		})
	}
	d.send(proto.RoomList(lines))
}

func (d *Dispatcher) create(ctx context.Context, cmd proto.Command) {
	name := cmd.Arg()
	id, err := d.reg.CreateRoom(name)
	if err != nil {
		d.reply(proto.ReplyMaxRoomsReached)
		return
	}
	d.reply(proto.ReplyRoomCreated)

	d.log.Info().Int("room_id", id).Str("room_name", name).Msg("room created")
	if err := d.store.RecordRoomCreated(ctx, d.info, id, name); err != nil {
		d.log.Warn().Err(err).Msg("audit room created")
	}
}

func (d *Dispatcher) join(cmd proto.Command) {
	id, err := cmd.Int()
	if err != nil {
		d.reply(proto.ReplyJoinUsage)
		return
	}

	d.log.Debug().Int("room_id", id).Msg("join attempt")

	prev, hadPrev, err := d.reg.Join(d.handle, id)
	switch {
	case errors.Is(err, core.ErrNoSuchRoom):
		d.reply(proto.ReplyNoSuchRoom)
		return
	case errors.Is(err, core.ErrRoomFull):
		d.reply(proto.ReplyRoomFull)
		return
	case err != nil:
		d.log.Warn().Err(err).Msg("join room")
		return
	}
	d.reply(proto.ReplyJoinedRoom)

	// Notices go out only after the move has committed.
	nick, named := d.reg.Nickname(d.handle)
	if hadPrev {
		d.bc.Broadcast(prev, proto.LeftRoom(nick, prev), d.handle)
	}
	if named {
		d.bc.Broadcast(id, proto.JoinedRoom(nick, id), d.handle)
	}
}

// whisper drops the message silently when the target is unknown.
func (d *Dispatcher) whisper(cmd proto.Command) {
	target, text := cmd.Whisper()
	from, _ := d.reg.Nickname(d.handle)
	d.bc.Whisper(target, proto.Whisper(from, text))
}

// exit does not notify the room.
func (d *Dispatcher) exit() {
	if _, had := d.reg.Leave(d.handle); had {
		d.reply(proto.ReplyLeftRoom)
	}
}

// chat relays the raw unit when the client has a nickname and a room.
// Anything else is dropped without a reply.
func (d *Dispatcher) chat(cmd proto.Command) {
	nick, named := d.reg.Nickname(d.handle)
	if !named {
		return
	}
	room, inRoom := d.reg.RoomOf(d.handle)
	if !inRoom {
		return
	}
	d.bc.Broadcast(room, proto.Chat(nick, cmd.Raw), d.handle)
}

func (d *Dispatcher) reply(text string) {
	d.send([]byte(text))
}

func (d *Dispatcher) send(p []byte) {
	if err := d.out.Send(p); err != nil {
		d.log.Debug().Err(err).Msg("reply dropped")
	}
}
