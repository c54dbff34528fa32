package core

import (
	"sync"
	"sync/atomic"
)

// Default limits used when a Registry is built with zero values.
const (
	DefaultMaxRooms     = 10
	DefaultRoomCapacity = 40
)

// Limits bounds the registry's room list and room membership.
type Limits struct {
	MaxRooms     int
	RoomCapacity int
}

func (l Limits) withDefaults() Limits {
	if l.MaxRooms <= 0 {
		l.MaxRooms = DefaultMaxRooms
	}
	if l.RoomCapacity <= 0 {
		l.RoomCapacity = DefaultRoomCapacity
	}
	return l
}

// RoomInfo is a point-in-time view of one room.
type RoomInfo struct {
	ID       int
	Name     string
	Members  int
	Capacity int
}

// Recipient pairs a member handle with its outbound transport.
type Recipient struct {
	Handle Handle
	Out    Sender
}

// Stats summarizes registry occupancy.
type Stats struct {
	Clients      int
	NamedClients int
	Rooms        int
	MaxRooms     int
	RoomCapacity int
}

// Registry owns every client and room of the process.
// All methods are safe for concurrent use; each one runs as a single
// critical section, so checks and the writes they guard never interleave
// with another caller. No method performs network I/O.
type Registry struct {
	mu      sync.Mutex
	limits  Limits
	clients map[Handle]*client
	names   map[string]Handle
	rooms   []*Room

	lastHandle atomic.Uint64
}

// NewRegistry creates an empty registry. Zero limits fall back to defaults.
func NewRegistry(limits Limits) *Registry {
	return &Registry{
		limits:  limits.withDefaults(),
		clients: make(map[Handle]*client),
		names:   make(map[string]Handle),
	}
}

// Limits returns the effective limits.
func (r *Registry) Limits() Limits {
	return r.limits
}

// Register inserts a new client with no nickname and no room.
func (r *Registry) Register(out Sender, remote string) Handle {
	h := Handle(r.lastHandle.Add(1))

	r.mu.Lock()
	r.clients[h] = newClient(h, out, remote)
	r.mu.Unlock()

	return h
}

// Remove deletes the client, leaving its room first.
// It returns the room the client was in, if any. Removing an unknown
// handle is a no-op.
func (r *Registry) Remove(h Handle) (prevRoom int, hadRoom bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[h]
	if !ok {
		return -1, false
	}
	prevRoom, hadRoom = r.leaveLocked(c)
	if c.nickname != "" {
		delete(r.names, c.nickname)
	}
	delete(r.clients, h)
	return prevRoom, hadRoom
}

// SetNickname assigns name to the client, replacing any previous nickname.
func (r *Registry) SetNickname(h Handle, name string) error {
	if name == "" {
		return coreError(ErrCodeInvalidName, ErrInvalidName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[h]
	if !ok {
		return coreError(ErrCodeUnknownClient, ErrUnknownClient)
	}
	if owner, taken := r.names[name]; taken && owner != h {
		return coreError(ErrCodeNameTaken, ErrNameTaken)
	}
	if c.nickname != "" {
		delete(r.names, c.nickname)
	}
	c.nickname = name
	r.names[name] = h
	return nil
}

// CreateRoom appends a new empty room and returns its index.
func (r *Registry) CreateRoom(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.rooms) >= r.limits.MaxRooms {
		return -1, coreError(ErrCodeRoomLimit, ErrRoomLimit)
	}
	r.rooms = append(r.rooms, NewRoom(name))
	return len(r.rooms) - 1, nil
}

// ListRooms returns a consistent snapshot of every room in index order.
func (r *Registry) ListRooms() []RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RoomInfo, 0, len(r.rooms))
	for i, room := range r.rooms {
		out = append(out, RoomInfo{
			ID:       i,
			Name:     room.Name,
			Members:  room.Len(),
			Capacity: r.limits.RoomCapacity,
		})
	}
	return out
}

// Join moves the client into room id. On success it returns the room the
// client left, if any. On failure neither the current nor the target room
// is modified.
func (r *Registry) Join(h Handle, id int) (prevRoom int, hadRoom bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[h]
	if !ok {
		return -1, false, coreError(ErrCodeUnknownClient, ErrUnknownClient)
	}
	if id < 0 || id >= len(r.rooms) {
		return -1, false, coreError(ErrCodeNoSuchRoom, ErrNoSuchRoom)
	}
	target := r.rooms[id]
	if target.Len() >= r.limits.RoomCapacity {
		return -1, false, coreError(ErrCodeRoomFull, ErrRoomFull)
	}

	prevRoom, hadRoom = r.leaveLocked(c)
	target.AddMember(h)
	c.room = id
	return prevRoom, hadRoom, nil
}

// Leave removes the client from its current room. Not being in a room is
// not an error.
func (r *Registry) Leave(h Handle) (prevRoom int, hadRoom bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[h]
	if !ok {
		return -1, false
	}
	return r.leaveLocked(c)
}

func (r *Registry) leaveLocked(c *client) (int, bool) {
	if !c.inRoom() {
		return -1, false
	}
	prev := c.room
	r.rooms[prev].RemoveMember(c.handle)
	c.room = -1
	return prev, true
}

// Lookup finds the handle currently holding nickname name.
func (r *Registry) Lookup(name string) (Handle, bool) {
	if name == "" {
		return NoHandle, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.names[name]
	return h, ok
}

// WhisperTarget resolves nickname name to its holder's outbound transport
// in one critical section, so the result belongs to whoever held the name
// at that instant.
func (r *Registry) WhisperTarget(name string) (Recipient, bool) {
	if name == "" {
		return Recipient{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.names[name]
	if !ok {
		return Recipient{}, false
	}
	c, ok := r.clients[h]
	if !ok {
		return Recipient{}, false
	}
	return Recipient{Handle: h, Out: c.out}, true
}

// Nickname returns the client's nickname if one is set.
func (r *Registry) Nickname(h Handle) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[h]
	if !ok || c.nickname == "" {
		return "", false
	}
	return c.nickname, true
}

// RoomOf returns the client's current room if it is in one.
func (r *Registry) RoomOf(h Handle) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[h]
	if !ok || !c.inRoom() {
		return -1, false
	}
	return c.room, true
}

// Members returns the handles in room id, in no particular order.
func (r *Registry) Members(id int) []Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id < 0 || id >= len(r.rooms) {
		return nil
	}
	out := make([]Handle, 0, r.rooms[id].Len())
	for h := range r.rooms[id].members {
		out = append(out, h)
	}
	return out
}

// Recipients snapshots the outbound transports of room id's members,
// leaving out exclude.
func (r *Registry) Recipients(id int, exclude Handle) []Recipient {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id < 0 || id >= len(r.rooms) {
		return nil
	}
	room := r.rooms[id]
	out := make([]Recipient, 0, room.Len())
	for h := range room.members {
		if h == exclude {
			continue
		}
		if c, ok := r.clients[h]; ok {
			out = append(out, Recipient{Handle: h, Out: c.out})
		}
	}
	return out
}

// Stats reports current occupancy.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Stats{
		Clients:      len(r.clients),
		NamedClients: len(r.names),
		Rooms:        len(r.rooms),
		MaxRooms:     r.limits.MaxRooms,
		RoomCapacity: r.limits.RoomCapacity,
	}
}
