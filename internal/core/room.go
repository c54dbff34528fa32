package core

// Room groups clients that receive each other's messages.
type Room struct {
	Name    string
	members map[Handle]struct{}
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		members: make(map[Handle]struct{}),
	}
}

// AddMember inserts a handle into the room. Returns true if newly added.
func (r *Room) AddMember(h Handle) bool {
	if _, exists := r.members[h]; exists {
		return false
	}
	r.members[h] = struct{}{}
	return true
}

// RemoveMember deletes a handle from the room. Returns true if removed.
func (r *Room) RemoveMember(h Handle) bool {
	if _, exists := r.members[h]; !exists {
		return false
	}
	delete(r.members, h)
	return true
}

// Has reports whether h is a member.
func (r *Room) Has(h Handle) bool {
	_, ok := r.members[h]
	return ok
}

// Len returns the number of members.
func (r *Room) Len() int {
	return len(r.members)
}

// Empty returns true if no clients are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}
