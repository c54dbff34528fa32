// Package proto holds the relay's line-oriented wire contract: the exact
// reply texts, the command tokenizer and the newline framing reader.
package proto

import (
	"strconv"
	"strings"
)

// Server replies. Every reply is one newline-terminated unit.
const (
	Prompt = "Enter /nick <name> to set nickname\n"

	ReplyNicknameSet     = "Nickname set\n"
	ReplyInvalidNickname = "Invalid nickname\n"
	ReplyNicknameInUse   = "Nickname in use\n"

	ReplyRoomCreated     = "Room created\n"
	ReplyMaxRoomsReached = "Max rooms reached\n"

	ReplyJoinUsage  = "Usage: /join <room_id>\n"
	ReplyNoSuchRoom = "No such room\n"
	ReplyRoomFull   = "Room full\n"
	ReplyJoinedRoom = "Joined room\n"

	ReplyLeftRoom = "Left room\n"

	roomsHeader = "Rooms:\n"
)

// RoomLine is one entry of a room listing.
type RoomLine struct {
	ID       int
	Name     string
	Members  int
	Capacity int
}

// RoomList renders the /list reply as a single unit.
func RoomList(rooms []RoomLine) []byte {
	var b strings.Builder
	b.WriteString(roomsHeader)
	for _, r := range rooms {
		b.WriteString(strconv.Itoa(r.ID))
		b.WriteString(". ")
		b.WriteString(r.Name)
		b.WriteString(" (")
		b.WriteString(strconv.Itoa(r.Members))
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(r.Capacity))
		b.WriteString(")\n")
	}
	return []byte(b.String())
}

// LeftRoom is the notice sent to a room a client moved away from.
func LeftRoom(nick string, room int) []byte {
	return []byte(nick + " left room " + strconv.Itoa(room) + "\n")
}

// JoinedRoom is the notice sent to a room a client moved into.
func JoinedRoom(nick string, room int) []byte {
	return []byte(nick + " joined room " + strconv.Itoa(room) + "\n")
}

// Whisper tags text for private delivery. text is relayed verbatim,
// including any leading space.
func Whisper(from, text string) []byte {
	return []byte("(whisper) " + from + ":" + text + "\n")
}

// Chat tags a raw received unit with its sender. raw keeps its own line
// terminator.
func Chat(nick string, raw []byte) []byte {
	out := make([]byte, 0, len(nick)+2+len(raw))
	out = append(out, nick...)
	out = append(out, ": "...)
	return append(out, raw...)
}
