package http

import (
	"time"

	"github.com/vovakirdan/wirechat-relay/internal/core"
	"github.com/vovakirdan/wirechat-relay/internal/store"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Members  int    `json:"members"`
	Capacity int    `json:"capacity"`
}

// StatsResponse reports registry occupancy.
type StatsResponse struct {
	Clients      int `json:"clients"`
	NamedClients int `json:"named_clients"`
	Rooms        int `json:"rooms"`
	MaxRooms     int `json:"max_rooms"`
	RoomCapacity int `json:"room_capacity"`
}

// EventResponse represents an audit record in API responses.
type EventResponse struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	SessionID string `json:"session_id"`
	Handle    uint64 `json:"handle"`
	Remote    string `json:"remote,omitempty"`
	RoomID    *int64 `json:"room_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toRoomResponses(rooms []core.RoomInfo) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomResponse{
			ID:       r.ID,
			Name:     r.Name,
			Members:  r.Members,
			Capacity: r.Capacity,
		})
	}
	return out
}

func toStatsResponse(s core.Stats) StatsResponse {
	return StatsResponse{
		Clients:      s.Clients,
		NamedClients: s.NamedClients,
		Rooms:        s.Rooms,
		MaxRooms:     s.MaxRooms,
		RoomCapacity: s.RoomCapacity,
	}
}

func toEventResponses(events []*store.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, EventResponse{
			ID:        ev.ID,
			Kind:      string(ev.Kind),
			SessionID: ev.SessionID,
			Handle:    ev.Handle,
			Remote:    ev.Remote,
			RoomID:    ev.RoomID,
			Detail:    ev.Detail,
			CreatedAt: ev.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
