package core

import "testing"

type discardSender struct{}

func (discardSender) Send([]byte) error { return nil }

func benchmarkRoomBroadcast(b *testing.B, recipients int) {
	reg := NewRegistry(Limits{RoomCapacity: recipients + 1})
	bc := NewBroadcaster(reg, nil)
	_, _ = reg.CreateRoom("bench")

	sender := reg.Register(discardSender{}, "")
	_, _, _ = reg.Join(sender, 0)
	for range recipients {
		h := reg.Register(discardSender{}, "")
		_, _, _ = reg.Join(h, 0)
	}

	payload := []byte("sender: payload\n")

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		bc.Broadcast(0, payload, sender)
	}
}

func BenchmarkRoomBroadcast_10(b *testing.B)  { benchmarkRoomBroadcast(b, 10) }
func BenchmarkRoomBroadcast_40(b *testing.B)  { benchmarkRoomBroadcast(b, 40) }
func BenchmarkRoomBroadcast_500(b *testing.B) { benchmarkRoomBroadcast(b, 500) }
