package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/vovakirdan/chatline-server/internal/auth"
	"github.com/vovakirdan/chatline-server/internal/store"
	"github.com/vovakirdan/chatline-server/internal/store/memory"
)

func benchmarkBroadcast(b *testing.B, recipients int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := memory.New()
	if err := st.CreateIdentity(ctx, &store.Identity{Name: "Sender", Email: "sender@x.com"}); err != nil {
		b.Fatal(err)
	}
	hub := NewHub(st, st, auth.NewService(st, &auth.JWTConfig{Secret: []byte("bench")}))
	go hub.Run(ctx)

	sender := NewSession("sender", 0)
	_ = hub.RegisterClient(sender)

	sessions := make([]*Session, 0, recipients)
	for i := range recipients {
		s := NewSession(fmt.Sprintf("c%d", i), 0)
		_ = hub.RegisterClient(s)
		sessions = append(sessions, s)
	}

	// Drain events for all but the first recipient to avoid queue backpressure.
	target := sessions[0]
	for _, s := range sessions[1:] {
		go func(sess *Session) {
			for range sess.Events() {
			}
		}(s)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sender.Commands <- &Command{
			Kind:  CommandSendMessage,
			Email: "sender@x.com",
			Text:  "payload",
			Time:  "1:00 PM",
		}
		<-target.Events()
	}
}

func BenchmarkBroadcast_10(b *testing.B)  { benchmarkBroadcast(b, 10) }
func BenchmarkBroadcast_100(b *testing.B) { benchmarkBroadcast(b, 100) }
func BenchmarkBroadcast_500(b *testing.B) { benchmarkBroadcast(b, 500) }
