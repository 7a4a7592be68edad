package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"quizroom/game"
)

const eventsChannel = "quizroom:events"

// Envelope carries a session event between server instances.
type Envelope struct {
	Origin      string `json:"origin"`
	SessionCode string `json:"session_code"`
	Event       string `json:"event"`
	Payload     any    `json:"payload"`
}

// Bridge fans game events out to the local hub and, through redis pub/sub,
// to the hubs of every other instance, so participants of one session see
// the same stream no matter which server holds their connection.
type Bridge struct {
	rdb    *redis.Client
	local  game.Notifier
	origin string
}

func NewBridge(rdb *redis.Client, local game.Notifier) *Bridge {
	return &Bridge{
		rdb:    rdb,
		local:  local,
		origin: uuid.NewString(),
	}
}

// Broadcast implements game.Notifier. The local fan-out is immediate; the
// redis publish happens off the caller's goroutine so a slow or down redis
// never delays the state change that produced the event.
func (b *Bridge) Broadcast(sessionCode string, event string, payload any) {
	b.local.Broadcast(sessionCode, event, payload)

	data, err := json.Marshal(Envelope{
		Origin:      b.origin,
		SessionCode: sessionCode,
		Event:       event,
		Payload:     payload,
	})
	if err != nil {
		log.Printf("marshal %s envelope: %v", event, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.rdb.Publish(ctx, eventsChannel, data).Err(); err != nil {
			log.Printf("publish %s event: %v", event, err)
		}
	}()
}

// Run relays events published by other instances into the local hub until
// the context is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, eventsChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("malformed envelope: %v", err)
				continue
			}
			if env.Origin == b.origin {
				continue
			}
			b.local.Broadcast(env.SessionCode, env.Event, env.Payload)
		}
	}
}
