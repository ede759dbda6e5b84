package app

import (
	"sync"

	"challenge-session-service/internal/domain"
)

// replayCap bounds how many past events a session retains for reconnecting
// subscribers. Anything older forces a full hydrate.
const replayCap = 50

// broadcaster fans one session's events out to every subscriber. It holds
// no authoritative session state, only the sequence counter and a short
// replay buffer for reconnection backfill.
type broadcaster struct {
	sessionID string

	mu     sync.Mutex
	seq    uint64
	replay []domain.Event
	subs   map[chan domain.Event]struct{}
}

func newBroadcaster(sessionID string) *broadcaster {
	return &broadcaster{
		sessionID: sessionID,
		subs:      make(map[chan domain.Event]struct{}),
	}
}

// publish assigns the next sequence number, appends to the replay buffer,
// and delivers to every subscriber. Delivery to each subscriber preserves
// publish order; a slow subscriber has its oldest buffered event dropped
// rather than blocking the rest, and detects the gap via the sequence.
func (b *broadcaster) publish(eventType domain.EventType, payload any) domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	ev := domain.Event{
		SessionID: b.sessionID,
		Seq:       b.seq,
		Type:      eventType,
		Payload:   payload,
	}

	b.replay = append(b.replay, ev)
	if len(b.replay) > replayCap {
		b.replay = b.replay[len(b.replay)-replayCap:]
	}

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
	return ev
}

// subscribe returns a live event channel. When fromSeq is provided and the
// replay buffer still covers it, the missed events are backfilled in order
// before live delivery. When the buffer no longer reaches back that far the
// subscriber gets ErrStaleSequence and must request a full hydrate.
func (b *broadcaster) subscribe(fromSeq *uint64) (<-chan domain.Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.Event, replayCap+16)

	if fromSeq != nil {
		if len(b.replay) > 0 && b.replay[0].Seq > *fromSeq+1 {
			return nil, nil, domain.ErrStaleSequence
		}
		for _, ev := range b.replay {
			if ev.Seq > *fromSeq {
				ch <- ev
			}
		}
	}

	b.subs[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// lastSeq reports the most recently assigned sequence number.
func (b *broadcaster) lastSeq() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}
