package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bookhivelabs/bookhive/internal/notification/entity"
	"github.com/bookhivelabs/bookhive/internal/pkg/valueobject"
)

// StreamEvent represents a notification update sent over SSE.
type StreamEvent struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	Type      string              `json:"type"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Data      valueobject.JSONMap `json:"data"`
	CreatedAt time.Time           `json:"created_at"`
}

type subscriber struct {
	ch     chan StreamEvent
	closed atomic.Bool
}

// StreamNotifications registers a stream for a user and closes it when ctx is done.
func (s *Usecase) StreamNotifications(ctx context.Context, userID int64) <-chan StreamEvent {
	sub := &subscriber{ch: make(chan StreamEvent, 10)}

	s.streamMu.Lock()
	if s.streams[userID] == nil {
		s.streams[userID] = make(map[*subscriber]struct{})
	}
	s.streams[userID][sub] = struct{}{}
	s.streamMu.Unlock()

	go func() {
		<-ctx.Done()
		s.streamMu.Lock()
		sub.closed.Store(true)
		if subs := s.streams[userID]; subs != nil {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(s.streams, userID)
			}
		}
		s.streamMu.Unlock()
		close(sub.ch)
	}()

	return sub.ch
}

// Notify pushes a notification to the user's live streams. Slow subscribers
// are skipped rather than blocking delivery.
func (s *Usecase) Notify(userID int64, n *entity.Notification) {
	evt := StreamEvent{
		ID:        n.ID,
		UserID:    userID,
		Type:      n.Type.String(),
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		CreatedAt: s.clock.Now(),
	}

	// The read lock is held across the sends so a subscriber cannot be
	// closed between the flag check and the channel write.
	s.streamMu.RLock()
	defer s.streamMu.RUnlock()

	for sub := range s.streams[userID] {
		if sub.closed.Load() {
			continue
		}

		select {
		case sub.ch <- evt:
		default:
		}
	}
}
