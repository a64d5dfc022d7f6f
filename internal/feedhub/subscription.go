package feedhub

import (
	"campusdesk/backend/internal/models"
	"sync"
)

// Subscription is the caller-owned handle of a live complaint stream.
type Subscription struct {
	filter models.ComplaintFilter
	ch     chan Snapshot
	seq    uint64
	m      *Manager

	once   sync.Once
	closed chan struct{}
}

// C delivers snapshots; it is closed when the subscription ends.
// Only the latest undelivered snapshot is kept, so a slow reader skips intermediate states.
func (s *Subscription) C() <-chan Snapshot { return s.ch }

func (s *Subscription) Filter() models.ComplaintFilter { return s.filter }

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.closed)
		select {
		case s.m.unregisterCh <- s:
		case <-s.m.done:
		}
	})
}

// deliver is only called from the manager goroutine.
func (s *Subscription) deliver(snap Snapshot) {
	s.seq++
	snap.Seq = s.seq

	select {
	case s.ch <- snap:
		return
	default:
	}
	// Replace the stale snapshot nobody has read yet.
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- snap:
	default:
	}
}
