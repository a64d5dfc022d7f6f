// Package feedhub keeps complaint observers in sync with the store.
// A single manager goroutine owns every subscription; each committed change triggers a fresh
// snapshot for the subscriptions it can affect.
package feedhub

import (
	"campusdesk/backend/internal/config"
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"
	"context"
	"errors"
	"log"
	"sync"
)

// ErrClosed is returned by Observe once the manager has stopped.
var ErrClosed = errors.New("feedhub: manager stopped")

// Snapshot is the full result set of a subscription at one point in time.
type Snapshot struct {
	// Seq increases with every delivery on the same subscription.
	Seq        uint64             `json:"seq"`
	Complaints []models.Complaint `json:"complaints"`
	// Err is set when the store could not be read; Complaints is then empty.
	Err error `json:"-"`
}

type Manager struct {
	Storage storage.Storage
	// Limit caps the number of complaints in one snapshot.
	Limit int

	subs         map[*Subscription]struct{}
	registerCh   chan *Subscription
	unregisterCh chan *Subscription
	done         chan struct{}
	runOnce      sync.Once
}

func NewManager(s storage.Storage) *Manager {
	return &Manager{
		Storage:      s,
		Limit:        config.SnapshotLimit,
		subs:         make(map[*Subscription]struct{}),
		registerCh:   make(chan *Subscription),
		unregisterCh: make(chan *Subscription),
		done:         make(chan struct{}),
	}
}

// Run processes registrations and store changes until ctx ends.
func (m *Manager) Run(ctx context.Context) error {
	err := errors.New("feedhub: manager already running")
	m.runOnce.Do(func() {
		err = m.run(ctx)
	})
	return err
}

func (m *Manager) run(ctx context.Context) error {
	defer m.shutdown()

	changes, err := m.Storage.SubscribeChanges(ctx)
	if err != nil {
		log.Printf("ERROR: feed hub could not subscribe to changes: %v", err)
		return err
	}
	log.Println("Feed hub started.")

	for {
		select {
		case <-ctx.Done():
			return nil

		case sub := <-m.registerCh:
			m.subs[sub] = struct{}{}
			m.refresh(ctx, sub)

		case sub := <-m.unregisterCh:
			if _, ok := m.subs[sub]; ok {
				delete(m.subs, sub)
				close(sub.ch)
			}

		case ev, ok := <-changes:
			if !ok {
				log.Println("WARN: change feed closed, feed hub stopping")
				return nil
			}
			for sub := range m.subs {
				if sub.filter.Touches(ev) {
					m.refresh(ctx, sub)
				}
			}
		}
	}
}

// Observe registers a subscription for complaints matching filter. The first snapshot is
// delivered immediately. The subscription ends when Close is called or ctx ends.
func (m *Manager) Observe(ctx context.Context, filter models.ComplaintFilter) (*Subscription, error) {
	sub := &Subscription{
		filter: filter,
		ch:     make(chan Snapshot, 1),
		closed: make(chan struct{}),
		m:      m,
	}

	select {
	case m.registerCh <- sub:
	case <-m.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.closed:
		}
	}()
	return sub, nil
}

func (m *Manager) refresh(ctx context.Context, sub *Subscription) {
	list, err := m.Storage.ListComplaints(ctx, sub.filter, m.Limit)
	if err != nil {
		log.Printf("ERROR: feed hub failed to load snapshot: %v", err)
		sub.deliver(Snapshot{Err: err})
		return
	}

	// The store already filters; re-checking keeps a scoped stream from ever carrying
	// somebody else's record.
	matching := make([]models.Complaint, 0, len(list))
	for i := range list {
		if sub.filter.Match(&list[i]) {
			matching = append(matching, list[i])
		}
	}
	sub.deliver(Snapshot{Complaints: matching})
}

func (m *Manager) shutdown() {
	close(m.done)
	for sub := range m.subs {
		delete(m.subs, sub)
		close(sub.ch)
	}
	log.Println("Feed hub stopped.")
}
