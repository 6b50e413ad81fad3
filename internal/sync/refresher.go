// Package sync keeps an inbox snapshot fresh in the background. A
// Refresher periodically re-reads the settings document and the inbox
// page, runs the filter pipeline over the result, and publishes the
// outcome on a channel consumers range over.
package sync

import (
	"context"
	gosync "sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mchen04/penguin-mail/internal/filter"
	"github.com/mchen04/penguin-mail/internal/model"
	"github.com/mchen04/penguin-mail/internal/repository"
)

// fetchTimeout bounds a single refresh round trip.
const fetchTimeout = 30 * time.Second

// Snapshot is one refresh outcome. Emails holds the filtered view of
// the watched folder; on failure Err is set and Emails is empty.
type Snapshot struct {
	Emails      []model.Email
	UnreadCount int
	FetchedAt   time.Time
	Err         error
}

// Refresher polls the repositories on an interval and publishes
// filtered snapshots. It is safe to Start and Stop from any goroutine.
type Refresher struct {
	repos     repository.Set
	log       *logrus.Logger
	folder    string
	accountID string
	pageSize  int
	interval  time.Duration

	snapshotCh chan Snapshot
	triggerCh  chan struct{}
	stopCh     chan struct{}
	mu         gosync.Mutex
	running    bool
}

// NewRefresher watches one folder for one account (accountID may be
// empty for all accounts).
func NewRefresher(repos repository.Set, log *logrus.Logger, folder, accountID string, pageSize int, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Refresher{
		repos:      repos,
		log:        log,
		folder:     folder,
		accountID:  accountID,
		pageSize:   pageSize,
		interval:   interval,
		snapshotCh: make(chan Snapshot, 16),
		triggerCh:  make(chan struct{}, 16),
		stopCh:     make(chan struct{}),
	}
}

// Snapshots is the channel refresh outcomes arrive on.
func (r *Refresher) Snapshots() <-chan Snapshot {
	return r.snapshotCh
}

// Start launches the polling goroutine. Calling Start on a running
// refresher is a no-op.
func (r *Refresher) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.loop()
}

// Stop halts the polling goroutine. The refresher cannot be restarted.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	close(r.stopCh)
	r.running = false
}

// Trigger requests an immediate refresh. If one is already queued the
// request is dropped rather than blocking the caller.
func (r *Refresher) Trigger() {
	select {
	case r.triggerCh <- struct{}{}:
	default:
	}
}

func (r *Refresher) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Initial fetch immediately so consumers don't wait a full
	// interval for the first snapshot.
	r.refresh()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.refresh()
		case <-r.triggerCh:
			r.refresh()
		}
	}
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	started := time.Now()

	settings, err := r.repos.Settings.Get(ctx)
	if err != nil {
		r.log.WithError(err).Warn("refresh: loading settings failed")
		r.publish(Snapshot{Err: err, FetchedAt: started})
		return
	}

	page, err := r.repos.Emails.ListByFolder(ctx, r.folder, r.accountID, model.PageRequest{
		Page:     1,
		PageSize: r.pageSize,
	})
	if err != nil {
		r.log.WithError(err).Warn("refresh: listing folder failed")
		r.publish(Snapshot{Err: err, FetchedAt: started})
		return
	}

	emails := filter.Apply(page.Data, settings.Filters, settings.BlockedAddresses)

	unread := 0
	for _, e := range emails {
		if !e.IsRead {
			unread++
		}
	}

	r.log.WithFields(logrus.Fields{
		"folder":   r.folder,
		"fetched":  len(page.Data),
		"visible":  len(emails),
		"unread":   unread,
		"duration": time.Since(started),
	}).Debug("refresh complete")

	r.publish(Snapshot{
		Emails:      emails,
		UnreadCount: unread,
		FetchedAt:   started,
	})
}

// publish drops the snapshot if no consumer is keeping up; a stale
// snapshot has no value once a fresher one exists.
func (r *Refresher) publish(s Snapshot) {
	select {
	case r.snapshotCh <- s:
	default:
	}
}
