package directory

import (
	"context"
	"sync"

	"github.com/hirehub/backend/internal/messaging/domain"
	"github.com/hirehub/backend/internal/observability/metrics"
)

// Conn is a live delivery handle. Send must not block: it reports false when
// the event could not be queued.
type Conn interface {
	Send(event domain.Event) bool
}

// Directory maps each online user to at most one live connection. A newer
// registration for the same user replaces the older one.
type Directory struct {
	mu     sync.RWMutex
	byUser map[string]Conn
	owner  map[Conn]string
}

func New() *Directory {
	return &Directory{
		byUser: make(map[string]Conn),
		owner:  make(map[Conn]string),
	}
}

// Register makes conn the live handle for userID. A superseded handle is left
// open; its own disconnect is ignored by Unregister.
func (d *Directory) Register(userID string, conn Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prevUser, ok := d.owner[conn]; ok && prevUser != userID {
		if d.byUser[prevUser] == conn {
			delete(d.byUser, prevUser)
		}
	}
	if prev, ok := d.byUser[userID]; ok && prev != conn {
		delete(d.owner, prev)
	}

	d.byUser[userID] = conn
	d.owner[conn] = userID
	metrics.DirectoryRegistrations.Set(float64(len(d.byUser)))
}

// Unregister removes conn if it is still the current handle for its user and
// reports whether anything was removed.
func (d *Directory) Unregister(conn Conn) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	userID, ok := d.owner[conn]
	if !ok {
		return false
	}
	delete(d.owner, conn)

	if d.byUser[userID] != conn {
		return false
	}
	delete(d.byUser, userID)
	metrics.DirectoryRegistrations.Set(float64(len(d.byUser)))
	return true
}

// Lookup returns the current handle for userID.
func (d *Directory) Lookup(userID string) (Conn, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	conn, ok := d.byUser[userID]
	return conn, ok
}

// Dispatch hands event to the user's live handle, if any. It never blocks,
// retries or queues; the result only says whether a local handle took it.
func (d *Directory) Dispatch(_ context.Context, userID string, event domain.Event) bool {
	conn, ok := d.Lookup(userID)
	if !ok {
		metrics.DispatchTotal.WithLabelValues(event.Type, "offline").Inc()
		return false
	}

	if !conn.Send(event) {
		metrics.DispatchTotal.WithLabelValues(event.Type, "dropped").Inc()
		return false
	}

	metrics.DispatchTotal.WithLabelValues(event.Type, "delivered").Inc()
	return true
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byUser)
}
