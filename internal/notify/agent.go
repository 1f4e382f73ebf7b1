package notify

import (
	"context"
	"sync"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

// API is the slice of the portal client the agent depends on.
// *portal.Client satisfies it.
type API interface {
	Notifications(ctx context.Context, limit int) ([]model.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) (int, error)
}

// BadgeState is the unread badge shown in the header. Known distinguishes a
// confirmed count (including zero) from an unknown one after a failed
// fetch: hidden means "unknown", not "no notifications".
type BadgeState struct {
	Known bool
	Count int
}

// Snapshot is a point-in-time copy of the agent's cache for rendering.
// PageUnread counts unread entries in the fetched page only, which can be
// lower than the true total when the page limit truncates the list.
type Snapshot struct {
	Notifications []model.Notification
	PageUnread    int
	Err           error
}

// Agent keeps a transient read-through cache of the user's notifications
// synchronized against the backend, which is the sole authority over
// read/delete state. Writes are never applied locally first: every mutation
// goes to the backend and the cache is rebuilt by a fresh fetch, so a
// failed write can never leave the cache diverged.
type Agent struct {
	api   API
	limit int

	mu      sync.Mutex
	cache   []model.Notification
	unread  int
	lastErr error
	badge   BadgeState

	// Monotonic refresh sequencing. Responses that complete out of order
	// are discarded rather than clobbering a newer page.
	issuedSeq  uint64
	appliedSeq uint64

	poll pollState
}

// NewAgent creates an agent that fetches pages of up to limit notifications.
func NewAgent(api API, limit int) *Agent {
	return &Agent{api: api, limit: limit}
}

// Refresh fetches the newest page of notifications and replaces the cache
// wholesale, keeping the backend's newest-first ordering. On failure the
// cache degrades to an empty placeholder with the error recorded, and the
// badge becomes unknown; the error is also returned for status reporting.
//
// A response belonging to an older request than the newest already applied
// is discarded, so rapid repeated refreshes settle on the latest state.
func (a *Agent) Refresh(ctx context.Context) error {
	a.mu.Lock()
	a.issuedSeq++
	seq := a.issuedSeq
	a.mu.Unlock()

	notifications, err := a.api.Notifications(ctx, a.limit)

	a.mu.Lock()
	defer a.mu.Unlock()

	if seq < a.appliedSeq {
		// A newer refresh already completed; drop this response.
		return nil
	}
	a.appliedSeq = seq

	if err != nil {
		a.cache = nil
		a.unread = 0
		a.lastErr = err
		a.badge = BadgeState{}
		return err
	}

	unread := 0
	for _, n := range notifications {
		if n.IsUnread() {
			unread++
		}
	}

	a.cache = notifications
	a.unread = unread
	a.lastErr = nil
	return nil
}

// Snapshot returns a copy of the current cache state.
func (a *Agent) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	notifications := make([]model.Notification, len(a.cache))
	copy(notifications, a.cache)

	return Snapshot{
		Notifications: notifications,
		PageUnread:    a.unread,
		Err:           a.lastErr,
	}
}

// MarkRead marks one notification read on the backend, then resynchronizes
// by refetching. It returns the notification's navigation link when one is
// present and usable; the link is only surfaced after the backend confirmed
// the read-mark. On failure the cache and badge are left untouched.
func (a *Agent) MarkRead(ctx context.Context, id string) (string, bool, error) {
	a.mu.Lock()
	var link string
	var hasLink bool
	for _, n := range a.cache {
		if n.ID == id {
			link, hasLink = n.NavLink()
			break
		}
	}
	a.mu.Unlock()

	if err := a.api.MarkNotificationRead(ctx, id); err != nil {
		return "", false, err
	}

	a.resync(ctx)
	return link, hasLink, nil
}

// Delete removes one notification on the backend, then resynchronizes. The
// notification does not need to be unread.
func (a *Agent) Delete(ctx context.Context, id string) error {
	if err := a.api.DeleteNotification(ctx, id); err != nil {
		return err
	}

	a.resync(ctx)
	return nil
}

// MarkAllRead marks every unread notification read in a single backend call
// and returns the backend-reported number of affected notifications.
func (a *Agent) MarkAllRead(ctx context.Context) (int, error) {
	count, err := a.api.MarkAllNotificationsRead(ctx)
	if err != nil {
		return 0, err
	}

	a.resync(ctx)
	return count, nil
}

// resync refetches the page and the badge after a confirmed write, and
// publishes the fresh badge so the header does not wait out the poll
// interval with a stale count.
func (a *Agent) resync(ctx context.Context) {
	_ = a.Refresh(ctx)
	a.publishBadge(a.RefreshBadge(ctx))
}

// RefreshBadge fetches the true unread total from the dedicated aggregate
// endpoint. This is the badge's single source of truth; the page-local
// count from Refresh is only used inside the notification center. On
// failure the badge becomes unknown (hidden) rather than zero.
func (a *Agent) RefreshBadge(ctx context.Context) BadgeState {
	count, err := a.api.UnreadCount(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.badge = BadgeState{}
	} else {
		a.badge = BadgeState{Known: true, Count: count}
	}
	return a.badge
}

// Badge returns the current badge state.
func (a *Agent) Badge() BadgeState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.badge
}
