package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

// fakeAPI is an in-memory notification backend. Each call site can be
// failed independently.
type fakeAPI struct {
	mu sync.Mutex

	notifications []model.Notification
	unreadTotal   int

	listErr    error
	countErr   error
	markErr    error
	deleteErr  error
	markAllErr error

	listCalls  int
	countCalls int
}

func (f *fakeAPI) Notifications(_ context.Context, limit int) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	page := f.notifications
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	out := make([]model.Notification, len(page))
	copy(out, page)
	return out, nil
}

func (f *fakeAPI) UnreadCount(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.unreadTotal, nil
}

func (f *fakeAPI) MarkNotificationRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	for i := range f.notifications {
		if f.notifications[i].ID == id && f.notifications[i].IsUnread() {
			f.notifications[i].Status = model.NotificationRead
			f.unreadTotal--
		}
	}
	return nil
}

func (f *fakeAPI) DeleteNotification(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			if f.notifications[i].IsUnread() {
				f.unreadTotal--
			}
			f.notifications = append(f.notifications[:i], f.notifications[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeAPI) MarkAllNotificationsRead(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markAllErr != nil {
		return 0, f.markAllErr
	}
	count := 0
	for i := range f.notifications {
		if f.notifications[i].IsUnread() {
			f.notifications[i].Status = model.NotificationRead
			count++
		}
	}
	f.unreadTotal = 0
	return count, nil
}

func notif(id, status string) model.Notification {
	return model.Notification{
		ID:       id,
		Title:    "notification " + id,
		Priority: model.PriorityNormal,
		Status:   status,
	}
}

func TestRefreshReplacesCacheWholesale(t *testing.T) {
	api := &fakeAPI{
		notifications: []model.Notification{
			notif("n1", model.NotificationUnread),
			notif("n2", model.NotificationRead),
		},
		unreadTotal: 1,
	}
	agent := NewAgent(api, 10)

	require.NoError(t, agent.Refresh(context.Background()))

	snap := agent.Snapshot()
	require.Len(t, snap.Notifications, 2)
	assert.Equal(t, 1, snap.PageUnread)
	assert.NoError(t, snap.Err)

	// The backend list shrank: the stale entry must not linger.
	api.mu.Lock()
	api.notifications = api.notifications[1:]
	api.mu.Unlock()

	require.NoError(t, agent.Refresh(context.Background()))
	snap = agent.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "n2", snap.Notifications[0].ID)
}

func TestRefreshIsIdempotentOnUnchangedBackend(t *testing.T) {
	api := &fakeAPI{
		notifications: []model.Notification{notif("n1", model.NotificationUnread)},
		unreadTotal:   1,
	}
	agent := NewAgent(api, 10)

	require.NoError(t, agent.Refresh(context.Background()))
	first := agent.Snapshot()

	require.NoError(t, agent.Refresh(context.Background()))
	second := agent.Snapshot()

	assert.Equal(t, first.Notifications, second.Notifications)
	assert.Equal(t, first.PageUnread, second.PageUnread)
}

func TestPageUnreadCountsFetchedPageOnly(t *testing.T) {
	api := &fakeAPI{unreadTotal: 12}
	for i := 0; i < 12; i++ {
		api.notifications = append(api.notifications,
			notif(fmt.Sprintf("n%d", i), model.NotificationUnread))
	}
	agent := NewAgent(api, 10)

	require.NoError(t, agent.Refresh(context.Background()))

	snap := agent.Snapshot()
	assert.Len(t, snap.Notifications, 10)
	assert.Equal(t, 10, snap.PageUnread)

	// The badge keeps the true total from the aggregate endpoint.
	badge := agent.RefreshBadge(context.Background())
	assert.True(t, badge.Known)
	assert.Equal(t, 12, badge.Count)
}

func TestRefreshEmptyBackendYieldsEmptyState(t *testing.T) {
	api := &fakeAPI{}
	agent := NewAgent(api, 10)

	require.NoError(t, agent.Refresh(context.Background()))

	snap := agent.Snapshot()
	assert.Empty(t, snap.Notifications)
	assert.Equal(t, 0, snap.PageUnread)
	assert.NoError(t, snap.Err)
}

func TestRefreshFailureDegradesToPlaceholder(t *testing.T) {
	api := &fakeAPI{
		notifications: []model.Notification{notif("n1", model.NotificationUnread)},
		unreadTotal:   1,
	}
	agent := NewAgent(api, 10)
	require.NoError(t, agent.Refresh(context.Background()))

	api.mu.Lock()
	api.listErr = errors.New("connection refused")
	api.mu.Unlock()

	err := agent.Refresh(context.Background())

	require.Error(t, err)
	snap := agent.Snapshot()
	assert.Empty(t, snap.Notifications)
	assert.Error(t, snap.Err)
	// Unknown, not zero.
	assert.False(t, agent.Badge().Known)
}

func TestBadgeUnknownDiffersFromZero(t *testing.T) {
	api := &fakeAPI{}
	agent := NewAgent(api, 10)

	badge := agent.RefreshBadge(context.Background())
	assert.True(t, badge.Known)
	assert.Equal(t, 0, badge.Count)

	api.mu.Lock()
	api.countErr = errors.New("timeout")
	api.mu.Unlock()

	badge = agent.RefreshBadge(context.Background())
	assert.False(t, badge.Known)
}

func TestMarkReadFailureLeavesStateUntouched(t *testing.T) {
	api := &fakeAPI{
		notifications: []model.Notification{notif("n1", model.NotificationUnread)},
		unreadTotal:   1,
	}
	agent := NewAgent(api, 10)
	require.NoError(t, agent.Refresh(context.Background()))
	agent.RefreshBadge(context.Background())

	api.mu.Lock()
	api.markErr = errors.New("backend down")
	api.mu.Unlock()

	_, _, err := agent.MarkRead(context.Background(), "n1")

	require.Error(t, err)
	snap := agent.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.True(t, snap.Notifications[0].IsUnread())
	assert.Equal(t, BadgeState{Known: true, Count: 1}, agent.Badge())
}

func TestMarkReadSurfacesLinkAfterConfirm(t *testing.T) {
	n := notif("n1", model.NotificationUnread)
	n.Link = "/tickets/42"
	api := &fakeAPI{notifications: []model.Notification{n}, unreadTotal: 1}
	agent := NewAgent(api, 10)
	require.NoError(t, agent.Refresh(context.Background()))

	link, hasLink, err := agent.MarkRead(context.Background(), "n1")

	require.NoError(t, err)
	assert.True(t, hasLink)
	assert.Equal(t, "/tickets/42", link)

	snap := agent.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.False(t, snap.Notifications[0].IsUnread())
	assert.Equal(t, BadgeState{Known: true, Count: 0}, agent.Badge())
}

func TestMarkReadIgnoresPlaceholderLink(t *testing.T) {
	n := notif("n1", model.NotificationUnread)
	n.Link = "#"
	api := &fakeAPI{notifications: []model.Notification{n}, unreadTotal: 1}
	agent := NewAgent(api, 10)
	require.NoError(t, agent.Refresh(context.Background()))

	_, hasLink, err := agent.MarkRead(context.Background(), "n1")

	require.NoError(t, err)
	assert.False(t, hasLink)
}

func TestDeleteResyncsCache(t *testing.T) {
	api := &fakeAPI{
		notifications: []model.Notification{
			notif("n1", model.NotificationRead),
			notif("n2", model.NotificationUnread),
		},
		unreadTotal: 1,
	}
	agent := NewAgent(api, 10)
	require.NoError(t, agent.Refresh(context.Background()))

	require.NoError(t, agent.Delete(context.Background(), "n1"))

	snap := agent.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "n2", snap.Notifications[0].ID)
}

func TestMarkAllReadReturnsBackendCount(t *testing.T) {
	api := &fakeAPI{
		notifications: []model.Notification{
			notif("n1", model.NotificationUnread),
			notif("n2", model.NotificationUnread),
			notif("n3", model.NotificationRead),
		},
		unreadTotal: 2,
	}
	agent := NewAgent(api, 10)
	require.NoError(t, agent.Refresh(context.Background()))

	count, err := agent.MarkAllRead(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	snap := agent.Snapshot()
	assert.Equal(t, 0, snap.PageUnread)
	assert.Equal(t, BadgeState{Known: true, Count: 0}, agent.Badge())
}

// blockingAPI lets the test hold a Notifications response open while newer
// requests complete.
type blockingAPI struct {
	fakeAPI
	entered chan struct{}
	release chan struct{}
	block   bool
}

func (b *blockingAPI) Notifications(ctx context.Context, limit int) ([]model.Notification, error) {
	b.mu.Lock()
	shouldBlock := b.block
	b.block = false
	b.mu.Unlock()

	if shouldBlock {
		close(b.entered)
		<-b.release
		return []model.Notification{notif("stale", model.NotificationUnread)}, nil
	}
	return b.fakeAPI.Notifications(ctx, limit)
}

func TestStaleRefreshResponseIsDiscarded(t *testing.T) {
	api := &blockingAPI{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	api.notifications = []model.Notification{notif("fresh", model.NotificationRead)}
	api.block = true
	agent := NewAgent(api, 10)

	done := make(chan error, 1)
	go func() {
		done <- agent.Refresh(context.Background())
	}()

	// Wait until the first refresh has taken its sequence number and is
	// stuck in flight, then let a second refresh complete and win.
	<-api.entered
	require.NoError(t, agent.Refresh(context.Background()))

	close(api.release)
	require.NoError(t, <-done)

	snap := agent.Snapshot()
	require.Len(t, snap.Notifications, 1)
	assert.Equal(t, "fresh", snap.Notifications[0].ID)
}

func TestWritesPublishFreshBadgeImmediately(t *testing.T) {
	api := &fakeAPI{
		notifications: []model.Notification{
			notif("n1", model.NotificationUnread),
			notif("n2", model.NotificationUnread),
		},
		unreadTotal: 2,
	}
	agent := NewAgent(api, 10)

	// A long interval so only writes can produce the second message.
	cmd := agent.StartPolling(time.Hour)
	defer agent.StopPolling()

	msg := cmd()
	badge, ok := msg.(BadgeMsg)
	require.True(t, ok)
	assert.Equal(t, BadgeState{Known: true, Count: 2}, badge.Badge)

	_, err := agent.MarkAllRead(context.Background())
	require.NoError(t, err)

	msg = agent.WaitForNextBadge()()
	badge, ok = msg.(BadgeMsg)
	require.True(t, ok)
	assert.Equal(t, BadgeState{Known: true, Count: 0}, badge.Badge)
}

func TestPollingLifecycle(t *testing.T) {
	api := &fakeAPI{unreadTotal: 3}
	agent := NewAgent(api, 10)

	cmd := agent.StartPolling(10 * time.Millisecond)
	require.NotNil(t, cmd)

	// The returned command blocks until the immediate first poll lands.
	msg := cmd()
	badge, ok := msg.(BadgeMsg)
	require.True(t, ok)
	assert.Equal(t, BadgeState{Known: true, Count: 3}, badge.Badge)

	// Starting again while running is a no-op.
	assert.Nil(t, agent.StartPolling(10*time.Millisecond))

	agent.StopPolling()

	// Give the loop a moment to exit, then confirm the ticker is dead.
	time.Sleep(30 * time.Millisecond)
	api.mu.Lock()
	calls := api.countCalls
	api.mu.Unlock()
	time.Sleep(50 * time.Millisecond)
	api.mu.Lock()
	assert.Equal(t, calls, api.countCalls)
	api.mu.Unlock()

	// A stopped agent can be restarted.
	cmd = agent.StartPolling(10 * time.Millisecond)
	msg = cmd()
	_, ok = msg.(BadgeMsg)
	assert.True(t, ok)
	agent.StopPolling()
}
