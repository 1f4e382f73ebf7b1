package notify

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// BadgeMsg is a tea.Msg carrying a fresh badge state from the background
// poller.
type BadgeMsg struct {
	Badge BadgeState
}

// fetchTimeout is the maximum time allowed for a single badge fetch.
const fetchTimeout = 30 * time.Second

// pollState holds the lifecycle of the background badge poller. The poller
// is the only persistent background activity in the client; it must be
// stopped explicitly on teardown so timers do not leak across sessions.
type pollState struct {
	resultCh chan BadgeState
	stopCh   chan struct{}
	running  bool
}

// StartPolling launches the badge poll loop at the given interval and
// returns a tea.Cmd that waits for the first result. The loop polls the
// unread count on a fixed wall-clock interval, independent of user
// activity, starting with an immediate fetch. Calling StartPolling while
// already running is a no-op.
func (a *Agent) StartPolling(interval time.Duration) tea.Cmd {
	a.mu.Lock()
	if a.poll.running {
		a.mu.Unlock()
		return nil
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	a.poll.running = true
	a.poll.stopCh = make(chan struct{})
	if a.poll.resultCh == nil {
		a.poll.resultCh = make(chan BadgeState, 16)
	}
	stopCh := a.poll.stopCh
	a.mu.Unlock()

	go a.pollLoop(interval, stopCh)

	return a.waitForBadge()
}

// StopPolling halts the poll loop. The agent may be restarted with
// StartPolling afterwards.
func (a *Agent) StopPolling() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.poll.running {
		return
	}

	close(a.poll.stopCh)
	a.poll.running = false
}

// pollLoop fetches the unread count immediately and then on every tick
// until stopped.
func (a *Agent) pollLoop(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.pollOnce()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			a.pollOnce()
		}
	}
}

// pollOnce refreshes the badge and publishes the result without blocking.
func (a *Agent) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	a.publishBadge(a.RefreshBadge(ctx))
}

// publishBadge hands a badge to whoever is waiting on the poll channel.
// Writes resynchronize through here too, so the header updates right after
// a confirmed mutation instead of on the next tick. Non-blocking: drops
// when the channel is full, and a nil channel (polling never started) is
// simply skipped.
func (a *Agent) publishBadge(badge BadgeState) {
	a.mu.Lock()
	ch := a.poll.resultCh
	a.mu.Unlock()

	select {
	case ch <- badge:
	default:
	}
}

// waitForBadge returns a tea.Cmd that waits for the next poll result.
func (a *Agent) waitForBadge() tea.Cmd {
	a.mu.Lock()
	ch := a.poll.resultCh
	a.mu.Unlock()

	return func() tea.Msg {
		badge, ok := <-ch
		if !ok {
			return nil
		}
		return BadgeMsg{Badge: badge}
	}
}

// WaitForNextBadge returns a tea.Cmd that waits for the next poll result.
// Call it after processing a BadgeMsg to keep listening.
func (a *Agent) WaitForNextBadge() tea.Cmd {
	return a.waitForBadge()
}
