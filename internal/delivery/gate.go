// Package delivery dispatches content items as clean copies and retracts
// them after a fixed delay (the ephemeral-message contract).
package delivery

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Spok95/videolimit-bot/internal/domain/content"
)

// Handle identifies a delivered message for later retraction.
type Handle struct {
	ChatID    int64
	MessageID int
}

type Messenger interface {
	// Copy sends the channel message to dest without a forward origin.
	Copy(dest, fromChannelID int64, messageID int, caption string) (Handle, error)
	Delete(h Handle) error
}

// Gate keeps every armed retract timer in a registry instead of detaching
// goroutines, so Shutdown can stop them all and nothing leaks.
type Gate struct {
	msgr    Messenger
	log     *slog.Logger
	delay   time.Duration
	caption string

	mu     sync.Mutex
	timers map[Handle]*time.Timer
	closed bool
}

func New(msgr Messenger, log *slog.Logger, delay time.Duration, caption string) *Gate {
	return &Gate{
		msgr:    msgr,
		log:     log,
		delay:   delay,
		caption: caption,
		timers:  make(map[Handle]*time.Timer),
	}
}

// Deliver copies the item and arms its single-shot retract timer. Arming
// never blocks; a failure to retract later is the timer's problem, not the
// caller's.
func (g *Gate) Deliver(dest int64, it content.Item) error {
	h, err := g.msgr.Copy(dest, it.ChannelID, it.MessageID, g.caption)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.timers[h] = time.AfterFunc(g.delay, func() { g.retract(h) })
	return nil
}

func (g *Gate) retract(h Handle) {
	g.mu.Lock()
	delete(g.timers, h)
	closed := g.closed
	g.mu.Unlock()
	if closed {
		return
	}

	// The user may have deleted the message themselves; not found is a
	// normal outcome here.
	if err := g.msgr.Delete(h); err != nil {
		g.log.Warn("auto delete failed",
			"chat_id", h.ChatID, "message_id", h.MessageID, "err", err)
	}
}

// Shutdown stops all pending retract timers.
func (g *Gate) Shutdown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	for h, t := range g.timers {
		t.Stop()
		delete(g.timers, h)
	}
}

// Pending reports how many retract timers are armed.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timers)
}
