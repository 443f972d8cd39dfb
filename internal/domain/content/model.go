package content

import "time"

// Item points at a message in the storage channel; the bot copies it to the
// user instead of forwarding so no origin is attached.
type Item struct {
	ID        int64
	ChannelID int64
	MessageID int
	Valid     bool
	CreatedAt time.Time
}
