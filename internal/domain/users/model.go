package users

import "time"

type User struct {
	ID           int64
	TelegramID   int64
	Username     string
	DailyLimit   int
	UsedToday    int
	Premium      bool
	PremiumUntil *time.Time
	JoinedAt     time.Time
	LastActive   time.Time
}
