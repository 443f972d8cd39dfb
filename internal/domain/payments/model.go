package payments

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

type Request struct {
	ID          int64
	TelegramID  int64
	Username    string
	PhotoFileID string
	Status      Status
	SubmittedAt time.Time
	ResolvedAt  *time.Time
}
