package codes

import (
	"fmt"
	"time"
)

type Code struct {
	Code      string
	Videos    int
	Days      int
	Used      bool
	CreatedAt time.Time
}

// Grant is what a successful redemption gives the user.
type Grant struct {
	DailyLimit int
	Until      time.Time
}

// Token builds a human-readable code. The redemption path never parses it
// back; the code is an opaque lookup key from there on.
func Token(videos, days int, now time.Time) string {
	return fmt.Sprintf("VC-%d-%d-%d", videos, days, now.Unix())
}
