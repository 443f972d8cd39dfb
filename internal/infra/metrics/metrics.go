package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VideosDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videolimit_videos_delivered_total",
		Help: "Videos successfully copied to users.",
	})

	QuotaDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videolimit_quota_denials_total",
		Help: "Consumption attempts rejected by the quota engine.",
	}, []string{"reason"})

	BonusClaims = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videolimit_bonus_claims_total",
		Help: "Daily bonus claims that actually reset usage.",
	})

	CodesRedeemed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videolimit_codes_redeemed_total",
		Help: "Redeem codes consumed.",
	})

	PaymentsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videolimit_payments_resolved_total",
		Help: "Payment requests resolved by the operator.",
	}, []string{"decision"})

	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videolimit_expiry_reminders_sent_total",
		Help: "Premium expiry reminders delivered.",
	})

	DailyResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videolimit_daily_resets_total",
		Help: "Runs of the midnight usage reset job.",
	})
)
