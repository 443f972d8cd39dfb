package config

import (
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token          string
		OwnerID        int64  `mapstructure:"owner_id"`
		LogGroupID     int64  `mapstructure:"log_group_id"`
		DBChannelID    int64  `mapstructure:"db_channel_id"`
		StartImage     string `mapstructure:"start_image"`
		PaymentQR      string `mapstructure:"payment_qr"`
		BackupGroupURL string `mapstructure:"backup_group_url"`
		UpdatesURL     string `mapstructure:"updates_url"`
	} `mapstructure:"telegram"`

	Limits struct {
		DefaultDaily   int `mapstructure:"default_daily"`
		PremiumDaily   int `mapstructure:"premium_daily"`
		PremiumDays    int `mapstructure:"premium_days"`
		DonationAmount int `mapstructure:"donation_amount"`
	} `mapstructure:"limits"`

	Reminder struct {
		WindowDays  int           `mapstructure:"window_days"`
		Interval    time.Duration `mapstructure:"interval"`
		DedupPerDay bool          `mapstructure:"dedup_per_day"`
	} `mapstructure:"reminder"`

	Delivery struct {
		DeleteDelay time.Duration `mapstructure:"delete_delay"`
	} `mapstructure:"delivery"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	// .env next to the binary may override the environment (token, DSN)
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("app.timezone", "Asia/Kolkata")
	v.SetDefault("limits.default_daily", 5)
	v.SetDefault("limits.premium_daily", 40)
	v.SetDefault("limits.premium_days", 30)
	v.SetDefault("limits.donation_amount", 3)
	v.SetDefault("reminder.window_days", 5)
	v.SetDefault("reminder.interval", 6*time.Hour)
	v.SetDefault("delivery.delete_delay", 60*time.Second)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
