package config

type Bot struct {
	// Token пустой — админ-бот и уведомления выключены.
	Token       string `env:"BOT_TOKEN" json:"-"`
	AdminID     int64  `env:"BOT_ADMIN_ID"`
	AlertChatID int64  `env:"BOT_ALERT_CHAT_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}

type Asynq struct {
	Concurrency int `env:"ASYNQ_CONCURRENCY" envDefault:"4"`
}
