package cmd

type Config struct {
	HTTPPort         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSslMode        string
	RedisAddr        string
	APIKey           string
	TelegramBotToken string
	FindTimeout      string
	NotifyTimeout    string
	SyncTimeout      string
	RegistryCacheTTL string
}
