// internal/config/config.go
package config

import (
	"log"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AppConfig はゲーミフィケーションの調整値です
type AppConfig struct {
	StreakBonusCap        int `mapstructure:"streak_bonus_cap"`        // ストリークボーナスの日数上限
	ComebackThresholdDays int `mapstructure:"comeback_threshold_days"` // カムバック判定の最小空白日数
	BulkLimit             int `mapstructure:"bulk_limit"`              // 一括編集の最大件数
}

type NotifierConfig struct {
	Type string `mapstructure:"type"` // "log" または "ses"
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	AuthType        string `mapstructure:"auth_type"` // "iam_role" または "static_credentials"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	From            string `mapstructure:"from"`
	To              string `mapstructure:"to"` // 通知ダイジェストの宛先
}

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	App      AppConfig      `mapstructure:"app"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	SES      SESConfig      `mapstructure:"ses"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	// 環境変数からの上書き (例: APP_NOTIFIER_TYPE)
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("notifier.type", "NOTIFIER_TYPE")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		log.Printf("Server port not set, using default '%s'", DefaultServerPort)
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.Log.Level == "" {
		Cfg.Log.Level = DefaultLogLevel
	}
	if Cfg.App.StreakBonusCap <= 0 {
		Cfg.App.StreakBonusCap = DefaultStreakBonusCap
	}
	if Cfg.App.ComebackThresholdDays <= 0 {
		Cfg.App.ComebackThresholdDays = DefaultComebackThresholdDays
	}
	if Cfg.App.BulkLimit <= 0 {
		log.Printf("App bulk limit not set or invalid, using default '%d'", DefaultBulkLimit)
		Cfg.App.BulkLimit = DefaultBulkLimit
	}
	if Cfg.Notifier.Type == "" {
		Cfg.Notifier.Type = DefaultNotifierType
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Bulk Limit: %d", Cfg.App.BulkLimit)
	log.Printf("Notifier Type: %s", Cfg.Notifier.Type)

	return nil
}
