// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "habitkeep"
	AppVersion = "0.3.1"
)

// デフォルト設定値
const (
	DefaultServerPort            = ":8080"
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "json"
	DefaultNotifierType          = "log"
	DefaultStreakBonusCap        = 30
	DefaultComebackThresholdDays = 3
	DefaultBulkLimit             = 200
)
