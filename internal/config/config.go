package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "IMPOSTOR"

type AppConfig struct {
	Host        string  `mapstructure:"host"`
	Port        int     `mapstructure:"port"`
	LogLevel    string  `mapstructure:"log_level"`
	StaticDir   string  `mapstructure:"static_dir"`
	WordsFile   string  `mapstructure:"words_file"`
	PublicURL   string  `mapstructure:"public_url"`
	ActionRate  float64 `mapstructure:"action_rate"`
	ActionBurst int     `mapstructure:"action_burst"`
	MailboxSize int     `mapstructure:"mailbox_size"`

	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// 配置键与命令行参数的对应关系
var flagKeys = map[string]string{
	"host":         "host",
	"port":         "port",
	"log-level":    "log_level",
	"static-dir":   "static_dir",
	"words-file":   "words_file",
	"public-url":   "public_url",
	"action-rate":  "action_rate",
	"action-burst": "action_burst",
	"mailbox-size": "mailbox_size",

	"allowed-origins": "allowed_origins",
}

// BindFlags 注册所有配置相关的命令行参数
func BindFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to config file (json, yaml or toml)")
	fs.StringP("host", "b", "0.0.0.0", "address to bind to (env: IMPOSTOR_HOST)")
	fs.IntP("port", "p", 3000, "port to listen on (env: IMPOSTOR_PORT)")
	fs.String("log-level", "info", "debug, info, warn or error (env: IMPOSTOR_LOG_LEVEL)")
	fs.String("static-dir", "./public", "directory of the web client (env: IMPOSTOR_STATIC_DIR)")
	fs.String("words-file", "", "JSON file of word pairs, built-in list if empty (env: IMPOSTOR_WORDS_FILE)")
	fs.String("public-url", "", "external base URL used in room QR codes (env: IMPOSTOR_PUBLIC_URL)")
	fs.Float64("action-rate", 5, "client actions per second allowed per connection (env: IMPOSTOR_ACTION_RATE)")
	fs.Int("action-burst", 10, "burst of client actions allowed per connection (env: IMPOSTOR_ACTION_BURST)")
	fs.Int("mailbox-size", 64, "pending actions buffered per room (env: IMPOSTOR_MAILBOX_SIZE)")
	fs.StringSlice("allowed-origins", []string{"*"}, "origins allowed to call the API, comma separated (env: IMPOSTOR_ALLOWED_ORIGINS)")
}

// InitConfig 按 命令行参数 > 环境变量 > 配置文件 > 默认值 的优先级加载配置
// fs 可以为 nil；未指定配置文件时尝试读取当前目录下的 app_config.*
func InitConfig(fs *pflag.FlagSet) (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 3000)
	v.SetDefault("log_level", "info")
	v.SetDefault("static_dir", "./public")
	v.SetDefault("words_file", "")
	v.SetDefault("public_url", "")
	v.SetDefault("action_rate", 5.0)
	v.SetDefault("action_burst", 10)
	v.SetDefault("mailbox_size", 64)
	v.SetDefault("allowed_origins", []string{"*"})

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configFile := ""

	if fs != nil {
		for flagName, key := range flagKeys {
			if f := fs.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("绑定参数 %s 失败: %w", flagName, err)
				}
			}
		}

		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("app_config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("加载配置失败: %w", err)
		}
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.ActionRate <= 0 {
		return fmt.Errorf("action_rate must be positive: %v", c.ActionRate)
	}
	if c.ActionBurst < 1 {
		return fmt.Errorf("action_burst must be at least 1: %d", c.ActionBurst)
	}
	if c.MailboxSize < 1 {
		return fmt.Errorf("mailbox_size must be at least 1: %d", c.MailboxSize)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level: %q", c.LogLevel)
	}

	return nil
}

func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
