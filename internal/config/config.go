package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`     // 服务器配置
	Postgres   PostgresConfig   `mapstructure:"postgres"`   // PostgreSQL配置
	OpenAI     OpenAIConfig     `mapstructure:"openai"`     // OpenAI接口配置
	Ingest     IngestConfig     `mapstructure:"ingest"`     // RSS抓取配置
	Classifier ClassifierConfig `mapstructure:"classifier"` // 球队分类策略配置
	Schedule   ScheduleConfig   `mapstructure:"schedule"`   // 任务调度配置
	Teams      []TeamSeed       `mapstructure:"teams"`      // 初始球队列表
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// OpenAIConfig OpenAI接口配置（api_key 放 .env，不提交 git）
type OpenAIConfig struct {
	BaseURL string `mapstructure:"base_url"` // API基础地址（任意兼容OpenAI协议的服务）
	APIKey  string `mapstructure:"api_key"`  // API Key
	Model   string `mapstructure:"model"`    // 模型名称
	Timeout int    `mapstructure:"timeout"`  // 请求超时（秒）
	Proxy   string `mapstructure:"proxy"`    // 代理地址（可选）
}

// IngestConfig RSS抓取配置
type IngestConfig struct {
	FeedURLs     []string `mapstructure:"feed_urls"`     // RSS源地址列表
	MaxFieldLen  int      `mapstructure:"max_field_len"` // 文本字段截断长度
	FetchTimeout int      `mapstructure:"fetch_timeout"` // 单个源抓取超时（秒）
}

// ClassifierConfig 球队分类策略配置
type ClassifierConfig struct {
	Strategy string `mapstructure:"strategy"` // 分类策略：rule/openai（openai失败时自动回退rule）
}

// ScheduleConfig 任务调度配置（内置调度器，也可由外部通过API触发）
type ScheduleConfig struct {
	Enabled     bool `mapstructure:"enabled"`      // 是否启用内置调度器
	DailyHour   int  `mapstructure:"daily_hour"`   // 每日全量任务触发小时
	HourlyFrom  int  `mapstructure:"hourly_from"`  // 每小时增量任务起始小时
	HourlyUntil int  `mapstructure:"hourly_until"` // 每小时增量任务结束小时（含）
}

// TeamSeed 初始球队配置项
type TeamSeed struct {
	Name    string `mapstructure:"name"`     // 球队名称（唯一）
	LogoURL string `mapstructure:"logo_url"` // 队徽地址（可选）
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)

	// 4. 未配置项兜底默认值
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_PROXY"); v != "" {
		cfg.OpenAI.Proxy = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
}

// applyDefaults 补齐未配置项的默认值
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-3.5-turbo"
	}
	if cfg.OpenAI.Timeout <= 0 {
		cfg.OpenAI.Timeout = 60
	}
	if cfg.Ingest.MaxFieldLen <= 0 {
		cfg.Ingest.MaxFieldLen = 255
	}
	if cfg.Ingest.FetchTimeout <= 0 {
		cfg.Ingest.FetchTimeout = 15
	}
	if cfg.Classifier.Strategy == "" {
		cfg.Classifier.Strategy = "rule"
	}
	if cfg.Schedule.DailyHour == 0 {
		cfg.Schedule.DailyHour = 8
	}
	if cfg.Schedule.HourlyFrom == 0 {
		cfg.Schedule.HourlyFrom = 9
	}
	if cfg.Schedule.HourlyUntil == 0 {
		cfg.Schedule.HourlyUntil = 21
	}
}
