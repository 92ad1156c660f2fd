package conf

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-pay/gopay/apple"
	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// 配置加载（端口、App Store 共享密钥等）

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

// AppleConfig App Store verifyReceipt 相关配置
type AppleConfig struct {
	// 共享密钥，在 App Store Connect -> App 信息 -> App 专用共享密钥 生成
	SharedSecret  string        `yaml:"shared_secret" validate:"required"`
	ProductionURL string        `yaml:"production_url" validate:"required,url"`
	SandboxURL    string        `yaml:"sandbox_url" validate:"required,url"`
	Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
}

type CorsConfig struct {
	AllowedOrigins []string `yaml:"allowed-origins"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"omitempty,startswith=/"`
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Port         int    `yaml:"port" validate:"min=1,max=65535"`
	Mode         string `yaml:"mode" validate:"omitempty,oneof=debug release test"`
	Language     string `yaml:"language" validate:"omitempty,oneof=en zh"`
	MaxPingCount int    `yaml:"max-ping-count" validate:"gte=0"`
	// 同一ip同一路径的最小请求间隔，0 表示不限制
	DuplicateWindow time.Duration `yaml:"duplicate-window" validate:"gte=0"`

	Log     LogConfig     `yaml:"log"`
	Apple   AppleConfig   `yaml:"apple"`
	Cors    CorsConfig    `yaml:"cors"`
	Metrics MetricsConfig `yaml:"metrics"`
}

const (
	EnvPort          = "PORT"
	EnvSharedSecret  = "APP_STORE_SHARED_SECRET"
	EnvProductionURL = "APP_STORE_PRODUCTION_URL"
	EnvSandboxURL    = "APP_STORE_SANDBOX_URL"
	EnvTimeout       = "APP_STORE_TIMEOUT"
	EnvGinMode       = "GIN_MODE"
)

// Default 返回默认配置
func Default() Config {
	return Config{
		AppName:      "receiptrelay",
		Port:         3000,
		Mode:         "release",
		Language:     "en",
		MaxPingCount: 10,
		Log: LogConfig{
			Level:      "info",
			FileName:   "logs/receiptrelay.log",
			TimeFormat: "2006-01-02 15:04:05.000",
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
			LocalTime:  true,
			Console:    true,
		},
		Apple: AppleConfig{
			ProductionURL: apple.UrlProd,
			SandboxURL:    apple.UrlSandbox,
			Timeout:       15 * time.Second,
		},
		Cors: CorsConfig{
			AllowedOrigins: []string{"*"},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load 读取配置文件，文件不存在时使用默认配置，然后用环境变量覆盖
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("Read config file error %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("Unmarshal config yaml error: %w", err)
			}
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	var err error
	if v := getenv(EnvPort); v != "" {
		port, perr := strconv.Atoi(v)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", EnvPort, perr))
		} else {
			c.Port = port
		}
	}
	if v := getenv(EnvSharedSecret); v != "" {
		c.Apple.SharedSecret = v
	}
	if v := getenv(EnvProductionURL); v != "" {
		c.Apple.ProductionURL = v
	}
	if v := getenv(EnvSandboxURL); v != "" {
		c.Apple.SandboxURL = v
	}
	if v := getenv(EnvTimeout); v != "" {
		d, perr := time.ParseDuration(v)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", EnvTimeout, perr))
		} else {
			c.Apple.Timeout = d
		}
	}
	if v := getenv(EnvGinMode); v != "" {
		c.Mode = v
	}
	return err
}

// Validate 校验配置，所有字段错误会合并后一起返回
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	var merged error
	for _, fe := range fieldErrs {
		merged = multierr.Append(merged, fmt.Errorf("config %s: failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return merged
}

// Listen 返回 http 监听地址
func (c *Config) Listen() string {
	return fmt.Sprintf(":%d", c.Port)
}
