package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 协学者调用失败时的处理策略
const (
	ColearnerPolicyFail    = "fail"
	ColearnerPolicyDegrade = "degrade"
)

// ErrMissingAPIKey 未配置大模型 API Key
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY not found in environment variables")

// Config 应用配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	LLM    LLMConfig    `yaml:"llm"`
	Tutor  TutorConfig  `yaml:"tutor"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Name      string `yaml:"name"`
	StaticDir string `yaml:"staticDir"`
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisConfig Redis 配置，未启用时不做分类统计
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LLMConfig 大模型接口配置
type LLMConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseURL"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"` // 0 表示不限时，由调用方的 context 控制
}

// TutorConfig 导师/协学者生成参数
type TutorConfig struct {
	TutorTemperature       float64 `yaml:"tutorTemperature"`
	ColearnerTemperature   float64 `yaml:"colearnerTemperature"`
	ColearnerFailurePolicy string  `yaml:"colearnerFailurePolicy"` // fail, degrade
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8000,
			Name:      "socratic-tutor",
			StaticDir: "static",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-3.5-turbo-1106",
		},
		Tutor: TutorConfig{
			TutorTemperature:       0.7,
			ColearnerTemperature:   0.8,
			ColearnerFailurePolicy: ColearnerPolicyFail,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig 加载配置文件，再用环境变量（含 .env）覆盖
// 配置文件不存在时使用默认配置
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// .env 可选
	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	c.Server.Port = getEnvAsIntOrDefault("TUTOR_PORT", c.Server.Port)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate 校验必填配置
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model 不能为空")
	}
	switch c.Tutor.ColearnerFailurePolicy {
	case ColearnerPolicyFail, ColearnerPolicyDegrade:
	default:
		return fmt.Errorf("未知的 colearnerFailurePolicy: %q", c.Tutor.ColearnerFailurePolicy)
	}
	return nil
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
