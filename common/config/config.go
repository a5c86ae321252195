package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "FIRSTBLOOD"

type Config struct {
	Export   ExportConfig
	Output   OutputConfig
	Pipeline PipelineConfig
	Log      LogConfig
	AWS      AWSConfig
	DynamoDB DynamoDBConfig
	Redis    RedisConfig
	NATS     NATSConfig
}

type ExportConfig struct {
	// ExtractDir, when set, receives a copy of the unpacked archive.
	ExtractDir string `mapstructure:"extract_dir"`
}

type OutputConfig struct {
	Path   string
	Indent int
}

type PipelineConfig struct {
	Workers int
}

type LogConfig struct {
	Level  string
	Format string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Endpoint        string
}

type DynamoDBConfig struct {
	Enabled          bool
	TableName        string `mapstructure:"table_name"`
	MaxRetries       int    `mapstructure:"max_retries"`
	UseLocalEndpoint bool   `mapstructure:"use_local_endpoint"`
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type NATSConfig struct {
	Enabled              bool
	URL                  string
	MaxReconnect         int `mapstructure:"max_reconnect"`
	ReconnectWaitSeconds int `mapstructure:"reconnect_wait_seconds"`
	TimeoutSeconds       int `mapstructure:"timeout_seconds"`
}

// setDefaults registers every key. viper only maps FIRSTBLOOD_* variables
// onto keys it already knows, so keys without a useful default still get
// their zero value here.
func setDefaults(v *viper.Viper) {
	v.SetDefault("export.extract_dir", "")

	v.SetDefault("output.path", "first_blood_winners.json")
	v.SetDefault("output.indent", 4)
	v.SetDefault("pipeline.workers", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("aws.endpoint", "")

	v.SetDefault("dynamodb.enabled", false)
	v.SetDefault("dynamodb.table_name", "firstblood")
	v.SetDefault("dynamodb.max_retries", 3)
	v.SetDefault("dynamodb.use_local_endpoint", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 7*24*time.Hour)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.max_reconnect", 5)
	v.SetDefault("nats.reconnect_wait_seconds", 2)
	v.SetDefault("nats.timeout_seconds", 5)
}

// Load reads config.yaml from ./config, the working directory or configPath.
// A missing file is not an error; defaults and FIRSTBLOOD_* variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(newEnvKeyReplacer())
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
