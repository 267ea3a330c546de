package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS   CORSConfig
	Log    LogConfig
	Solver SolverConfig
	Cache  CacheConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig governs the branch-and-bound search and the soft-constraint
// weights used when building the objective.
type SolverConfig struct {
	MaxTime    time.Duration
	NumWorkers int

	WeightTeacherGaps     int
	WeightRoomConsistency int
	WeightSubjectSpread   int
	WeightDailyBalance    int
}

// CacheConfig configures the optional solution cache. Disabled leaves the
// orchestration facade uncached.
type CacheConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Env:       v.GetString("ENV"),
		Port:      v.GetInt("PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
		CORS:      CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Solver: SolverConfig{
			MaxTime:               parseDuration(v.GetString("SOLVER_MAX_TIME_SECONDS")+"s", 10*time.Second),
			NumWorkers:            v.GetInt("SOLVER_NUM_WORKERS"),
			WeightTeacherGaps:     v.GetInt("SOLVER_WEIGHT_TEACHER_GAPS"),
			WeightRoomConsistency: v.GetInt("SOLVER_WEIGHT_ROOM_CONSISTENCY"),
			WeightSubjectSpread:   v.GetInt("SOLVER_WEIGHT_SUBJECT_SPREAD"),
			WeightDailyBalance:    v.GetInt("SOLVER_WEIGHT_DAILY_BALANCE"),
		},
		Cache: CacheConfig{
			Enabled:  v.GetBool("CACHE_ENABLED"),
			Host:     v.GetString("CACHE_HOST"),
			Port:     v.GetInt("CACHE_PORT"),
			Password: v.GetString("CACHE_PASSWORD"),
			DB:       v.GetInt("CACHE_DB"),
			TTL:      parseDuration(v.GetString("CACHE_TTL"), time.Hour),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOLVER_MAX_TIME_SECONDS", 10)
	v.SetDefault("SOLVER_NUM_WORKERS", 1)
	v.SetDefault("SOLVER_WEIGHT_TEACHER_GAPS", 10)
	v.SetDefault("SOLVER_WEIGHT_ROOM_CONSISTENCY", 5)
	v.SetDefault("SOLVER_WEIGHT_SUBJECT_SPREAD", 8)
	v.SetDefault("SOLVER_WEIGHT_DAILY_BALANCE", 3)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_HOST", "localhost")
	v.SetDefault("CACHE_PORT", 6379)
	v.SetDefault("CACHE_PASSWORD", "")
	v.SetDefault("CACHE_DB", 0)
	v.SetDefault("CACHE_TTL", "1h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
