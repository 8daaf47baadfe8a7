package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers understood by the row store factory.
const (
	StoreDriverXLSX     = "xlsx"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Auth      AuthConfig
	Training  TrainingConfig
	Policy    PolicyConfig
	Features  FeatureConfig
	Bootstrap BootstrapConfig
}

// StoreConfig selects the backing row store and the table names inside it.
type StoreConfig struct {
	Driver       string
	XLSXPath     string
	UsersTable   string
	RecordsTable string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AuthConfig controls how passwords are persisted.
type AuthConfig struct {
	HashPasswords bool
}

// TrainingConfig carries the domain constants of the training dashboard.
type TrainingConfig struct {
	QuotaHours     float64
	InactivityDays int
	SeriesMonths   int
	Departments    []string
	Leaders        []string
}

// PolicyConfig tunes the precedence of overlapping authorization rules.
type PolicyConfig struct {
	BoardDepartment   string
	BoardIsManagement bool
}

// FeatureConfig toggles operational endpoints.
type FeatureConfig struct {
	Docs    bool
	Metrics bool
}

// BootstrapConfig seeds the first administrator when the users table is empty.
type BootstrapConfig struct {
	AdminUsername   string
	AdminPassword   string
	AdminDepartment string
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		XLSXPath:     v.GetString("STORE_XLSX_PATH"),
		UsersTable:   v.GetString("STORE_USERS_TABLE"),
		RecordsTable: v.GetString("STORE_RECORDS_TABLE"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:      v.GetString("REDIS_HOST"),
		Port:      v.GetInt("REDIS_PORT"),
		Password:  v.GetString("REDIS_PASSWORD"),
		DB:        v.GetInt("REDIS_DB"),
		KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Auth = AuthConfig{HashPasswords: v.GetBool("AUTH_HASH_PASSWORDS")}

	quota := v.GetFloat64("QUOTA_HOURS")
	if quota <= 0 {
		quota = 7.0
	}
	inactivity := v.GetInt("INACTIVITY_DAYS")
	if inactivity <= 0 {
		inactivity = 15
	}
	series := v.GetInt("SERIES_MONTHS")
	if series <= 0 {
		series = 6
	}
	cfg.Training = TrainingConfig{
		QuotaHours:     quota,
		InactivityDays: inactivity,
		SeriesMonths:   series,
		Departments:    splitAndTrim(v.GetString("DEPARTMENTS")),
		Leaders:        splitAndTrim(v.GetString("LEADERS")),
	}

	cfg.Policy = PolicyConfig{
		BoardDepartment:   v.GetString("BOARD_DEPARTMENT"),
		BoardIsManagement: v.GetBool("POLICY_BOARD_IS_MANAGEMENT"),
	}

	cfg.Features = FeatureConfig{
		Docs:    v.GetBool("ENABLE_DOCS"),
		Metrics: v.GetBool("ENABLE_METRICS"),
	}

	cfg.Bootstrap = BootstrapConfig{
		AdminUsername:   v.GetString("BOOTSTRAP_ADMIN_USERNAME"),
		AdminPassword:   v.GetString("BOOTSTRAP_ADMIN_PASSWORD"),
		AdminDepartment: v.GetString("BOOTSTRAP_ADMIN_DEPARTMENT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", StoreDriverXLSX)
	v.SetDefault("STORE_XLSX_PATH", "./data/training.xlsx")
	v.SetDefault("STORE_USERS_TABLE", "Users")
	v.SetDefault("STORE_RECORDS_TABLE", "Training Records")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "training_hours")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "rowstore")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "training-hours-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("AUTH_HASH_PASSWORDS", false)

	v.SetDefault("QUOTA_HOURS", 7.0)
	v.SetDefault("INACTIVITY_DAYS", 15)
	v.SetDefault("SERIES_MONTHS", 6)
	v.SetDefault("DEPARTMENTS", "Departamento T.I.,Departamento Pessoal,Departamento Fiscal,Departamento Contábil,Diretoria,Departamento R.H.,Departamento Legalização,Departamento Recepção")
	v.SetDefault("LEADERS", "Victor Souza,Thiago Ferreira,Rafael Pires,Priscila Barbosa,Franceli Dario,Thamiris Afonso,Ruth Moreira")

	v.SetDefault("BOARD_DEPARTMENT", "Diretoria")
	v.SetDefault("POLICY_BOARD_IS_MANAGEMENT", true)

	v.SetDefault("ENABLE_DOCS", true)
	v.SetDefault("ENABLE_METRICS", true)

	v.SetDefault("BOOTSTRAP_ADMIN_USERNAME", "")
	v.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "")
	v.SetDefault("BOOTSTRAP_ADMIN_DEPARTMENT", "Diretoria")
}

// isMissingFile reports whether viper failed only because .env is absent.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
