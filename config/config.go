package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application's configuration values. It is built once at
// process start and passed to every component that needs it.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`

	DBDriver string `json:"dbdriver"`
	DBHost   string `json:"dbhost"`
	DBPort   uint16 `json:"dbport"`
	DBName   string `json:"dbname"`
	DBUser   string `json:"dbuser"`
	DBPass   string `json:"-"`
	DBPath   string `json:"dbpath"`

	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"-"`
	RedisDB       int    `json:"redis_db"`

	Neo4jURI      string `json:"neo4j_uri"`
	Neo4jUser     string `json:"neo4j_user"`
	Neo4jPassword string `json:"-"`
	Neo4jDatabase string `json:"neo4j_database"`

	JWTSecret string `json:"-"`

	BatchSize  int           `json:"batch_size"`
	Strategy   string        `json:"strategy"`
	CacheTTL   time.Duration `json:"cache_ttl"`
	RunLockTTL time.Duration `json:"run_lock_ttl"`
	SeedFile   string        `json:"seed_file"`
}

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// SetDefaults registers default values for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APPNAME", "Comorbidity Network")
	v.SetDefault("APPENV", "development")
	v.SetDefault("APPPORT", 8080)
	v.SetDefault("GINMODE", "debug")
	v.SetDefault("DBDRIVER", DriverPostgres)
	v.SetDefault("DBHOST", "localhost")
	v.SetDefault("DBPORT", 5432)
	v.SetDefault("DBNAME", "comorbidity")
	v.SetDefault("DBUSER", "postgres")
	v.SetDefault("DBPATH", "comorbidity.db")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NEO4J_USER", "neo4j")
	v.SetDefault("BATCH_SIZE", 100)
	v.SetDefault("COMORBIDITY_STRATEGY", "indexed")
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("RUN_LOCK_TTL", 30*time.Minute)
	v.SetDefault("SEED_FILE", "scripts/mock-data.json")
}

// LoadConfig reads an optional .env file into the process environment and
// resolves the configuration through v. Flags bound to v take precedence over
// the environment. A missing env file is not an error.
func LoadConfig(v *viper.Viper, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	SetDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppName:       v.GetString("APPNAME"),
		AppEnv:        v.GetString("APPENV"),
		AppPort:       v.GetUint16("APPPORT"),
		GinMode:       v.GetString("GINMODE"),
		DBDriver:      strings.ToLower(v.GetString("DBDRIVER")),
		DBHost:        v.GetString("DBHOST"),
		DBPort:        v.GetUint16("DBPORT"),
		DBName:        v.GetString("DBNAME"),
		DBUser:        v.GetString("DBUSER"),
		DBPass:        v.GetString("DBPASS"),
		DBPath:        v.GetString("DBPATH"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		Neo4jURI:      v.GetString("NEO4J_URI"),
		Neo4jUser:     v.GetString("NEO4J_USER"),
		Neo4jPassword: v.GetString("NEO4J_PASSWORD"),
		Neo4jDatabase: v.GetString("NEO4J_DATABASE"),
		JWTSecret:     v.GetString("JWTSECRET"),
		BatchSize:     v.GetInt("BATCH_SIZE"),
		Strategy:      strings.ToLower(v.GetString("COMORBIDITY_STRATEGY")),
		CacheTTL:      v.GetDuration("CACHE_TTL"),
		RunLockTTL:    v.GetDuration("RUN_LOCK_TTL"),
		SeedFile:      v.GetString("SEED_FILE"),
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}
	return cfg, nil
}

// IsTest reports whether the application runs in the test environment.
func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}
