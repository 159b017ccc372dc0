package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultActionSecret is the development fallback for signing admin action
// tokens. cmd/api logs a warning when it is in use.
const DefaultActionSecret = "amerilend-admin-action-fallback-key"

type Config struct {
	AppPort string
	BaseURL string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// HMAC secret for admin email-action tokens.
	ActionSecret string
	// Shared key for the authenticated admin JSON endpoints.
	AdminAPIKey string

	AuthorizeNetLoginID        string
	AuthorizeNetTransactionKey string
	AuthorizeNetEndpoint       string

	EthRPCURL string
	BtcAPIURL string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	_ = godotenv.Load()
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		BaseURL:   getenv("BASE_URL", "http://localhost:8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "amerilend"),
		MySQLUser: getenv("MYSQL_USER", "amerilend"),
		MySQLPass: getenv("MYSQL_PASS", "amerilend"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,

		ActionSecret: getenv("ADMIN_ACTION_SECRET", DefaultActionSecret),
		AdminAPIKey:  os.Getenv("ADMIN_API_KEY"),

		AuthorizeNetLoginID:        os.Getenv("AUTHORIZENET_API_LOGIN_ID"),
		AuthorizeNetTransactionKey: os.Getenv("AUTHORIZENET_TRANSACTION_KEY"),
		AuthorizeNetEndpoint:       os.Getenv("AUTHORIZENET_ENDPOINT"),

		EthRPCURL: getenv("ETH_RPC_URL", "https://eth.llamarpc.com"),
		BtcAPIURL: getenv("BTC_API_URL", "https://btcbook.nownodes.io/api"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.ActionSecret == "" {
		return errors.New("missing ADMIN_ACTION_SECRET")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
