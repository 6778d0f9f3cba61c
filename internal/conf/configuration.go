package conf

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultDomain            = "OC Network DApp"
	defaultProtocolVersion   = "1.0.0"
	defaultChainID           = "testnet"
	defaultStatement         = "Sign this message to verify your identity. This action costs nothing."
	defaultValidityWindow    = 5 * time.Minute
	defaultNonceCapacity     = 10000
	defaultSweepInterval     = time.Minute
	defaultRecordsNamespace  = "signatures"
	minimumValidityWindow    = time.Second
	maximumChallengeTextSize = 20 * 1024
)

const (
	MemoryDriver   = "memory"
	PostgresDriver = "postgres"
)

const (
	SchemeEd25519  = "ed25519"
	SchemeEthereum = "ethereum"
)

const (
	EncodingBase64 = "base64"
	EncodingBase58 = "base58"
	EncodingHex    = "hex"
)

// DBConfiguration holds all the database related configuration.
type DBConfiguration struct {
	Driver    string `json:"driver" default:"memory"`
	URL       string `json:"url" envconfig:"DATABASE_URL"`
	Namespace string `json:"namespace" envconfig:"DB_NAMESPACE" default:"walletauth"`
	// MaxPoolSize defaults to 0 (unlimited).
	MaxPoolSize     int           `json:"max_pool_size" split_words:"true"`
	MaxIdlePoolSize int           `json:"max_idle_pool_size" split_words:"true"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime,omitempty" split_words:"true"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time,omitempty" split_words:"true"`
}

func (c *DBConfiguration) Validate() error {
	switch c.Driver {
	case MemoryDriver:
		return nil
	case PostgresDriver:
		if c.URL == "" {
			return errors.New("conf: DATABASE_URL is required for the postgres driver")
		}
		return nil
	default:
		return fmt.Errorf("conf: unsupported DB driver %q", c.Driver)
	}
}

type APIConfiguration struct {
	Host               string
	Port               string        `envconfig:"PORT" default:"8081"`
	RequestIDHeader    string        `envconfig:"REQUEST_ID_HEADER"`
	MaxRequestDuration time.Duration `json:"max_request_duration" split_words:"true" default:"10s"`
}

func (a *APIConfiguration) Validate() error {
	return nil
}

// AuthConfiguration holds the constants that bind issued challenges to this
// application instance, and the parameters of the verification pipeline.
type AuthConfiguration struct {
	Domain           string        `json:"domain" default:"OC Network DApp"`
	Version          string        `json:"version" default:"1.0.0"`
	ChainID          string        `json:"chain_id" split_words:"true" default:"testnet"`
	DefaultStatement string        `json:"default_statement" split_words:"true"`
	ValidityWindow   time.Duration `json:"validity_window" split_words:"true" default:"5m"`
	NonceCapacity    int           `json:"nonce_capacity" split_words:"true" default:"10000"`
	Scheme           string        `json:"scheme" default:"ed25519"`
	KeyEncoding      string        `json:"key_encoding" split_words:"true" default:"base64"`
	MaxMessageSize   int           `json:"max_message_size" split_words:"true"`
	BindKeyAddress   bool          `json:"bind_key_address" split_words:"true"`
}

func (a *AuthConfiguration) Validate() error {
	if a.Domain == "" {
		return errors.New("conf: auth domain must not be empty")
	}

	if _, err := semver.NewVersion(a.Version); err != nil {
		return fmt.Errorf("conf: auth version %q is not a valid semantic version: %w", a.Version, err)
	}

	if a.ValidityWindow < minimumValidityWindow {
		return fmt.Errorf("conf: auth validity window must be at least %s", minimumValidityWindow)
	}

	switch a.Scheme {
	case SchemeEd25519, SchemeEthereum:
	default:
		return fmt.Errorf("conf: unsupported signature scheme %q", a.Scheme)
	}

	switch a.KeyEncoding {
	case EncodingBase64, EncodingBase58, EncodingHex:
	default:
		return fmt.Errorf("conf: unsupported key encoding %q", a.KeyEncoding)
	}

	return nil
}

type SweeperConfiguration struct {
	Enabled   bool          `json:"enabled" default:"true"`
	Interval  time.Duration `json:"interval" default:"1m"`
	Namespace string        `json:"namespace" default:"signatures"`
}

func (s *SweeperConfiguration) Validate() error {
	if s.Enabled && s.Interval <= 0 {
		return errors.New("conf: sweeper interval must be positive")
	}
	return nil
}

type CORSConfiguration struct {
	AllowedHeaders []string `json:"allowed_headers" split_words:"true"`
	AllowedOrigins []string `json:"allowed_origins" split_words:"true"`
}

func (c *CORSConfiguration) AllAllowedHeaders(defaults []string) []string {
	set := make(map[string]bool)
	for _, header := range defaults {
		set[header] = true
	}

	var result []string
	result = append(result, defaults...)

	for _, header := range c.AllowedHeaders {
		if !set[header] {
			result = append(result, header)
		}

		set[header] = true
	}

	return result
}

// GlobalConfiguration holds all the configuration that applies to all instances.
type GlobalConfiguration struct {
	API      APIConfiguration
	DB       DBConfiguration
	Auth     AuthConfiguration    `json:"auth"`
	Sweeper  SweeperConfiguration `json:"sweeper"`
	Logging  LoggingConfig        `envconfig:"LOG"`
	Tracing  TracingConfig
	Metrics  MetricsConfig
	Profiler ProfilerConfig    `envconfig:"PROFILER"`
	CORS     CORSConfiguration `json:"cors"`
}

func loadEnvironment(filename string) error {
	var err error
	if filename != "" {
		err = godotenv.Overload(filename)
	} else {
		err = godotenv.Load()
		// handle if .env file does not exist, this is OK
		if os.IsNotExist(err) {
			return nil
		}
	}
	return err
}

// LoadGlobal loads configuration from the environment, optionally overloaded
// by the given dotenv file.
func LoadGlobal(filename string) (*GlobalConfiguration, error) {
	if err := loadEnvironment(filename); err != nil {
		return nil, err
	}

	config := new(GlobalConfiguration)
	if err := envconfig.Process("walletauth", config); err != nil {
		return nil, err
	}

	if err := config.ApplyDefaults(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyDefaults sets defaults for a GlobalConfiguration
func (config *GlobalConfiguration) ApplyDefaults() error {
	if config.DB.Driver == "" {
		config.DB.Driver = MemoryDriver
	}

	if config.DB.Driver == "postgresql" {
		config.DB.Driver = PostgresDriver
	}

	if config.Auth.Domain == "" {
		config.Auth.Domain = defaultDomain
	}

	if config.Auth.Version == "" {
		config.Auth.Version = defaultProtocolVersion
	}

	if config.Auth.ChainID == "" {
		config.Auth.ChainID = defaultChainID
	}

	if strings.TrimSpace(config.Auth.DefaultStatement) == "" {
		config.Auth.DefaultStatement = defaultStatement
	}

	if config.Auth.ValidityWindow == 0 {
		config.Auth.ValidityWindow = defaultValidityWindow
	}

	if config.Auth.NonceCapacity <= 0 {
		config.Auth.NonceCapacity = defaultNonceCapacity
	}

	if config.Auth.Scheme == "" {
		config.Auth.Scheme = SchemeEd25519
	}

	if config.Auth.KeyEncoding == "" {
		config.Auth.KeyEncoding = EncodingBase64
	}

	if config.Auth.MaxMessageSize <= 0 {
		config.Auth.MaxMessageSize = maximumChallengeTextSize
	}

	if config.Sweeper.Interval == 0 {
		config.Sweeper.Interval = defaultSweepInterval
	}

	if config.Sweeper.Namespace == "" {
		config.Sweeper.Namespace = defaultRecordsNamespace
	}

	if config.Tracing.ServiceName == "" {
		config.Tracing.ServiceName = "walletauth"
	}

	return nil
}

// Validate validates all of configuration.
func (c *GlobalConfiguration) Validate() error {
	validatables := []interface {
		Validate() error
	}{
		&c.API,
		&c.DB,
		&c.Auth,
		&c.Sweeper,
		&c.Tracing,
		&c.Metrics,
		&c.Profiler,
	}

	for _, validatable := range validatables {
		if err := validatable.Validate(); err != nil {
			return err
		}
	}

	return nil
}
