package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/billforge/billforge/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig
	Billing    BillingConfig `validate:"required"`
	Cache      CacheConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// BillingConfig carries the tax and numbering policies of the seller
type BillingConfig struct {
	// SellerState and SellerPostalCode locate the seller for
	// jurisdiction resolution. Buyers resolved to the same jurisdiction
	// are taxed intra state (CGST plus SGST), everyone else inter
	// state (IGST).
	SellerState      string `validate:"required"`
	SellerPostalCode string

	// JurisdictionRules is the ordered rule table used to resolve
	// addresses to jurisdiction keys. Order is significant, the first
	// match wins.
	JurisdictionRules []JurisdictionRule

	// DefaultTaxRatePercent applies when a line item omits its tax rate
	DefaultTaxRatePercent float64

	DiscountPolicy types.DiscountPolicy
	RefundPolicy   types.RefundPolicy

	// AllowDemoNumbering permits the timestamp based demo document
	// number series. Refused outside local mode.
	AllowDemoNumbering bool
}

// JurisdictionRule matches an address to a jurisdiction key. Postal
// prefixes are checked before name substrings.
type JurisdictionRule struct {
	Key            string
	PostalPrefixes []string
	NameSubstrings []string
}

type CacheConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	// Load .env if present, ignore when missing
	_ = godotenv.Load()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/billforge")

	v.SetEnvPrefix("BILLFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("billing.sellerstate", "Maharashtra")
	v.SetDefault("billing.defaulttaxratepercent", 18)
	v.SetDefault("billing.discountpolicy", string(types.DiscountPolicyClamp))
	v.SetDefault("billing.refundpolicy", string(types.RefundPolicyPreTax))
	v.SetDefault("postgres.maxopenconns", 10)
	v.SetDefault("postgres.maxidleconns", 5)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.cleanupinterval", 10*time.Minute)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Billing.DiscountPolicy != "" {
		if err := c.Billing.DiscountPolicy.Validate(); err != nil {
			return err
		}
	}
	if c.Billing.RefundPolicy != "" {
		if err := c.Billing.RefundPolicy.Validate(); err != nil {
			return err
		}
	}

	if c.Deployment.Mode == types.ModeAPI && c.Postgres.Host == "" {
		return fmt.Errorf("postgres host is required in api mode")
	}

	return nil
}

// GetDefaultConfig returns a default configuration for local development
// and tests. The state rule table covers the common fixtures.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Billing: BillingConfig{
			SellerState:           "Maharashtra",
			SellerPostalCode:      "400001",
			DefaultTaxRatePercent: 18,
			DiscountPolicy:        types.DiscountPolicyClamp,
			RefundPolicy:          types.RefundPolicyPreTax,
			JurisdictionRules:     DefaultJurisdictionRules(),
			AllowDemoNumbering:    false,
		},
		Cache: CacheConfig{
			TTL:             time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
	}
}

// DefaultJurisdictionRules returns the built in rule table for the
// Indian states the seller commonly bills. Postal prefixes follow the
// leading digits of the PIN code ranges of each state.
func DefaultJurisdictionRules() []JurisdictionRule {
	return []JurisdictionRule{
		{Key: "MH", PostalPrefixes: []string{"40", "41", "42", "43", "44"}, NameSubstrings: []string{"maharashtra", "mumbai", "pune"}},
		{Key: "DL", PostalPrefixes: []string{"11"}, NameSubstrings: []string{"delhi", "new delhi"}},
		{Key: "KA", PostalPrefixes: []string{"56", "57", "58", "59"}, NameSubstrings: []string{"karnataka", "bengaluru", "bangalore"}},
		{Key: "TN", PostalPrefixes: []string{"60", "61", "62", "63", "64"}, NameSubstrings: []string{"tamil nadu", "chennai"}},
		{Key: "GJ", PostalPrefixes: []string{"36", "37", "38", "39"}, NameSubstrings: []string{"gujarat", "ahmedabad"}},
		{Key: "UP", PostalPrefixes: []string{"20", "21", "22", "23", "24", "25", "26", "27", "28"}, NameSubstrings: []string{"uttar pradesh", "lucknow", "noida"}},
		{Key: "WB", PostalPrefixes: []string{"70", "71", "72", "73"}, NameSubstrings: []string{"west bengal", "kolkata"}},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User, c.Password, c.DBName, c.Host, c.Port, c.SSLMode,
	)
}
