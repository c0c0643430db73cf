package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "SHOP_CONFIG_FILE"

const (
	ProviderHosted = "hosted"
	ProviderMock   = "mock"
)

type redis struct {
	URL     string        `mapstructure:"url"`
	CartTTL time.Duration `mapstructure:"cart_ttl"`
}

type topics struct {
	OrdersPlaced string `mapstructure:"orders_placed"`
	OrdersPaid   string `mapstructure:"orders_paid"`
}

type groups struct {
	Bestsellers string `mapstructure:"bestsellers"`
}

type tlsFiles struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

func (t tlsFiles) Enabled() bool {
	return t.CAFile != ""
}

type broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
	Groups             groups   `mapstructure:"groups"`
	TLS                tlsFiles `mapstructure:"tls"`
}

// Enabled reports whether order events and bestsellers are on.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type payment struct {
	Provider      string `mapstructure:"provider"`
	APIURL        string `mapstructure:"api_url"`
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	Currency      string `mapstructure:"currency"`
}

type checkout struct {
	ShippingCents         int64 `mapstructure:"shipping_cents"`
	FreeShippingFromCents int64 `mapstructure:"free_shipping_from_cents"`
}

type admin struct {
	User         string `mapstructure:"user"`
	PasswordHash string `mapstructure:"password_hash"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	SPADir         string     `mapstructure:"spa_dir"`
	PublicURL      string     `mapstructure:"public_url"`
	SQLDB          string     `mapstructure:"sql_db"`
	Redis          redis      `mapstructure:"redis"`
	Broker         broker     `mapstructure:"broker"`
	Payment        payment    `mapstructure:"payment"`
	Checkout       checkout   `mapstructure:"checkout"`
	Admin          admin      `mapstructure:"admin"`
}

// Load reads the config file named by the --config flag or the
// SHOP_CONFIG_FILE env and exits the process on failure.
func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	cfg.Payment.Currency = strings.ToUpper(cfg.Payment.Currency)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("public_url", "http://localhost:8080")
	v.SetDefault("redis.cart_ttl", "168h")
	v.SetDefault("broker.topics.orders_placed", "orders-placed")
	v.SetDefault("broker.topics.orders_paid", "orders-paid")
	v.SetDefault("broker.groups.bestsellers", "bestsellers")
	v.SetDefault("payment.provider", ProviderMock)
	v.SetDefault("payment.currency", "EUR")
	v.SetDefault("checkout.shipping_cents", 490)
	v.SetDefault("checkout.free_shipping_from_cents", 5000)
}

func (c Config) Validate() error {
	var errs []error
	required := func(name, v string) {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}

	required("sql_db", c.SQLDB)
	required("redis.url", c.Redis.URL)
	required("admin.user", c.Admin.User)
	required("admin.password_hash", c.Admin.PasswordHash)

	switch c.Payment.Provider {
	case ProviderMock:
	case ProviderHosted:
		required("payment.api_url", c.Payment.APIURL)
		required("payment.secret_key", c.Payment.SecretKey)
	default:
		errs = append(errs, fmt.Errorf(
			"payment.provider must be %q or %q", ProviderHosted, ProviderMock,
		))
	}
	if len(c.Payment.Currency) != 3 {
		errs = append(errs, errors.New("payment.currency must be an ISO 4217 code"))
	}

	if c.Checkout.ShippingCents < 0 || c.Checkout.FreeShippingFromCents < 0 {
		errs = append(errs, errors.New("checkout amounts must not be negative"))
	}
	if c.Redis.CartTTL <= 0 {
		errs = append(errs, errors.New("redis.cart_ttl must be positive"))
	}

	if c.Broker.Enabled() && len(c.Broker.SchemaRegistryURLs) == 0 {
		errs = append(errs, errors.New(
			"broker.schema_registry_urls is required with seed_brokers",
		))
	}
	if t := c.Broker.TLS; t.Enabled() && (t.CertFile == "" || t.KeyFile == "") {
		errs = append(errs, errors.New("broker.tls needs ca_file, cert_file and key_file"))
	}

	return errors.Join(errs...)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	SPADir=%q
	PublicURL=%q
	SQLDB=%q

	Redis:
	URL=%q
	CartTTL=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		OrdersPlaced=%q
		OrdersPaid=%q
	Groups:
		Bestsellers=%q

	Payment:
	Provider=%q
	APIURL=%q
	SecretKey=%q
	WebhookSecret=%q
	Currency=%q

	Checkout:
	ShippingCents=%d
	FreeShippingFromCents=%d

	Admin:
	User=%q
	PasswordHash=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.SPADir,
		c.PublicURL,
		maskURL(c.SQLDB),
		maskURL(c.Redis.URL),
		c.Redis.CartTTL,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.OrdersPlaced,
		c.Broker.Topics.OrdersPaid,
		c.Broker.Groups.Bestsellers,
		c.Payment.Provider,
		c.Payment.APIURL,
		mask(c.Payment.SecretKey),
		mask(c.Payment.WebhookSecret),
		c.Payment.Currency,
		c.Checkout.ShippingCents,
		c.Checkout.FreeShippingFromCents,
		c.Admin.User,
		mask(c.Admin.PasswordHash),
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "******"
}

// maskURL hides the password of the url userinfo.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "******")
	}
	return u.String()
}
