package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"storefront/internal/core/proxy"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the storefront service.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// StoreAPI holds the remote store API configuration.
	StoreAPI StoreAPIConfig `mapstructure:",squash"`

	// Redis holds the cart/checkout storage configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Proxy holds the optional outbound proxy for store API calls.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// StoreAPIConfig holds the connection details of the remote store API.
type StoreAPIConfig struct {
	// URL is the base URL of the store API (e.g., https://larek-api.example.com/api/weblarek).
	URL string `mapstructure:"STORE_API_URL" required:"true"`
	// Token is an optional bearer token sent with every request.
	Token string `mapstructure:"STORE_API_TOKEN"`
	// CDNURL is prefixed to relative product image paths.
	CDNURL string `mapstructure:"CDN_URL"`
	// TimeoutSeconds bounds a single API request.
	TimeoutSeconds int `mapstructure:"STORE_API_TIMEOUT" default:"10"`
	// RequestsPerSecond throttles outbound calls. 0 disables throttling.
	RequestsPerSecond float64 `mapstructure:"STORE_API_RPS" default:"10"`
	// Burst is the limiter bucket size.
	Burst int `mapstructure:"STORE_API_BURST" default:"20"`
}

// Timeout returns the request timeout as a duration.
func (c StoreAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RedisConfig holds Redis connection and expiry settings.
type RedisConfig struct {
	// URL is in the format redis://[:password@]host[:port][/database].
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// CartTTLSeconds is the sliding lifetime of an idle cart.
	CartTTLSeconds int `mapstructure:"CART_TTL" default:"604800"`
	// CheckoutTTLSeconds is the lifetime of an unfinished checkout.
	CheckoutTTLSeconds int `mapstructure:"CHECKOUT_TTL" default:"3600"`
}

// CartTTL returns the cart lifetime as a duration.
func (c RedisConfig) CartTTL() time.Duration {
	return time.Duration(c.CartTTLSeconds) * time.Second
}

// CheckoutTTL returns the checkout draft lifetime as a duration.
func (c RedisConfig) CheckoutTTL() time.Duration {
	return time.Duration(c.CheckoutTTLSeconds) * time.Second
}

// ProxyConfig holds outbound proxy credentials.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED"`
	Hostname string `mapstructure:"PROXY_HOST"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USER"`
	Password string `mapstructure:"PROXY_PASS"`
}

// Settings converts the config into proxy.Settings.
func (c ProxyConfig) Settings() proxy.Settings {
	return proxy.Settings{
		Enabled:  c.Enabled,
		Hostname: c.Hostname,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
	}
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags binds every tagged field to its env key and registers defaults in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}

		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}

		if defaultValue := field.Tag.Get("default"); defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	default:
		return v.IsZero()
	}
}
