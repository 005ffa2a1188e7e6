package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Fuentes de pedidos soportadas por el servicio de analítica.
const (
	OrderSourceHTTP     = "http"
	OrderSourcePostgres = "postgres"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Log       LogConfig
	Services  ServicesConfig
	Analytics AnalyticsConfig
	DB        DBConfig
	JWT       JWTConfig
	CORS      CORSConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel y formato del logger.
type LogConfig struct {
	Level string // trace, debug, info, warn, error
}

// ServicesConfig URLs base de los servicios upstream (order, product, user).
type ServicesConfig struct {
	OrderURL   string
	ProductURL string
	UserURL    string
	Timeout    time.Duration // timeout por llamada upstream
}

// AnalyticsConfig parámetros del pipeline de reportes.
type AnalyticsConfig struct {
	OrderSource      string        // "http" (order-service) o "postgres" (lectura directa)
	PageSize         int           // tamaño de página al paginar pedidos
	ReportTimeout    time.Duration // límite para el reporte completo
	DashboardTimeout time.Duration // límite para el resumen del dashboard
}

// DBConfig configuración de PostgreSQL (solo se usa con ORDER_SOURCE=postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
// Con Secret vacío no se exige token ni se firma el token de servicio.
type JWTConfig struct {
	Secret       string
	Expiration   int // minutos
	Issuer       string
	AuthRequired bool
}

// CORSConfig orígenes permitidos (lista separada por comas).
type CORSConfig struct {
	AllowedOrigins string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, ORDER_SERVICE_URL, REPORT_TIMEOUT, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "analytics-service"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8085),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		Services: ServicesConfig{
			OrderURL:   strings.TrimRight(getString(v, "ORDER_SERVICE_URL", "http://localhost:8083"), "/"),
			ProductURL: strings.TrimRight(getString(v, "PRODUCT_SERVICE_URL", "http://localhost:8082"), "/"),
			UserURL:    strings.TrimRight(getString(v, "USER_SERVICE_URL", "http://localhost:8081"), "/"),
			Timeout:    getDuration(v, "UPSTREAM_TIMEOUT", 30*time.Second),
		},
		Analytics: AnalyticsConfig{
			OrderSource:      strings.ToLower(getString(v, "ORDER_SOURCE", OrderSourceHTTP)),
			PageSize:         getInt(v, "ORDER_PAGE_SIZE", 100),
			ReportTimeout:    getDuration(v, "REPORT_TIMEOUT", 60*time.Second),
			DashboardTimeout: getDuration(v, "DASHBOARD_TIMEOUT", 30*time.Second),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "order_service"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:       getString(v, "JWT_SECRET", ""),
			Expiration:   getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:       getString(v, "JWT_ISSUER", "analytics-service"),
			AuthRequired: getBool(v, "AUTH_REQUIRED", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: getString(v, "CORS_ALLOWED_ORIGINS", "http://localhost:4200"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Analytics.OrderSource {
	case OrderSourceHTTP, OrderSourcePostgres:
	default:
		return fmt.Errorf("config: ORDER_SOURCE inválido %q (http|postgres)", c.Analytics.OrderSource)
	}
	if c.Analytics.PageSize <= 0 {
		return fmt.Errorf("config: ORDER_PAGE_SIZE debe ser mayor que cero")
	}
	if c.JWT.AuthRequired && c.JWT.Secret == "" {
		return fmt.Errorf("config: AUTH_REQUIRED exige JWT_SECRET")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

// getDuration acepta "30s", "1m" o un entero interpretado como segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
