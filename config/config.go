package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del advisor.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Yahoo   YahooConfig   `yaml:"yahoo"`
	Enrich  EnrichConfig  `yaml:"enrich"`
	Draft   DraftConfig   `yaml:"draft"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig contiene los base URLs de las APIs externas.
type APIConfig struct {
	YahooBase   string `yaml:"yahoo_base"`
	TokenURL    string `yaml:"token_url"`
	SleeperBase string `yaml:"sleeper_base"`
}

// YahooConfig controla el comportamiento de la capa de acceso a Yahoo.
type YahooConfig struct {
	RateMaxCalls       int `yaml:"rate_max_calls"`   // llamadas máximas por ventana
	RateWindowSecs     int `yaml:"rate_window_secs"` // tamaño de la ventana deslizante
	CacheTTLSecs       int `yaml:"cache_ttl_secs"`   // TTL por defecto del cache de respuestas
	RequestTimeoutSecs int `yaml:"request_timeout_secs"`

	// Credenciales — solo desde el entorno, nunca desde el YAML.
	ConsumerKey    string `yaml:"-"`
	ConsumerSecret string `yaml:"-"`
	AccessToken    string `yaml:"-"`
	RefreshToken   string `yaml:"-"`
	UserGUID       string `yaml:"-"`
	EnvPath        string `yaml:"-"` // archivo .env donde persistir tokens rotados
}

// EnrichConfig controla el enriquecimiento con fuentes secundarias.
type EnrichConfig struct {
	Workers        int  `yaml:"workers"` // tamaño del pool de merge (0 = 4)
	Season         int  `yaml:"season"`  // temporada NFL (0 = derivada de la fecha)
	SleeperEnabled bool `yaml:"sleeper_enabled"`
}

// DraftConfig activa el subsistema de draft en vivo.
type DraftConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StorageConfig controla dónde se persiste el histórico de recomendaciones.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, ":memory:", o vacío para desactivar
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las credenciales vienen siempre del entorno; el YAML solo lleva tuning.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// CacheTTL devuelve el TTL por defecto del cache como time.Duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Yahoo.CacheTTLSecs) * time.Second
}

// RateWindow devuelve la ventana del rate limiter como time.Duration.
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.Yahoo.RateWindowSecs) * time.Second
}

// RequestTimeout devuelve el timeout por request saliente.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Yahoo.RequestTimeoutSecs) * time.Second
}

// applyEnvOverrides lee credenciales y overrides desde variables de entorno.
func applyEnvOverrides(cfg *Config) {
	cfg.Yahoo.ConsumerKey = os.Getenv("YAHOO_CONSUMER_KEY")
	cfg.Yahoo.ConsumerSecret = os.Getenv("YAHOO_CONSUMER_SECRET")
	cfg.Yahoo.AccessToken = os.Getenv("YAHOO_ACCESS_TOKEN")
	cfg.Yahoo.RefreshToken = os.Getenv("YAHOO_REFRESH_TOKEN")
	cfg.Yahoo.UserGUID = os.Getenv("YAHOO_GUID")
	if v := os.Getenv("ROSTERBOT_ENV_PATH"); v != "" {
		cfg.Yahoo.EnvPath = v
	}
	if v := os.Getenv("DRAFT_AVAILABLE"); v == "true" {
		cfg.Draft.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.API.YahooBase == "" {
		cfg.API.YahooBase = "https://fantasysports.yahooapis.com/fantasy/v2"
	}
	if cfg.API.TokenURL == "" {
		cfg.API.TokenURL = "https://api.login.yahoo.com/oauth2/get_token"
	}
	if cfg.API.SleeperBase == "" {
		cfg.API.SleeperBase = "https://api.sleeper.app/v1"
	}
	if cfg.Yahoo.RateMaxCalls <= 0 {
		cfg.Yahoo.RateMaxCalls = 18
	}
	if cfg.Yahoo.RateWindowSecs <= 0 {
		cfg.Yahoo.RateWindowSecs = 60
	}
	if cfg.Yahoo.CacheTTLSecs <= 0 {
		cfg.Yahoo.CacheTTLSecs = 300
	}
	if cfg.Yahoo.RequestTimeoutSecs <= 0 {
		cfg.Yahoo.RequestTimeoutSecs = 15
	}
	if cfg.Yahoo.EnvPath == "" {
		cfg.Yahoo.EnvPath = ".env"
	}
	if cfg.Enrich.Workers <= 0 {
		cfg.Enrich.Workers = 4
	}
	if cfg.Enrich.Season <= 0 {
		cfg.Enrich.Season = currentSeason(time.Now())
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// currentSeason deriva la temporada NFL de la fecha: la temporada arranca en
// septiembre y sus playoffs caen en el año siguiente.
func currentSeason(now time.Time) int {
	if now.Month() < time.March {
		return now.Year() - 1
	}
	return now.Year()
}
