package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StorageCSV      = "csv"
	StoragePostgres = "postgres"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	JWT     JWTConfig
	Access  AccessConfig
	Storage StorageConfig
	DB      DBConfig
	Delete  DeleteConfig
	Export  ExportConfig
	Log     LogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, production
	Name string
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

// JWTConfig configuración del token de sesión emitido tras la puerta de acceso.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// AccessConfig credencial compartida del operador.
// PasswordHash (bcrypt) tiene prioridad; Password en claro solo para desarrollo.
type AccessConfig struct {
	PasswordHash string
	Password     string
}

// StorageConfig backend de las tres tablas.
type StorageConfig struct {
	Driver       string // csv | postgres
	DataDir      string
	SalesFile    string
	PaymentsFile string
	LogsFile     string
}

// DBConfig configuración de PostgreSQL (solo con STORAGE_DRIVER=postgres).
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

// DeleteConfig exclusión en dos pasos.
type DeleteConfig struct {
	ConfirmTTLSeconds int
}

// ConfirmTTL vigencia de un token de confirmación.
func (c DeleteConfig) ConfirmTTL() time.Duration {
	return time.Duration(c.ConfirmTTLSeconds) * time.Second
}

// ExportConfig nombres de los archivos exportados.
type ExportConfig struct {
	FileName       string
	ReportFileName string
}

// LogConfig nivel del logger.
type LogConfig struct {
	Level string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DATA_DIR, ACCESS_PASSWORD_HASH, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v), nil
}

// FromViper construye la configuración aplicando valores por defecto.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "comisiones"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "comisiones"),
		},
		Access: AccessConfig{
			PasswordHash: getString(v, "ACCESS_PASSWORD_HASH", ""),
			Password:     getString(v, "ACCESS_PASSWORD", ""),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(getString(v, "STORAGE_DRIVER", StorageCSV)),
			DataDir:      getString(v, "DATA_DIR", "."),
			SalesFile:    getString(v, "SALES_FILE", "vendas.csv"),
			PaymentsFile: getString(v, "PAYMENTS_FILE", "pagamentos.csv"),
			LogsFile:     getString(v, "LOGS_FILE", "logs.csv"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "comisiones"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Delete: DeleteConfig{
			ConfirmTTLSeconds: getInt(v, "DELETE_CONFIRM_TTL_SECONDS", 120),
		},
		Export: ExportConfig{
			FileName:       getString(v, "EXPORT_FILE_NAME", "dashboard_comissoes.xlsx"),
			ReportFileName: getString(v, "REPORT_FILE_NAME", "relatorio_comissoes.pdf"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
	}
}

// Validate verifica las combinaciones obligatorias.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageCSV, StoragePostgres:
	default:
		return fmt.Errorf("config: STORAGE_DRIVER desconocido %q (csv|postgres)", c.Storage.Driver)
	}
	if c.Access.PasswordHash == "" && c.Access.Password == "" {
		return fmt.Errorf("config: definir ACCESS_PASSWORD_HASH (o ACCESS_PASSWORD en desarrollo)")
	}
	if c.Delete.ConfirmTTLSeconds <= 0 {
		return fmt.Errorf("config: DELETE_CONFIRM_TTL_SECONDS debe ser positivo")
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
			n, err := strconv.Atoi(v.GetString(key))
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
