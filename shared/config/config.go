package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	BackendFiles = "files"
	BackendS3    = "s3"
	BackendMinio = "minio"

	TransportMultipart = "multipart"
	TransportJSON      = "json"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Log             Log         `yaml:"log"`
	Web             Web         `yaml:"web"`
	Proxy           Proxy       `yaml:"proxy"`
	Storage         Storage     `yaml:"storage"`
	Webhooks        Webhooks    `yaml:"webhooks"`
	Attachments     Attachments `yaml:"attachments"`
	Languages       []string    `yaml:"languages"`
	DefaultLanguage string      `yaml:"default_language"`
	ChatWelcome     string      `yaml:"chat_welcome"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Web is the browser-facing host for the form and the chat widget.
type Web struct {
	Port           string        `yaml:"port"`
	HTTPS          bool          `yaml:"https"`
	SessionTTL     time.Duration `yaml:"session_ttl"`      // idle chat sessions are dropped after this
	MaxMemoryBytes int64         `yaml:"max_memory_bytes"` // multipart parts above this spill to disk
}

type Proxy struct {
	Port            string        `yaml:"port"`
	URL             string        `yaml:"url"`               // where clients reach the proxy
	MaxRequestBytes int64         `yaml:"max_request_bytes"` // base64 body + JSON overhead
	RemoteTimeout   time.Duration `yaml:"remote_timeout"`
	UniqueNames     bool          `yaml:"unique_names"` // prefix stored names with a uuid
	HTTPS           bool          `yaml:"https"` // served over TLS: adds HSTS
}

type Storage struct {
	Backend     string `yaml:"backend"`
	Host        string `yaml:"host"`
	VolumePath  string `yaml:"volume_path"`
	Bucket      string `yaml:"bucket"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	UseSSL      bool   `yaml:"use_ssl"`
	AccessKeyID string `yaml:"access_key_id"`
}

type Webhooks struct {
	FormURL   string        `yaml:"form_url"`
	ChatURL   string        `yaml:"chat_url"`
	Transport string        `yaml:"transport"`
	Timeout   time.Duration `yaml:"timeout"`
}

type Attachments struct {
	MaxFiles          int   `yaml:"max_files"`
	MaxFileSizeBytes  int64 `yaml:"max_file_size_bytes"`
	MaxTotalSizeBytes int64 `yaml:"max_total_size_bytes"`
}

type Private struct {
	StorageToken string `yaml:"storage_token"`
}

// StorageToken is the server-held credential for the remote store.
// It only ever comes from private.yaml or the process environment.
func (c *Config) StorageToken() string {
	return c.private.StorageToken
}

// WithStorageToken returns a copy of c using token as the storage credential.
// Test helper: production code only gets the token from Load.
func (c *Config) WithStorageToken(token string) *Config {
	cp := *c
	cp.private.StorageToken = token
	return &cp
}

func Default() *Config {
	return &Config{
		Public: Public{
			Log: Log{Level: "info"},
			Web: Web{
				Port:           "8081",
				SessionTTL:     30 * time.Minute,
				MaxMemoryBytes: 8 << 20,
			},
			Proxy: Proxy{
				Port:            "8080",
				URL:             "http://localhost:8080/upload",
				MaxRequestBytes: 16 << 20,
				RemoteTimeout:   60 * time.Second,
			},
			Storage: Storage{
				Backend:    BackendFiles,
				VolumePath: "/Volumes/support/feedback/raw_attachments",
				Region:     "us-east-1",
			},
			Webhooks: Webhooks{
				Transport: TransportMultipart,
				Timeout:   30 * time.Second,
			},
			Attachments: Attachments{
				MaxFiles:          5,
				MaxFileSizeBytes:  10 * 1024 * 1024,
				MaxTotalSizeBytes: 50 * 1024 * 1024,
			},
			Languages:       []string{"sv", "no", "en", "da", "fi", "de", "fr"},
			DefaultLanguage: "en",
			ChatWelcome:     "Hi! How can I help you today?",
		},
	}
}

// loadOptionalPath unmarshals configPath into output; a missing file is not an error.
func loadOptionalPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// Load builds the config from defaults, public.yaml and private.yaml in configFolder,
// a .env file in the working directory, and finally the process environment.
func Load(configFolder string) (*Config, error) {
	cfg := Default()
	if err := loadOptionalPath(path.Join(configFolder, "public.yaml"), &cfg.Public); err != nil {
		return nil, err
	}
	if err := loadOptionalPath(path.Join(configFolder, "private.yaml"), &cfg.private); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("can't load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func (c *Config) applyEnv() error {
	setString(&c.Public.Storage.Host, "DATABRICKS_HOST")
	setString(&c.Public.Storage.VolumePath, "DATABRICKS_VOLUME_PATH")
	setString(&c.private.StorageToken, "DATABRICKS_TOKEN")
	setString(&c.Public.Storage.Backend, "STORAGE_BACKEND")
	setString(&c.Public.Storage.Bucket, "STORAGE_BUCKET")
	setString(&c.Public.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&c.Public.Storage.AccessKeyID, "STORAGE_ACCESS_KEY_ID")
	setString(&c.Public.Webhooks.FormURL, "FORM_WEBHOOK_URL")
	setString(&c.Public.Webhooks.ChatURL, "CHAT_WEBHOOK_URL")
	setString(&c.Public.Webhooks.Transport, "FORM_TRANSPORT")
	setString(&c.Public.Proxy.Port, "PORT")
	setString(&c.Public.Web.Port, "WEB_PORT")
	setString(&c.Public.Proxy.URL, "UPLOAD_PROXY_URL")
	setString(&c.Public.Log.Level, "LOG_LEVEL")

	if v, ok := os.LookupEnv("LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LOG_JSON: %w", err)
		}
		c.Public.Log.JSON = b
	}

	switch c.Public.Storage.Backend {
	case BackendFiles, BackendS3, BackendMinio:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Public.Storage.Backend)
	}
	switch c.Public.Webhooks.Transport {
	case TransportMultipart, TransportJSON:
	default:
		return fmt.Errorf("unknown form transport %q", c.Public.Webhooks.Transport)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}
