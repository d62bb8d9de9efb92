package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"rag-corpus-dedup/domain/corpus"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment overrides, e.g. RAGDEDUP_PROJECT_ID
const EnvPrefix = "RAGDEDUP"

// DefaultPath is where the config file is looked for when --config is not given
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	Corpus CorpusConfig `yaml:"corpus"`
	Google GoogleConfig `yaml:"google"`
	Email  EmailConfig  `yaml:"email"`
}

// CorpusConfig identifies the RAG corpus to maintain
type CorpusConfig struct {
	ProjectID string `yaml:"project_id" envconfig:"PROJECT_ID"`
	Location  string `yaml:"location" envconfig:"LOCATION"`
	CorpusID  string `yaml:"corpus_id" envconfig:"CORPUS_ID"`
}

// GoogleConfig contains Google API settings
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`  // Service account for the RAG API
	OAuthClientFile string `yaml:"oauth_client_file"` // Installed-app client for Gmail
	TokenFile       string `yaml:"token_file"`
}

// EmailConfig contains run report settings
type EmailConfig struct {
	FromName    string                     `yaml:"from_name"`
	FromAddress string                     `yaml:"from_address"`
	DefaultCC   []RecipientConfig          `yaml:"default_cc,omitempty"`
	Recipients  map[string]RecipientConfig `yaml:"recipients,omitempty"`
}

// RecipientConfig represents an email recipient
type RecipientConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// CorpusTarget converts the corpus section into the domain corpus config
func (c *Config) CorpusTarget() corpus.Config {
	return corpus.Config{
		ProjectID: c.Corpus.ProjectID,
		Location:  c.Corpus.Location,
		CorpusID:  c.Corpus.CorpusID,
	}
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads and parses the configuration from fsys
func LoadFs(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadOptional behaves like LoadFs but returns an empty Config when the file does not exist
func LoadOptional(fsys afero.Fs, path string) (*Config, error) {
	cfg, err := LoadFs(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	return SaveFs(afero.NewOsFs(), cfg, path)
}

// SaveFs writes the configuration to fsys, creating the parent directory
func SaveFs(fsys afero.Fs, cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv exports the variables of a .env file that are not already set.
// A missing file is not an error.
func LoadDotEnv(fsys afero.Fs, path string) error {
	f, err := fsys.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for k, v := range vars {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("failed to export %s: %w", k, err)
		}
	}
	return nil
}

// ApplyEnv overrides the corpus section from RAGDEDUP_* environment variables.
// Unset variables leave the file values in place.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, &cfg.Corpus); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}
	return nil
}
