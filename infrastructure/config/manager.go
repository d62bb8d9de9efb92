package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Errors for config management
var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrCCNotFound        = errors.New("cc not found")
	ErrDuplicateKey      = errors.New("key already exists")
	ErrInvalidEmail      = errors.New("invalid email format")
)

// ConfigManager provides CRUD operations for report recipients
type ConfigManager struct {
	config     *Config
	configPath string
	fs         afero.Fs
}

// NewConfigManager creates a new config manager writing to the OS filesystem
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return NewConfigManagerFs(afero.NewOsFs(), cfg, configPath)
}

// NewConfigManagerFs creates a new config manager writing to fsys
func NewConfigManagerFs(fsys afero.Fs, cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
		fs:         fsys,
	}
}

// Recipient represents a recipient entry (used for both recipients and CCs)
type Recipient struct {
	Key     string
	Name    string
	Address string
}

func (m *ConfigManager) save() error {
	return SaveFs(m.fs, m.config, m.configPath)
}

// --- Recipient CRUD ---

// AddRecipient adds a new report recipient to config
func (m *ConfigManager) AddRecipient(key, name, email string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if key == "" {
		return fmt.Errorf("recipient key is required")
	}
	if name == "" {
		return fmt.Errorf("recipient name is required")
	}
	if !isValidEmail(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	if m.config.Email.Recipients == nil {
		m.config.Email.Recipients = make(map[string]RecipientConfig)
	}

	if _, exists := m.config.Email.Recipients[key]; exists {
		return fmt.Errorf("%w: recipient %q", ErrDuplicateKey, key)
	}

	m.config.Email.Recipients[key] = RecipientConfig{Name: name, Address: email}
	return m.save()
}

// ListRecipients returns all recipients sorted by key
func (m *ConfigManager) ListRecipients() []Recipient {
	result := make([]Recipient, 0, len(m.config.Email.Recipients))
	for key, rc := range m.config.Email.Recipients {
		result = append(result, Recipient{
			Key:     key,
			Name:    rc.Name,
			Address: rc.Address,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// RemoveRecipient removes a recipient by key
func (m *ConfigManager) RemoveRecipient(key string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, exists := m.config.Email.Recipients[key]; !exists {
		return fmt.Errorf("%w: %q", ErrRecipientNotFound, key)
	}

	delete(m.config.Email.Recipients, key)
	return m.save()
}

// --- CC CRUD ---

// AddCC adds a new default CC recipient
func (m *ConfigManager) AddCC(name, email string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return fmt.Errorf("cc name is required")
	}
	if !isValidEmail(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	for _, cc := range m.config.Email.DefaultCC {
		if strings.EqualFold(cc.Address, email) {
			return fmt.Errorf("%w: cc %q", ErrDuplicateKey, email)
		}
	}

	m.config.Email.DefaultCC = append(m.config.Email.DefaultCC, RecipientConfig{
		Name:    name,
		Address: email,
	})
	return m.save()
}

// ListCCs returns all default CC recipients keyed by lowercase first name
func (m *ConfigManager) ListCCs() []Recipient {
	result := make([]Recipient, 0, len(m.config.Email.DefaultCC))
	for i, cc := range m.config.Email.DefaultCC {
		key := ccKey(cc.Name)
		if key == "" {
			key = fmt.Sprintf("cc%d", i)
		}
		result = append(result, Recipient{
			Key:     key,
			Name:    cc.Name,
			Address: cc.Address,
		})
	}
	return result
}

// RemoveCC removes a CC matched by first name, full name, or address
func (m *ConfigManager) RemoveCC(key string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	for i, cc := range m.config.Email.DefaultCC {
		if ccKey(cc.Name) == key || strings.ToLower(cc.Name) == key || strings.ToLower(cc.Address) == key {
			m.config.Email.DefaultCC = append(
				m.config.Email.DefaultCC[:i],
				m.config.Email.DefaultCC[i+1:]...,
			)
			return m.save()
		}
	}
	return fmt.Errorf("%w: %q", ErrCCNotFound, key)
}

func ccKey(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	// Basic check: contains @ and at least one . after @
	atIdx := strings.Index(email, "@")
	if atIdx < 1 {
		return false
	}
	domain := email[atIdx+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}

// SuggestAddRecipientCommand returns the command to add a missing recipient
func SuggestAddRecipientCommand(key string) string {
	return fmt.Sprintf(`rag-corpus-dedup config add recipient --key %s --name "Recipient Name" --email "email@example.com"`, key)
}
