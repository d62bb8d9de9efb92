package config

import (
	"fmt"
	"sort"
	"strings"

	"rag-corpus-dedup/domain/notification"
)

// RecipientLookup resolves report recipients from config
type RecipientLookup struct {
	config *Config
}

// NewRecipientLookup creates a new recipient lookup from config
func NewRecipientLookup(cfg *Config) *RecipientLookup {
	return &RecipientLookup{config: cfg}
}

// LookupRecipient finds recipients matching the query (first name, last name, full name, or key)
// Returns all matches - caller should handle ambiguity
func (r *RecipientLookup) LookupRecipient(query string) ([]notification.Recipient, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, notification.ErrRecipientNotFound
	}

	var matches []notification.Recipient

	for _, key := range r.sortedKeys() {
		rc := r.config.Email.Recipients[key]
		nameLower := strings.ToLower(rc.Name)
		nameParts := strings.Fields(nameLower)

		var firstName, lastName string
		if len(nameParts) > 0 {
			firstName = nameParts[0]
		}
		if len(nameParts) > 1 {
			lastName = nameParts[len(nameParts)-1]
		}

		if strings.ToLower(key) == query || firstName == query || lastName == query || nameLower == query {
			matches = append(matches, notification.Recipient{
				Name:    rc.Name,
				Address: rc.Address,
			})
		}
	}

	if len(matches) == 0 {
		return nil, notification.ErrRecipientNotFound
	}

	return matches, nil
}

// Resolve returns the To recipients for queries, or every configured
// recipient when queries is empty. Each query must match exactly one entry.
func (r *RecipientLookup) Resolve(queries []string) ([]notification.Recipient, error) {
	if len(queries) == 0 {
		var all []notification.Recipient
		for _, key := range r.sortedKeys() {
			rc := r.config.Email.Recipients[key]
			all = append(all, notification.Recipient{Name: rc.Name, Address: rc.Address})
		}
		return all, nil
	}

	var result []notification.Recipient
	for _, q := range queries {
		matches, err := r.LookupRecipient(q)
		if err != nil {
			return nil, fmt.Errorf("%w: %q\n\nTo fix this, run:\n  %s", err, q, SuggestAddRecipientCommand(q))
		}
		if len(matches) > 1 {
			return nil, fmt.Errorf("%w: %q matches %d recipients", notification.ErrAmbiguousRecipient, q, len(matches))
		}
		result = append(result, matches[0])
	}
	return result, nil
}

// DefaultCC returns the configured CC recipients
func (r *RecipientLookup) DefaultCC() []notification.Recipient {
	result := make([]notification.Recipient, 0, len(r.config.Email.DefaultCC))
	for _, cc := range r.config.Email.DefaultCC {
		result = append(result, notification.Recipient{Name: cc.Name, Address: cc.Address})
	}
	return result
}

func (r *RecipientLookup) sortedKeys() []string {
	keys := make([]string, 0, len(r.config.Email.Recipients))
	for k := range r.config.Email.Recipients {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
