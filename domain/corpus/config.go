package corpus

import (
	"fmt"
	"strings"
)

// Config identifies the RAG corpus a run operates on
type Config struct {
	ProjectID string
	Location  string
	CorpusID  string
}

// Validate checks that the corpus is fully identified
func (c Config) Validate() error {
	if strings.HasPrefix(c.CorpusID, "projects/") {
		if _, ok := splitResourceName(c.CorpusID); !ok {
			return fmt.Errorf("%w: %q", ErrMalformedCorpusName, c.CorpusID)
		}
		return nil
	}
	if c.ProjectID == "" {
		return ErrNoProject
	}
	if c.Location == "" {
		return ErrNoLocation
	}
	if c.CorpusID == "" {
		return ErrNoCorpus
	}
	return nil
}

// ResourceName returns projects/{project}/locations/{location}/ragCorpora/{corpus}.
// A CorpusID that is already a full resource name is returned as is.
func (c Config) ResourceName() string {
	if strings.HasPrefix(c.CorpusID, "projects/") {
		return c.CorpusID
	}
	return fmt.Sprintf("projects/%s/locations/%s/ragCorpora/%s", c.ProjectID, c.Location, c.CorpusID)
}

// Project returns the project the corpus belongs to, taken from the
// resource name when CorpusID is fully qualified
func (c Config) Project() string {
	if parts, ok := splitResourceName(c.CorpusID); ok {
		return parts[1]
	}
	return c.ProjectID
}

// RegionalLocation returns the location the corpus lives in, taken from the
// resource name when CorpusID is fully qualified
func (c Config) RegionalLocation() string {
	if parts, ok := splitResourceName(c.CorpusID); ok {
		return parts[3]
	}
	return c.Location
}

// splitResourceName splits projects/{p}/locations/{l}/ragCorpora/{c}
func splitResourceName(name string) ([]string, bool) {
	parts := strings.Split(name, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "locations" || parts[4] != "ragCorpora" {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}
