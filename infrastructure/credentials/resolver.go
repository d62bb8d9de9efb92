package credentials

import (
	"fmt"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
)

// CloudPlatformScope is the OAuth scope the RAG data API requires
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// EnvCredentialsFile is the environment variable naming a service account file
const EnvCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"

// Origin describes where a credential source came from
type Origin string

const (
	OriginFlag    Origin = "flag"
	OriginEnv     Origin = "environment"
	OriginConfig  Origin = "config"
	OriginDefault Origin = "default"
)

// Source is a resolved credential source
type Source struct {
	Path   string // Empty for OriginDefault
	Origin Origin
}

// Resolve picks the credential source: the explicit path, else the file named
// by GOOGLE_APPLICATION_CREDENTIALS, else the ambient default credentials
func Resolve(flagPath string, getenv func(string) string) Source {
	if flagPath != "" {
		return Source{Path: flagPath, Origin: OriginFlag}
	}
	if getenv != nil {
		if p := getenv(EnvCredentialsFile); p != "" {
			return Source{Path: p, Origin: OriginEnv}
		}
	}
	return Source{Origin: OriginDefault}
}

// OrConfig falls back to the config file's credentials path when nothing
// more specific was resolved
func (s Source) OrConfig(path string) Source {
	if s.Origin != OriginDefault || path == "" {
		return s
	}
	return Source{Path: path, Origin: OriginConfig}
}

// String describes the source for operator output
func (s Source) String() string {
	if s.Path == "" {
		return string(s.Origin)
	}
	return fmt.Sprintf("%s (%s)", s.Path, s.Origin)
}

// Detect builds credentials scoped for the cloud platform from the source
func (s Source) Detect() (*auth.Credentials, error) {
	opts := &credentials.DetectOptions{
		Scopes: []string{CloudPlatformScope},
	}
	if s.Path != "" {
		opts.CredentialsFile = s.Path
	}

	creds, err := credentials.DetectDefault(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to detect credentials from %s: %w", s, err)
	}
	return creds, nil
}
