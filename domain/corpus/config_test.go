package corpus

import (
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "complete",
			cfg:  Config{ProjectID: "proj", Location: "europe-west4", CorpusID: "123"},
		},
		{
			name:    "missing project",
			cfg:     Config{Location: "europe-west4", CorpusID: "123"},
			wantErr: ErrNoProject,
		},
		{
			name:    "missing location",
			cfg:     Config{ProjectID: "proj", CorpusID: "123"},
			wantErr: ErrNoLocation,
		},
		{
			name:    "missing corpus",
			cfg:     Config{ProjectID: "proj", Location: "europe-west4"},
			wantErr: ErrNoCorpus,
		},
		{
			name: "full resource name needs nothing else",
			cfg:  Config{CorpusID: "projects/proj/locations/us-central1/ragCorpora/9"},
		},
		{
			name:    "resource name without corpus segment",
			cfg:     Config{CorpusID: "projects/proj/locations/us-central1"},
			wantErr: ErrMalformedCorpusName,
		},
		{
			name:    "resource name with empty location",
			cfg:     Config{CorpusID: "projects/proj/locations//ragCorpora/9"},
			wantErr: ErrMalformedCorpusName,
		},
		{
			name:    "resource name with wrong collection",
			cfg:     Config{CorpusID: "projects/proj/locations/us-central1/corpora/9"},
			wantErr: ErrMalformedCorpusName,
		},
		{
			name:    "resource name with trailing segment",
			cfg:     Config{CorpusID: "projects/proj/locations/us-central1/ragCorpora/9/ragFiles/1"},
			wantErr: ErrMalformedCorpusName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ResourceName(t *testing.T) {
	cfg := Config{ProjectID: "russtest4", Location: "europe-west4", CorpusID: "4611686018427387904"}
	want := "projects/russtest4/locations/europe-west4/ragCorpora/4611686018427387904"
	if got := cfg.ResourceName(); got != want {
		t.Errorf("ResourceName() = %q, want %q", got, want)
	}

	full := Config{ProjectID: "ignored", CorpusID: "projects/p/locations/us-east1/ragCorpora/7"}
	if got := full.ResourceName(); got != full.CorpusID {
		t.Errorf("ResourceName() = %q, want %q", got, full.CorpusID)
	}
	if got := full.RegionalLocation(); got != "us-east1" {
		t.Errorf("RegionalLocation() = %q, want us-east1", got)
	}
	if got := cfg.RegionalLocation(); got != "europe-west4" {
		t.Errorf("RegionalLocation() = %q, want europe-west4", got)
	}
}

func TestConfig_Project(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"from fields", Config{ProjectID: "proj", Location: "l", CorpusID: "1"}, "proj"},
		{"from resource name", Config{CorpusID: "projects/named/locations/us-east1/ragCorpora/7"}, "named"},
		{"resource name wins over field", Config{ProjectID: "other", CorpusID: "projects/named/locations/us-east1/ragCorpora/7"}, "named"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Project(); got != tt.want {
				t.Errorf("Project() = %q, want %q", got, tt.want)
			}
		})
	}
}
