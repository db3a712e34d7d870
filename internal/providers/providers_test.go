package providers

import (
	"reflect"
	"testing"
)

func TestWorkURL(t *testing.T) {
	p := Provider{BaseURL: "https://app.bibliocloud.com/"}
	if got := p.WorkURL("42"); got != "https://app.bibliocloud.com/works/42" {
		t.Errorf("Expected trailing slash to be trimmed, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		wantErr  bool
	}{
		{
			name:     "valid",
			provider: Provider{Name: "x", BaseURL: "https://x", Territories: TerritoriesWorld},
		},
		{
			name:     "missing name",
			provider: Provider{BaseURL: "https://x", Territories: TerritoriesWorld},
			wantErr:  true,
		},
		{
			name:     "missing base url",
			provider: Provider{Name: "x", Territories: TerritoriesExcluded},
			wantErr:  true,
		},
		{
			name:     "unknown territory style",
			provider: Provider{Name: "x", BaseURL: "https://x", Territories: "galaxy"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.provider.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultsAreValid(t *testing.T) {
	for _, p := range Defaults() {
		if err := p.Validate(); err != nil {
			t.Errorf("Default provider %s is invalid: %v", p.Name, err)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(Defaults())

	p, ok := r.Get("Consonance")
	if !ok {
		t.Fatal("Expected lookup to be case-insensitive")
	}
	if p.Territories != TerritoriesWorld {
		t.Errorf("Expected world territory style, got %s", p.Territories)
	}

	if _, ok := r.Get("nielsen"); ok {
		t.Error("Expected unknown provider lookup to fail")
	}

	want := []string{"bibliocloud", "consonance"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected names %v, got %v", want, got)
	}
}
