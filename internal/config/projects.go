package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/j-veylop/revenue-dashboard-tui/internal/models"
)

const defaultPollingIntervalSeconds = 60

// ProjectsFile is the parsed projects configuration.
type ProjectsFile struct {
	PollInterval time.Duration
	Projects     []models.Project
}

type projectsJSON struct {
	PollingIntervalSeconds int           `json:"pollingIntervalSeconds"`
	Projects               []projectJSON `json:"projects"`
}

type projectJSON struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Stripe stripeJSON `json:"stripe"`
	PayPal paypalJSON `json:"paypal"`
}

type stripeJSON struct {
	Enabled bool   `json:"enabled"`
	APIKey  string `json:"apiKey"`
}

type paypalJSON struct {
	Enabled    bool `json:"enabled"`
	Sandbox    bool `json:"sandbox"`
	ClassicAPI struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		Signature string `json:"signature"`
	} `json:"classicApi"`
	RestAPI struct {
		ClientID string `json:"clientId"`
		Secret   string `json:"secret"`
	} `json:"restApi"`
	ClientID string `json:"clientId"`
	Secret   string `json:"secret"`
}

// LoadProjects reads and validates the projects file at path.
func LoadProjects(path string) (*ProjectsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects config %s: %w", path, err)
	}
	return ParseProjects(data)
}

// ParseProjects parses the projects file content. PayPal credentials are
// resolved to a single variant here so later stages never re-inspect the
// raw fields.
func ParseProjects(data []byte) (*ProjectsFile, error) {
	var raw projectsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse projects config: %w", err)
	}

	seconds := raw.PollingIntervalSeconds
	if seconds <= 0 {
		seconds = defaultPollingIntervalSeconds
	}

	file := &ProjectsFile{
		PollInterval: time.Duration(seconds) * time.Second,
		Projects:     make([]models.Project, 0, len(raw.Projects)),
	}

	seen := make(map[string]struct{}, len(raw.Projects))
	for i, p := range raw.Projects {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("project %d has an empty id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate project id %q", id)
		}
		seen[id] = struct{}{}

		name := p.Name
		if name == "" {
			name = id
		}

		file.Projects = append(file.Projects, models.Project{
			ID:   id,
			Name: name,
			Stripe: models.StripeConfig{
				Enabled: p.Stripe.Enabled,
				APIKey:  p.Stripe.APIKey,
			},
			PayPal: models.PayPalConfig{
				Enabled:     p.PayPal.Enabled,
				Sandbox:     p.PayPal.Sandbox,
				Credentials: resolvePayPal(p.PayPal),
			},
		})
	}

	return file, nil
}

// resolvePayPal picks classic, then REST, then legacy credentials. It
// returns nil when no set is complete.
func resolvePayPal(p paypalJSON) models.PayPalCredentials {
	c := p.ClassicAPI
	if c.Username != "" && c.Password != "" && c.Signature != "" {
		return models.ClassicCredentials{Username: c.Username, Password: c.Password, Signature: c.Signature}
	}
	if p.RestAPI.ClientID != "" && p.RestAPI.Secret != "" {
		return models.RESTCredentials{ClientID: p.RestAPI.ClientID, Secret: p.RestAPI.Secret}
	}
	if p.ClientID != "" && p.Secret != "" {
		return models.RESTCredentials{ClientID: p.ClientID, Secret: p.Secret, Legacy: true}
	}
	return nil
}
