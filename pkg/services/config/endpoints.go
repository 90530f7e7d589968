package config

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/ini.v1"
)

// Endpoint is one named bakehouse environment from the operator's profile
// file (~/.ovenboardcfg), e.g. [staging] or [prod] sections with host and
// api_key keys.
type Endpoint struct {
	Name    string
	Host    string
	APIKey  string
	Timeout time.Duration
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetEndpoint(ctx context.Context, profile string) (*Endpoint, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetEndpoint(_ context.Context, profile string) (*Endpoint, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", profile)
	}

	host := section.Key("host").String()
	if host == "" {
		return nil, fmt.Errorf("profile %s has no host", profile)
	}

	endpoint := &Endpoint{
		Name:   profile,
		Host:   host,
		APIKey: section.Key("api_key").String(),
	}
	if timeout := section.Key("timeout_seconds").MustInt(0); timeout > 0 {
		endpoint.Timeout = time.Duration(timeout) * time.Second
	}
	return endpoint, nil
}
