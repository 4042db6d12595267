package internal

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const ConfigFilename = ".semrel.yaml"

type ResolverMode string

const (
	ResolverAuto     ResolverMode = "auto"
	ResolverRegistry ResolverMode = "registry"
	ResolverLocal    ResolverMode = "local"
)

type RegistryConfig struct {
	URL   string `yaml:"url,omitempty"`
	Token string `yaml:"token,omitempty"`
}

type TagsConfig struct {
	Scheme TagScheme `yaml:"scheme"`
}

type GitConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	Watch        bool          `yaml:"watch"`
}

type ClassifierConfig struct {
	Command string `yaml:"command,omitempty"`
}

type ReleaseConfig struct {
	Resolver   ResolverMode     `yaml:"resolver"`
	Classifier ClassifierConfig `yaml:"classifier,omitempty"`
}

type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	Tags     TagsConfig     `yaml:"tags"`
	Git      GitConfig      `yaml:"git"`
	Release  ReleaseConfig  `yaml:"release"`
	Packages []string       `yaml:"packages,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{URL: DefaultRegistryURL},
		Tags:     TagsConfig{Scheme: TagSchemeScoped},
		Git: GitConfig{
			PollInterval: DefaultPollInterval,
			Watch:        true,
		},
		Release: ReleaseConfig{Resolver: ResolverAuto},
	}
}

func (c *Config) Validate() error {
	if !c.Tags.Scheme.Valid() {
		return fmt.Errorf("%w: tags.scheme %q", ErrInvalidConfig, c.Tags.Scheme)
	}
	if c.Git.PollInterval <= 0 {
		return fmt.Errorf("%w: git.poll_interval must be positive", ErrInvalidConfig)
	}
	switch c.Release.Resolver {
	case ResolverAuto, ResolverRegistry, ResolverLocal:
	default:
		return fmt.Errorf("%w: release.resolver %q", ErrInvalidConfig, c.Release.Resolver)
	}
	return nil
}

// LoadConfig reads the workspace config, falling back to defaults for a
// missing file and for fields left out of it.
func LoadConfig(ws Workspace) (*Config, error) {
	path := ws.ConfigPath()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(ws Workspace, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(ws.ConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// SerializerOptions maps the git section onto serializer options.
func (c *Config) SerializerOptions() []SerializerOption {
	return []SerializerOption{
		WithPollInterval(c.Git.PollInterval),
		WithLockWatch(c.Git.Watch),
	}
}
