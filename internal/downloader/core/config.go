package core

import (
	_ "embed"
	"strings"
	"time"

	apperrors "CWU/internal/errors"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimeout   = 300 * time.Second
	defaultChunkSize = 8 * 1024
	defaultUserAgent = "ClamWin-Updater/1.0"
)

// Manifest describes where definition files come from and how they are fetched.
type Manifest struct {
	Source    string        `yaml:"source"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	ChunkSize int           `yaml:"chunk_size"`
	Targets   []Target      `yaml:"targets"`
}

//go:embed manifest.yaml
var embeddedManifest []byte

// BaseManifest returns the embedded manifest. Each call decodes a fresh copy.
func BaseManifest() (*Manifest, error) {
	return ParseManifest(embeddedManifest)
}

// DefaultTargets returns the fixed, ordered target list: main, daily, bytecode.
func DefaultTargets() ([]Target, error) {
	m, err := BaseManifest()
	if err != nil {
		return nil, err
	}
	return m.Targets, nil
}

// ParseManifest decodes and validates manifest data, filling in defaults.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, apperrors.ConfigError(apperrors.CodeConfigGeneric, "failed to parse target manifest",
			errors.Wrap(err, "yaml decode")).
			WithModule("downloader.core").
			WithOperation("ParseManifest")
	}

	if err := m.normalize(); err != nil {
		return nil, apperrors.ConfigError(apperrors.CodeConfigGeneric, "invalid target manifest", err).
			WithModule("downloader.core").
			WithOperation("ParseManifest")
	}
	return &m, nil
}

func (m *Manifest) normalize() error {
	m.UserAgent = strings.TrimSpace(m.UserAgent)
	if m.UserAgent == "" {
		m.UserAgent = defaultUserAgent
	}
	if m.Timeout <= 0 {
		m.Timeout = defaultTimeout
	}
	if m.ChunkSize <= 0 {
		m.ChunkSize = defaultChunkSize
	}

	if len(m.Targets) == 0 {
		return errors.New("no targets defined")
	}

	seen := make(map[string]struct{}, len(m.Targets))
	for i, t := range m.Targets {
		name := strings.TrimSpace(t.Name)
		url := strings.TrimSpace(t.URL)
		switch {
		case name == "":
			return errors.Errorf("target %d has no name", i)
		case strings.ContainsAny(name, `/\`) || name == "." || name == "..":
			return errors.Errorf("target name %q must be a plain file name", name)
		case url == "":
			return errors.Errorf("target %s has no url", name)
		}
		if _, dup := seen[name]; dup {
			return errors.Errorf("duplicate target %s", name)
		}
		seen[name] = struct{}{}
		m.Targets[i] = Target{Name: name, URL: url}
	}
	return nil
}

// TargetNames lists the target file names in manifest order.
func TargetNames(targets []Target) []string {
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Name)
	}
	return names
}
