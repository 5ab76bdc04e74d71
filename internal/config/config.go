// Package config holds the launcher configuration: which repositories to
// clone, which mdbook sites to serve, where the GB-CTR book lives and how
// free ports are detected.
//
// Defaults reproduce the project's standard layout. A project can override
// any part of them with a gbdocs.yaml (or .yml) file, or with gbdocs.jsonc /
// gbdocs.json, in the project root. JSONC files may contain comments and
// trailing commas; github.com/tidwall/jsonc strips those before the
// standard encoding/json parser sees the data.
//
// The file is overlaid on the defaults: fields it omits keep their default
// values, while lists (resources, sites) replace the default list wholesale.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/gbdocs/internal/bookmark"
	"github.com/shinji-kodama/gbdocs/internal/model"
)

// Probe modes select how the launcher decides a port is taken.
const (
	// ProbeListen binds and releases the port (default).
	ProbeListen = "listen"

	// ProbeLsof asks `lsof -i :<port>`, which also sees sockets of other users
	// when run with enough privileges.
	ProbeLsof = "lsof"

	// ProbeDocker also treats ports published by Docker containers as taken.
	ProbeDocker = "docker"
)

// FileNames are the config file names looked up in the project root, in
// order of preference.
var FileNames = []string{"gbdocs.yaml", "gbdocs.yml", "gbdocs.jsonc", "gbdocs.json"}

// Config is the complete launcher configuration.
type Config struct {
	// ResourcesDir is where reference repositories are cloned, relative to
	// the project root.
	ResourcesDir string `yaml:"resourcesDir" json:"resourcesDir"`

	// Resources lists the repositories cloned by `gbdocs clone`.
	Resources []model.Resource `yaml:"resources" json:"resources"`

	// Sites lists the mdbook sites that can be served.
	Sites []model.Site `yaml:"sites" json:"sites"`

	GBCTR    GBCTRConfig    `yaml:"gbctr" json:"gbctr"`
	RustDocs RustDocsConfig `yaml:"rustDocs" json:"rustDocs"`

	// Probe is one of ProbeListen, ProbeLsof or ProbeDocker.
	Probe string `yaml:"probe" json:"probe"`

	// Source is the file the configuration was read from; empty when the
	// defaults are in use.
	Source string `yaml:"-" json:"-"`
}

// GBCTRConfig configures the Game Boy Complete Technical Reference book.
type GBCTRConfig struct {
	// Dir is the gb-ctr checkout, relative to the project root.
	Dir string `yaml:"dir" json:"dir"`

	// PDF is the built book's file name inside Dir.
	PDF string `yaml:"pdf" json:"pdf"`

	// Bookmark is the page bookmark file name in the project root.
	Bookmark string `yaml:"bookmark" json:"bookmark"`

	// App is the macOS application used to open the PDF.
	App string `yaml:"app" json:"app"`
}

// RustDocsConfig configures the local Rust documentation launcher.
type RustDocsConfig struct {
	// Bookmark is the page bookmark file name in the project root.
	Bookmark string `yaml:"bookmark" json:"bookmark"`
}

// Default returns the standard configuration.
func Default() *Config {
	return &Config{
		ResourcesDir: "resources",
		Resources: []model.Resource{
			{Name: "DMG-01", URL: "https://github.com/rylev/DMG-01.git"},
			{Name: "mooneye-gb", URL: "https://github.com/Gekkio/mooneye-gb.git"},
			{Name: "gb-ctr", URL: "https://github.com/Gekkio/gb-ctr.git"},
			{Name: "mooneye-test-suite", URL: "https://github.com/Gekkio/mooneye-test-suite.git"},
			{Name: "pandocs", URL: "https://github.com/gbdev/pandocs.git"},
		},
		Sites: []model.Site{
			{
				Name:      "pandocs",
				Title:     "Pan Docs",
				Dir:       filepath.Join("resources", "pandocs"),
				StartPort: 3000,
				Python:    true,
				Bookmark:  bookmark.PandocsName,
			},
			{
				// Starts at 3100 to stay clear of Pan Docs.
				Name:      "dmg01",
				Title:     "DMG-01: How to Emulate a Game Boy",
				Dir:       filepath.Join("resources", "DMG-01", "book"),
				StartPort: 3100,
				Bookmark:  bookmark.DMG01Name,
			},
		},
		GBCTR: GBCTRConfig{
			Dir:      filepath.Join("resources", "gb-ctr"),
			PDF:      "gbctr.pdf",
			Bookmark: bookmark.GBCTRName,
			App:      "Google Chrome",
		},
		RustDocs: RustDocsConfig{
			Bookmark: bookmark.RustDocsName,
		},
		Probe: ProbeListen,
	}
}

// Load returns the configuration for the project at root: the first of
// FileNames found there overlaid on Default, or Default alone when no file
// exists. Read, parse and validation errors are returned.
func Load(root string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		cfg, err := LoadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Default(), nil
}

// LoadFile reads one config file, choosing the parser from its extension.
// A missing file is reported with an error wrapping os.ErrNotExist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json", ".jsonc":
		// Strip comments and trailing commas before handing the data to
		// encoding/json.
		raw := jsonc.ToJSON(data)
		if err := resetLists(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file type: %s", path)
	}

	cfg.Source = path
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// resetLists clears the default lists the JSON document overrides.
// encoding/json decodes array elements into the existing slice elements,
// which would merge a file's sites field by field into the default sites
// at the same index instead of replacing them.
func resetLists(raw []byte, cfg *Config) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return err
	}
	// Keys match case-insensitively, as they do in encoding/json.
	for key := range keys {
		switch {
		case strings.EqualFold(key, "sites"):
			cfg.Sites = nil
		case strings.EqualFold(key, "resources"):
			cfg.Resources = nil
		}
	}
	return nil
}

// Validate checks every resource and site and the probe mode. Names must be
// unique within their list.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for _, r := range c.Resources {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate resource %q", r.Name)
		}
		seen[r.Name] = true
	}

	seen = make(map[string]bool)
	for _, s := range c.Sites {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate site %q", s.Name)
		}
		seen[s.Name] = true
	}

	switch c.Probe {
	case ProbeListen, ProbeLsof, ProbeDocker:
	default:
		return fmt.Errorf("invalid probe %q (valid: %s, %s, %s)", c.Probe, ProbeListen, ProbeLsof, ProbeDocker)
	}

	if c.GBCTR.Dir == "" || c.GBCTR.PDF == "" {
		return fmt.Errorf("gbctr: dir and pdf must not be empty")
	}
	if c.GBCTR.Bookmark == "" || c.RustDocs.Bookmark == "" {
		return fmt.Errorf("bookmark file names must not be empty")
	}

	// Each document owns its bookmark file.
	owners := map[string]string{c.RustDocs.Bookmark: "rust-docs"}
	if owner, ok := owners[c.GBCTR.Bookmark]; ok {
		return fmt.Errorf("gbctr and %s share bookmark file %s", owner, c.GBCTR.Bookmark)
	}
	owners[c.GBCTR.Bookmark] = "gbctr"
	for _, s := range c.Sites {
		if s.Bookmark == "" {
			continue
		}
		if owner, ok := owners[s.Bookmark]; ok {
			return fmt.Errorf("site %s and %s share bookmark file %s", s.Name, owner, s.Bookmark)
		}
		owners[s.Bookmark] = s.Name
	}
	return nil
}

// Site returns the site called name.
func (c *Config) Site(name string) (model.Site, bool) {
	for _, s := range c.Sites {
		if s.Name == name {
			return s, true
		}
	}
	return model.Site{}, false
}
