package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Resource is a reference repository cloned into resources/<Name>.
type Resource struct {
	// Name is the directory name under resources/.
	Name string `json:"name" yaml:"name"`

	// URL is the git remote to clone from.
	URL string `json:"url" yaml:"url"`
}

// nameRegex validates resource and site names: letters, digits, '-', '_'
// and '.', not starting with '.', so a name can never climb out of the
// resources directory.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)

// ValidateName checks that name is usable as a single path element.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid name %q: must contain only letters, digits, '.', '-' or '_' and not start with '.'", name)
	}
	return nil
}

// Validate checks the resource's name and URL.
func (r Resource) Validate() error {
	if err := ValidateName(r.Name); err != nil {
		return fmt.Errorf("resource: %w", err)
	}
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("resource %s: url must not be empty", r.Name)
	}
	return nil
}

// Site is an mdbook documentation site served locally.
type Site struct {
	// Name identifies the site on the command line ("pandocs", "dmg01").
	Name string `json:"name" yaml:"name"`

	// Title is shown when the server starts.
	Title string `json:"title" yaml:"title"`

	// Dir is the book directory, relative to the project root.
	Dir string `json:"dir" yaml:"dir"`

	// StartPort is where the free-port scan begins. Sites get distinct
	// start ports so they rarely compete for the same one.
	StartPort int `json:"startPort" yaml:"startPort"`

	// Python marks sites whose mdbook preprocessors need a Python virtual
	// environment and a cargo-built Rust preprocessor (Pan Docs).
	Python bool `json:"python,omitempty" yaml:"python,omitempty"`

	// Bookmark is the bookmark file name for this site's last page.
	Bookmark string `json:"bookmark,omitempty" yaml:"bookmark,omitempty"`
}

// Validate checks the site's fields.
func (s Site) Validate() error {
	if err := ValidateName(s.Name); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if strings.TrimSpace(s.Dir) == "" {
		return fmt.Errorf("site %s: dir must not be empty", s.Name)
	}
	if s.StartPort < 1 || s.StartPort > 65535 {
		return fmt.Errorf("site %s: start port %d out of range (1-65535)", s.Name, s.StartPort)
	}
	return nil
}

// DisplayTitle returns Title, falling back to Name.
func (s Site) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// CommonPage is a well-known page of the local Rust documentation, offered
// by `gbdocs rust-docs list`.
type CommonPage struct {
	// Path is relative to the documentation root, e.g. "book/ch05-00-structs.html".
	Path string `json:"path"`

	// Description is a short human-readable title.
	Description string `json:"description"`
}
