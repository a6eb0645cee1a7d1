package targets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mcsrvstat/mcsrvstat-go/internal/configfile"
	"github.com/mcsrvstat/mcsrvstat-go/pkg/mcsrvstat"
)

// Target is a single server entry declared in the targets file.
type Target struct {
	ID           string `json:"id" yaml:"id"`
	Address      string `json:"address" yaml:"address"`
	Platform     string `json:"platform" yaml:"platform"`
	StrictStatus *bool  `json:"strict_status" yaml:"strict_status"`
	Enabled      *bool  `json:"enabled" yaml:"enabled"`
}

type file struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

// Registry holds the validated targets in file order.
type Registry struct {
	targets []Target
}

// Load reads and validates the targets file (YAML or JSON by extension).
func Load(path string) (*Registry, error) {
	var parsed file
	if err := configfile.Decode(path, "targets", &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Targets) == 0 {
		return nil, errors.New("targets file contains no targets entries")
	}

	reg := &Registry{targets: make([]Target, 0, len(parsed.Targets))}
	seen := make(map[string]struct{}, len(parsed.Targets))
	for i := range parsed.Targets {
		t := sanitize(parsed.Targets[i])
		if err := validate(t); err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		if _, exists := seen[t.ID]; exists {
			return nil, fmt.Errorf("duplicate target id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
		reg.targets = append(reg.targets, t)
	}
	return reg, nil
}

func sanitize(t Target) Target {
	t.ID = strings.TrimSpace(t.ID)
	t.Address = strings.TrimSpace(t.Address)
	t.Platform = strings.ToLower(strings.TrimSpace(t.Platform))
	if t.Platform == "" {
		t.Platform = string(mcsrvstat.PlatformJava)
	}
	if t.Enabled == nil {
		def := true
		t.Enabled = &def
	}
	return t
}

func validate(t Target) error {
	if t.ID == "" {
		return errors.New("id is required")
	}
	if t.Address == "" {
		return fmt.Errorf("address is required for target %q", t.ID)
	}
	if _, err := mcsrvstat.ParsePlatform(t.Platform); err != nil {
		return fmt.Errorf("target %q: %w", t.ID, err)
	}
	return nil
}

// All returns a copy of every target.
func (r *Registry) All() []Target {
	if r == nil {
		return nil
	}
	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// Enabled returns targets that are enabled.
func (r *Registry) Enabled() []Target {
	var out []Target
	for _, t := range r.All() {
		if t.Enabled == nil || *t.Enabled {
			out = append(out, t)
		}
	}
	return out
}

// ClientConfig converts the target into facade configuration, using
// defaultStrict when the entry does not set strict_status.
func (t Target) ClientConfig(defaultStrict bool) (mcsrvstat.Config, error) {
	p, err := mcsrvstat.ParsePlatform(t.Platform)
	if err != nil {
		return mcsrvstat.Config{}, err
	}
	strict := defaultStrict
	if t.StrictStatus != nil {
		strict = *t.StrictStatus
	}
	return mcsrvstat.Config{Platform: p, Address: t.Address, StrictStatus: strict}, nil
}
