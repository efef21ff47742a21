// Package navigation builds role menus from a declarative role to entry
// mapping, filtered by the caller's permissions.
package navigation

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/frahmantamala/clinic-management/internal/permission"
	"github.com/spf13/viper"
)

const DefaultRole = "default"

//go:embed menus.yml
var embeddedMenus []byte

type Entry struct {
	Key         string                  `json:"key"`
	Label       string                  `json:"label"`
	Path        string                  `json:"path"`
	Icon        string                  `json:"icon,omitempty"`
	Permissions []permission.Permission `json:"-"`
}

// Visible applies the any-of rule. An entry with no permissions is never
// visible.
func (e Entry) Visible(perms permission.Set) bool {
	return perms.HasAny(e.Permissions...)
}

type rawEntry struct {
	Key         string   `mapstructure:"key"`
	Label       string   `mapstructure:"label"`
	Path        string   `mapstructure:"path"`
	Icon        string   `mapstructure:"icon"`
	Permissions []string `mapstructure:"permissions"`
}

type Registry struct {
	menus map[string][]Entry
}

// NewRegistry validates menus and keys them by lower-cased role.
func NewRegistry(menus map[string][]Entry) (*Registry, error) {
	r := &Registry{menus: make(map[string][]Entry, len(menus))}
	for role, entries := range menus {
		role = normalizeRole(role)
		seen := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			if e.Key == "" || e.Path == "" {
				return nil, fmt.Errorf("navigation: role %q has an entry without key or path", role)
			}
			if _, dup := seen[e.Key]; dup {
				return nil, fmt.Errorf("navigation: role %q lists %q twice", role, e.Key)
			}
			seen[e.Key] = struct{}{}
			for _, p := range e.Permissions {
				if !p.Valid() {
					return nil, fmt.Errorf("navigation: role %q entry %q: unknown permission %q", role, e.Key, p)
				}
			}
		}
		r.menus[role] = append([]Entry(nil), entries...)
	}
	if _, ok := r.menus[DefaultRole]; !ok {
		r.menus[DefaultRole] = nil
	}
	return r, nil
}

// Load reads menus from path, or the embedded document when path is empty.
func Load(path string) (*Registry, error) {
	v := viper.New()
	if path == "" {
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(embeddedMenus)); err != nil {
			return nil, fmt.Errorf("navigation: read embedded menus: %w", err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("navigation: read %s: %w", path, err)
		}
	}

	var raw map[string][]rawEntry
	if err := v.UnmarshalKey("menus", &raw); err != nil {
		return nil, fmt.Errorf("navigation: decode menus: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("navigation: no menus defined")
	}

	menus := make(map[string][]Entry, len(raw))
	for role, entries := range raw {
		for _, re := range entries {
			e := Entry{Key: re.Key, Label: re.Label, Path: re.Path, Icon: re.Icon}
			for _, name := range re.Permissions {
				p, err := permission.Parse(name)
				if err != nil {
					return nil, fmt.Errorf("navigation: role %q entry %q: unknown permission %q", role, re.Key, name)
				}
				e.Permissions = append(e.Permissions, p)
			}
			menus[role] = append(menus[role], e)
		}
	}
	return NewRegistry(menus)
}

// Menu returns the unfiltered entries for role, falling back to default.
func (r *Registry) Menu(role string) []Entry {
	if entries, ok := r.menus[normalizeRole(role)]; ok {
		return entries
	}
	return r.menus[DefaultRole]
}

// Build returns role's entries the caller may see, in declared order.
func (r *Registry) Build(role string, perms permission.Set) []Entry {
	entries := r.Menu(role)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Visible(perms) {
			out = append(out, e)
		}
	}
	return out
}

func (r *Registry) Roles() []string {
	roles := make([]string, 0, len(r.menus))
	for role := range r.menus {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

func normalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return DefaultRole
	}
	return role
}
