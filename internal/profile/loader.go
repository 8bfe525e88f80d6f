package profile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the layout of the profiles YAML file.
//
//	profiles:
//	  - name: family
//	    allowed_chat_ids: [-1001234]
//	    allowed_user_ids: [42]
//	    check_interval: 30m
//	    silent_notifications: true
type File struct {
	Profiles []Entry `yaml:"profiles"`
}

// Entry is one profile as written in the file
type Entry struct {
	Name                string   `yaml:"name"`
	AllowedChatIDs      []int64  `yaml:"allowed_chat_ids"`
	AllowedUserIDs      []int64  `yaml:"allowed_user_ids"`
	CheckInterval       Interval `yaml:"check_interval"`
	SilentNotifications bool     `yaml:"silent_notifications"`
}

// Interval accepts a Go duration ("30m") or a number of seconds (1800)
type Interval time.Duration

func (i *Interval) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: check_interval must be a scalar", node.Line)
	}
	if secs, err := strconv.ParseInt(node.Value, 10, 64); err == nil {
		*i = Interval(time.Duration(secs) * time.Second)
		return nil
	}
	d, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid check_interval %q", node.Line, node.Value)
	}
	*i = Interval(d)
	return nil
}

// Load reads a profiles file. An empty path yields the open default set.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates profiles YAML
func Parse(data []byte) (*Set, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles yaml: %w", err)
	}
	if len(file.Profiles) == 0 {
		return nil, errors.New("profiles file defines no profile")
	}

	seen := make(map[string]bool, len(file.Profiles))
	profiles := make([]*Profile, 0, len(file.Profiles))
	for i, e := range file.Profiles {
		if e.Name == "" {
			return nil, fmt.Errorf("profile %d: missing name", i)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("profile %q: duplicate name", e.Name)
		}
		seen[e.Name] = true
		if e.CheckInterval < 0 {
			return nil, fmt.Errorf("profile %q: negative check_interval", e.Name)
		}

		profiles = append(profiles, &Profile{
			Name:                e.Name,
			AllowedChatIDs:      e.AllowedChatIDs,
			AllowedUserIDs:      e.AllowedUserIDs,
			CheckInterval:       time.Duration(e.CheckInterval),
			SilentNotifications: e.SilentNotifications,
		})
	}

	return NewSet(profiles...), nil
}
