// Package transcode implements the worker side of the pipeline: downloading
// a source object, producing one variant per resolution profile with ffmpeg
// and uploading the results.
package transcode

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile names one target rendition: a scale filter and a video bitrate.
type Profile struct {
	Name    string `yaml:"name"`
	Scale   string `yaml:"scale"`
	Bitrate string `yaml:"bitrate"`
}

// DefaultProfiles returns the built-in rendition ladder.
func DefaultProfiles() []Profile {
	return []Profile{
		{Name: "480p", Scale: "scale=854:480", Bitrate: "1000k"},
		{Name: "720p", Scale: "scale=1280:720", Bitrate: "2500k"},
		{Name: "1080p", Scale: "scale=1920:1080", Bitrate: "5000k"},
	}
}

// LoadProfiles reads a YAML profile ladder from path. An empty path selects
// the defaults.
func LoadProfiles(path string) ([]Profile, error) {
	if path == "" {
		return DefaultProfiles(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	var profiles []Profile
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing profile file %s: %w", path, err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile file %s defines no profiles", path)
	}

	seen := make(map[string]struct{}, len(profiles))
	for i, p := range profiles {
		if p.Name == "" || p.Scale == "" || p.Bitrate == "" {
			return nil, fmt.Errorf("profile %d is incomplete: name, scale and bitrate are all required", i)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("duplicate profile name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return profiles, nil
}
