// Package config resolves store locations and project build settings.
//
// The store directory and containerfile directory come from ZEROLAYER_*
// environment variables with fixed system defaults. A project may also
// carry an optional zerolayer.yaml next to its Containerfile with default
// build arguments and env files to load before a build.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultImageDir is the fixed system cache directory for the store.
	DefaultImageDir = "/var/cache/zerolayer"
	// DefaultContainerfileDir is the default location of build sources.
	DefaultContainerfileDir = "/etc/zerolayer"
	// ProjectFileName is the optional per-project settings file.
	ProjectFileName = "zerolayer.yaml"
)

// Paths holds the directories zerolayer operates on, sourced from
// ZEROLAYER_* env vars with built-in defaults.
type Paths struct {
	// ImageDir is the store directory from ZEROLAYER_IMAGE_DIR.
	ImageDir string `env:"ZEROLAYER_IMAGE_DIR" envDefault:"/var/cache/zerolayer"`
	// ContainerfileDir is the build source directory from ZEROLAYER_CONTAINERFILE_DIR.
	ContainerfileDir string `env:"ZEROLAYER_CONTAINERFILE_DIR" envDefault:"/etc/zerolayer"`
}

// ResolvePaths reads ZEROLAYER_* env vars and fills in defaults.
func ResolvePaths() (Paths, error) {
	var p Paths
	if err := env.Parse(&p); err != nil {
		return Paths{}, fmt.Errorf("parse ZEROLAYER_* environment: %w", err)
	}
	return p, nil
}

// Project describes the optional zerolayer.yaml settings for a build
// source directory.
type Project struct {
	// Containerfile overrides the Containerfile path relative to the project dir.
	Containerfile string `yaml:"containerfile,omitempty"`
	// BuildArgs are default build arguments applied before flags.
	BuildArgs map[string]string `yaml:"buildArgs,omitempty"`
	// EnvFiles lists .env-style files whose entries become build arguments.
	EnvFiles []string `yaml:"envFiles,omitempty"`
	// InitURL overrides the template repository cloned by init.
	InitURL string `yaml:"initURL,omitempty"`
}

// LoadProject parses a zerolayer.yaml file. A missing file is not an
// error: it returns an empty Project so that every directory works
// without one.
func LoadProject(dir string) (Project, error) {
	var p Project

	raw, err := os.ReadFile(filepath.Join(dir, ProjectFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("read %s in %q: %w", ProjectFileName, dir, err)
	}

	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("parse %s in %q: %w", ProjectFileName, dir, err)
	}
	return p, nil
}

// LoadBuildArgFiles loads .env-style files and merges their entries in
// order, later files overriding earlier keys. Relative paths resolve
// against baseDir.
func LoadBuildArgFiles(baseDir string, files []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, name := range files {
		if strings.TrimSpace(name) == "" {
			continue
		}
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, name)
		}
		vars, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("load build-arg file %q: %w", path, err)
		}
		for k, v := range vars {
			out[k] = v
		}
	}
	return out, nil
}

// ParseBuildArgs parses repeated key=value flags into a map.
func ParseBuildArgs(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid build arg %q, expected key=value", arg)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}

// MergeBuildArgs merges several build-arg maps, later maps overriding
// earlier keys.
func MergeBuildArgs(sets ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
