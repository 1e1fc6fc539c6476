package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/propertease/pkg/prompt"
	"tableflip.dev/propertease/pkg/record"
)

// DefaultNamespace prefixes every persisted key.
const DefaultNamespace = "propertease.calendar.v1"

// ConfigPathEnv points at an extra directory holding .propertease.yaml.
const ConfigPathEnv = "PROPERTEASE_CONFIG_PATH"

type Config interface {
	BasePath() string
	Namespace() string
}

// FileConfig is the configuration read from .propertease.yaml and the
// PROPERTEASE_* environment.
type FileConfig struct {
	Path         string `json:"path"`
	NS           string `json:"namespace"`
	Category     string `json:"category"`
	StylePack    string `json:"style"`
	AllowProject bool   `json:"allowProject"`
	LogLevel     string `json:"logLevel"`
}

func (f *FileConfig) BasePath() string { return f.Path }

func (f *FileConfig) Namespace() string { return f.NS }

// LoadConfig reads .propertease.yaml from $PROPERTEASE_CONFIG_PATH or the
// working directory. A missing file is not an error.
func LoadConfig() (*FileConfig, error) {
	var dirs []string
	if override := os.Getenv(ConfigPathEnv); override != "" {
		dirs = append(dirs, override)
	}
	dirs = append(dirs, "./")
	return loadConfig(dirs...)
}

func loadConfig(dirs ...string) (*FileConfig, error) {
	v := viper.New()
	v.SetDefault("path", "~/.propertease.db")
	v.SetDefault("namespace", DefaultNamespace)
	v.SetDefault("category", string(record.DefaultCategory))
	v.SetDefault("style", prompt.DefaultStylePack)
	v.SetDefault("allow_project", false)
	v.SetDefault("log_level", "")
	v.SetConfigName(".propertease") // .yaml is implicit
	v.SetEnvPrefix("PROPERTEASE")
	v.AutomaticEnv()

	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	ns := strings.TrimSpace(v.GetString("namespace"))
	if ns == "" || strings.ContainsAny(ns, `/\`) {
		return nil, fmt.Errorf("store: invalid namespace %q", ns)
	}

	return &FileConfig{
		Path:         path,
		NS:           ns,
		Category:     v.GetString("category"),
		StylePack:    v.GetString("style"),
		AllowProject: v.GetBool("allow_project"),
		LogLevel:     v.GetString("log_level"),
	}, nil
}
