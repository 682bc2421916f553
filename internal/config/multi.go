package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const DefaultLabel = "Default"

var (
	ErrNoConfig  = errors.New("no config selected")
	ErrBadLabel  = errors.New("invalid config label")
	ErrNoProfile = errors.New("config does not exist")
)

// ConfigRoot resolves the settings folder. COMICSD_CONFIG_DIR wins over the
// platform locations.
func ConfigRoot() string {
	if dir := os.Getenv("COMICSD_CONFIG_DIR"); dir != "" {
		return dir
	}

	// Windows
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "comicsd")
	}

	// Linux/macOS XDG
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "comicsd")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "comicsd")
}

func ConfigsDir() string {
	return filepath.Join(ConfigRoot(), "configs")
}

func CurrentLabelFile() string {
	return filepath.Join(ConfigRoot(), "current_config")
}

// ProfilePath is where the profile called label lives.
func ProfilePath(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.ContainsAny(label, `/\`) || label == "." || label == ".." {
		return "", fmt.Errorf("%w: %q", ErrBadLabel, label)
	}

	return filepath.Join(ConfigsDir(), label+".yaml"), nil
}

func ensureDirs() error {
	return os.MkdirAll(ConfigsDir(), 0755)
}

func CurrentLabel() (string, error) {
	if err := ensureDirs(); err != nil {
		return "", err
	}

	b, err := os.ReadFile(CurrentLabelFile())
	if os.IsNotExist(err) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

func ActiveConfigPath() (string, error) {
	label, err := CurrentLabel()
	if err != nil || label == "" {
		return "", ErrNoConfig
	}

	return ProfilePath(label)
}

type ConfigInfo struct {
	Label  string
	Path   string
	Active bool
}

func ListConfigs() ([]ConfigInfo, error) {
	if err := ensureDirs(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(ConfigsDir())
	if err != nil {
		return nil, err
	}

	activeLabel, _ := CurrentLabel()
	var out []ConfigInfo

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		label := strings.TrimSuffix(name, ".yaml")
		out = append(out, ConfigInfo{
			Label:  label,
			Path:   filepath.Join(ConfigsDir(), name),
			Active: label == activeLabel,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func SwitchConfig(label string) error {
	path, err := ProfilePath(label)
	if err != nil {
		return err
	}
	if err := ensureDirs(); err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrNoProfile, path)
	}

	return os.WriteFile(CurrentLabelFile(), []byte(strings.TrimSpace(label)), 0644)
}

// InitDefaultConfig writes the Default profile (unless present) and makes
// it active. An existing profile is reported with os.ErrExist.
func InitDefaultConfig() (string, error) {
	if err := ensureDirs(); err != nil {
		return "", err
	}

	defPath, _ := ProfilePath(DefaultLabel)

	if _, err := os.Stat(defPath); err == nil {
		return defPath, os.ErrExist
	}

	if err := SaveYAML(DefaultConfig(), defPath); err != nil {
		return "", err
	}

	return defPath, SwitchConfig(DefaultLabel)
}
