package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/yeargrid/pkg/errors"
)

// Load reads the configuration at path, fills defaults and validates it.
// The codec is chosen by extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	for i := range cfg.Calendars {
		cfg.Calendars[i].Path = ResolvePath(path, cfg.Calendars[i].Path)
	}
	return cfg, nil
}

// Decode parses a configuration document in the codec named by ext
// (".toml", ".yaml" or ".yml"), then normalizes and validates it.
func Decode(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config extension %q (want .toml, .yaml or .yml)", ext)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Encode serializes cfg in the codec named by ext.
func Encode(cfg *Config, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
		}
		return buf.Bytes(), nil
	case ".yaml", ".yml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
		return data, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config extension %q (want .toml, .yaml or .yml)", ext)
	}
}

// Save writes cfg to path atomically. The directory is created with 0700
// and the file with 0600.
func Save(path string, cfg *Config) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	data, err := Encode(cfg, filepath.Ext(path))
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create config dir")
	}
	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create temp config")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write temp config")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "chmod temp config")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close temp config")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "replace config")
	}
	return nil
}

// LoadOrInit loads path, writing DefaultConfig there first if it does not
// exist. created reports whether the file was written.
func LoadOrInit(path string) (cfg *Config, created bool, err error) {
	cfg, err = Load(path)
	if err == nil || !errors.Is(err, errors.ErrCodeFileNotFound) {
		return cfg, false, err
	}
	if err := Save(path, DefaultConfig()); err != nil {
		return nil, false, err
	}
	cfg, err = Load(path)
	return cfg, err == nil, err
}
