// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spadev

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes all environment variables overriding configuration
// defaults, such as SPADEV_PORT or SPADEV_LOG_LEVEL.
const EnvPrefix = "SPADEV"

// Config is the startup configuration of a Server. Its defaults serve the
// bundle in "build/web" below the invocation directory on port 8082.
type Config struct {
	// Port to listen on for HTTP connections; 0 picks an ephemeral port.
	Port int `mapstructure:"port" default:"8082"`
	// BuildDir is the document root; relative paths are relative to the
	// invocation directory.
	BuildDir string `mapstructure:"builddir" default:"build/web"`
	// Index is the entry document inside the document root.
	Index string `mapstructure:"index" default:"index.html"`
	// Log configures the logger.
	Log LogConfig `mapstructure:"log"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" default:"info"`
	// Format is either console or json.
	Format string `mapstructure:"format" default:"console"`
}

// DefaultConfig returns the configuration with only the 'default' tag values
// applied, ignoring the environment.
func DefaultConfig() Config {
	v := viper.New()
	bindDefaults(v, Config{}, "")
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic("malformed configuration defaults: " + err.Error())
	}
	return cfg
}

// LoadConfig returns the configuration from the defaults, overridden by
// SPADEV_* environment variables. An optional .env file in dir gets loaded
// first; it doesn't override variables already set in the environment.
func LoadConfig(dir string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(dir, ".env")) // ...fine if there's none.

	v := viper.New()
	bindDefaults(v, Config{}, "")
	v.SetEnvPrefix(EnvPrefix)
	// Map environment variables to nested keys: SPADEV_LOG_LEVEL -> log.level
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid configuration: port %d out of range", cfg.Port)
	}
	return &cfg, nil
}

// bindDefaults walks the struct type of iface and registers the 'default'
// tag values of all fields with a 'mapstructure' tag, so that AutomaticEnv
// also knows about keys that are never set explicitly.
func bindDefaults(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		if field.Type.Kind() == reflect.Struct {
			bindDefaults(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}
		v.SetDefault(key, field.Tag.Get("default"))
	}
}

// DocumentRoot returns the absolute document root path, resolving a relative
// BuildDir against cwd.
func (c Config) DocumentRoot(cwd string) string {
	if filepath.IsAbs(c.BuildDir) {
		return filepath.Clean(c.BuildDir)
	}
	return filepath.Join(cwd, c.BuildDir)
}

// Addr returns the TCP address to listen on, on all interfaces.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
