// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// Config aggregates configuration for a batch run.
type Config struct {
	// InputRoot and OutputRoot are local paths or s3://bucket/prefix URLs.
	InputRoot  string `mapstructure:"input_root"`
	OutputRoot string `mapstructure:"output_root"`

	// SongDataPath and LogDataPath are the subtrees under InputRoot holding
	// the two record collections.
	SongDataPath string `mapstructure:"song_data_path"`
	LogDataPath  string `mapstructure:"log_data_path"`

	// Workers bounds the number of source files parsed concurrently.
	Workers int `mapstructure:"workers"`

	// BatchSize is the row batch size used by record readers.
	BatchSize int `mapstructure:"batch_size"`

	S3 S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	RoleARN   string `mapstructure:"role_arn"`
	PathStyle bool   `mapstructure:"path_style"`
}

func DefaultConfig() *Config {
	return &Config{
		SongDataPath: "song_data",
		LogDataPath:  "log_data",
		Workers:      8,
		BatchSize:    1000,
	}
}

// Load reads configuration from files and environment variables.
// Environment variables use the prefix "SONGLAKE" and the dot character in
// keys is replaced by an underscore. For example, "s3.region" becomes
// "SONGLAKE_S3_REGION".
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("SONGLAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings a run cannot start without.
func (c *Config) Validate() error {
	if c.InputRoot == "" {
		return errors.New("input root is required")
	}
	if c.OutputRoot == "" {
		return errors.New("output root is required")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	return nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
