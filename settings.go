// MIT License

// Copyright (c) 2023 wetrycode

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package freshserve

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ServerConfig static file server settings,
// decoded from the "server" section
type ServerConfig struct {
	// Host empty means all interfaces
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	Root              string        `mapstructure:"root"`
	Indexes           []string      `mapstructure:"indexes"`
	Listing           bool          `mapstructure:"listing"`
	H2C               bool          `mapstructure:"h2c"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Options struct {
	Server *ServerConfig `mapstructure:"server"`
	Log    *LogConfig    `mapstructure:"log"`
}

type Configuration struct {
	*viper.Viper
}

var onceConfig sync.Once
var Config *Configuration = nil

// DefaultPort the port used when nothing else is configured
const DefaultPort = 8020

// NewConfiguration a viper backed configuration with defaults
// and FRESHSERVE_ prefixed environment overrides
func NewConfiguration() *Configuration {
	c := &Configuration{
		viper.New(),
	}
	c.SetDefault("server.host", "")
	c.SetDefault("server.port", DefaultPort)
	c.SetDefault("server.root", ".")
	c.SetDefault("server.indexes", []string{"index.html", "index.htm"})
	c.SetDefault("server.listing", true)
	c.SetDefault("server.h2c", false)
	c.SetDefault("server.read_header_timeout", "10s")
	c.SetDefault("log.level", "info")

	c.SetEnvPrefix("FRESHSERVE")
	c.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.AutomaticEnv()
	return c
}

func newFreshserveConfig() {
	onceConfig.Do(func() {
		Config = NewConfiguration()
	})

}

func (c *Configuration) GetValue(key string) (interface{}, error) {
	value := c.Get(key)
	if value == nil {
		return nil, fmt.Errorf("setting %s not found", key)
	}
	return value, nil
}

// LoadFrom reads settings.yaml from dir,
// a missing file is an error
func (c *Configuration) LoadFrom(dir string) error {
	c.AddConfigPath(dir)
	c.SetConfigName("settings")
	c.SetConfigType("yaml")
	if err := c.ReadInConfig(); err != nil {
		return fmt.Errorf("load settings from %s error: %w", dir, err)
	}
	return nil
}

// Options decodes every layer (defaults, settings file, env, bound flags)
// into typed settings
func (c *Configuration) Options() (*Options, error) {
	opts := &Options{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := c.Unmarshal(opts, hook); err != nil {
		return nil, fmt.Errorf("decode settings error: %w", err)
	}
	if opts.Server == nil || opts.Log == nil {
		return nil, fmt.Errorf("decode settings error: missing server or log section")
	}
	if opts.Server.Port < 0 || opts.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server.port %d", opts.Server.Port)
	}
	if strings.TrimSpace(opts.Server.Root) == "" {
		opts.Server.Root = "."
	}
	return opts, nil
}

func initSettings() {
	newFreshserveConfig()
	wd, _ := os.Getwd()
	// settings.yaml in the working directory is optional
	if err := Config.LoadFrom(wd); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}
}
