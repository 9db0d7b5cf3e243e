/*
 * config.go, part of partview.
 *
 * Copyright 2026 The partview authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package config reads the YAML configuration of the partview command and turns
//it into options for the playback engine.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rmera/partview/colormap"
	"github.com/rmera/partview/framestore"
	"github.com/rmera/partview/playback"
	"github.com/rmera/partview/traj/part"
)

// Config is the playback configuration. There is no loop setting: playback
// always loops.
type Config struct {
	Dir           string        `yaml:"dir"`
	Interval      time.Duration `yaml:"interval"`
	Normalization string        `yaml:"normalization"`
	Palette       string        `yaml:"palette"`
	Order         string        `yaml:"order"`
	Compressed    bool          `yaml:"compressed"`
	StrictVersion bool          `yaml:"strict_version"`
	Watch         bool          `yaml:"watch"`
	Output        string        `yaml:"output"`
}

// Default returns the configuration used when nothing is given. Dir is empty
// and must be filled in.
func Default() Config {
	return Config{
		Interval:      playback.DefaultInterval,
		Normalization: colormap.PerFrame.String(),
		Palette:       colormap.DefaultPalette,
		Order:         framestore.ByName.String(),
	}
}

//Load reads the YAML file name on top of the defaults. It does not validate
//the result, since command line flags may still change it.
func Load(name string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(name)
	if err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("config: can't parse %s: %w", name, err)
	}
	return c, nil
}

// Validate checks the configuration, returning all the problems found.
func (c Config) Validate() error {
	var errs []error
	if c.Dir == "" {
		errs = append(errs, errors.New("config: dir is required"))
	}
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("config: interval must be positive, got %v", c.Interval))
	}
	if _, err := colormap.ParseNormalization(c.Normalization); err != nil {
		errs = append(errs, err)
	}
	if _, err := colormap.PaletteByName(c.Palette); err != nil {
		errs = append(errs, err)
	}
	if _, err := framestore.ParseOrder(c.Order); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Decoder returns the frame decoder the configuration asks for.
func (c Config) Decoder() part.Decoder {
	return part.Decoder{StrictVersion: c.StrictVersion}
}

// Mapper returns a colour mapper with the configured palette and
// normalization. A global mapper gets its range when the Player loads.
func (c Config) Mapper() (*colormap.Mapper, error) {
	m, err := colormap.New(c.Palette)
	if err != nil {
		return nil, err
	}
	n, err := colormap.ParseNormalization(c.Normalization)
	if err != nil {
		return nil, err
	}
	if n == colormap.Global {
		m.SetGlobal()
	}
	return m, nil
}

//PlayerOptions turns the configuration into playback options. It fails on
//anything Validate would complain about, except a missing Dir.
func (c Config) PlayerOptions(log *slog.Logger) ([]playback.Option, error) {
	m, err := c.Mapper()
	if err != nil {
		return nil, err
	}
	ord, err := framestore.ParseOrder(c.Order)
	if err != nil {
		return nil, err
	}
	dec := c.Decoder()
	disc := []framestore.Option{framestore.WithOrder(ord), framestore.WithDecoder(dec)}
	if c.Compressed {
		disc = append(disc, framestore.WithCompressed())
	}
	return []playback.Option{
		playback.WithInterval(c.Interval),
		playback.WithMapper(m),
		playback.WithDecoder(dec),
		playback.WithDiscovery(disc...),
		playback.WithWatch(c.Watch),
		playback.WithLogger(log),
	}, nil
}
