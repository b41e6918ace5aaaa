// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	yaml "gopkg.in/yaml.v2"
)

// flagSetter is satisfied by *cli.Context.
type flagSetter interface {
	GlobalIsSet(name string) bool
	GlobalSet(name, value string) error
}

// loadConfig reads a flat YAML map of flag name to value.
func loadConfig(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	values := make(map[string]string, len(raw))
	for name, v := range raw {
		switch v := v.(type) {
		case nil:
			continue
		case []interface{}:
			parts := make([]string, len(v))
			for i, p := range v {
				parts[i] = fmt.Sprint(p)
			}
			values[name] = strings.Join(parts, ",")
		case map[interface{}]interface{}:
			return nil, errors.Errorf("config key %q: nested values not supported", name)
		default:
			values[name] = fmt.Sprint(v)
		}
	}
	return values, nil
}

// applyConfig fills in every flag not given on the command line.
// Keys must name one of known.
func applyConfig(fs flagSetter, values map[string]string, known []cli.Flag) error {
	names := make(map[string]bool, len(known))
	for _, f := range known {
		for _, n := range strings.Split(f.GetName(), ",") {
			names[strings.TrimSpace(n)] = true
		}
	}
	for name, value := range values {
		if !names[name] {
			return errors.Errorf("config key %q: unknown flag", name)
		}
		if name == configFlag.Name || fs.GlobalIsSet(name) {
			continue
		}
		if err := fs.GlobalSet(name, value); err != nil {
			return errors.WithMessagef(err, "config key %q", name)
		}
	}
	return nil
}
