package options

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// envFlags maps environment variables to the flags they stand in for.
var envFlags = map[string]string{
	"CLUSTER_INFO_NODE_INFO":    "node-info",
	"CLUSTER_INFO_CLUSTER_NAME": "cluster-name",
}

// DefaultConfigFile is where flag defaults are looked up when --config is not given.
func DefaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "cubi-tools", "cluster-info.yaml")
}

// ResolveEnv sets flags that were not given on the command line from the environment.
func ResolveEnv(fs *pflag.FlagSet) error {
	for env, name := range envFlags {
		value, ok := os.LookupEnv(env)
		if !ok || value == "" {
			continue
		}

		f := fs.Lookup(name)
		if f == nil || f.Changed {
			continue
		}

		if err := fs.Set(name, value); err != nil {
			return errors.Wrapf(err, "invalid %s", env)
		}
	}

	return nil
}

// ApplyDefaultsFile sets flags that are still unset from a YAML mapping of flag names to
// values. A missing file is only an error when it was named explicitly.
func ApplyDefaultsFile(fs *pflag.FlagSet, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile()
	}

	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}

		return errors.Wrap(err, "failed to read config file")
	}

	defaults := map[string]any{}
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}

	for name, value := range defaults {
		f := fs.Lookup(name)
		if f == nil {
			klog.V(2).Infof("config file %s: ignoring unknown setting %s", path, name)
			continue
		}

		if f.Changed {
			continue
		}

		if err := fs.Set(name, fmt.Sprint(value)); err != nil {
			return errors.Wrapf(err, "config file %s: invalid %s", path, name)
		}
	}

	return nil
}
