// Package config loads capnp-import.yaml, environment variables and flags into a
// schema.Configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	errUtils "github.com/cloudposse/capnp-import/errors"
	"github.com/cloudposse/capnp-import/pkg/aggregate"
	"github.com/cloudposse/capnp-import/pkg/filematch"
	log "github.com/cloudposse/capnp-import/pkg/logger"
	"github.com/cloudposse/capnp-import/pkg/perf"
	"github.com/cloudposse/capnp-import/pkg/schema"
	"github.com/cloudposse/capnp-import/pkg/xdg"
)

// LoadOptions selects the sources Load merges.
type LoadOptions struct {
	// ConfigFile is an explicit config file (--config). It must exist.
	ConfigFile string
	// Flags are bound to configuration keys when set. Only changed flags override.
	Flags *pflag.FlagSet
}

// LoadConfig builds the configuration from the following sources, lowest to highest precedence:
// defaults,
// $XDG_CONFIG_HOME/capnp-import/capnp-import.yaml,
// capnp-import.yaml in the traversal root,
// the --config file,
// CAPNP_IMPORT_* environment variables,
// command-line flags.
func LoadConfig(opts LoadOptions) (*schema.Configuration, error) {
	defer perf.Track(nil, "config.LoadConfig")()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetTypeByDefaultValue(true)
	setDefaultConfiguration(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	var used string
	if file, ok := findConfigFile(xdg.ConfigDir()); ok {
		if err := mergeConfigFile(v, file); err != nil {
			return nil, err
		}
		used = file
	}

	// The root may itself come from a flag or the environment, so it is read after those
	// are bound and before the root's own config file is merged.
	if file, ok := findConfigFile(v.GetString("root")); ok {
		if err := mergeConfigFile(v, file); err != nil {
			return nil, err
		}
		used = file
	}

	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, errUtils.Build(fmt.Errorf("%w: config file %s: %w", errUtils.ErrInvalidConfig, opts.ConfigFile, err)).
				WithHint("Check the path passed to --config").
				Err()
		}
		if err := mergeConfigFile(v, opts.ConfigFile); err != nil {
			return nil, err
		}
		used = opts.ConfigFile
	}

	if used == "" {
		log.Debug("No capnp-import.yaml found, using defaults", "paths", "XDG config dir, root, --config")
	}

	var cfg schema.Configuration
	// Lists given as one string in a config file are comma separated. Environment lists
	// are cast by viper and split on whitespace.
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.StringToSliceHookFunc(",")))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUtils.ErrInvalidConfig, err)
	}
	// Patterns stay verbatim so the matcher reports an empty one. Blank import paths
	// would render as a bare --import-path= and are dropped.
	cfg.Compiler.ImportPaths = dropEmpty(cfg.Compiler.ImportPaths)

	if used != "" && !filepath.IsAbs(used) {
		if abs, err := filepath.Abs(used); err == nil {
			used = abs
		}
	}
	cfg.ConfigFileUsed = used

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaultConfiguration registers every key so AutomaticEnv sees it during Unmarshal.
func setDefaultConfiguration(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("patterns", []string{})
	v.SetDefault("follow_symlinks", false)
	v.SetDefault("skip_dirs", []string{".git"})
	v.SetDefault("match.engine", DefaultEngine)
	v.SetDefault("compiler.path", "")
	v.SetDefault("compiler.version", "")
	v.SetDefault("compiler.plugin", "")
	v.SetDefault("compiler.src_prefix", "")
	v.SetDefault("compiler.import_paths", []string{})
	v.SetDefault("compiler.args", "")
	v.SetDefault("output.target", DefaultTarget)
	v.SetDefault("output.file", "")
	v.SetDefault("output.header", true)
	v.SetDefault("output.keep_generated", "")
	v.SetDefault("logs.level", DefaultLogLevel)
	v.SetDefault("logs.file", DefaultLogFile)
	v.SetDefault("profile.enabled", false)
	v.SetDefault("profile.top", 0)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("%w: binding --%s: %w", errUtils.ErrInvalidConfig, name, err)
		}
	}
	// --no-header is the negation of output.header.
	if flag := flags.Lookup(FlagNoHeader); flag != nil && flag.Changed {
		noHeader, err := flags.GetBool(FlagNoHeader)
		if err != nil {
			return fmt.Errorf("%w: --%s: %w", errUtils.ErrInvalidConfig, FlagNoHeader, err)
		}
		v.Set("output.header", !noHeader)
	}
	return nil
}

func findConfigFile(dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	for _, ext := range []string{".yaml", ".yml"} {
		file := filepath.Join(dir, ConfigFileName+ext)
		if info, err := os.Stat(file); err == nil && info.Mode().IsRegular() {
			return file, true
		}
	}
	return "", false
}

func mergeConfigFile(v *viper.Viper, file string) error {
	v.SetConfigFile(file)
	if err := v.MergeInConfig(); err != nil {
		return errUtils.Build(fmt.Errorf("%w: %s: %w", errUtils.ErrInvalidConfig, file, err)).
			WithContext("config_file", file).
			Err()
	}
	log.Debug("Merged config file", "file", file)
	return nil
}

// Validate checks values that can be checked without touching the filesystem.
func Validate(cfg *schema.Configuration) error {
	var errs []error

	if _, err := filematch.ParseEngine(cfg.Match.Engine); err != nil {
		errs = append(errs, err)
	}
	if _, err := aggregate.TargetByName(cfg.Output.Target); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLogLevel(cfg.Logs.Level); err != nil {
		errs = append(errs, err)
	}
	if cfg.Profile.Top < 0 {
		errs = append(errs, fmt.Errorf("profile.top must not be negative, got %d", cfg.Profile.Top))
	}
	if cfg.Root == "" {
		errs = append(errs, errors.New("root must not be empty"))
	}

	if len(errs) == 0 {
		return nil
	}
	return errUtils.Build(errors.Join(append([]error{errUtils.ErrInvalidConfig}, errs...)...)).
		WithHint("Check capnp-import.yaml and the CAPNP_IMPORT_* environment variables").
		Err()
}

func dropEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
