package schema

// Configuration is the schema for `capnp-import.yaml`, merged with environment variables
// and command-line flags.
type Configuration struct {
	Root           string   `yaml:"root" json:"root" mapstructure:"root"`
	Patterns       []string `yaml:"patterns" json:"patterns" mapstructure:"patterns"`
	FollowSymlinks bool     `yaml:"follow_symlinks" json:"follow_symlinks" mapstructure:"follow_symlinks"`
	SkipDirs       []string `yaml:"skip_dirs,omitempty" json:"skip_dirs,omitempty" mapstructure:"skip_dirs"`
	Match          Match    `yaml:"match" json:"match" mapstructure:"match"`
	Compiler       Compiler `yaml:"compiler" json:"compiler" mapstructure:"compiler"`
	Output         Output   `yaml:"output" json:"output" mapstructure:"output"`
	Logs           Logs     `yaml:"logs,omitempty" json:"logs,omitempty" mapstructure:"logs"`
	Profile        Profile  `yaml:"profile,omitempty" json:"profile,omitempty" mapstructure:"profile"`

	// ConfigFileUsed is the path of the config file that was merged last, if any.
	ConfigFileUsed string `yaml:"-" json:"-" mapstructure:"-"`
}

// Match selects the glob engine.
type Match struct {
	Engine string `yaml:"engine" json:"engine" mapstructure:"engine"`
}

// Compiler describes how to find and invoke the schema compiler.
type Compiler struct {
	Path        string   `yaml:"path,omitempty" json:"path,omitempty" mapstructure:"path"`
	Version     string   `yaml:"version,omitempty" json:"version,omitempty" mapstructure:"version"`
	Plugin      string   `yaml:"plugin" json:"plugin" mapstructure:"plugin"`
	SrcPrefix   string   `yaml:"src_prefix,omitempty" json:"src_prefix,omitempty" mapstructure:"src_prefix"`
	ImportPaths []string `yaml:"import_paths,omitempty" json:"import_paths,omitempty" mapstructure:"import_paths"`
	Args        string   `yaml:"args,omitempty" json:"args,omitempty" mapstructure:"args"`
}

// Output controls how the aggregated blob is rendered and where it goes.
type Output struct {
	Target        string `yaml:"target" json:"target" mapstructure:"target"`
	File          string `yaml:"file,omitempty" json:"file,omitempty" mapstructure:"file"`
	Header        bool   `yaml:"header" json:"header" mapstructure:"header"`
	KeepGenerated string `yaml:"keep_generated,omitempty" json:"keep_generated,omitempty" mapstructure:"keep_generated"`
}

type Logs struct {
	File  string `yaml:"file" json:"file" mapstructure:"file"`
	Level string `yaml:"level" json:"level" mapstructure:"level"`
}

type Profile struct {
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Top     int  `yaml:"top" json:"top" mapstructure:"top"`
}
