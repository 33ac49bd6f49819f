package config

const (
	// ConfigFileName is looked up, with a .yaml or .yml extension, in the XDG config
	// directory and in the traversal root.
	ConfigFileName = "capnp-import"

	// EnvPrefix prefixes every environment override, e.g. CAPNP_IMPORT_OUTPUT_TARGET.
	EnvPrefix = "CAPNP_IMPORT"

	DefaultEngine   = "doublestar"
	DefaultTarget   = "rust"
	DefaultLogLevel = "Info"
	DefaultLogFile  = "/dev/stderr"
)

// Flag names bound to configuration keys.
const (
	FlagRoot           = "root"
	FlagConfig         = "config"
	FlagLogsLevel      = "logs-level"
	FlagLogsFile       = "logs-file"
	FlagProfile        = "profile"
	FlagFollowSymlinks = "follow-symlinks"
	FlagEngine         = "engine"
	FlagCompiler       = "compiler"
	FlagPlugin         = "plugin"
	FlagImportPath     = "import-path"
	FlagSrcPrefix      = "src-prefix"
	FlagTarget         = "target"
	FlagOutput         = "output"
	FlagNoHeader       = "no-header"
	FlagKeepGenerated  = "keep-generated"
)

// flagKeys maps flag names to the configuration keys they override.
var flagKeys = map[string]string{
	FlagRoot:           "root",
	FlagLogsLevel:      "logs.level",
	FlagLogsFile:       "logs.file",
	FlagProfile:        "profile.enabled",
	FlagFollowSymlinks: "follow_symlinks",
	FlagEngine:         "match.engine",
	FlagCompiler:       "compiler.path",
	FlagPlugin:         "compiler.plugin",
	FlagImportPath:     "compiler.import_paths",
	FlagSrcPrefix:      "compiler.src_prefix",
	FlagTarget:         "output.target",
	FlagOutput:         "output.file",
	FlagKeepGenerated:  "output.keep_generated",
}
