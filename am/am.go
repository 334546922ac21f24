package am

// Config represents the watercolor configuration
type Config struct {
	Registry   RegistryConfig   `mapstructure:"registry"`
	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
	Attractor  AttractorConfig  `mapstructure:"attractor"`
	Trajectory TrajectoryConfig `mapstructure:"trajectory"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
}

// RegistryConfig selects the taxonomy data
type RegistryConfig struct {
	Path         string `mapstructure:"path"`          // YAML registry file or go-getter URL (empty = embedded default)
	Overrides    string `mapstructure:"overrides"`     // TOML overlay for basin radii and rhythm periods
	AllowPrivate bool   `mapstructure:"allow_private"` // Permit http(s) sources on private networks
}

// VocabularyConfig tunes vocabulary extraction
type VocabularyConfig struct {
	TopN      int     `mapstructure:"top_n"`     // Keywords per category (default: 5)
	Neighbors int     `mapstructure:"neighbors"` // Anchors blended per category (default: 3)
	Epsilon   float64 `mapstructure:"epsilon"`   // Inverse-distance smoothing (default: 0.01)
}

// AttractorConfig tunes attractor prompt assembly
type AttractorConfig struct {
	Keyframes int `mapstructure:"keyframes"` // Keyframes per sequence (default: 4)
}

// TrajectoryConfig tunes trajectory generation
type TrajectoryConfig struct {
	DefaultSteps int `mapstructure:"default_steps"` // Steps when a caller passes none (default: 10)
	MaxSteps     int `mapstructure:"max_steps"`     // Longest sequence a caller may request (default: 1000)
}

// ServerConfig configures the MCP server
type ServerConfig struct {
	Name  string `mapstructure:"name"`
	Watch bool   `mapstructure:"watch"` // Rebuild the engine when am.toml changes
}

// LogConfig configures logging
type LogConfig struct {
	JSON      bool `mapstructure:"json"`
	Verbosity int  `mapstructure:"verbosity"` // 0 warn, 1 info, 2+ debug
}

// Extraction and sequencing defaults
const (
	DefaultTopN       = 5
	DefaultNeighbors  = 3
	DefaultEpsilon    = 0.01
	DefaultKeyframes  = 4
	DefaultSteps      = 10
	DefaultMaxSteps   = 1000
	DefaultServerName = "watercolor-dissolution"
)

// Config file locations
const (
	DefaultConfigDir  = ".watercolor"
	DefaultConfigFile = "am.toml"
	SystemConfigPath  = "/etc/watercolor/am.toml"
	EnvPrefix         = "WATERCOLOR"
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
