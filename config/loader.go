package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/searchlab/errors"
	"github.com/kbukum/searchlab/logger"
)

// FileSystem abstracts the file operations the loader needs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem is the FileSystem backed by the operating system.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file. Variables already set in the environment win.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths. Either may
// be empty.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths when set and searches the
// standard locations otherwise.
func (r *Resolver) ResolveFiles(serviceName string, explicit ResolvedFiles) ResolvedFiles {
	resolved := explicit
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(configCandidates(serviceName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(envCandidates(serviceName))
	}
	return resolved
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

func configCandidates(serviceName string) []string {
	var paths []string
	for _, dir := range searchDirs(serviceName) {
		paths = append(paths, join(dir, "config.yml"), join(dir, "config.yaml"))
	}
	return paths
}

func envCandidates(serviceName string) []string {
	var paths []string
	for _, name := range []string{".env." + serviceName, ".env"} {
		for _, dir := range searchDirs(serviceName) {
			paths = append(paths, join(dir, name))
		}
	}
	return paths
}

// searchDirs lists directories in lookup order: the service's cmd
// directory, a config directory, then the working directory and its parents.
func searchDirs(serviceName string) []string {
	return []string{
		"./cmd/" + serviceName,
		"../cmd/" + serviceName,
		"../../cmd/" + serviceName,
		"./config",
		".",
		"..",
	}
}

func join(dir, name string) string {
	if dir == "." {
		return name
	}
	return dir + "/" + name
}

// LoaderConfig holds loader dependencies and overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix namespaces environment overrides. Defaults to the upper-case
	// service name with dashes replaced by underscores.
	EnvPrefix string
	// Defaults seeds viper with dotted keys. Only keys known to viper (from
	// defaults or the config file) can be overridden from the environment.
	Defaults map[string]any
	Logger   *logger.Logger
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// WithDefaults seeds default values by dotted key, e.g. "pipeline.page_size".
func WithDefaults(defaults map[string]any) LoaderOption {
	return func(lc *LoaderConfig) { lc.Defaults = defaults }
}

// WithLogger sets where loader warnings go.
func WithLogger(log *logger.Logger) LoaderOption {
	return func(lc *LoaderConfig) { lc.Logger = log }
}

// LoadConfig reads configuration for a service into cfg. Sources, lowest
// precedence first: defaults, the config file, the .env file, the
// environment. A missing file is not an error; a malformed one is.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) (ResolvedFiles, error) {
	lc := LoaderConfig{EnvPrefix: envPrefix(serviceName)}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = OSFileSystem{}
	}
	if lc.Logger == nil {
		lc.Logger = logger.Nop()
	}
	log := lc.Logger.WithComponent("config")

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile})

	v := viper.New()
	for key, value := range lc.Defaults {
		v.SetDefault(key, value)
	}

	if files.ConfigFile != "" {
		if lc.FileSystem.Exists(files.ConfigFile) {
			v.SetConfigFile(files.ConfigFile)
			if err := v.ReadInConfig(); err != nil {
				return files, errors.InvalidConfig("read "+files.ConfigFile).WithCause(err)
			}
		} else {
			log.Warn("config file not found, using defaults", map[string]interface{}{"path": files.ConfigFile})
			files.ConfigFile = ""
		}
	}

	if files.EnvFile != "" {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load env file", map[string]interface{}{
				"path":            files.EnvFile,
				logger.FieldError: err.Error(),
			})
			files.EnvFile = ""
		}
	}

	if lc.EnvPrefix != "" {
		v.SetEnvPrefix(lc.EnvPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(cfg); err != nil {
		return files, errors.InvalidConfig("decode config for "+serviceName).WithCause(err)
	}
	log.Debug("config loaded", map[string]interface{}{
		"config_file": files.ConfigFile,
		"env_file":    files.EnvFile,
	})
	return files, nil
}

func envPrefix(serviceName string) string {
	return strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_"))
}
