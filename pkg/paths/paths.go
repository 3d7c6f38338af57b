package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for termime
	EnvConfigDir = "TERMIME_CONFIG_DIR"

	// EnvDataDir overrides the XDG data directory for termime
	EnvDataDir = "TERMIME_DATA_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// DirName is the directory name for termime-specific files
	DirName = "termime"

	// ShellDir is the data subdirectory for shell scripts
	ShellDir = "shell"

	// InitScriptName is the init script for POSIX shells
	InitScriptName = "termime-init.sh"

	// FishInitScriptName is the init script for fish
	FishInitScriptName = "termime-init.fish"

	// LogFileName is the name of the log file
	LogFileName = "termime.log"
)

// ConfigFileNames are the user configuration files, in lookup order
var ConfigFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// Paths answers where termime keeps its files
type Paths interface {
	ConfigDir() string
	DataDir() string
	StateDir() string
	ShellDir() string
	InitScriptPath(shell string) string
	ConfigFile() (string, bool)
	LogFilePath() string
}

type paths struct {
	xdgConfig string
	xdgData   string
	xdgState  string
}

// New resolves the directories from the environment
func New() Paths {
	p := &paths{}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.xdgConfig = ExpandHome(dir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, DirName)
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		p.xdgData = ExpandHome(dir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, DirName)
	}

	// Read per call so tests and wrappers can point it elsewhere
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		p.xdgState = filepath.Join(dir, DirName)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, DirName)
	}

	return p
}

func (p *paths) ConfigDir() string { return p.xdgConfig }

func (p *paths) DataDir() string { return p.xdgData }

func (p *paths) StateDir() string { return p.xdgState }

func (p *paths) ShellDir() string { return filepath.Join(p.xdgData, ShellDir) }

func (p *paths) LogFilePath() string { return filepath.Join(p.xdgState, LogFileName) }

// InitScriptPath returns where the init script for shell is installed
func (p *paths) InitScriptPath(shell string) string {
	return filepath.Join(p.ShellDir(), InitScriptFor(shell))
}

// ConfigFile returns the first user configuration file that exists
func (p *paths) ConfigFile() (string, bool) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(p.xdgConfig, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return filepath.Join(p.xdgConfig, ConfigFileNames[0]), false
}

// InitScriptFor names the init script a shell sources
func InitScriptFor(shell string) string {
	if shell == "fish" {
		return FishInitScriptName
	}
	return InitScriptName
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is left alone
	return path
}
