package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/scenecat/internal/geo"
	"github.com/Paintersrp/scenecat/internal/pathutil"
	"github.com/Paintersrp/scenecat/internal/search"
)

// EnvPrefix prefixes environment overrides, e.g. SCENECAT_ROOT.
const EnvPrefix = "SCENECAT"

type GeoConfig struct {
	FlagIndex int    `yaml:"flag_index" json:"flag_index"`
	Flag      string `yaml:"flag"       json:"flag"`
}

// Eligibility converts the configured naming convention into a geo rule.
// Call Validate first; an invalid flag falls back to the default.
func (g GeoConfig) Eligibility() geo.Eligibility {
	r, size := utf8.DecodeRuneInString(g.Flag)
	if r == utf8.RuneError || size != len(g.Flag) || g.FlagIndex < 0 {
		return geo.DefaultEligibility
	}
	return geo.Eligibility{Index: g.FlagIndex, Flag: r}
}

type Workspace struct {
	Root         string    `yaml:"root"          json:"root"`
	OpenCommand  string    `yaml:"open_command"  json:"open_command"`
	ExportDir    string    `yaml:"export_dir"    json:"export_dir"`
	TermEncoding string    `yaml:"term_encoding" json:"term_encoding"`
	Watch        bool      `yaml:"watch"         json:"watch"`
	Geo          GeoConfig `yaml:"geo"           json:"geo"`
}

type Config struct {
	Workspaces       map[string]*Workspace `yaml:"workspaces"        json:"workspaces"`
	CurrentWorkspace string                `yaml:"current_workspace" json:"current_workspace"`

	home   string     `yaml:"-"`
	active *Workspace `yaml:"-"`
}

const defaultWorkspaceName = "default"

func newWorkspace() *Workspace {
	return &Workspace{
		TermEncoding: search.EncodingAuto,
		Geo: GeoConfig{
			FlagIndex: geo.DefaultEligibility.Index,
			Flag:      string(geo.DefaultEligibility.Flag),
		},
	}
}

func (ws *Workspace) ensureDefaults() {
	ws.Root = strings.TrimSpace(ws.Root)
	ws.TermEncoding = strings.ToLower(strings.TrimSpace(ws.TermEncoding))
	if ws.TermEncoding == "" {
		ws.TermEncoding = search.EncodingAuto
	}
	if ws.Geo.Flag == "" {
		ws.Geo.Flag = string(geo.DefaultEligibility.Flag)
		if ws.Geo.FlagIndex == 0 {
			ws.Geo.FlagIndex = geo.DefaultEligibility.Index
		}
	}
}

// Validate checks the workspace values that cannot be defaulted.
func (ws *Workspace) Validate() error {
	if !search.ValidEncodings[ws.TermEncoding] {
		return fmt.Errorf(
			"invalid term_encoding: %q. Please choose from utf-8, euc-kr, auto.",
			ws.TermEncoding,
		)
	}
	if utf8.RuneCountInString(ws.Geo.Flag) != 1 {
		return fmt.Errorf("invalid geo.flag: %q must be exactly one character", ws.Geo.Flag)
	}
	if ws.Geo.FlagIndex < 0 {
		return fmt.Errorf("invalid geo.flag_index: %d must not be negative", ws.Geo.FlagIndex)
	}
	return nil
}

// RootPath returns the root with a leading ~ expanded and separators
// normalized.
func (ws *Workspace) RootPath() string {
	return pathutil.ExpandHome(ws.Root)
}

// Load reads the config file below home. An empty file yields a single
// default workspace.
func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{home: home}
	if len(strings.TrimSpace(string(data))) == 0 {
		cfg.Workspaces = map[string]*Workspace{
			defaultWorkspaceName: newWorkspace(),
		}
		cfg.CurrentWorkspace = defaultWorkspaceName
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.ensureInitialized(); err != nil {
		return nil, err
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return nil, err
	}
	if err := ws.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) ensureInitialized() error {
	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}

	if cfg.CurrentWorkspace == "" {
		if len(cfg.Workspaces) == 0 {
			cfg.Workspaces[defaultWorkspaceName] = newWorkspace()
			cfg.CurrentWorkspace = defaultWorkspaceName
		} else {
			cfg.CurrentWorkspace = cfg.WorkspaceNames()[0]
		}
	}

	return cfg.setActiveWorkspace(cfg.CurrentWorkspace)
}

func (cfg *Config) setActiveWorkspace(name string) error {
	if name == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}
	ws, ok := cfg.Workspaces[name]
	if !ok {
		return fmt.Errorf("workspace %q does not exist", name)
	}
	if ws == nil {
		ws = newWorkspace()
		cfg.Workspaces[name] = ws
	}

	ws.ensureDefaults()
	cfg.CurrentWorkspace = name
	cfg.active = ws

	syncWorkspaceWithViper(ws)

	return nil
}

// syncWorkspaceWithViper registers the workspace values as viper defaults so
// SCENECAT_* environment variables and bound flags take precedence.
func syncWorkspaceWithViper(ws *Workspace) {
	viper.SetDefault("root", ws.Root)
	viper.SetDefault("open_command", ws.OpenCommand)
	viper.SetDefault("export_dir", ws.ExportDir)
	viper.SetDefault("term_encoding", ws.TermEncoding)
	viper.SetDefault("watch", ws.Watch)
	viper.SetDefault("geo.flag_index", ws.Geo.FlagIndex)
	viper.SetDefault("geo.flag", ws.Geo.Flag)
}

// BindEnv enables SCENECAT_* overrides, with dots in keys mapped to
// underscores (SCENECAT_GEO_FLAG).
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Effective returns the active workspace with environment and flag overrides
// applied. The stored workspace is not modified.
func (cfg *Config) Effective() (Workspace, error) {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return Workspace{}, err
	}
	syncWorkspaceWithViper(ws)

	eff := Workspace{
		Root:         viper.GetString("root"),
		OpenCommand:  viper.GetString("open_command"),
		ExportDir:    viper.GetString("export_dir"),
		TermEncoding: viper.GetString("term_encoding"),
		Watch:        viper.GetBool("watch"),
		Geo: GeoConfig{
			FlagIndex: viper.GetInt("geo.flag_index"),
			Flag:      viper.GetString("geo.flag"),
		},
	}
	eff.ensureDefaults()
	if err := eff.Validate(); err != nil {
		return Workspace{}, err
	}
	return eff, nil
}

func (cfg *Config) ActiveWorkspace() (*Workspace, error) {
	if cfg.active != nil {
		return cfg.active, nil
	}

	if cfg.CurrentWorkspace == "" {
		return nil, fmt.Errorf("no workspace is currently selected")
	}

	if err := cfg.setActiveWorkspace(cfg.CurrentWorkspace); err != nil {
		return nil, err
	}

	return cfg.active, nil
}

func (cfg *Config) WorkspaceNames() []string {
	names := make([]string, 0, len(cfg.Workspaces))
	for name := range cfg.Workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (cfg *Config) SwitchWorkspace(name string) error {
	if err := cfg.setActiveWorkspace(name); err != nil {
		return err
	}
	return cfg.Save()
}

// ActivateWorkspace selects a workspace for this process only.
func (cfg *Config) ActivateWorkspace(name string) error {
	return cfg.setActiveWorkspace(name)
}

func (cfg *Config) AddWorkspace(name string, ws *Workspace, makeCurrent bool) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}

	if cfg.Workspaces == nil {
		cfg.Workspaces = make(map[string]*Workspace)
	}

	if _, exists := cfg.Workspaces[trimmed]; exists {
		return fmt.Errorf("workspace %q already exists", trimmed)
	}

	if ws == nil {
		ws = newWorkspace()
	}
	ws.ensureDefaults()
	if err := ws.Validate(); err != nil {
		return err
	}
	cfg.Workspaces[trimmed] = ws

	if cfg.CurrentWorkspace == "" || makeCurrent {
		if err := cfg.setActiveWorkspace(trimmed); err != nil {
			return err
		}
	}

	return cfg.Save()
}

func (cfg *Config) RemoveWorkspace(name string) error {
	if len(cfg.Workspaces) <= 1 {
		return fmt.Errorf("cannot remove the last workspace")
	}

	if _, exists := cfg.Workspaces[name]; !exists {
		return fmt.Errorf("workspace %q does not exist", name)
	}

	delete(cfg.Workspaces, name)

	if cfg.CurrentWorkspace == name {
		cfg.active = nil
		cfg.CurrentWorkspace = ""
		if err := cfg.ensureInitialized(); err != nil {
			return err
		}
	}

	return cfg.Save()
}

// SetRoot changes the catalog root of the active workspace and saves.
func (cfg *Config) SetRoot(root string) error {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}
	ws.Root = strings.TrimSpace(root)
	return cfg.Save()
}

func (cfg *Config) GetConfigPath() string {
	home := cfg.home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return ""
		}
	}
	return GetConfigPath(home)
}

func (cfg *Config) Save() error {
	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		return err
	}
	if err := ws.Validate(); err != nil {
		return err
	}

	syncWorkspaceWithViper(ws)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := cfg.GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}
