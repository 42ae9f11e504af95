package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Paintersrp/scenecat/internal/catalog"
	"github.com/Paintersrp/scenecat/internal/config"
	"github.com/Paintersrp/scenecat/internal/geo"
	"github.com/Paintersrp/scenecat/internal/handler"
	"github.com/Paintersrp/scenecat/internal/search"
)

type State struct {
	Config        *config.Config
	Workspace     config.Workspace
	WorkspaceName string
	Handler       *handler.FileHandler
	Extractor     *geo.Extractor
	Home          string
	Root          string
	Status        *CatalogStatus
	Watcher       *CatalogWatcher
}

// NewState loads the config below the user's home directory and resolves
// the active workspace. A workspace without a root is not an error here;
// commands that scan simply see an empty catalog.
func NewState(workspaceOverride string) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	if workspaceOverride != "" {
		if err := cfg.ActivateWorkspace(workspaceOverride); err != nil {
			return nil, err
		}
	}

	return FromConfig(cfg, home)
}

// FromConfig builds the state for the active workspace of cfg with
// environment and flag overrides applied.
func FromConfig(cfg *config.Config, home string) (*State, error) {
	ws, err := cfg.Effective()
	if err != nil {
		return nil, err
	}

	root := ws.RootPath()
	return &State{
		Config:        cfg,
		Workspace:     ws,
		WorkspaceName: cfg.CurrentWorkspace,
		Handler:       handler.NewFileHandler(root, ws.OpenCommand),
		Extractor:     geo.NewExtractor(ws.Geo.Eligibility()),
		Home:          home,
		Root:          root,
		Status:        &CatalogStatus{},
	}, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	config.BindEnv()

	if err := config.EnsureConfigExists(home); err != nil {
		var initErr *config.ConfigInitError
		if !errors.As(err, &initErr) {
			return nil, err
		}
		log.Warn().Msg(initErr.Error())
	}

	return config.Load(home)
}

// Catalog scans the root and refreshes the status line.
func (s *State) Catalog() ([]catalog.Record, error) {
	records, err := catalog.Build(s.Root)
	if err != nil {
		return nil, err
	}
	if s.Status != nil {
		s.Status.Record(len(records), time.Now())
	}
	return records, nil
}

// Scan builds the catalog and applies q to it.
func (s *State) Scan(q search.Query) ([]catalog.Record, *search.MatchReport, error) {
	records, err := s.Catalog()
	if err != nil {
		return nil, nil, err
	}
	kept, report := q.Apply(records)
	return kept, report, nil
}

// Watch starts a watcher on the root unless one is already running. A
// change below a folder drops that folder's cached centroids.
func (s *State) Watch() (*CatalogWatcher, error) {
	if s.Watcher != nil {
		return s.Watcher, nil
	}
	w, err := NewCatalogWatcher(s.Root)
	if err != nil {
		return nil, err
	}
	w.OnChange(s.forgetFolder)
	s.Watcher = w
	return w, nil
}

func (s *State) forgetFolder(name string) {
	if name == "" || s.Extractor == nil {
		return
	}
	if n := s.Extractor.Forget(filepath.Join(s.Root, name)); n > 0 {
		log.Debug().Str("name", name).Int("centroids", n).Msg("dropped cached centroids")
	}
}

// Close releases the catalog watcher, if any.
func (s *State) Close() error {
	if s == nil || s.Watcher == nil {
		return nil
	}
	err := s.Watcher.Close()
	s.Watcher = nil
	return err
}
