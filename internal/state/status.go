package state

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// CatalogStatus holds the status line shown under the browse table.
type CatalogStatus struct {
	mu       sync.RWMutex
	folders  int
	lastScan time.Time
}

// CatalogStatusMsg carries a refreshed status line.
type CatalogStatusMsg struct {
	Line string
}

func (c *CatalogStatus) Record(folders int, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.folders = folders
	c.lastScan = at
}

func (c *CatalogStatus) Value() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return formatCatalogStatus(c.folders, c.lastScan)
}

// StatusCmd returns a command that reports the current status line.
func (s *State) StatusCmd() tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		return CatalogStatusMsg{Line: s.Status.Value()}
	}
}

func formatCatalogStatus(folders int, lastScan time.Time) string {
	if lastScan.IsZero() {
		return ""
	}
	return fmt.Sprintf("Folders: %d · scanned %s", folders, lastScan.Local().Format("15:04"))
}
