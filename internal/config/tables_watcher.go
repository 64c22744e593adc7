package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"talentrank/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// TablesWatcher watches the match tables file for changes and triggers reloads
type TablesWatcher struct {
	mu sync.RWMutex

	tablesFile  string
	lastModTime time.Time

	// Watcher components
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	// Control channels
	stopChan   chan struct{}
	reloadChan chan struct{}

	// Callback and logging
	reloadCallback func()
	logger         *errors.Logger

	// State
	running bool
}

// NewTablesWatcher creates a new match tables file watcher
func NewTablesWatcher(tablesFile string, debounceDelay time.Duration, reloadCallback func(), logger *errors.Logger) (*TablesWatcher, error) {
	if tablesFile == "" {
		return nil, fmt.Errorf("tables file path is required")
	}
	if debounceDelay == 0 {
		debounceDelay = time.Second // Default 1 second debounce
	}

	return &TablesWatcher{
		tablesFile:     tablesFile,
		debounceDelay:  debounceDelay,
		stopChan:       make(chan struct{}),
		reloadChan:     make(chan struct{}, 1), // Buffered to prevent blocking
		reloadCallback: reloadCallback,
		logger:         logger,
	}, nil
}

// Start begins watching the tables file for changes
func (tw *TablesWatcher) Start() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.running {
		return fmt.Errorf("tables watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	tw.fsWatcher = watcher

	if stat, err := os.Stat(tw.tablesFile); err == nil {
		tw.lastModTime = stat.ModTime()
	} else if !os.IsNotExist(err) {
		tw.cleanupWatcher()
		return fmt.Errorf("failed to stat tables file %s: %w", tw.tablesFile, err)
	}

	if err := tw.addFileToWatcher(); err != nil {
		tw.cleanupWatcher()
		return err
	}

	tw.running = true
	go tw.watchLoop()

	if tw.logger != nil {
		tw.logger.Info("Match tables file watcher started",
			"file", tw.tablesFile,
			"debounce_delay", tw.debounceDelay)
	}
	return nil
}

// cleanupWatcher closes the file watcher and logs any errors
func (tw *TablesWatcher) cleanupWatcher() {
	if tw.fsWatcher != nil {
		if closeErr := tw.fsWatcher.Close(); closeErr != nil && tw.logger != nil {
			tw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
	}
}

// Stop stops the tables file watcher
func (tw *TablesWatcher) Stop() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if !tw.running {
		return nil
	}

	// Signal stop
	close(tw.stopChan)

	// Stop debounce timer if running
	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}

	// Close file system watcher
	if tw.fsWatcher != nil {
		if err := tw.fsWatcher.Close(); err != nil {
			if tw.logger != nil {
				tw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	tw.running = false

	if tw.logger != nil {
		tw.logger.Info("Match tables file watcher stopped")
	}

	return nil
}

// addFileToWatcher adds the tables file and its directory to the watcher
func (tw *TablesWatcher) addFileToWatcher() error {
	if err := tw.fsWatcher.Add(tw.tablesFile); err != nil {
		// If the file doesn't exist yet, watch its directory instead
		if os.IsNotExist(err) {
			dir := filepath.Dir(tw.tablesFile)
			if err := tw.fsWatcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", dir, err)
			}
			if tw.logger != nil {
				tw.logger.Info("Watching directory for tables file",
					"file", tw.tablesFile, "directory", dir)
			}
			return nil
		}
		return fmt.Errorf("failed to watch file %s: %w", tw.tablesFile, err)
	}

	// Also watch the directory to catch atomic writes (rename operations)
	dir := filepath.Dir(tw.tablesFile)
	if err := tw.fsWatcher.Add(dir); err != nil {
		if tw.logger != nil {
			tw.logger.Warn("Failed to watch directory for atomic writes",
				"directory", dir, "error", err)
		}
	}

	return nil
}

// hasFileChanged checks if the tables file has been modified since last check
func (tw *TablesWatcher) hasFileChanged() bool {
	stat, err := os.Stat(tw.tablesFile)
	if err != nil {
		if os.IsNotExist(err) {
			// File was deleted
			if !tw.lastModTime.IsZero() {
				tw.lastModTime = time.Time{}
				return true
			}
		}
		return false
	}

	if tw.lastModTime.IsZero() || stat.ModTime().After(tw.lastModTime) {
		tw.lastModTime = stat.ModTime()
		return true
	}

	return false
}

// watchLoop is the main event loop for file watching
func (tw *TablesWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-tw.fsWatcher.Events:
			if !ok {
				return
			}

			if tw.shouldProcessEvent(event) {
				tw.scheduleReload()
			}

		case err, ok := <-tw.fsWatcher.Errors:
			if !ok {
				return
			}
			if tw.logger != nil {
				tw.logger.LogError(err, "File watcher error")
			}

		case <-tw.reloadChan:
			// Debounced reload trigger
			if tw.hasFileChanged() {
				if tw.logger != nil {
					tw.logger.Info("Match tables file changed, triggering reload")
				}
				tw.reloadCallback()
			}

		case <-tw.stopChan:
			return
		}
	}
}

// shouldProcessEvent determines if a file system event should trigger a reload check
func (tw *TablesWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Name != tw.tablesFile && filepath.Base(event.Name) != filepath.Base(tw.tablesFile) {
		return false
	}

	// Process write, create, and rename events
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload
func (tw *TablesWatcher) scheduleReload() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	// Reset the debounce timer
	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}

	tw.debounceTimer = time.AfterFunc(tw.debounceDelay, func() {
		select {
		case tw.reloadChan <- struct{}{}:
			// Reload scheduled
		default:
			// Channel is full, reload already scheduled
		}
	})
}

// IsRunning returns whether the watcher is currently running
func (tw *TablesWatcher) IsRunning() bool {
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	return tw.running
}
