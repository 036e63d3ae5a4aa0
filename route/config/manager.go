package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/route-plotter/route/engine"
	"github.com/wricardo/route-plotter/route/service"
)

var (
	ErrProfileNotFound = service.ErrProfileNotFound
	ErrInvalidProfile  = errors.New("invalid profile")
)

// DefaultProfileName is the profile preferred as the default
const DefaultProfileName = "standard"

// extensions are tried in order when resolving a profile name
var extensions = []string{".json", ".yaml", ".yml"}

// Manager handles grid profile loading and caching
type Manager struct {
	profileDir     string
	defaultProfile *engine.Profile
	profiles       map[string]*engine.Profile
	mu             sync.RWMutex
}

// NewManager creates a new profile manager
func NewManager(profileDir string) (*Manager, error) {
	if _, err := os.Stat(profileDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("profile directory does not exist: %s", profileDir)
	}

	m := &Manager{
		profileDir: profileDir,
		profiles:   make(map[string]*engine.Profile),
	}

	m.loadDefaultProfile()
	return m, nil
}

// LoadProfile loads a profile by name
func (m *Manager) LoadProfile(name string) (*engine.Profile, error) {
	name = profileID(name)

	m.mu.RLock()
	if profile, exists := m.profiles[name]; exists {
		m.mu.RUnlock()
		return profile, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if profile, exists := m.profiles[name]; exists {
		return profile, nil
	}

	profile, err := m.readProfile(name)
	if err != nil {
		return nil, err
	}

	m.profiles[name] = profile
	return profile, nil
}

// readProfile reads and validates a profile file. Caller holds m.mu.
func (m *Manager) readProfile(name string) (*engine.Profile, error) {
	for _, ext := range extensions {
		path := filepath.Join(m.profileDir, name+ext)

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read profile file: %w", err)
		}

		var profile engine.Profile
		if ext == ".json" {
			err = json.Unmarshal(data, &profile)
		} else {
			err = yaml.Unmarshal(data, &profile)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidProfile, filepath.Base(path), err)
		}

		if err := engine.ValidateProfile(&profile); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}

		return &profile, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// ListProfiles returns information about all available profiles
func (m *Manager) ListProfiles() ([]*service.ProfileInfo, error) {
	entries, err := os.ReadDir(m.profileDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile directory: %w", err)
	}

	var profiles []*service.ProfileInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !hasProfileExtension(entry.Name()) {
			continue
		}

		name := profileID(entry.Name())
		if seen[name] {
			continue
		}

		profile, err := m.LoadProfile(name)
		if err != nil {
			// Skip invalid profiles
			continue
		}
		seen[name] = true

		profiles = append(profiles, &service.ProfileInfo{
			Filename:    entry.Name(),
			ProfileID:   name,
			Name:        profile.Name,
			Description: profile.Description,
			Rows:        profile.Rows,
			Cols:        profile.Cols,
			Marker:      profile.Marker,
		})
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].ProfileID < profiles[j].ProfileID
	})

	return profiles, nil
}

// GetDefault returns the default profile
func (m *Manager) GetDefault() *engine.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultProfile
}

// SetDefault sets the default profile by name
func (m *Manager) SetDefault(name string) error {
	profile, err := m.LoadProfile(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultProfile = profile
	return nil
}

// RefreshCache drops all cached profiles and re-reads the default from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.profiles = make(map[string]*engine.Profile)
	m.mu.Unlock()

	m.loadDefaultProfile()
}

// SaveProfile writes a profile to disk as JSON
func (m *Manager) SaveProfile(name string, profile *engine.Profile) error {
	if err := engine.ValidateProfile(profile); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	name = profileID(name)
	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return fmt.Errorf("%w: bad profile name %q", ErrInvalidProfile, name)
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	path := filepath.Join(m.profileDir, name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}

	m.mu.Lock()
	m.profiles[name] = profile
	m.mu.Unlock()

	return nil
}

// loadDefaultProfile picks the default profile
func (m *Manager) loadDefaultProfile() {
	profile, err := m.LoadProfile(DefaultProfileName)
	if err != nil {
		profile = engine.DefaultProfile()

		// Fall back to the first available profile
		if profiles, listErr := m.ListProfiles(); listErr == nil && len(profiles) > 0 {
			if first, err := m.LoadProfile(profiles[0].ProfileID); err == nil {
				profile = first
			}
		}
	}

	m.mu.Lock()
	m.defaultProfile = profile
	m.mu.Unlock()
}

// profileID strips a known extension from a file or profile name
func profileID(name string) string {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

func hasProfileExtension(filename string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}
