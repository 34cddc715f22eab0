// Package settings holds the process-wide runtime settings.
// Values live in memory only: they are initialized at startup, changed by admins
// through Store.Update and lost on restart.
package settings

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

type Settings struct {
	SiteName             string `json:"siteName" validate:"required,max=64"`
	CurrentSemester      int    `json:"currentSemester" validate:"min=1,max=12"`
	AllowLateSubmissions bool   `json:"allowLateSubmissions"`
	NotifyByEmail        bool   `json:"notifyByEmail"`
}

func Defaults(siteName string) Settings {
	return Settings{
		SiteName:             siteName,
		CurrentSemester:      1,
		AllowLateSubmissions: true,
	}
}

// Patch is a partial update of Settings.
type Patch struct {
	SiteName             *string `json:"siteName" validate:"omitempty,min=1,max=64"`
	CurrentSemester      *int    `json:"currentSemester" validate:"omitempty,min=1,max=12"`
	AllowLateSubmissions *bool   `json:"allowLateSubmissions"`
	NotifyByEmail        *bool   `json:"notifyByEmail"`
}

func (p *Patch) Validate(validate *validator.Validate) error {
	return validate.Struct(p)
}

type Store struct {
	mu       sync.RWMutex
	settings Settings
}

func NewStore(initial Settings) *Store {
	return &Store{settings: initial}
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) AllowLateSubmissions() bool { return s.Get().AllowLateSubmissions }
func (s *Store) NotifyByEmail() bool        { return s.Get().NotifyByEmail }
func (s *Store) CurrentSemester() int       { return s.Get().CurrentSemester }

// Update applies p atomically and returns the new settings.
func (s *Store) Update(p Patch) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.SiteName != nil {
		s.settings.SiteName = *p.SiteName
	}
	if p.CurrentSemester != nil {
		s.settings.CurrentSemester = *p.CurrentSemester
	}
	if p.AllowLateSubmissions != nil {
		s.settings.AllowLateSubmissions = *p.AllowLateSubmissions
	}
	if p.NotifyByEmail != nil {
		s.settings.NotifyByEmail = *p.NotifyByEmail
	}
	return s.settings
}
