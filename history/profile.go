package history

import "encoding/json"

// Storage keys for the non-history client state.
const (
	profileKey  = "user_profile"
	settingsKey = "app_settings"
)

// Profile is the persisted user profile.
type Profile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email,omitempty"`
	Role     string   `json:"role"`
	SkinType string   `json:"skin_type,omitempty"`
	Concerns []string `json:"concerns,omitempty"`
}

// Settings is the persisted application settings object.
type Settings struct {
	Theme         string `json:"theme,omitempty"`
	Language      string `json:"language,omitempty"`
	Notifications bool   `json:"notifications"`
}

// SaveProfile persists the profile as a JSON blob. Unlike history
// writes there is no ladder: the blob is small, so a failed write is
// reported to the caller.
func (s *Store) SaveProfile(p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(profileKey, string(data))
}

// Profile loads the stored profile. ErrNotFound / ErrCorrupt on absence.
func (s *Store) Profile() (Profile, error) {
	s.mu.Lock()
	raw, ok := s.kv.Get(profileKey)
	s.mu.Unlock()

	if !ok {
		return Profile{}, ErrNotFound
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, ErrCorrupt
	}
	return p, nil
}

// SaveSettings persists the settings object.
func (s *Store) SaveSettings(set Settings) error {
	data, err := json.Marshal(set)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(settingsKey, string(data))
}

// Settings loads the stored settings. ErrNotFound / ErrCorrupt on absence.
func (s *Store) Settings() (Settings, error) {
	s.mu.Lock()
	raw, ok := s.kv.Get(settingsKey)
	s.mu.Unlock()

	if !ok {
		return Settings{}, ErrNotFound
	}
	var set Settings
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return Settings{}, ErrCorrupt
	}
	return set, nil
}
