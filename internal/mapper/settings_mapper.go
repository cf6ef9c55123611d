package mapper

import (
	"encoding/json"

	"ai-search-be/internal/entity"
	"ai-search-be/internal/model"

	"gorm.io/datatypes"
)

// settingsDocument is the persisted JSON shape of AISearchSettings.
type settingsDocument struct {
	Enabled              *bool    `json:"enabled"`
	AIModeEnabled        *bool    `json:"ai_mode_enabled"`
	SelectedCollections  []string `json:"selected_collections"`
	DismissedCollections []string `json:"dismissed_collections"`
	AutocompleteEnabled  *bool    `json:"autocomplete_enabled"`
	CacheDuration        *int     `json:"cache_duration"`
	ResultsLimit         *int     `json:"results_limit"`
	IndexMedia           *bool    `json:"index_media"`
}

type SettingsMapper struct{}

func NewSettingsMapper() *SettingsMapper {
	return &SettingsMapper{}
}

// ToEntity decodes a settings row. Keys missing from the stored document keep
// their default values.
func (m *SettingsMapper) ToEntity(s *model.PluginSetting) (*entity.AISearchSettings, error) {
	if s == nil {
		return nil, nil
	}

	var doc settingsDocument
	if err := json.Unmarshal(s.Value, &doc); err != nil {
		return nil, err
	}

	out := entity.DefaultAISearchSettings()
	if doc.Enabled != nil {
		out.Enabled = *doc.Enabled
	}
	if doc.AIModeEnabled != nil {
		out.AIModeEnabled = *doc.AIModeEnabled
	}
	if doc.SelectedCollections != nil {
		out.SelectedCollections = doc.SelectedCollections
	}
	if doc.DismissedCollections != nil {
		out.DismissedCollections = doc.DismissedCollections
	}
	if doc.AutocompleteEnabled != nil {
		out.AutocompleteEnabled = *doc.AutocompleteEnabled
	}
	if doc.CacheDuration != nil {
		out.CacheDuration = *doc.CacheDuration
	}
	if doc.ResultsLimit != nil {
		out.ResultsLimit = *doc.ResultsLimit
	}
	if doc.IndexMedia != nil {
		out.IndexMedia = *doc.IndexMedia
	}
	return &out, nil
}

func (m *SettingsMapper) ToModel(key string, s *entity.AISearchSettings) (*model.PluginSetting, error) {
	selected := s.SelectedCollections
	if selected == nil {
		selected = []string{}
	}
	dismissed := s.DismissedCollections
	if dismissed == nil {
		dismissed = []string{}
	}

	raw, err := json.Marshal(settingsDocument{
		Enabled:              &s.Enabled,
		AIModeEnabled:        &s.AIModeEnabled,
		SelectedCollections:  selected,
		DismissedCollections: dismissed,
		AutocompleteEnabled:  &s.AutocompleteEnabled,
		CacheDuration:        &s.CacheDuration,
		ResultsLimit:         &s.ResultsLimit,
		IndexMedia:           &s.IndexMedia,
	})
	if err != nil {
		return nil, err
	}

	return &model.PluginSetting{
		Key:   key,
		Value: datatypes.JSON(raw),
	}, nil
}
