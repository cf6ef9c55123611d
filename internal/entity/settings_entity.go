package entity

// AISearchSettingsKey is the plugin settings row holding AISearchSettings.
const AISearchSettingsKey = "ai-search"

type AISearchSettings struct {
	Enabled              bool
	AIModeEnabled        bool
	SelectedCollections  []string
	DismissedCollections []string
	AutocompleteEnabled  bool
	// CacheDuration is in hours.
	CacheDuration int
	ResultsLimit  int
	IndexMedia    bool
}

func DefaultAISearchSettings() AISearchSettings {
	return AISearchSettings{
		Enabled:              true,
		AIModeEnabled:        true,
		SelectedCollections:  []string{},
		DismissedCollections: []string{},
		AutocompleteEnabled:  true,
		CacheDuration:        1,
		ResultsLimit:         20,
		IndexMedia:           false,
	}
}

func (s AISearchSettings) IsSelected(collectionId string) bool {
	for _, id := range s.SelectedCollections {
		if id == collectionId {
			return true
		}
	}
	return false
}

func (s AISearchSettings) IsDismissed(collectionId string) bool {
	for _, id := range s.DismissedCollections {
		if id == collectionId {
			return true
		}
	}
	return false
}
