package model

import "encoding/json"

// Settings is the singleton configuration document, stored with ID "main".
// It is always read through ResolveSettings so fields added in later
// releases appear with their defaults without a migration step.
type Settings struct {
	ID        string            `json:"id"`
	Autofill  AutofillSettings  `json:"autofill"`
	Detection DetectionSettings `json:"detection"`
	UI        UISettings        `json:"ui"`
	Data      DataSettings      `json:"data"`
	Goals     GoalSettings      `json:"goals"`
	AI        AISettings        `json:"ai"`
	JobSites  []JobSite         `json:"customJobSites,omitempty"`
}

// AutofillSettings controls form autofill behavior.
type AutofillSettings struct {
	Enabled       bool `json:"enabled"`
	ConfirmBefore bool `json:"confirmBefore"`
}

// DetectionSettings controls job-page detection.
type DetectionSettings struct {
	Enabled       bool `json:"enabled"`
	AutoCapture   bool `json:"autoCapture"`
	PromptOnApply bool `json:"promptOnApply"`
}

// UISettings controls presentation preferences.
type UISettings struct {
	Theme           string `json:"theme"`
	DefaultStatsTab string `json:"defaultStatsTab"`
	CompactLists    bool   `json:"compactLists"`
}

// DataSettings controls retention and follow-up thresholds.
type DataSettings struct {
	FollowUpAfterDays int  `json:"followUpAfterDays"`
	KeepActivityDays  int  `json:"keepActivityDays"`
	ExportPretty      bool `json:"exportPretty"`
}

// GoalSettings holds the application-count targets tracked by the stats
// engine.
type GoalSettings struct {
	WeeklyTarget  int `json:"weeklyTarget"`
	MonthlyTarget int `json:"monthlyTarget"`
}

// AISettings controls resume tailoring assistance.
type AISettings struct {
	Enabled bool   `json:"enabled"`
	Model   string `json:"model"`
}

// JobSite is one user-registered job board.
type JobSite struct {
	Name       string `json:"name"`
	URLPattern string `json:"urlPattern"`
}

// DefaultSettings returns the full settings schema with defaults.
func DefaultSettings() Settings {
	return Settings{
		ID: SingletonID,
		Autofill: AutofillSettings{
			Enabled:       true,
			ConfirmBefore: true,
		},
		Detection: DetectionSettings{
			Enabled:       true,
			AutoCapture:   false,
			PromptOnApply: true,
		},
		UI: UISettings{
			Theme:           "system",
			DefaultStatsTab: "funnel",
			CompactLists:    false,
		},
		Data: DataSettings{
			FollowUpAfterDays: 7,
			KeepActivityDays:  365,
			ExportPretty:      true,
		},
		Goals: GoalSettings{
			WeeklyTarget:  5,
			MonthlyTarget: 20,
		},
		AI: AISettings{
			Enabled: false,
			Model:   "",
		},
	}
}

// ResolveSettings deep-merges a stored settings document over the defaults,
// so missing fields resolve to their default value. A nil document yields
// the defaults unchanged.
func ResolveSettings(doc Document) (Settings, error) {
	defaults, err := ToDocument(DefaultSettings())
	if err != nil {
		return Settings{}, err
	}
	merged := deepMerge(defaults, doc)
	var out Settings
	if err := FromDocument(merged, &out); err != nil {
		return Settings{}, err
	}
	out.ID = SingletonID
	return out, nil
}

// deepMerge returns base with overlay's fields applied. Nested objects merge
// recursively; scalars and arrays from the overlay replace the base value.
func deepMerge(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		if ov, ok := v.(map[string]any); ok {
			if bv, ok := out[k].(map[string]any); ok {
				out[k] = deepMerge(bv, ov)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// MergeDocuments exposes the deep-merge used for settings resolution and for
// the meta field of application updates.
func MergeDocuments(base, overlay Document) Document {
	return Document(deepMerge(base, overlay))
}

// CloneDocument returns a deep copy of a document.
func CloneDocument(doc Document) Document {
	raw, err := json.Marshal(doc)
	if err != nil {
		return Document{}
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return Document{}
	}
	return out
}
