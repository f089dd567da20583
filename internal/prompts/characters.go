package prompts

// CharacterProfile captures what the generator needs to keep a recurring
// character consistent across chapters.
type CharacterProfile struct {
	Name           string            `json:"name"`
	Role           string            `json:"role"`
	Personality    string            `json:"personality"`
	SpeechPatterns []string          `json:"speech_patterns,omitempty"`
	CurrentState   string            `json:"current_state"`
	Goals          []string          `json:"goals,omitempty"`
	Relationships  map[string]string `json:"relationships,omitempty"`
}

// DefaultCharacters returns the principal cast, keyed by short name. The
// short names double as the substrings matched against key-scene hints.
func DefaultCharacters() map[string]CharacterProfile {
	return map[string]CharacterProfile{
		"hero": {
			Name:        "The Hero",
			Role:        "Protagonist and narrator",
			Personality: "Brilliant, proud, wounded, and wiser than he admits",
			SpeechPatterns: []string{
				"Musical metaphor",
				"A taste for the dramatic",
				"Self-deprecating irony",
				"Educated diction",
			},
			CurrentState: "Telling his own story, knowing how it ends",
			Goals:        []string{"Tell the true story", "Warn the world"},
			Relationships: map[string]string{
				"The Muse":       "The love of his life",
				"The Apprentice": "Student and friend",
				"The Chronicler": "Listener and scribe",
			},
		},
		"muse": {
			Name:        "The Muse",
			Role:        "Enigmatic beloved",
			Personality: "Independent, sharp, secretive, fragile beneath the poise",
			SpeechPatterns: []string{
				"Elegant phrasing",
				"Evasive answers",
				"Poetic turns",
				"Hidden subtext",
			},
			CurrentState: "Bound to a patron whose name she will not speak",
			Goals:        []string{"Survive", "Find her own place", "Shield the hero from the truth"},
			Relationships: map[string]string{
				"The Hero":   "Love, and fear of closeness",
				"The Patron": "Patron and teacher",
			},
		},
		"apprentice": {
			Name:        "The Apprentice",
			Role:        "The innkeeper's student, a prince of the fae",
			Personality: "Playful, dangerous, devoted, not quite human",
			SpeechPatterns: []string{
				"Switches between levity and threat",
				"Fae turns of phrase",
				"Hides his true nature",
			},
			CurrentState: "Scheming to return his teacher's lost power",
			Goals:        []string{"Restore his teacher", "Keep the inn safe"},
			Relationships: map[string]string{
				"The Innkeeper":  "Teacher and object of devotion",
				"The Chronicler": "A tool for his own ends",
			},
		},
	}
}
