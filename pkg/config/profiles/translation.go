package profiles

import "vidlearn-hq/confstore/pkg/config"

// Default values for the translation profile.
const (
	DefaultOllamaModel      = "llama3.1:8b"
	DefaultOllamaBaseURL    = "http://localhost:11434"
	DefaultOllamaTimeout    = 60
	DefaultOllamaMaxRetries = 3
	DefaultTemperature      = 0.3

	DefaultPreferredFormat   = "structured"
	DefaultMaxResponseLength = 2000

	DefaultMaxCacheSize       = 1000
	DefaultCacheDurationHours = 24
	DefaultMaxCacheSizeMB     = 100

	DefaultMinResponseLength = 10
	DefaultPreferredLanguage = "uk"

	DefaultUserLevel        = "intermediate"
	DefaultNativeLanguage   = "ukrainian"
	DefaultTargetLanguage   = "english"
	DefaultExplanationStyle = "detailed"
)

// UserLevels are the accepted values of language_learning.user_level.
var UserLevels = []string{"beginner", "intermediate", "advanced"}

// Translation returns the profile of the AI translation and tutoring feature.
func Translation() *Profile {
	return &Profile{
		EnvPrefix: "TUTOR",
		Required: map[string]any{
			"ollama.model":       DefaultOllamaModel,
			"ollama.base_url":    DefaultOllamaBaseURL,
			"ollama.temperature": DefaultTemperature,
		},
		Schema: &config.Schema{
			Name:        "translation",
			Description: "Local-model translation and tutoring for game-themed subtitles",
			Fields: []config.Field{
				// ollama
				{Path: "ollama.enabled", Kind: config.KindBool, Default: true,
					Description: "Use the local Ollama server"},
				{Path: "ollama.model", Kind: config.KindString, Required: true,
					Description: "Model tag served by Ollama"},
				{Path: "ollama.base_url", Kind: config.KindString, Required: true,
					Description: "Ollama HTTP endpoint"},
				{Path: "ollama.timeout", Kind: config.KindInt, Default: DefaultOllamaTimeout,
					Min: config.Bound(1), Max: config.Bound(600),
					Description: "Request timeout in seconds"},
				{Path: "ollama.max_retries", Kind: config.KindInt, Default: DefaultOllamaMaxRetries,
					Min: config.Bound(0), Max: config.Bound(10),
					Description: "Retries per failed request"},
				{Path: "ollama.temperature", Kind: config.KindFloat, Required: true,
					Min: config.Bound(0), Max: config.Bound(2),
					Description: "Sampling temperature"},

				// skyrim_context
				{Path: "skyrim_context.enable_fantasy_terms", Kind: config.KindBool, Default: true,
					Description: "Toggle for setting-specific vocabulary"},
				{Path: "skyrim_context.preserve_names", Kind: config.KindBool, Default: true,
					Description: "Keep proper names untranslated"},
				{Path: "skyrim_context.common_terms", Kind: config.KindStringMap,
					Default: map[string]any{
						"Dragonborn": "Драконороджений",
						"Jarl":       "Ярл",
						"Thu'um":     "Ту'ум",
						"Whiterun":   "Вайтран",
					},
					Description: "Glossary of setting terms and their translations"},

				// response_formatting
				{Path: "response_formatting.preferred_format", Kind: config.KindString, Default: DefaultPreferredFormat,
					Enum:        []string{"plain", "markdown", "structured"},
					Description: "Layout of model responses"},
				{Path: "response_formatting.use_emoji", Kind: config.KindBool, Default: true,
					Description: "Prefix response sections with emoji"},
				{Path: "response_formatting.emoji_mapping", Kind: config.KindStringMap,
					Default: map[string]any{
						"translation":   "🔤",
						"grammar":       "📚",
						"vocabulary":    "📖",
						"pronunciation": "🗣️",
						"tips":          "💡",
					},
					Description: "Emoji used for each response section"},
				{Path: "response_formatting.max_response_length", Kind: config.KindInt, Default: DefaultMaxResponseLength,
					Min: config.Bound(1), Max: config.Bound(100000),
					Description: "Maximum characters kept from a response"},

				// performance
				{Path: "performance.cache_responses", Kind: config.KindBool, Default: true,
					Description: "Cache model responses"},
				{Path: "performance.max_cache_size", Kind: config.KindInt, Default: DefaultMaxCacheSize,
					Min:         config.Bound(0),
					Description: "Maximum cached responses"},
				{Path: "performance.max_cache_size_mb", Kind: config.KindInt, Default: DefaultMaxCacheSizeMB,
					Min:         config.Bound(0),
					Description: "Maximum cache size on disk in megabytes"},
				{Path: "performance.cache_duration_hours", Kind: config.KindInt, Default: DefaultCacheDurationHours,
					Min:         config.Bound(0),
					Description: "Lifetime of a cached response"},

				// quality_control
				{Path: "quality_control.preferred_language", Kind: config.KindString, Default: DefaultPreferredLanguage,
					Enum:        []string{"uk", "en"},
					Description: "Language of explanations"},
				{Path: "quality_control.min_response_length", Kind: config.KindInt, Default: DefaultMinResponseLength,
					Min:         config.Bound(0),
					Description: "Responses shorter than this are treated as failures"},
				{Path: "quality_control.retry_on_short_response", Kind: config.KindBool, Default: true,
					Description: "Retry when a response is too short"},

				// language_learning
				{Path: "language_learning.user_level", Kind: config.KindString, Default: DefaultUserLevel,
					Enum:        UserLevels,
					Description: "Learner level used to pitch explanations"},
				{Path: "language_learning.native_language", Kind: config.KindString, Default: DefaultNativeLanguage,
					Description: "Language explanations are written in"},
				{Path: "language_learning.target_language", Kind: config.KindString, Default: DefaultTargetLanguage,
					Description: "Language being learned"},
				{Path: "language_learning.focus_areas", Kind: config.KindStringList,
					Default:     []any{"grammar", "vocabulary", "pronunciation", "context"},
					Enum:        []string{"grammar", "vocabulary", "pronunciation", "context"},
					Description: "Aspects covered by explanations"},
				{Path: "language_learning.explanation_style", Kind: config.KindString, Default: DefaultExplanationStyle,
					Description: "How much detail explanations carry"},
				{Path: "language_learning.include_examples", Kind: config.KindBool, Default: true,
					Description: "Add example sentences to explanations"},
				{Path: "language_learning.cultural_context", Kind: config.KindBool, Default: true,
					Description: "Explain cultural references"},
			},
		},
	}
}
