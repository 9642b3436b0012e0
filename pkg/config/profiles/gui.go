package profiles

import "vidlearn-hq/confstore/pkg/config"

// Default values for the gui profile.
const (
	DefaultBatchSize          = 5
	DefaultBatchDelayMS       = 50
	DefaultMaxWidgetsPerFrame = 10

	DefaultUpdateIntervalMS  = 100
	DefaultMaxVisibleWidgets = 50

	DefaultErrorLogLevel   = "info"
	DefaultMaxErrorReports = 100

	DefaultMemoryThresholdMB   = 800
	DefaultMemoryCheckInterval = 5

	DefaultMaxWorkerThreads = 3
	DefaultThreadTimeout    = 300

	DefaultSilenceThreshold    = 5.0
	DefaultMinGroupDuration    = 10.0
	DefaultMaxFramesPerSegment = 3

	DefaultProgressIntervalMS = 100
)

// GUI returns the profile of the widget manager and video chunker.
func GUI() *Profile {
	return &Profile{
		EnvPrefix: "GUI",
		Schema: &config.Schema{
			Name:        "gui",
			Description: "Widget creation throttling, memory management and background video processing",
			Fields: []config.Field{
				// widget_creation
				{Path: "widget_creation.batch_size", Kind: config.KindInt, Default: DefaultBatchSize,
					Min: config.Bound(1), Max: config.Bound(100),
					Description: "Widgets created per batch"},
				{Path: "widget_creation.delay_ms", Kind: config.KindInt, Default: DefaultBatchDelayMS,
					Min: config.Bound(0), Max: config.Bound(5000),
					Description: "Pause between batches"},
				{Path: "widget_creation.max_widgets_per_frame", Kind: config.KindInt, Default: DefaultMaxWidgetsPerFrame,
					Min: config.Bound(1), Max: config.Bound(1000),
					Description: "Upper bound of widgets created in one frame"},
				{Path: "widget_creation.enable_lazy_loading", Kind: config.KindBool, Default: true,
					Description: "Create widgets only when they scroll into view"},

				// gui_optimization
				{Path: "gui_optimization.update_interval_ms", Kind: config.KindInt, Default: DefaultUpdateIntervalMS,
					Min: config.Bound(1), Max: config.Bound(10000),
					Description: "Interval between GUI refreshes"},
				{Path: "gui_optimization.max_visible_widgets", Kind: config.KindInt, Default: DefaultMaxVisibleWidgets,
					Min:         config.Bound(1),
					Description: "Widgets kept alive at once"},
				{Path: "gui_optimization.enable_double_buffering", Kind: config.KindBool, Default: true,
					Description: "Render off-screen before display"},

				// error_handling
				{Path: "error_handling.log_level", Kind: config.KindString, Default: DefaultErrorLogLevel,
					Enum:        []string{"debug", "info", "warning", "error"},
					Description: "Minimum level of reported errors"},
				{Path: "error_handling.max_error_reports", Kind: config.KindInt, Default: DefaultMaxErrorReports,
					Min:         config.Bound(0),
					Description: "Error reports kept in memory"},
				{Path: "error_handling.show_error_dialogs", Kind: config.KindBool, Default: true,
					Description: "Surface errors in dialogs"},

				// memory_management
				{Path: "memory_management.memory_threshold_mb", Kind: config.KindInt, Default: DefaultMemoryThresholdMB,
					Min: config.Bound(64), Max: config.Bound(65536),
					Description: "Resident memory above which widget creation pauses"},
				{Path: "memory_management.check_interval_widgets", Kind: config.KindInt, Default: DefaultMemoryCheckInterval,
					Min:         config.Bound(1),
					Description: "Widgets created between memory checks"},
				{Path: "memory_management.enable_gc", Kind: config.KindBool, Default: true,
					Description: "Force collection after large batches"},

				// threading
				{Path: "threading.max_worker_threads", Kind: config.KindInt, Default: DefaultMaxWorkerThreads,
					Min: config.Bound(1), Max: config.Bound(64),
					Description: "Background worker pool size"},
				{Path: "threading.thread_timeout", Kind: config.KindInt, Default: DefaultThreadTimeout,
					Min:         config.Bound(1),
					Description: "Seconds before a background task is abandoned"},

				// video_processing
				{Path: "video_processing.supported_formats", Kind: config.KindStringList,
					Default:     []any{".mkv", ".mp4", ".avi", ".mov", ".wmv"},
					Enum:        []string{".mkv", ".mp4", ".avi", ".mov", ".wmv", ".webm"},
					Description: "Video file extensions picked up by the chunker"},
				{Path: "video_processing.silence_threshold", Kind: config.KindFloat, Default: DefaultSilenceThreshold,
					Min: config.Bound(0), ExclusiveMin: true, Max: config.Bound(60),
					Description: "Seconds of silence that split segment groups"},
				{Path: "video_processing.min_group_duration", Kind: config.KindFloat, Default: DefaultMinGroupDuration,
					Min: config.Bound(0), ExclusiveMin: true,
					Description: "Minimum duration of a segment group in seconds"},
				{Path: "video_processing.max_frames_per_segment", Kind: config.KindInt, Default: DefaultMaxFramesPerSegment,
					Min: config.Bound(0), Max: config.Bound(30),
					Description: "Key frames extracted per segment"},

				// ui_responsiveness
				{Path: "ui_responsiveness.progress_update_interval_ms", Kind: config.KindInt, Default: DefaultProgressIntervalMS,
					Min:         config.Bound(1),
					Description: "Interval between progress updates"},
				{Path: "ui_responsiveness.enable_cancel", Kind: config.KindBool, Default: true,
					Description: "Allow cancelling long operations"},
			},
		},
	}
}
