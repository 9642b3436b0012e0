// Package profiles declares the built-in configuration schemas.
//
// Two profiles ship with confstore:
//
//   - translation: the local-model translation and tutoring feature
//     (ollama, skyrim_context, response_formatting, performance, quality_control,
//     language_learning)
//   - gui: widget-creation throttling, memory management, and background
//     video processing (widget_creation, gui_optimization, error_handling,
//     memory_management, threading, video_processing, ui_responsiveness)
//
// Profiles only describe configuration. The components that act on these
// values live in the host application.
package profiles
