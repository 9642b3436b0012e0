// Package config loads, validates, and exposes typed configuration documents.
//
// A configuration source is a YAML, JSON, or TOML document whose top level is
// a mapping of named sections. The host application declares a Schema for
// each profile it consumes; this package checks documents against it, fills
// in defaults, and hands out immutable Documents with typed accessors.
//
// # Loading
//
// Documents can be loaded from a reader, bytes, or a file:
//
//	doc, err := config.LoadFile("tutor.yaml")
//
// Malformed sources fail with a *ParseError carrying the line and column
// reported by the parser.
//
// # Validation
//
// Validate checks every declared field and returns either a fully defaulted
// document or a *ValidationError listing every violation at once:
//
//	valid, err := config.Validate(doc, schema)
//
// Validation errors include field paths and violation codes:
//
//	configuration validation failed with 2 errors:
//	  - ollama.temperature: value 3 is outside [0, 2]
//	  - performance.max_cache_size: value -5 is outside [0, +inf)
//
// Keys that the schema does not declare are kept as they are so that newer
// documents still load with older schemas.
//
// # Layering
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Schema defaults (applied during validation)
//  2. Layer files, merged leaf by leaf with Merge
//  3. Environment variable overrides (PREFIX_SECTION_FIELD)
//
// LoadLayered runs the whole sequence.
//
// # Access
//
//	temp, err := valid.Float("ollama.temperature")
//	terms, err := valid.StringMap("skyrim_context.common_terms")
//
// Accessors never substitute defaults: a missing path is a *KeyNotFoundError
// and a value of another kind is a *TypeMismatchError.
//
// # Live Reload
//
// There is no global configuration. The host creates a Store, passes it (or
// the Documents it publishes) to every consumer, and calls Reload when the
// sources change. Reload publishes a new Snapshot with a single atomic swap.
//
// # Thread Safety
//
// Documents are never modified after construction and can be shared freely.
// Store is safe for concurrent use.
package config
