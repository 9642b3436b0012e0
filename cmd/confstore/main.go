// confstore loads, validates, and serves schema-checked configuration files.
//
// It checks YAML, JSON, and TOML configuration documents against a named
// profile schema, providing:
//   - Collect-all validation with field paths and violation codes
//   - Typed value lookup that never falls back silently
//   - Leaf-wise merging of layered configuration files
//   - Live reload with file watching, Prometheus metrics, and a reload journal
//
// Usage:
//
//	# Validate a configuration file against the translation profile
//	confstore validate config.yaml
//
//	# Read a typed value
//	confstore get ollama.temperature --type float config.yaml
//
//	# Merge an override into a base file
//	confstore merge base.yaml local.yaml
//
//	# Create a default configuration file
//	confstore init config.yaml
//
//	# Reload on every change and expose metrics
//	confstore watch config.yaml --metrics-addr :9090
//
//	# Show version information
//	confstore version
package main

import "os"

func main() {
	os.Exit(Execute())
}
