// Package config provides the configuration of history-tracked stores.
//
// Settings come from three layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← REWIND_* (highest priority)
//	├─────────────────────────────┤
//	│  2. Configuration File      │  ← rewind.toml / .yaml / .json
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Default()
//	└─────────────────────────────┘
//
// The loader sub-package reads the file and environment layers.
//
// # Example
//
//	# rewind.toml
//	key = "diff"
//	limit = 100
//	flatten = ["layout", "panels[*]"]
//
//	[actions]
//	undo = "UNDO"
//
//	[log]
//	level = "debug"
package config
