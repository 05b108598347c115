// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for askdesk.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - ServerConfig: Base URL, endpoint paths and request timeout
//   - ChatConfig: Send mode and the placeholder texts
//   - UploadConfig: Simulation cadence, status script and alert texts
//   - HistoryConfig, UIConfig, LogConfig
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (ASKDESK_*)
//   - ~/.askdesk/config.toml
//   - ~/.askdesk/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	timeout := cfg.Server.Timeout()
package config
