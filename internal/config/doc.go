// Package config holds finscreen's runtime settings and loads them from, in
// increasing priority, built-in defaults, a YAML file, a .env file and
// FINSCREEN_* environment variables. Command-line flags are applied last by
// the caller.
//
// # File lookup
//
//  1. The path given with --config
//  2. .finscreen.yaml in the current directory
//  3. config.yaml under the XDG config directory (~/.config/finscreen on Linux)
//
// # Example
//
//	base_url: https://www.screener.in
//	delay: 2s
//	timeout: 45s
//	fetch_mode: browser
//	proxy_url: http://127.0.0.1:8080
//	consolidated: false
//	format: markdown
package config
