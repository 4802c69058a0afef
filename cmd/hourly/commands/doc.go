// Package commands defines the hourly CLI.
//
// Commands
//
//   - serve     Run the HTTP API backed by the configured stores
//   - allocate  Run one allocation pass over a YAML or JSON backlog file
//   - version   Print the release version
//
// Configuration is read by viper from --config (YAML, JSON or TOML) and from
// HOURLY_* environment variables, e.g. HOURLY_SERVER_ADDR=:8080.
package commands
