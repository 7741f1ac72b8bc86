// Package config loads client configuration from YAML.
//
// String values support strict ${VAR} environment expansion: a
// referenced variable that is missing from the environment fails the
// load instead of silently expanding to empty. Tokens therefore live
// in the environment, not in the file.
package config
