// Package config handles YAML configuration loading with environment
// variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable
// interpolation. Duration fields are normally left unset and filled by
// defaults.
package config
