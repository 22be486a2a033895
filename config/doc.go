// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment using viper.
//
// Environment variables named <PREFIX>_<SECTION>__<KEY> override file values,
// e.g. IDENTITY_SESSION__SID_LENGTH=32 sets session.sid_length.
package config
