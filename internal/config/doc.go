// Package config manages user-level defaults stored at ~/.skgd-cli/config.yaml.
// The defaults (language, engine, model, shell) pre-select answers for init
// and upgrade; every key can be overridden with a SKGD_<KEY> env var.
package config
