// Package workspace models a scaffolded project on disk: the .skgd marker
// directory, the typed config.yaml and state.yaml documents, and the
// read-only fingerprint used to decide which generation a project belongs
// to. Every function takes the workspace root explicitly; nothing here
// depends on the process working directory.
package workspace
