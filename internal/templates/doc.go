// Package templates exposes the workflow template tree (commands, skills,
// reference data and the .skgd scaffolding) as a read-only source, and the
// copy primitives the scaffolder and migration steps build on. The tree is
// embedded into the binary; tests substitute an fstest.MapFS.
package templates
