// Package migrate classifies a workspace into a schema generation and
// upgrades it one generation at a time.
//
// Classify is a pure function of a workspace.Fingerprint. The Orchestrator
// runs the resulting plan strictly in order, stops at the first failing
// step and reports every summary collected so far; there is no rollback
// because every step is additive and safe to re-run.
package migrate
