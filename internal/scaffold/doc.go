// Package scaffold creates a fresh workspace: it copies the workflow
// templates for the chosen language, writes the configuration document
// and renders the project README.
package scaffold
