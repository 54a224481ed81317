// Package platform provides cross-platform permission handling. On Unix
// systems it uses chmod directly; on Windows permission changes are no-ops
// because scripts there are launched through PowerShell rather than by mode
// bits.
package platform
