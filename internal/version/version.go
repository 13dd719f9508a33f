// Package version provides build and version information.
package version

// Version is the current application version.
// Update this at logical milestones.
const Version = "0.2.0"

// Milestones:
// 0.1.0 - Interactive folder triage, mapping file, filtered copy
// 0.2.0 - Exclude patterns, themed menus, cobra entry point
