// Package planner decides what a bidirectional sync does with each file.
//
// The planner is pure: it never touches the network or the filesystem. Given
// the per-file difference lists for a project and a conflict strategy, it
// produces a ProjectPlan of ordered download/upload operations and records
// which files were conflicts.
//
// Key responsibilities:
//   - Model the conflict strategies (local, remote, newer, prompt)
//   - Resolve a modified-on-both-sides file to a single direction
//   - Keep remote-only and local-only files out of the conflict count
package planner
