// Package state manages the persisted sync state of a workspace.
//
// The state package stores the workspace config (the project-id to folder
// mapping, sync settings and last-sync time) and the per-project metadata
// sidecars. Both are JSON files written atomically through fsops.LocalTree.
//
// Key concepts:
//   - WorkspaceConfig: Mapping and settings for one workspace root
//   - ConfigStore: Interface for loading and checkpointing the config
//   - ProjectMetadata: Audit-only record of a project's last sync
package state
