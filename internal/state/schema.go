package state

import (
	"strings"
	"time"

	"github.com/danieljhkim/worksync/internal/planner"
)

const (
	// CurrentVersion is the workspace config schema version.
	CurrentVersion = 1

	// MetaDir is the hidden directory holding worksync state, both at the
	// workspace root and inside each project folder.
	MetaDir = ".worksync"

	// ConfigFileName is the workspace config file inside MetaDir.
	ConfigFileName = "workspace.json"

	// MetadataFileName is the project sidecar file inside a folder's MetaDir.
	MetadataFileName = "project.json"
)

// WorkspaceConfig is the persisted sync state for one local workspace root.
type WorkspaceConfig struct {
	// Version is the schema version
	Version int `json:"version"`

	// ProjectMap binds remote project IDs to local folder names.
	// Folder names are unique within the map.
	ProjectMap map[string]string `json:"projectMap"`

	// Settings holds user-adjustable sync behavior
	Settings Settings `json:"settings"`

	// LastSyncAt is when the last successful sync finished
	LastSyncAt *time.Time `json:"lastSyncAt,omitempty"`
}

// Settings controls how a workspace syncs.
type Settings struct {
	// SyncChats exports conversations into each project's chats folder
	SyncChats bool `json:"syncChats"`

	// ConflictResolution is the strategy for files modified on both sides
	ConflictResolution planner.ConflictStrategy `json:"conflictResolution"`
}

// NewWorkspaceConfig creates an empty WorkspaceConfig with default settings.
func NewWorkspaceConfig() *WorkspaceConfig {
	return &WorkspaceConfig{
		Version:    CurrentVersion,
		ProjectMap: make(map[string]string),
		Settings: Settings{
			ConflictResolution: planner.DefaultStrategy,
		},
	}
}

// Clone returns a deep copy of the config.
func (c *WorkspaceConfig) Clone() *WorkspaceConfig {
	out := *c
	out.ProjectMap = make(map[string]string, len(c.ProjectMap))
	for id, folder := range c.ProjectMap {
		out.ProjectMap[id] = folder
	}
	if c.LastSyncAt != nil {
		t := *c.LastSyncAt
		out.LastSyncAt = &t
	}
	return &out
}

// FolderFor returns the folder bound to projectID.
func (c *WorkspaceConfig) FolderFor(projectID string) (string, bool) {
	folder, ok := c.ProjectMap[projectID]
	return folder, ok
}

// ProjectForFolder returns the project bound to folder. Folder names
// compare case-insensitively.
func (c *WorkspaceConfig) ProjectForFolder(folder string) (string, bool) {
	for id, f := range c.ProjectMap {
		if strings.EqualFold(f, folder) {
			return id, true
		}
	}
	return "", false
}

// normalize repairs fields a hand-edited or older config may lack.
func (c *WorkspaceConfig) normalize() {
	if c.Version == 0 {
		c.Version = CurrentVersion
	}
	if c.ProjectMap == nil {
		c.ProjectMap = make(map[string]string)
	}
	if !c.Settings.ConflictResolution.IsValid() {
		c.Settings.ConflictResolution = planner.DefaultStrategy
	}
}

// ProjectMetadata is the audit sidecar written into a project folder.
// It is never used for matching folders to projects.
type ProjectMetadata struct {
	// ID is the remote project ID
	ID string `json:"id"`

	// Name is the remote project name at sync time
	Name string `json:"name"`

	// OrgID is the organization the project belongs to
	OrgID string `json:"orgId"`

	// SyncedAt is when the project was last synced
	SyncedAt time.Time `json:"syncedAt"`
}

// Describes reports whether the sidecar still describes the given project.
func (m *ProjectMetadata) Describes(projectID, name, orgID string) bool {
	return m != nil && m.ID == projectID && m.Name == name && m.OrgID == orgID
}
