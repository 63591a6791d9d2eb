// Package remote is the remote side of a sync: projects, their instruction
// text, knowledge files and conversations, served over HTTP.
//
// Records are decoded into explicit types and validated at this boundary.
// Malformed records are dropped and logged instead of being passed on.
package remote

import "context"

// Store provides access to a remote project store. The sync engine never
// assumes it is the only writer.
type Store interface {
	// ListProjects lists every project in an organization.
	ListProjects(ctx context.Context, orgID string) ([]Project, error)

	// GetProjectFiles lists a project's knowledge files with their content.
	GetProjectFiles(ctx context.Context, orgID, projectID string) ([]FileRecord, error)

	// GetProjectInstructions returns a project's instructions. A project
	// without instructions yields empty content and no error.
	GetProjectInstructions(ctx context.Context, orgID, projectID string) (Instructions, error)

	// UpdateProjectInstructions replaces a project's instructions.
	UpdateProjectInstructions(ctx context.Context, orgID, projectID, content string) error

	// UploadFile adds a knowledge file to a project.
	UploadFile(ctx context.Context, orgID, projectID, fileName, content string) (FileRecord, error)

	// GetConversations lists all conversations in an organization.
	GetConversations(ctx context.Context, orgID string) ([]ConversationSummary, error)

	// GetConversation fetches one conversation with its messages.
	GetConversation(ctx context.Context, orgID, conversationID string) (*Conversation, error)
}
