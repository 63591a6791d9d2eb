package remote

import "time"

// Project is a remote unit of organization.
type Project struct {
	// ID is the remote project identifier
	ID string `json:"id"`

	// Name is the display name; it may change at any time
	Name string `json:"name"`

	// Description is the optional project description
	Description string `json:"description,omitempty"`

	// CreatedAt is when the project was created
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the project was last modified (zero if not reported)
	UpdatedAt time.Time `json:"updatedAt"`
}

// FileRecord is a knowledge file attached to a project.
type FileRecord struct {
	// ID is the remote file identifier
	ID string `json:"id"`

	// FileName is unique within a project
	FileName string `json:"fileName"`

	// Content is the full text of the file
	Content string `json:"content"`

	// CreatedAt is when the file was uploaded
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the last remote modification, zero when the remote
	// does not report one
	UpdatedAt time.Time `json:"updatedAt"`
}

// Instructions is a project's instruction text.
type Instructions struct {
	Content string `json:"content"`
}

// ConversationSummary is a conversation as returned by the listing endpoint.
type ConversationSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ProjectID string    `json:"projectId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is one turn of a conversation.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation is a conversation with its messages.
type Conversation struct {
	ConversationSummary
	Messages []Message `json:"messages"`
}
