package remote

import (
	"fmt"
	"log/slog"
	"time"
)

// Wire shapes as served by the remote API. Only the fields the sync engine
// consumes are decoded.

type wireProject struct {
	UUID        string     `json:"uuid"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type wireDoc struct {
	UUID      string     `json:"uuid"`
	FileName  string     `json:"file_name"`
	Content   *string    `json:"content"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type wireProjectDetail struct {
	UUID           string  `json:"uuid"`
	PromptTemplate *string `json:"prompt_template"`
}

type wireConversation struct {
	UUID         string        `json:"uuid"`
	Name         string        `json:"name"`
	ProjectUUID  string        `json:"project_uuid"`
	CreatedAt    *time.Time    `json:"created_at"`
	UpdatedAt    *time.Time    `json:"updated_at"`
	ChatMessages []wireMessage `json:"chat_messages"`
}

type wireMessage struct {
	UUID      string     `json:"uuid"`
	Sender    string     `json:"sender"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"created_at"`
}

type wireUpload struct {
	FileName string `json:"file_name"`
	Content  string `json:"content"`
}

type wireInstructionsUpdate struct {
	PromptTemplate string `json:"prompt_template"`
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}

func (w wireProject) validate() (Project, error) {
	if w.UUID == "" {
		return Project{}, fmt.Errorf("project is missing uuid")
	}
	if w.Name == "" {
		return Project{}, fmt.Errorf("project %s is missing name", w.UUID)
	}
	return Project{
		ID:          w.UUID,
		Name:        w.Name,
		Description: w.Description,
		CreatedAt:   timeOrZero(w.CreatedAt),
		UpdatedAt:   timeOrZero(w.UpdatedAt),
	}, nil
}

func (w wireDoc) validate() (FileRecord, error) {
	if w.FileName == "" {
		return FileRecord{}, fmt.Errorf("file %s is missing file_name", w.UUID)
	}
	if w.Content == nil {
		return FileRecord{}, fmt.Errorf("file %q is missing content", w.FileName)
	}
	return FileRecord{
		ID:        w.UUID,
		FileName:  w.FileName,
		Content:   *w.Content,
		CreatedAt: timeOrZero(w.CreatedAt),
		UpdatedAt: timeOrZero(w.UpdatedAt),
	}, nil
}

func (w wireConversation) summary() (ConversationSummary, error) {
	if w.UUID == "" {
		return ConversationSummary{}, fmt.Errorf("conversation is missing uuid")
	}
	return ConversationSummary{
		ID:        w.UUID,
		Name:      w.Name,
		ProjectID: w.ProjectUUID,
		CreatedAt: timeOrZero(w.CreatedAt),
		UpdatedAt: timeOrZero(w.UpdatedAt),
	}, nil
}

func (w wireMessage) validate() (Message, error) {
	if w.Sender == "" {
		return Message{}, fmt.Errorf("message %s is missing sender", w.UUID)
	}
	return Message{
		ID:        w.UUID,
		Sender:    w.Sender,
		Text:      w.Text,
		CreatedAt: timeOrZero(w.CreatedAt),
	}, nil
}

// keepValid converts wire records, dropping and logging the malformed ones.
func keepValid[W any, T any](logger *slog.Logger, kind string, in []W, convert func(W) (T, error)) []T {
	out := make([]T, 0, len(in))
	for _, w := range in {
		v, err := convert(w)
		if err != nil {
			logger.Warn("dropping malformed record", "kind", kind, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}
