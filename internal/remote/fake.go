package remote

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/danieljhkim/worksync/internal/clock"
)

// Operation names used by FakeStore for call counting and error injection.
const (
	OpListProjects       = "ListProjects"
	OpGetProjectFiles    = "GetProjectFiles"
	OpGetInstructions    = "GetProjectInstructions"
	OpUpdateInstructions = "UpdateProjectInstructions"
	OpUploadFile         = "UploadFile"
	OpGetConversations   = "GetConversations"
	OpGetConversation    = "GetConversation"
)

// Upload records one UploadFile call made against a FakeStore.
type Upload struct {
	ProjectID string
	FileName  string
	Content   string
}

// FakeStore implements Store in memory for testing. Uploads replace any
// file with the same name so repeated syncs converge.
type FakeStore struct {
	mu            sync.Mutex
	clock         clock.Clock
	projects      []Project
	files         map[string][]FileRecord
	instructions  map[string]string
	conversations []Conversation
	errs          map[string]error
	calls         map[string]int
	uploads       []Upload
	nextID        int
}

var _ Store = (*FakeStore)(nil)

// NewFakeStore creates an empty FakeStore. clk stamps uploaded files.
func NewFakeStore(clk clock.Clock) *FakeStore {
	if clk == nil {
		clk = &clock.RealClock{}
	}
	return &FakeStore{
		clock:        clk,
		files:        make(map[string][]FileRecord),
		instructions: make(map[string]string),
		errs:         make(map[string]error),
		calls:        make(map[string]int),
	}
}

// AddProject adds or replaces a project.
func (s *FakeStore) AddProject(p Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == p.ID {
			s.projects[i] = p
			return
		}
	}
	s.projects = append(s.projects, p)
}

// RenameProject changes a project's display name.
func (s *FakeStore) RenameProject(projectID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == projectID {
			s.projects[i].Name = name
		}
	}
}

// SetFile adds or replaces a knowledge file.
func (s *FakeStore) SetFile(projectID string, f FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putFileLocked(projectID, f)
}

// SetInstructions sets a project's instructions.
func (s *FakeStore) SetInstructions(projectID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructions[projectID] = content
}

// AddConversation adds a conversation.
func (s *FakeStore) AddConversation(c Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = append(s.conversations, c)
}

// SetError makes op fail with err. key narrows the failure to one project
// ID, file name or conversation ID; an empty key matches every call.
func (s *FakeStore) SetError(op, key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[op+"/"+key] = err
}

// Calls returns how many times op was invoked.
func (s *FakeStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Uploads returns the recorded UploadFile calls in order.
func (s *FakeStore) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Instructions returns a project's current instructions.
func (s *FakeStore) Instructions(projectID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instructions[projectID]
}

// Files returns a project's files sorted by name.
func (s *FakeStore) Files(projectID string) []FileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]FileRecord(nil), s.files[projectID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out
}

func (s *FakeStore) enter(op, key string) error {
	s.calls[op]++
	if err, ok := s.errs[op+"/"+key]; ok {
		return err
	}
	return s.errs[op+"/"]
}

func (s *FakeStore) putFileLocked(projectID string, f FileRecord) {
	files := s.files[projectID]
	for i := range files {
		if files[i].FileName == f.FileName {
			files[i] = f
			return
		}
	}
	s.files[projectID] = append(files, f)
}

// ListProjects implements Store.
func (s *FakeStore) ListProjects(_ context.Context, _ string) ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpListProjects, ""); err != nil {
		return nil, err
	}
	return append([]Project(nil), s.projects...), nil
}

// GetProjectFiles implements Store.
func (s *FakeStore) GetProjectFiles(_ context.Context, _, projectID string) ([]FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetProjectFiles, projectID); err != nil {
		return nil, err
	}
	return append([]FileRecord(nil), s.files[projectID]...), nil
}

// GetProjectInstructions implements Store.
func (s *FakeStore) GetProjectInstructions(_ context.Context, _, projectID string) (Instructions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetInstructions, projectID); err != nil {
		return Instructions{}, err
	}
	return Instructions{Content: s.instructions[projectID]}, nil
}

// UpdateProjectInstructions implements Store.
func (s *FakeStore) UpdateProjectInstructions(_ context.Context, _, projectID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpUpdateInstructions, projectID); err != nil {
		return err
	}
	s.instructions[projectID] = content
	return nil
}

// UploadFile implements Store.
func (s *FakeStore) UploadFile(_ context.Context, _, projectID, fileName, content string) (FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpUploadFile, fileName); err != nil {
		return FileRecord{}, err
	}
	s.nextID++
	now := s.clock.Now()
	rec := FileRecord{
		ID:        fmt.Sprintf("file-%d", s.nextID),
		FileName:  fileName,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.putFileLocked(projectID, rec)
	s.uploads = append(s.uploads, Upload{ProjectID: projectID, FileName: fileName, Content: content})
	return rec, nil
}

// GetConversations implements Store.
func (s *FakeStore) GetConversations(_ context.Context, _ string) ([]ConversationSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetConversations, ""); err != nil {
		return nil, err
	}
	out := make([]ConversationSummary, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, c.ConversationSummary)
	}
	return out, nil
}

// GetConversation implements Store.
func (s *FakeStore) GetConversation(_ context.Context, _, conversationID string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetConversation, conversationID); err != nil {
		return nil, err
	}
	for _, c := range s.conversations {
		if c.ID == conversationID {
			cp := c
			cp.Messages = append([]Message(nil), c.Messages...)
			return &cp, nil
		}
	}
	return nil, &RemoteError{Op: "get conversation", StatusCode: 404, Code: CodeNotFound, Message: "conversation not found"}
}
