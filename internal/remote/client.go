package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the remote API host.
	DefaultBaseURL = "https://claude.ai"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// sessionCookie carries the session credential.
	sessionCookie = "sessionKey"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 64 << 20
)

// ClientOptions configures a Client.
type ClientOptions struct {
	// BaseURL is the API host, DefaultBaseURL when empty
	BaseURL string

	// SessionKey is the session credential sent as a cookie
	SessionKey string

	// Timeout bounds each request, DefaultTimeout when zero
	Timeout time.Duration

	// HTTPClient overrides the underlying client (tests)
	HTTPClient *http.Client

	// Logger receives warnings about dropped records
	Logger *slog.Logger
}

// Client is the HTTP implementation of Store.
type Client struct {
	baseURL    string
	sessionKey string
	http       *http.Client
	logger     *slog.Logger
}

var _ Store = (*Client)(nil)

// NewClient creates a new HTTP remote store client.
func NewClient(opts ClientOptions) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		sessionKey: opts.SessionKey,
		http:       httpClient,
		logger:     logger,
	}
}

// ListProjects lists every project in an organization.
func (c *Client) ListProjects(ctx context.Context, orgID string) ([]Project, error) {
	var raw []wireProject
	if err := c.do(ctx, "list projects", http.MethodGet, orgPath(orgID, "projects"), nil, &raw); err != nil {
		return nil, err
	}
	return keepValid(c.logger, "project", raw, wireProject.validate), nil
}

// GetProjectFiles lists a project's knowledge files.
func (c *Client) GetProjectFiles(ctx context.Context, orgID, projectID string) ([]FileRecord, error) {
	var raw []wireDoc
	if err := c.do(ctx, "get project files", http.MethodGet, orgPath(orgID, "projects", projectID, "docs"), nil, &raw); err != nil {
		return nil, err
	}
	return keepValid(c.logger, "file", raw, wireDoc.validate), nil
}

// GetProjectInstructions returns a project's instructions. A 404 or a
// missing prompt yields empty instructions.
func (c *Client) GetProjectInstructions(ctx context.Context, orgID, projectID string) (Instructions, error) {
	var raw wireProjectDetail
	err := c.do(ctx, "get project instructions", http.MethodGet, orgPath(orgID, "projects", projectID), nil, &raw)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Instructions{}, nil
		}
		return Instructions{}, err
	}
	if raw.PromptTemplate == nil {
		return Instructions{}, nil
	}
	return Instructions{Content: *raw.PromptTemplate}, nil
}

// UpdateProjectInstructions replaces a project's instructions.
func (c *Client) UpdateProjectInstructions(ctx context.Context, orgID, projectID, content string) error {
	body := wireInstructionsUpdate{PromptTemplate: content}
	return c.do(ctx, "update project instructions", http.MethodPut, orgPath(orgID, "projects", projectID), body, nil)
}

// UploadFile adds a knowledge file to a project.
func (c *Client) UploadFile(ctx context.Context, orgID, projectID, fileName, content string) (FileRecord, error) {
	var raw wireDoc
	body := wireUpload{FileName: fileName, Content: content}
	if err := c.do(ctx, "upload file", http.MethodPost, orgPath(orgID, "projects", projectID, "docs"), body, &raw); err != nil {
		return FileRecord{}, err
	}
	// Some deployments answer with an empty object; fall back to what was sent.
	if raw.FileName == "" {
		raw.FileName = fileName
	}
	if raw.Content == nil {
		raw.Content = &content
	}
	rec, err := raw.validate()
	if err != nil {
		return FileRecord{}, &RemoteError{Op: "upload file", Code: CodeMalformed, Err: err}
	}
	return rec, nil
}

// GetConversations lists all conversations in an organization.
func (c *Client) GetConversations(ctx context.Context, orgID string) ([]ConversationSummary, error) {
	var raw []wireConversation
	if err := c.do(ctx, "list conversations", http.MethodGet, orgPath(orgID, "chat_conversations"), nil, &raw); err != nil {
		return nil, err
	}
	return keepValid(c.logger, "conversation", raw, wireConversation.summary), nil
}

// GetConversation fetches one conversation with its messages.
func (c *Client) GetConversation(ctx context.Context, orgID, conversationID string) (*Conversation, error) {
	var raw wireConversation
	path := orgPath(orgID, "chat_conversations", conversationID) + "?rendering_mode=messages"
	if err := c.do(ctx, "get conversation", http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	if raw.UUID == "" {
		raw.UUID = conversationID
	}
	summary, err := raw.summary()
	if err != nil {
		return nil, &RemoteError{Op: "get conversation", Code: CodeMalformed, Err: err}
	}
	return &Conversation{
		ConversationSummary: summary,
		Messages:            keepValid(c.logger, "message", raw.ChatMessages, wireMessage.validate),
	}, nil
}

// do performs one request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionKey != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.sessionKey})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &RemoteError{Op: op, Code: CodeNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Code: CodeNetwork, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Code:       codeForStatus(resp.StatusCode),
			Message:    errorMessage(data, resp.Status),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RemoteError{Op: op, StatusCode: resp.StatusCode, Code: CodeMalformed, Err: err}
	}
	return nil
}

// errorMessage extracts a readable message from an error response body.
func errorMessage(data []byte, fallback string) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error.Message != "" {
			return payload.Error.Message
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return fallback
}

// orgPath builds an organization-scoped API path with escaped segments.
func orgPath(orgID string, segments ...string) string {
	var b strings.Builder
	b.WriteString("/api/organizations/")
	b.WriteString(url.PathEscape(orgID))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
