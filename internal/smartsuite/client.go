package smartsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"lakeintake/pkg/types"
)

const detailLimit = 500

// FieldIDs maps this system's logical fields to the remote table's field
// identifiers. All five are required configuration.
type FieldIDs struct {
	Product  string
	Type     string
	Supplier string
	Filename string
	Document string
}

// Client talks to the SmartSuite record and file APIs.
type Client struct {
	baseURL     string
	apiKey      string
	workspaceID string
	tableID     string
	fields      FieldIDs

	createTimeout time.Duration
	uploadTimeout time.Duration

	httpClient *http.Client
}

// New creates a SmartSuite client from process configuration.
func New(config *types.Config) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(config.SmartSuiteBaseURL, "/"),
		apiKey:      config.SmartSuiteAPIKey,
		workspaceID: config.SmartSuiteWorkspaceID,
		tableID:     config.SmartSuiteTableID,
		fields: FieldIDs{
			Product:  config.FieldProduct,
			Type:     config.FieldType,
			Supplier: config.FieldSupplier,
			Filename: config.FieldFilename,
			Document: config.FieldDocument,
		},
		createTimeout: time.Duration(config.CreateTimeoutSec) * time.Second,
		uploadTimeout: time.Duration(config.UploadTimeoutSec) * time.Second,
		httpClient:    &http.Client{},
	}
}

// CreateRecord creates a new record in the Documents table and returns its id.
func (c *Client) CreateRecord(ctx context.Context, record types.IntakeRecord) (string, error) {
	payload := map[string]any{
		"title":           record.Filename,
		c.fields.Product:  record.Product,
		c.fields.Type:     record.DocumentType,
		c.fields.Supplier: record.Supplier,
		c.fields.Filename: record.Filename,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal record payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.createTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/applications/%s/records/", c.baseURL, c.tableID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req, "create record")
	if err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return "", &APIError{Op: "create record", Err: fmt.Errorf("decode response: %w", err)}
	}
	if created.ID == "" {
		return "", &APIError{Op: "create record", Detail: "response contained no record id"}
	}

	return created.ID, nil
}

// AttachFile uploads the PDF and attaches it to an existing record.
// SmartSuite models this as two calls: upload the bytes to /files/ to obtain
// a file handle, then patch the record's document field with that handle.
// Both calls belong to the file-attach stage.
func (c *Client) AttachFile(ctx context.Context, recordID string, record types.IntakeRecord) error {
	handle, err := c.uploadFile(ctx, record)
	if err != nil {
		return err
	}
	return c.patchRecord(ctx, recordID, handle)
}

func (c *Client) uploadFile(ctx context.Context, record types.IntakeRecord) (map[string]any, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, record.AttachmentName()))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create multipart body: %w", err)
	}
	if _, err := part.Write(record.File.Data); err != nil {
		return nil, fmt.Errorf("write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	data, err := c.do(req, "upload file")
	if err != nil {
		return nil, err
	}

	// The file handle is opaque to us; it is echoed back verbatim when the
	// record is patched.
	var handle map[string]any
	if err := json.Unmarshal(data, &handle); err != nil {
		return nil, &APIError{Op: "upload file", Err: fmt.Errorf("decode response: %w", err)}
	}

	return handle, nil
}

func (c *Client) patchRecord(ctx context.Context, recordID string, handle map[string]any) error {
	payload := map[string]any{
		c.fields.Document: []any{handle},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal attach payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.createTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/applications/%s/records/%s/", c.baseURL, c.tableID, recordID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req, "attach file")
	return err
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Account-Id", c.workspaceID)
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Detail: truncate(string(data), detailLimit)}
	}

	return data, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
