package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"lakeintake/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	recordID  string
	createErr error
	attachErr error

	createCalls int
	attachCalls int
}

func (f *fakeRemote) CreateRecord(_ context.Context, _ types.IntakeRecord) (string, error) {
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.recordID, nil
}

func (f *fakeRemote) AttachFile(_ context.Context, _ string, _ types.IntakeRecord) error {
	f.attachCalls++
	return f.attachErr
}

func newTestService(t *testing.T, remote *fakeRemote) *Service {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		ServerPort:      8080,
		ReadTimeoutSec:  1,
		WriteTimeoutSec: 1,
		MaxFileBytes:    25 << 20,
		Products:        []string{"Bevaloid", "Calcium Propionate", "Citric Acid", "Citric Acid Anhydrous", "Peptan"},
		DocTypes:        []string{"Allergen", "COA", "GMO", "Prodn Flow", "SDS", "Other"},
		Suppliers:       []string{"Bakery", "Ensign", "Health Nutrition", "XX", "YY"},
	}

	s, err := New(config, logger, remote)
	require.NoError(t, err)

	return s
}

func validFormFields() map[string]string {
	return map[string]string{
		"product":  "Citric Acid",
		"type":     "COA",
		"supplier": "Ensign",
		"filename": "ENSIGN_COA_2024.pdf",
	}
}

func pdfBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, "%PDF-1.4\n")
	return data
}

func multipartBody(t *testing.T, fields map[string]string, fileData []byte, fileContentType string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}

	if fileData != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="pdf_document"; filename="upload.pdf"`)
		header.Set("Content-Type", fileContentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postSubmission(s *Service, body *bytes.Buffer, contentType string, asJSON bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit", body)
	req.Header.Set("Content-Type", contentType)
	if asJSON {
		req.Header.Set("Accept", "application/json")
	}

	resp := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(resp, req)
	return resp
}

func TestSubmitAccepted(t *testing.T) {
	remote := &fakeRemote{recordID: "rec_123"}
	s := newTestService(t, remote)

	// A 2 MB PDF, comfortably under the 25 MiB cap.
	body, contentType := multipartBody(t, validFormFields(), pdfBytes(2<<20), "application/pdf")
	resp := postSubmission(s, body, contentType, true)

	require.Equal(t, http.StatusCreated, resp.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "rec_123", payload["record_id"])

	assert.Equal(t, 1, remote.createCalls)
	assert.Equal(t, 1, remote.attachCalls)
}

func TestSubmitMissingSupplier(t *testing.T) {
	remote := &fakeRemote{recordID: "rec_123"}
	s := newTestService(t, remote)

	fields := validFormFields()
	delete(fields, "supplier")

	body, contentType := multipartBody(t, fields, pdfBytes(512), "application/pdf")
	resp := postSubmission(s, body, contentType, true)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "validation", payload["stage"])
	assert.Equal(t, "supplier is required", payload["reason"])

	assert.Equal(t, 0, remote.createCalls, "validation failures never reach the remote service")
	assert.Equal(t, 0, remote.attachCalls)
}

func TestSubmitSpoofedPDF(t *testing.T) {
	remote := &fakeRemote{recordID: "rec_123"}
	s := newTestService(t, remote)

	zip := append([]byte("PK\x03\x04"), make([]byte, 508)...)
	body, contentType := multipartBody(t, validFormFields(), zip, "application/pdf")
	resp := postSubmission(s, body, contentType, true)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "validation", payload["stage"])
	assert.Contains(t, payload["reason"], "not a PDF")

	assert.Equal(t, 0, remote.createCalls)
}

func TestSubmitCreateFailure(t *testing.T) {
	remote := &fakeRemote{createErr: errors.New("create record: remote returned 401: invalid token")}
	s := newTestService(t, remote)

	body, contentType := multipartBody(t, validFormFields(), pdfBytes(512), "application/pdf")
	resp := postSubmission(s, body, contentType, true)

	require.Equal(t, http.StatusBadGateway, resp.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "record_create", payload["stage"])
	assert.Contains(t, payload["reason"], "invalid token")
	assert.Empty(t, payload["record_id"])

	assert.Equal(t, 0, remote.attachCalls)
}

func TestSubmitAttachFailure(t *testing.T) {
	remote := &fakeRemote{
		recordID:  "rec_456",
		attachErr: errors.New("upload file: remote returned 500: storage unavailable"),
	}
	s := newTestService(t, remote)

	body, contentType := multipartBody(t, validFormFields(), pdfBytes(512), "application/pdf")
	resp := postSubmission(s, body, contentType, true)

	require.Equal(t, http.StatusBadGateway, resp.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "file_attach", payload["stage"])
	assert.Equal(t, "rec_456", payload["record_id"], "the partially created record is surfaced to the operator")
}

func TestSubmitBrowserFlashFlow(t *testing.T) {
	remote := &fakeRemote{recordID: "rec_123"}
	s := newTestService(t, remote)

	body, contentType := multipartBody(t, validFormFields(), pdfBytes(512), "application/pdf")
	resp := postSubmission(s, body, contentType, false)

	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/", resp.Header().Get("Location"))

	cookies := resp.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	form := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(form, req)

	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), "Record ID: rec_123")
}

func TestIntakeFormListsEnumerations(t *testing.T) {
	s := newTestService(t, &fakeRemote{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	page := resp.Body.String()
	for _, option := range []string{"Citric Acid Anhydrous", "Prodn Flow", "Health Nutrition"} {
		assert.Contains(t, page, option)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestService(t, &fakeRemote{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ok", resp.Body.String())
}
