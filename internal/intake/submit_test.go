package intake

import (
	"context"
	"errors"
	"testing"

	"lakeintake/pkg/types"

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

func testRecord() types.IntakeRecord {
	return types.IntakeRecord{
		Product:      "Citric Acid",
		DocumentType: "COA",
		Supplier:     "Ensign",
		Filename:     "ENSIGN_COA_2024.pdf",
		File: types.FilePayload{
			Name:        "ENSIGN_COA_2024.pdf",
			ContentType: "application/pdf",
			Size:        9,
			Data:        []byte("%PDF-1.4\n"),
		},
	}
}

func TestSubmitSuccess(t *testing.T) {
	remote := &fakeRemote{recordID: "rec_123"}

	outcome := Submit(context.Background(), remote, testRecord())

	require.True(t, outcome.Accepted)
	assert.Equal(t, "rec_123", outcome.RecordID)
	assert.Empty(t, outcome.Stage)
	assert.Equal(t, 1, remote.createCalls)
	assert.Equal(t, 1, remote.attachCalls)
}

func TestSubmitCreateFailureSkipsAttach(t *testing.T) {
	remote := &fakeRemote{createErr: errors.New("create record: remote returned 401: invalid token")}

	outcome := Submit(context.Background(), remote, testRecord())

	require.False(t, outcome.Accepted)
	assert.Equal(t, types.StageRecordCreate, outcome.Stage)
	assert.Empty(t, outcome.RecordID)
	assert.Contains(t, outcome.Reason, "invalid token")
	assert.Equal(t, 1, remote.createCalls)
	assert.Equal(t, 0, remote.attachCalls, "attach is never attempted after a failed create")
}

func TestSubmitAttachFailureCarriesRecordID(t *testing.T) {
	remote := &fakeRemote{
		recordID:  "rec_456",
		attachErr: errors.New("upload file: remote returned 500: internal error"),
	}

	outcome := Submit(context.Background(), remote, testRecord())

	require.False(t, outcome.Accepted)
	assert.Equal(t, types.StageFileAttach, outcome.Stage)
	assert.Equal(t, "rec_456", outcome.RecordID, "the orphaned record id is surfaced, not rolled back")
	assert.Contains(t, outcome.Reason, "internal error")
	assert.Equal(t, 1, remote.createCalls)
	assert.Equal(t, 1, remote.attachCalls)
}

func TestSubmitAttemptsEachPhaseOnce(t *testing.T) {
	remote := &fakeRemote{createErr: errors.New("create record: connection refused")}

	Submit(context.Background(), remote, testRecord())
	Submit(context.Background(), remote, testRecord())

	assert.Equal(t, 2, remote.createCalls, "no retry inside a single submission")
	assert.Equal(t, 0, remote.attachCalls)
}
