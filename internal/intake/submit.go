package intake

import (
	"context"

	"lakeintake/pkg/types"
)

// RemoteClient is the narrow contract against the remote document-management
// service. CreateRecord returns the new record's identifier; AttachFile
// uploads the PDF onto an existing record.
type RemoteClient interface {
	CreateRecord(ctx context.Context, record types.IntakeRecord) (string, error)
	AttachFile(ctx context.Context, recordID string, record types.IntakeRecord) error
}

// Submit runs the two-phase protocol: create the remote record, then attach
// the file. Each phase is attempted exactly once. A failed create means
// nothing was written remotely; a failed attach leaves the created record
// without its file, and the outcome carries the record id so the operator can
// see exactly what exists.
func Submit(ctx context.Context, client RemoteClient, record types.IntakeRecord) types.SubmissionOutcome {
	recordID, err := client.CreateRecord(ctx, record)
	if err != nil {
		return types.SubmissionOutcome{
			Stage:  types.StageRecordCreate,
			Reason: err.Error(),
		}
	}

	if err := client.AttachFile(ctx, recordID, record); err != nil {
		return types.SubmissionOutcome{
			RecordID: recordID,
			Stage:    types.StageFileAttach,
			Reason:   err.Error(),
		}
	}

	return types.SubmissionOutcome{
		Accepted: true,
		RecordID: recordID,
	}
}
