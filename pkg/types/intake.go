package types

import "strings"

// Stage identifies where in the intake pipeline a submission failed.
type Stage string

const (
	StageValidation   Stage = "validation"
	StageRecordCreate Stage = "record_create"
	StageFileAttach   Stage = "file_attach"
)

// IntakeRecord is a validated submission: the operator-supplied metadata plus
// the uploaded PDF. Constructed only by the validator; treated as immutable
// afterwards.
type IntakeRecord struct {
	Product      string
	DocumentType string
	Supplier     string
	Filename     string
	File         FilePayload
}

type FilePayload struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// AttachmentName returns the name the file is stored under remotely. The
// operator's filename is kept verbatim on the record; only the attachment
// name gains a .pdf extension when it is missing one.
func (r IntakeRecord) AttachmentName() string {
	if strings.HasSuffix(strings.ToLower(r.Filename), ".pdf") {
		return r.Filename
	}
	return r.Filename + ".pdf"
}

// SubmissionOutcome is the terminal result of one intake submission. RecordID
// is set on success, and also when the file attach fails after the record was
// created -- that partial state is surfaced to the operator, not rolled back.
type SubmissionOutcome struct {
	Accepted bool
	RecordID string
	Stage    Stage
	Reason   string
}
