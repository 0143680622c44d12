package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lakeintake/internal/intake"
	"lakeintake/pkg/types"

	"github.com/sirupsen/logrus"
)

// pdfFormField is the name of the file part in the intake form.
const pdfFormField = "pdf_document"

type IntakePageData struct {
	Title     string
	Notice    string
	Error     string
	Products  []string
	DocTypes  []string
	Suppliers []string
}

type intakeSubmission struct {
	Product  string `form:"product"`
	DocType  string `form:"type"`
	Supplier string `form:"supplier"`
	Filename string `form:"filename"`
}

func (s *Service) handleIntakeForm(w http.ResponseWriter, r *http.Request) {
	data := IntakePageData{
		Title:     "Document Intake",
		Products:  s.config.Products,
		DocTypes:  s.config.DocTypes,
		Suppliers: s.config.Suppliers,
	}

	if flash := s.popFlash(w, r); flash != nil {
		if flash.Kind == flashSuccess {
			data.Notice = flash.Text
		} else {
			data.Error = flash.Text
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "page.intake", data); err != nil {
		s.logger.WithError(err).Error("failed to render intake form")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	// Bound the request body: the file cap plus slack for the other parts.
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxFileBytes+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.respondOutcome(w, r, types.SubmissionOutcome{
			Stage:  types.StageValidation,
			Reason: "could not read the submission; the upload may exceed the size limit",
		})
		return
	}

	var sub intakeSubmission
	if err := decoder.Decode(&sub, r.MultipartForm.Value); err != nil {
		s.logger.WithError(err).Error("failed to decode form")
		s.respondOutcome(w, r, types.SubmissionOutcome{
			Stage:  types.StageValidation,
			Reason: "invalid form payload",
		})
		return
	}

	fields := map[string]string{
		"product":  sub.Product,
		"type":     sub.DocType,
		"supplier": sub.Supplier,
		"filename": sub.Filename,
	}

	record, err := s.rules.Validate(fields, s.readFilePayload(r))
	if err != nil {
		s.respondOutcome(w, r, types.SubmissionOutcome{
			Stage:  types.StageValidation,
			Reason: err.Error(),
		})
		return
	}

	outcome := intake.Submit(ctx, s.remote, record)

	entry := s.logger.WithFields(logrus.Fields{
		"request_id": s.requestIDFromContext(ctx),
		"product":    record.Product,
		"type":       record.DocumentType,
		"supplier":   record.Supplier,
		"record_id":  outcome.RecordID,
	})
	if outcome.Accepted {
		entry.Info("submission accepted")
	} else {
		entry.WithFields(logrus.Fields{
			"stage":  outcome.Stage,
			"reason": outcome.Reason,
		}).Error("submission rejected")
	}

	s.respondOutcome(w, r, outcome)
}

func (s *Service) readFilePayload(r *http.Request) types.FilePayload {
	file, header, err := r.FormFile(pdfFormField)
	if err != nil {
		return types.FilePayload{}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return types.FilePayload{}
	}

	return types.FilePayload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}
}

func (s *Service) respondOutcome(w http.ResponseWriter, r *http.Request, outcome types.SubmissionOutcome) {
	if wantsJSON(r) {
		s.respondJSON(w, outcome)
		return
	}

	if outcome.Accepted {
		s.flashAndRedirect(w, r, flashSuccess, fmt.Sprintf("Document submitted successfully. Record ID: %s", outcome.RecordID))
		return
	}

	msg := outcome.Reason
	if outcome.Stage == types.StageFileAttach {
		// The record exists without its file; the operator needs to know
		// which record to fix rather than resubmitting blindly.
		msg = fmt.Sprintf("record %s was created but the file could not be attached: %s", outcome.RecordID, outcome.Reason)
	}
	s.flashAndRedirect(w, r, flashError, msg)
}

func (s *Service) respondJSON(w http.ResponseWriter, outcome types.SubmissionOutcome) {
	w.Header().Set("Content-Type", "application/json")

	if outcome.Accepted {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"record_id": outcome.RecordID})
		return
	}

	status := http.StatusBadGateway
	if outcome.Stage == types.StageValidation {
		status = http.StatusBadRequest
	}
	w.WriteHeader(status)

	resp := map[string]string{
		"stage":  string(outcome.Stage),
		"reason": outcome.Reason,
	}
	if outcome.RecordID != "" {
		resp["record_id"] = outcome.RecordID
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
