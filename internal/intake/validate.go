package intake

import (
	"fmt"
	"slices"
	"strings"

	"lakeintake/pkg/types"

	"github.com/gabriel-vasile/mimetype"
)

const pdfMIME = "application/pdf"

// Rules holds the configured enumerations and file constraints the validator
// checks against. Values come from process configuration, not code, so new
// products or suppliers need no code change.
type Rules struct {
	Products     []string
	DocTypes     []string
	Suppliers    []string
	MaxFileBytes int64
}

// Validate checks a raw submission and either returns the normalized
// IntakeRecord or a *ValidationError naming the first failing field. It is a
// pure function of its inputs: no I/O, no shared state.
//
// Checks run in a fixed order: field presence, enum membership, file type
// (declared content type and magic bytes), file size. The first failure wins.
func (ru Rules) Validate(fields map[string]string, file types.FilePayload) (types.IntakeRecord, error) {
	product := strings.TrimSpace(fields["product"])
	docType := strings.TrimSpace(fields["type"])
	supplier := strings.TrimSpace(fields["supplier"])
	filename := strings.TrimSpace(fields["filename"])

	for _, f := range []struct {
		name, value string
	}{
		{"product", product},
		{"type", docType},
		{"supplier", supplier},
		{"filename", filename},
	} {
		if f.value == "" {
			return types.IntakeRecord{}, &ValidationError{Field: f.name, Rule: "is required"}
		}
	}
	if len(file.Data) == 0 {
		return types.IntakeRecord{}, &ValidationError{Field: "file", Rule: "is required"}
	}

	if !slices.Contains(ru.Products, product) {
		return types.IntakeRecord{}, &ValidationError{Field: "product", Rule: oneOf(ru.Products)}
	}
	if !slices.Contains(ru.DocTypes, docType) {
		return types.IntakeRecord{}, &ValidationError{Field: "type", Rule: oneOf(ru.DocTypes)}
	}
	if !slices.Contains(ru.Suppliers, supplier) {
		return types.IntakeRecord{}, &ValidationError{Field: "supplier", Rule: oneOf(ru.Suppliers)}
	}

	// The declared content type alone is not trusted; the payload has to
	// sniff as a PDF too.
	if file.ContentType != pdfMIME {
		return types.IntakeRecord{}, &ValidationError{Field: "file", Rule: "must be a PDF (application/pdf)"}
	}
	if !mimetype.Detect(file.Data).Is(pdfMIME) {
		return types.IntakeRecord{}, &ValidationError{Field: "file", Rule: "content is not a PDF"}
	}

	if file.Size > ru.MaxFileBytes {
		return types.IntakeRecord{}, &ValidationError{Field: "file", Rule: maxSizeRule(ru.MaxFileBytes)}
	}

	return types.IntakeRecord{
		Product:      product,
		DocumentType: docType,
		Supplier:     supplier,
		Filename:     filename,
		File:         file,
	}, nil
}

func oneOf(values []string) string {
	return "must be one of: " + strings.Join(values, ", ")
}

func maxSizeRule(maxBytes int64) string {
	const mib = 1 << 20
	if maxBytes >= mib && maxBytes%mib == 0 {
		return fmt.Sprintf("exceeds the maximum size of %d MiB", maxBytes/mib)
	}
	return fmt.Sprintf("exceeds the maximum size of %d bytes", maxBytes)
}
