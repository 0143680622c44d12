package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	requestIDSize  = 12
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// RequestID generates a short identifier used to correlate log lines for a
// single submission.
func RequestID() string {
	return gonanoid.MustGenerate(nanoidAlphabet, requestIDSize)
}
