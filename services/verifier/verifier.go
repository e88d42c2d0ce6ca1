// Package verifier defines the image-verification capability the report
// lifecycle consumes. The production implementation calls Gemini; tests
// substitute their own.
package verifier

import "context"

// WasteAnalysis is the AI's estimate for a freshly reported photo.
type WasteAnalysis struct {
	WasteType  string  `json:"wasteType"`
	Quantity   string  `json:"quantity"`
	Confidence float64 `json:"confidence"`
}

// Expected carries the reported attributes a collection photo is
// checked against.
type Expected struct {
	WasteType string
	Amount    string
}

// WasteVerification is the AI's judgment of a collection photo against
// the expected attributes.
type WasteVerification struct {
	TypeMatch     bool    `json:"wasteTypeMatch"`
	QuantityMatch bool    `json:"quantityMatch"`
	Confidence    float64 `json:"confidence"`
}

// Verifier is an untrusted, potentially slow remote collaborator.
// Callers bound every call with a context deadline and treat malformed
// output as a recoverable failure.
type Verifier interface {
	Analyze(ctx context.Context, imageURL string) (*WasteAnalysis, error)
	Verify(ctx context.Context, imageURL string, expected Expected) (*WasteVerification, error)
}
