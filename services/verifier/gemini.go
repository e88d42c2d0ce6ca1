package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	apiError "github.com/techagentng/greenloop/errors"
	"google.golang.org/api/option"
)

const analyzePrompt = `You are an expert in waste management and recycling. Analyze this image carefully and provide:

1. A detailed description of the waste items (not just a category, but specific contents and materials visible).
2. The estimated quantity (with unit, e.g., "0.5 kg", "2 liters").
3. Your confidence level in this assessment (as a number between 0 and 1).

Respond ONLY in JSON format like this:
{
  "wasteType": "detailed description of the waste items",
  "quantity": "estimated quantity with unit",
  "confidence": confidence level as a number between 0 and 1
}`

const verifyPromptFmt = `You are an expert in waste management and recycling. Analyze this image and provide:
1. Confirm if the waste type matches: %s
2. Confirm if the estimated quantity matches: %s
3. Your confidence level in this assessment (as a number between 0 and 1)

Respond ONLY in JSON format:
{
  "wasteTypeMatch": true/false,
  "quantityMatch": true/false,
  "confidence": 0.82
}`

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// GeminiVerifier talks to the Gemini API. It is constructed once at
// startup and injected into the services that need it; nothing holds it
// as package state.
type GeminiVerifier struct {
	client *genai.Client
	model  string
	http   *http.Client
}

func NewGeminiVerifier(ctx context.Context, apiKey, model string) (*GeminiVerifier, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "could not create gemini client")
	}
	return &GeminiVerifier{
		client: client,
		model:  model,
		http:   &http.Client{},
	}, nil
}

// Close releases the underlying API connection.
func (g *GeminiVerifier) Close() error {
	return g.client.Close()
}

func (g *GeminiVerifier) Analyze(ctx context.Context, imageURL string) (*WasteAnalysis, error) {
	text, err := g.generate(ctx, imageURL, analyzePrompt)
	if err != nil {
		return nil, err
	}

	var analysis WasteAnalysis
	if err := decodeModelJSON(text, &analysis); err != nil {
		return nil, err
	}
	if analysis.WasteType == "" || analysis.Quantity == "" ||
		analysis.Confidence < 0 || analysis.Confidence > 1 {
		log.Warnf("gemini returned malformed analysis: %q", text)
		return nil, apiError.ErrVerificationFailed
	}
	return &analysis, nil
}

func (g *GeminiVerifier) Verify(ctx context.Context, imageURL string, expected Expected) (*WasteVerification, error) {
	prompt := fmt.Sprintf(verifyPromptFmt, expected.WasteType, expected.Amount)
	text, err := g.generate(ctx, imageURL, prompt)
	if err != nil {
		return nil, err
	}

	var verification WasteVerification
	if err := decodeModelJSON(text, &verification); err != nil {
		return nil, err
	}
	if verification.Confidence < 0 || verification.Confidence > 1 {
		log.Warnf("gemini returned out-of-range confidence: %q", text)
		return nil, apiError.ErrVerificationFailed
	}
	return &verification, nil
}

// generate fetches the image, sends prompt plus inline image data, and
// returns the raw model text. The caller's context bounds both the
// image fetch and the model call.
func (g *GeminiVerifier) generate(ctx context.Context, imageURL, prompt string) (string, error) {
	data, format, err := g.fetchImage(ctx, imageURL)
	if err != nil {
		return "", err
	}

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt), genai.ImageData(format, data))
	if err != nil {
		log.Errorf("gemini call failed: %v", err)
		return "", apiError.ErrVerificationFailed
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apiError.ErrVerificationFailed
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (g *GeminiVerifier) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "invalid image url")
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, "", errors.Wrap(err, "could not fetch image")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(err, "could not read image body")
	}
	return data, imageFormat(imageURL), nil
}

func imageFormat(imageURL string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(imageURL), ".png"):
		return "png"
	case strings.HasSuffix(strings.ToLower(imageURL), ".webp"):
		return "webp"
	default:
		return "jpeg"
	}
}

// decodeModelJSON extracts the first JSON object from model output and
// unmarshals it. Models wrap JSON in prose or code fences often enough
// that trusting the raw text is not an option.
func decodeModelJSON(text string, v interface{}) error {
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		log.Warnf("no JSON object in model output: %q", text)
		return apiError.ErrVerificationFailed
	}
	if err := json.Unmarshal([]byte(match), v); err != nil {
		log.Warnf("could not decode model output: %v", err)
		return apiError.ErrVerificationFailed
	}
	return nil
}
