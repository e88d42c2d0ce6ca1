package verifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiError "github.com/techagentng/greenloop/errors"
)

func TestDecodeModelJSONExtractsObject(t *testing.T) {
	// Models tend to wrap their JSON in prose or code fences.
	text := "Sure! Here is the result:\n```json\n{\"wasteTypeMatch\": true, \"quantityMatch\": false, \"confidence\": 0.82}\n```"

	var v WasteVerification
	require.NoError(t, decodeModelJSON(text, &v))
	assert.True(t, v.TypeMatch)
	assert.False(t, v.QuantityMatch)
	assert.InDelta(t, 0.82, v.Confidence, 1e-9)
}

func TestDecodeModelJSONRejectsNonJSON(t *testing.T) {
	var v WasteVerification
	err := decodeModelJSON("I could not analyze this image.", &v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apiError.ErrVerificationFailed))
}

func TestDecodeModelJSONRejectsBrokenJSON(t *testing.T) {
	var v WasteVerification
	err := decodeModelJSON(`{"wasteTypeMatch": true,`+"\n", &v)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apiError.ErrVerificationFailed))
}

func TestDecodeModelJSONAnalysis(t *testing.T) {
	text := `{"wasteType": "Organic food waste and a steel tray", "quantity": "0.5 kg", "confidence": 0.9}`

	var a WasteAnalysis
	require.NoError(t, decodeModelJSON(text, &a))
	assert.Equal(t, "0.5 kg", a.Quantity)
}

func TestImageFormat(t *testing.T) {
	assert.Equal(t, "png", imageFormat("https://cdn.example.com/photo.PNG"))
	assert.Equal(t, "webp", imageFormat("https://cdn.example.com/photo.webp"))
	assert.Equal(t, "jpeg", imageFormat("https://cdn.example.com/photo.jpg"))
	assert.Equal(t, "jpeg", imageFormat("https://cdn.example.com/photo"))
}
