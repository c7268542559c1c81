package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testScope struct {
	Category   string  `json:"category"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	result, err := ExtractJSON[testScope](`{"category":"STOREFRONT","value":150000,"confidence":0.95}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "STOREFRONT", result.Category)
	assert.Equal(t, 150000.0, result.Value)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"category\":\"CURTAIN_WALL\",\"confidence\":0.88}\n```"
	result, err := ExtractJSON[testScope](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "CURTAIN_WALL", result.Category)
}

func TestExtractJSON_SkipsFenceWithoutObject(t *testing.T) {
	raw := "```\nno json here\n```\nThen:\n```json\n{\"category\":\"MIRRORS\"}\n```"
	result, err := ExtractJSON[testScope](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "MIRRORS", result.Category)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Here is the analysis:\n{\"category\":\"FIRE_RATED\",\"confidence\":0.72}\nLet me know!"
	result, err := ExtractJSON[testScope](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "FIRE_RATED", result.Category)
}

func TestExtractJSON_NestedBracesAndBracesInStrings(t *testing.T) {
	type nested struct {
		Name  string            `json:"name"`
		Notes map[string]string `json:"notes"`
	}
	raw := `{"name":"Lobby {north}","notes":{"a":"see \"}\" detail"}} trailing`
	result, err := ExtractJSON[nested](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Lobby {north}", result.Name)
	assert.Equal(t, `see "}" detail`, result.Notes["a"])
}

func TestExtractJSON_CommentsAndTrailingCommas(t *testing.T) {
	raw := `{
		"category": "STOREFRONT", // primary scope
		/* value is an estimate */
		"value": 90000,
		"confidence": .8,
	}`
	result, err := ExtractJSON[testScope](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "STOREFRONT", result.Category)
	assert.Equal(t, 90000.0, result.Value)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestExtractJSON_TrailingCommaInArray(t *testing.T) {
	type list struct {
		Items []int `json:"items"`
	}
	result, err := ExtractJSON[list](`{"items":[1,2,3,]}`, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, result.Items)
}

func TestExtractJSON_SlashesInsideStringsKept(t *testing.T) {
	type link struct {
		URL string `json:"url"`
	}
	result, err := ExtractJSON[link](`{"url":"https://example.com/a,b"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a,b", result.URL)
}

func TestExtractJSON_NegativeLeadingDecimal(t *testing.T) {
	result, err := ExtractJSON[testScope](`{"value": -.25}`, nil)
	require.NoError(t, err)
	assert.Equal(t, -0.25, result.Value)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON[testScope]("I could not read the contract.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_MalformedJSON(t *testing.T) {
	_, err := ExtractJSON[testScope](`{"category": STOREFRONT}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidatorRejects(t *testing.T) {
	validator := func(s testScope) error {
		if s.Confidence < 0 || s.Confidence > 1 {
			return fmt.Errorf("confidence out of range")
		}
		return nil
	}
	_, err := ExtractJSON(`{"category":"MIRRORS","confidence":1.5}`, validator)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "confidence out of range")
}
