package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	app "waste-sorter/internal/application"
	"waste-sorter/internal/domain/entity"
	"waste-sorter/internal/domain/port"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content []struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL struct {
				URL string `json:"url"`
			} `json:"image_url"`
		} `json:"content"`
	} `json:"messages"`
}

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	})
	return string(body)
}

func TestOpenAIModel_Describe(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(append(pngHeader, make([]byte, 200)...))

	var got chatRequest
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("  Papiermüll\n")))
	}))
	defer srv.Close()

	m := NewOpenAIModel(srv.URL+"/v1", "", time.Second)
	out, err := m.Describe(context.Background(), port.VisionRequest{
		Credential:  "sk-user-key",
		Prompt:      "classify",
		Image:       payload,
		Temperature: 0.2,
	})
	require.NoError(t, err)
	require.Equal(t, "  Papiermüll\n", out)

	require.Equal(t, "Bearer sk-user-key", auth)
	require.Equal(t, "/v1/chat/completions", path)
	require.Equal(t, "gpt-4o", got.Model)
	require.InDelta(t, 0.2, got.Temperature, 0.0001)
	require.Len(t, got.Messages, 1)
	require.Equal(t, "user", got.Messages[0].Role)

	parts := got.Messages[0].Content
	require.Len(t, parts, 2)
	require.Equal(t, "text", parts[0].Type)
	require.Equal(t, "classify", parts[0].Text)
	require.Equal(t, "image_url", parts[1].Type)
	require.Equal(t, "data:image/png;base64,"+payload, parts[1].ImageURL.URL)
}

func TestOpenAIModel_DescribeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided: sk-bad.","type":"invalid_request_error","param":null,"code":"invalid_api_key"}}`))
	}))
	defer srv.Close()

	m := NewOpenAIModel(srv.URL+"/v1", "gpt-4o", time.Second)
	_, err := m.Describe(context.Background(), port.VisionRequest{
		Credential: "sk-bad",
		Prompt:     "classify",
		Image:      strings.Repeat("A", 200),
	})
	require.ErrorContains(t, err, "Incorrect API key provided")

	var apiErr *openai.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatusCode)

	res := app.TranslateServiceError(err)
	require.Equal(t, entity.ErrInvalidCredential, res.Reason)
}

func TestOpenAIModel_DescribeNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	m := NewOpenAIModel(srv.URL+"/v1", "gpt-4o", time.Second)
	_, err := m.Describe(context.Background(), port.VisionRequest{Credential: "sk-x", Image: "AAAA"})
	require.ErrorContains(t, err, "no choices")
}

func TestOpenAIModel_Defaults(t *testing.T) {
	m := NewOpenAIModel("", "", 0)
	require.Equal(t, DefaultModel, m.Model())
	require.Equal(t, 60*time.Second, m.httpClient.Timeout)
}

func TestSniffMIME(t *testing.T) {
	jpeg := base64.StdEncoding.EncodeToString(append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 100)...))
	png := base64.StdEncoding.EncodeToString(append(pngHeader, make([]byte, 100)...))

	require.Equal(t, "image/jpeg", SniffMIME(jpeg))
	require.Equal(t, "image/png", SniffMIME(png))
	require.Equal(t, "image/jpeg", SniffMIME(strings.Repeat("A", 150)))
	require.Equal(t, "image/jpeg", SniffMIME("%%%not-base64%%%"))
	require.Equal(t, "image/jpeg", SniffMIME(""))
}
