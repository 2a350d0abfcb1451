// ABOUTME: Chat completion message building for meal analysis.
// ABOUTME: Embeds local images as base64 data URLs next to the user's text.
package analysis

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

const systemPrompt = `You are a nutrition assistant. Identify the meal in the photo and/or description and estimate each ingredient.
Respond with a single JSON object of this exact shape:
{"name": "short meal name", "ingredients": [{"name": "ingredient", "weight": grams, "calories": kcal, "protein": grams, "carbs": grams, "fat": grams}]}
Weights are in grams. Macros are totals for the given weight. Use numbers, not strings.
Return only the JSON object.`

const feedbackInstruction = "Revise the analysis using this feedback and return the full corrected JSON object:"

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// userParts builds the text and image parts for the user message.
func userParts(imagePath, description string) ([]contentPart, error) {
	var parts []contentPart
	if d := strings.TrimSpace(description); d != "" {
		parts = append(parts, contentPart{Type: "text", Text: d})
	}
	if imagePath != "" {
		url, err := imageDataURL(imagePath)
		if err != nil {
			return nil, err
		}
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: url}})
	}
	return parts, nil
}

// imageDataURL turns a local path or file:// URI into a base64 data URL.
// Remote and data URLs are passed through.
func imageDataURL(ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:") {
		return ref, nil
	}

	path := strings.TrimPrefix(ref, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func buildMessages(parts []contentPart) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: parts},
	}
}

func buildFeedbackMessages(parts []contentPart, previous *Analysis, feedback string) ([]chatMessage, error) {
	msgs := []chatMessage{{Role: "system", Content: systemPrompt}}
	if len(parts) > 0 {
		msgs = append(msgs, chatMessage{Role: "user", Content: parts})
	}
	if previous != nil {
		prev, err := json.Marshal(previous)
		if err != nil {
			return nil, fmt.Errorf("marshal previous analysis: %w", err)
		}
		msgs = append(msgs, chatMessage{Role: "assistant", Content: string(prev)})
	}
	msgs = append(msgs, chatMessage{
		Role:    "user",
		Content: []contentPart{{Type: "text", Text: feedbackInstruction + "\n" + feedback}},
	})
	return msgs, nil
}
