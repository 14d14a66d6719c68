package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ErrNoVideoID is returned when a URL doesn't look like any known YouTube form
var ErrNoVideoID = errors.New("no video id found in url")

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/live/([^&\n?#]+)`),
}

// ExtractVideoID pulls the video identifier out of the watch, short,
// embed, and live URL forms
func ExtractVideoID(url string) (string, error) {
	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(url); len(match) > 1 && match[1] != "" {
			return match[1], nil
		}
	}
	return "", ErrNoVideoID
}

const transcriptAPIBaseURL = "https://www.youtube-transcript.io"

// TranscriptClient fetches video transcripts from the external
// youtube-transcript.io API
type TranscriptClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewTranscriptClient creates a transcript client with the given API token
func NewTranscriptClient(token string) *TranscriptClient {
	return &TranscriptClient{
		baseURL: transcriptAPIBaseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewTranscriptClientWithBaseURL creates a client pointed at a custom endpoint
func NewTranscriptClientWithBaseURL(baseURL, token string) *TranscriptClient {
	c := NewTranscriptClient(token)
	c.baseURL = baseURL
	return c
}

type transcriptSegment struct {
	Text string `json:"text"`
}

type transcriptTrack struct {
	Language   string              `json:"language"`
	Transcript []transcriptSegment `json:"transcript"`
}

type transcriptVideo struct {
	ID     string            `json:"id"`
	Tracks []transcriptTrack `json:"tracks"`
}

// Fetch retrieves the transcript for a video, preferring the English track
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) (string, error) {
	if c.token == "" {
		return "", errors.New("transcript API token not configured")
	}

	body, err := json.Marshal(map[string]any{
		"ids":         []string{videoID},
		"countryCode": "us",
	})
	if err != nil {
		return "", fmt.Errorf("marshal transcript request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transcripts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build transcript request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", fmt.Errorf("read transcript response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript API error: status %d", resp.StatusCode)
	}

	var videos []transcriptVideo
	if err := json.Unmarshal(respBody, &videos); err != nil {
		return "", fmt.Errorf("decode transcript response: %w", err)
	}
	if len(videos) == 0 {
		return "", errors.New("no transcript found in API response")
	}

	video := videos[0]
	for _, v := range videos {
		if v.ID == videoID {
			video = v
			break
		}
	}

	if len(video.Tracks) == 0 {
		return "", errors.New("no transcript found in API response")
	}

	track := video.Tracks[0]
	for _, t := range video.Tracks {
		if t.Language == "en" {
			track = t
			break
		}
	}

	if len(track.Transcript) == 0 {
		return "", errors.New("no transcript found in API response")
	}

	parts := make([]string, len(track.Transcript))
	for i, segment := range track.Transcript {
		parts[i] = segment.Text
	}
	return strings.Join(parts, " "), nil
}
