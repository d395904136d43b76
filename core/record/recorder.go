// Package record uploads play records to the API server.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Recorder posts play records to the play-record endpoint. No retries: the
// caller treats failures as best-effort telemetry.
type Recorder struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRecorder creates a recorder for the given API base URL, e.g.
// "http://127.0.0.1:8080". token is the bearer token of the listening user.
func NewRecorder(baseURL, token string) *Recorder {
	return &Recorder{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type playRecordRequest struct {
	MusicID string  `json:"musicId"`
	Percent float64 `json:"percent"`
}

// RecordPlay uploads one play record.
func (r *Recorder) RecordPlay(musicID string, percent float64) error {
	body, err := json.Marshal(playRecordRequest{MusicID: musicID, Percent: percent})
	if err != nil {
		return fmt.Errorf("failed to marshal play record: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, r.baseURL+"/api/music/play_record", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build play record request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload play record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("play record upload returned status %d", resp.StatusCode)
	}
	return nil
}
