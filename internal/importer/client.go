package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meltforce/gymtrack/internal/models"
)

// Result mirrors the server's import response.
type Result struct {
	WorkoutsImported  int `json:"workoutsImported"`
	ExercisesImported int `json:"exercisesImported"`
}

// Client sends export payloads to the GymTrack server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the GymTrack server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SendExport POSTs an export payload to the server's import endpoint.
// Retries up to 3 times with exponential backoff on failure.
func (c *Client) SendExport(data models.ExportData) (*Result, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/import", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			var result Result
			if err := json.Unmarshal(respBody, &result); err != nil {
				return nil, fmt.Errorf("decoding import response: %w", err)
			}
			return &result, nil
		}
		lastErr = fmt.Errorf("import failed (status %d): %s", resp.StatusCode, respBody)
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}
