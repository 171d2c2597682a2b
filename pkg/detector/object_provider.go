package detector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Object classes the platform cares about. Anything else the model
// reports is ignored.
var watchedLabels = map[string]bool{
	"person":     true,
	"cell phone": true,
	"book":       true,
}

// HTTPObjectProvider implements FrameClassifier against a YOLO-style
// detection server.
type HTTPObjectProvider struct {
	BaseURL             string
	ConfidenceThreshold float64
	Client              *http.Client
}

func NewHTTPObjectProvider(baseURL string, confidenceThreshold float64, timeout time.Duration) FrameClassifier {
	if baseURL == "" {
		baseURL = "http://localhost:8600"
	}
	if confidenceThreshold <= 0 {
		confidenceThreshold = 0.5
	}
	return &HTTPObjectProvider{
		BaseURL:             baseURL,
		ConfidenceThreshold: confidenceThreshold,
		Client:              &http.Client{Timeout: timeout},
	}
}

type objectDetectRequest struct {
	Image string `json:"image"` // base64 JPEG
}

type objectDetectResponse struct {
	Detections []Label `json:"detections"`
}

func (p *HTTPObjectProvider) Classify(ctx context.Context, jpeg []byte) ([]Label, error) {
	reqBody := objectDetectRequest{
		Image: base64.StdEncoding.EncodeToString(jpeg),
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/detect", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectorFailure, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectorFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: object server error: %s", ErrDetectorFailure, string(bodyBytes))
	}

	var detectResp objectDetectResponse
	if err := json.Unmarshal(bodyBytes, &detectResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectorFailure, err)
	}

	var labels []Label
	for _, d := range detectResp.Detections {
		if !watchedLabels[d.Name] {
			continue
		}
		if d.Confidence < p.ConfidenceThreshold {
			continue
		}
		labels = append(labels, d)
	}
	return labels, nil
}

// CountPersons returns how many of the labels are person detections.
func CountPersons(labels []Label) int {
	count := 0
	for _, l := range labels {
		if l.Name == "person" {
			count++
		}
	}
	return count
}
