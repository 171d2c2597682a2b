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

// Horizontal gaze ratio cut-offs. Below left is looking left, above
// right is looking right, between is center.
const (
	gazeRatioLeft  = 0.4
	gazeRatioRight = 0.6
)

// HTTPGazeProvider implements GazeClassifier against a landmark-based
// gaze tracking server. The server reports the horizontal iris ratio;
// the direction rule is applied here.
type HTTPGazeProvider struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPGazeProvider(baseURL string, timeout time.Duration) GazeClassifier {
	if baseURL == "" {
		baseURL = "http://localhost:8601"
	}
	return &HTTPGazeProvider{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

type gazeRequest struct {
	Image string `json:"image"` // base64 JPEG
}

type gazeResponse struct {
	FaceFound       bool    `json:"face_found"`
	HorizontalRatio float64 `json:"horizontal_ratio"`
}

func (p *HTTPGazeProvider) Direction(ctx context.Context, jpeg []byte) (Gaze, bool, error) {
	reqBody := gazeRequest{
		Image: base64.StdEncoding.EncodeToString(jpeg),
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return GazeCenter, false, err
	}

	endpoint := fmt.Sprintf("%s/gaze", p.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return GazeCenter, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return GazeCenter, false, fmt.Errorf("%w: %v", ErrDetectorFailure, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return GazeCenter, false, fmt.Errorf("%w: %v", ErrDetectorFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return GazeCenter, false, fmt.Errorf("%w: gaze server error: %s", ErrDetectorFailure, string(bodyBytes))
	}

	var gazeResp gazeResponse
	if err := json.Unmarshal(bodyBytes, &gazeResp); err != nil {
		return GazeCenter, false, fmt.Errorf("%w: %v", ErrDetectorFailure, err)
	}

	// No face resolves to center: an empty camera view must not stack
	// gaze warnings on top of the person-missing signal.
	if !gazeResp.FaceFound {
		return GazeCenter, false, nil
	}

	switch {
	case gazeResp.HorizontalRatio < gazeRatioLeft:
		return GazeLeft, true, nil
	case gazeResp.HorizontalRatio > gazeRatioRight:
		return GazeRight, true, nil
	default:
		return GazeCenter, true, nil
	}
}
