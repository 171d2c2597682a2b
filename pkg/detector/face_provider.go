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

// HTTPFaceProvider implements FaceAnalyzer against a face-recognition
// server producing 128-dimension embeddings.
type HTTPFaceProvider struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPFaceProvider(baseURL string, timeout time.Duration) FaceAnalyzer {
	if baseURL == "" {
		baseURL = "http://localhost:8602"
	}
	return &HTTPFaceProvider{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

type faceEncodeRequest struct {
	Image string `json:"image"` // base64 JPEG
}

type faceEncodeResponse struct {
	FaceFound bool      `json:"face_found"`
	Encoding  []float32 `json:"encoding"`
}

func (p *HTTPFaceProvider) Encode(ctx context.Context, jpeg []byte) ([]float32, error) {
	reqBody := faceEncodeRequest{
		Image: base64.StdEncoding.EncodeToString(jpeg),
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/encode", p.BaseURL)
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
		return nil, fmt.Errorf("%w: face server error: %s", ErrDetectorFailure, string(bodyBytes))
	}

	var encodeResp faceEncodeResponse
	if err := json.Unmarshal(bodyBytes, &encodeResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectorFailure, err)
	}
	if !encodeResp.FaceFound {
		return nil, fmt.Errorf("%w: no face in frame", ErrDetectorFailure)
	}
	return encodeResp.Encoding, nil
}
