package tryon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fashionai/fashionai/internal/pkg/env"
)

// Inference produces a try-on image from a reference photo and a garment
// photo. The vendor's full schema is not modeled; this is the minimal
// contract the generation flow needs.
type Inference interface {
	Generate(ctx context.Context, humanImageURL, garmentImageURL, clothType string) (string, error)
}

// HTTPInference calls a hosted try-on model over HTTP.
type HTTPInference struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPInference builds an inference client from INFERENCE_URL / INFERENCE_KEY.
func NewHTTPInference() *HTTPInference {
	return &HTTPInference{
		endpoint: env.GetEnv("INFERENCE_URL", "https://fal.run/fal-ai/cat-vton"),
		apiKey:   env.GetEnv("INFERENCE_KEY", ""),
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

type inferenceRequest struct {
	HumanImageURL   string `json:"human_image_url"`
	GarmentImageURL string `json:"garment_image_url"`
	ClothType       string `json:"cloth_type"`
}

type inferenceResponse struct {
	Image struct {
		URL string `json:"url"`
	} `json:"image"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// Generate submits the two source images and returns the generated image URL.
func (h *HTTPInference) Generate(ctx context.Context, humanImageURL, garmentImageURL, clothType string) (string, error) {
	body, err := json.Marshal(inferenceRequest{
		HumanImageURL:   humanImageURL,
		GarmentImageURL: garmentImageURL,
		ClothType:       clothType,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Key "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("inference provider returned %d: %s", resp.StatusCode, msg)
	}

	var parsed inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding inference response: %w", err)
	}
	if parsed.Image.URL != "" {
		return parsed.Image.URL, nil
	}
	if len(parsed.Images) > 0 && parsed.Images[0].URL != "" {
		return parsed.Images[0].URL, nil
	}
	return "", fmt.Errorf("inference provider returned no image")
}
