// Package inference talks to the external image-classification model server.
// The model itself (a pretrained kidney-stone classifier) runs out of
// process; this package only forwards images and decodes the result.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/stonescan/stonescan-be/internal/models"
)

// Classifier produces a prediction for an image. It is an injected
// dependency so handlers can be exercised with a test double.
type Classifier interface {
	Classify(ctx context.Context, filename string, image []byte) (models.Prediction, error)
}

// HTTPClassifier forwards images to the model server as a multipart upload
// and expects a JSON {label, confidence} reply.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClassifier creates a classifier targeting the given endpoint.
func NewHTTPClassifier(endpoint string) *HTTPClassifier {
	return &HTTPClassifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Classify implements Classifier.
func (c *HTTPClassifier) Classify(ctx context.Context, filename string, image []byte) (models.Prediction, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("build model request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return models.Prediction{}, fmt.Errorf("build model request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return models.Prediction{}, fmt.Errorf("build model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.Prediction{}, fmt.Errorf("model server returned %d: %s", resp.StatusCode, msg)
	}

	var prediction models.Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return models.Prediction{}, fmt.Errorf("decode model response: %w", err)
	}
	return prediction, nil
}
