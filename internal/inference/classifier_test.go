package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stonescan/stonescan-be/internal/models"
	"github.com/stretchr/testify/require"
)

func TestHTTPClassifierClassify(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "scan.png", header.Filename)

		json.NewEncoder(w).Encode(models.Prediction{Label: "stone", Confidence: 0.97})
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL)
	prediction, err := c.Classify(context.Background(), "scan.png", []byte("fake-image-bytes"))
	require.NoError(t, err)
	require.Equal(t, "stone", prediction.Label)
	require.InDelta(t, 0.97, prediction.Confidence, 1e-9)
}

func TestHTTPClassifierServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL)
	_, err := c.Classify(context.Background(), "scan.png", []byte("fake-image-bytes"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestHTTPClassifierUnreachable(t *testing.T) {
	t.Parallel()

	c := NewHTTPClassifier("http://127.0.0.1:1/predict")
	_, err := c.Classify(context.Background(), "scan.png", []byte("fake-image-bytes"))
	require.Error(t, err)
}
