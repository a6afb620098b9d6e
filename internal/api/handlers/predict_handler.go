package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stonescan/stonescan-be/internal/inference"
	"github.com/stonescan/stonescan-be/internal/models"
)

// maxUploadBytes caps predict uploads at 10MB.
const maxUploadBytes = 10 << 20

// PredictHandler handles classification requests. The uploaded image is kept
// on disk under a generated name before being forwarded to the model server.
type PredictHandler struct {
	classifier inference.Classifier
	uploadDir  string
}

// NewPredictHandler creates a new PredictHandler.
func NewPredictHandler(classifier inference.Classifier, uploadDir string) *PredictHandler {
	return &PredictHandler{classifier: classifier, uploadDir: uploadDir}
}

type predictResponse struct {
	Filename   string            `json:"filename"`
	Prediction models.Prediction `json:"prediction"`
}

// Predict accepts a multipart image upload and returns the model's
// classification.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		writeError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read upload")
		return
	}

	if err := h.saveUpload(header.Filename, image); err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to persist upload")
		writeError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	prediction, err := h.classifier.Classify(r.Context(), header.Filename, image)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("Inference failed")
		writeError(w, http.StatusInternalServerError, "Inference failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{Filename: header.Filename, Prediction: prediction})
}

// saveUpload stores the image under a unique name, keeping the original
// extension.
func (h *PredictHandler) saveUpload(originalName string, image []byte) error {
	ext := filepath.Ext(originalName)
	if ext == "" {
		ext = ".bin"
	}
	name := uuid.New().String() + ext
	return os.WriteFile(filepath.Join(h.uploadDir, name), image, 0644)
}
