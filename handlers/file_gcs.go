package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/storage"
)

// UploadFileGCS stores an uploaded file in the configured GCS bucket and
// returns its public URL.
func UploadFileGCS(w http.ResponseWriter, r *http.Request) {
	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		writeError(w, http.StatusInternalServerError, "GCS_BUCKET not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if err := validateUploadName(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	client, err := storage.NewClient(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create storage client")
		return
	}
	defer client.Close()

	timestamp := time.Now().Format("20060102-150405")
	objectName := fmt.Sprintf("uploads/%s-%s", timestamp, sanitizeFilename(header.Filename))

	wc := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = header.Header.Get("Content-Type")
	if _, err := io.Copy(wc, io.LimitReader(file, maxUploadBytes)); err != nil {
		wc.Close()
		writeError(w, http.StatusInternalServerError, "failed to upload file")
		return
	}
	if err := wc.Close(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to finalize upload")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url":      fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName),
		"filename": objectName,
	})
}
