package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const maxUploadBytes = 50 << 20

var allowedUploadExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".pdf":  true,
	".xlsx": true,
	".csv":  true,
	".kmz":  true,
	".kml":  true,
}

// UploadFileHandler routes to the appropriate upload backend based on
// environment. Cloud Run sets K_SERVICE; credentials or USE_GCS also select
// the bucket backend.
func UploadFileHandler(w http.ResponseWriter, r *http.Request) {
	useGCS := os.Getenv("USE_GCS") == "true" ||
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
		os.Getenv("K_SERVICE") != ""

	if useGCS {
		UploadFileGCS(w, r)
	} else {
		UploadFileLocal(w, r)
	}
}

func validateUploadName(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedUploadExtensions[ext] {
		return validationError("file type " + ext + " not allowed")
	}
	return nil
}
