package handlers

import (
	"encoding/base64"
	"strings"
	"testing"

	"p9e.in/fieldops/models"
)

func b64(n int) string {
	return base64.StdEncoding.EncodeToString(make([]byte, n))
}

func TestValidateAttachments(t *testing.T) {
	tests := []struct {
		name    string
		files   []models.FormAttachment
		wantErr string
	}{
		{
			name:  "no attachments",
			files: nil,
		},
		{
			name: "valid png with payload",
			files: []models.FormAttachment{
				{Name: "site.png", ContentType: "image/png", Data: b64(1024)},
			},
		},
		{
			name: "valid url-only entry",
			files: []models.FormAttachment{
				{Name: "scan.pdf", ContentType: "application/pdf", Size: 2048, URL: "/uploads/scan.pdf"},
			},
		},
		{
			name: "too many files",
			files: func() []models.FormAttachment {
				out := make([]models.FormAttachment, 11)
				for i := range out {
					out[i] = models.FormAttachment{Name: "a.png", ContentType: "image/png", Size: 1}
				}
				return out
			}(),
			wantErr: "at most 10 attachments",
		},
		{
			name: "missing name",
			files: []models.FormAttachment{
				{ContentType: "image/png", Size: 1},
			},
			wantErr: "has no name",
		},
		{
			name: "disallowed content type",
			files: []models.FormAttachment{
				{Name: "notes.exe", ContentType: "application/octet-stream", Size: 1},
			},
			wantErr: "not allowed",
		},
		{
			name: "payload over the size limit",
			files: []models.FormAttachment{
				{Name: "big.png", ContentType: "image/png", Data: b64(maxAttachmentBytes + 1)},
			},
			wantErr: "exceeds",
		},
		{
			name: "declared size over the limit",
			files: []models.FormAttachment{
				{Name: "big.pdf", ContentType: "application/pdf", Size: maxAttachmentBytes + 1, URL: "/uploads/big.pdf"},
			},
			wantErr: "exceeds",
		},
		{
			name: "invalid base64 payload",
			files: []models.FormAttachment{
				{Name: "bad.png", ContentType: "image/png", Data: "!!not-base64!!"},
			},
			wantErr: "invalid base64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttachments(tt.files)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateAttachments() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateAttachments() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateAttachments() error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateUploadName(t *testing.T) {
	valid := []string{"plan.pdf", "photo.PNG", "sheet.xlsx", "boundary.kmz", "points.csv"}
	for _, name := range valid {
		if err := validateUploadName(name); err != nil {
			t.Errorf("validateUploadName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"run.exe", "script.sh", "archive.zip", "noext"}
	for _, name := range invalid {
		if err := validateUploadName(name); err == nil {
			t.Errorf("validateUploadName(%q) = nil, want error", name)
		}
	}
}
