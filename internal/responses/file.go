package responses

import (
	"time"

	"fileshare-api/internal/models"
	"fileshare-api/internal/utils"
)

// UploadResponse is returned after a successful upload
type UploadResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Pin     string `json:"pin"`
	Name    string `json:"name"`
}

// FileInfoResponse describes a file without exposing its PIN or blob path
type FileInfoResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Size      int64      `json:"size"`
	MimeType  string     `json:"mimeType"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// VerifyPinResponse is returned when a PIN resolves to a file
type VerifyPinResponse struct {
	Success  bool   `json:"success"`
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
	FileSize string `json:"fileSize"`
	FileURL  string `json:"fileUrl"`
}

// NewUploadResponse builds the upload response for record
func NewUploadResponse(record *models.FileRecord) UploadResponse {
	return UploadResponse{
		Success: true,
		ID:      record.ID,
		Pin:     record.Pin,
		Name:    record.Name,
	}
}

// NewFileInfoResponse builds the metadata response for record
func NewFileInfoResponse(record *models.FileRecord) FileInfoResponse {
	return FileInfoResponse{
		ID:        record.ID,
		Name:      record.Name,
		Size:      record.Size,
		MimeType:  record.MimeType,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}
}

// NewVerifyPinResponse builds the PIN response; downloadURL is the link for the record
func NewVerifyPinResponse(record *models.FileRecord, downloadURL string) VerifyPinResponse {
	return VerifyPinResponse{
		Success:  true,
		FileID:   record.ID,
		FileName: record.Name,
		FileSize: utils.FormatSizeMB(record.Size),
		FileURL:  downloadURL,
	}
}
