package domain

// UploadStatus drives the visible feedback of the report request.
type UploadStatus string

const (
	StatusIdle    UploadStatus = "idle"
	StatusLoading UploadStatus = "loading"
	StatusSuccess UploadStatus = "success"
	StatusError   UploadStatus = "error"
)

// CanSubmit reports whether the submit control should be enabled.
func (s UploadStatus) CanSubmit() bool {
	return s != StatusLoading
}
