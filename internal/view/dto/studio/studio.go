// Package studio holds the view models of the main application screen.
package studio

// Option is one entry of a select input.
type Option struct {
	Value string
	Label string
}

// ProfileValues are the raw form values echoed back after validation.
type ProfileValues struct {
	Name     string
	Age      string
	Vibe     string
	BodyType string
}

// CaptureData drives the capture panel.
type CaptureData struct {
	DraftID  string
	Mode     string
	HasImage bool
	// ImageURL includes a version parameter so the browser never shows a replaced image.
	ImageURL string
	Source   string
	// Color is a CSS rgb() value; empty while unknown.
	Color string
	// ColorURL, when set, is fetched once to fill in Color.
	ColorURL    string
	CameraError string
	UploadError string
}

// ReportStatusData drives the status area under the form.
type ReportStatusData struct {
	Status  string
	Message string
}

// AppData is the whole main screen.
type AppData struct {
	Email     string
	Capture   CaptureData
	Profile   ProfileValues
	Errors    map[string]string
	Report    ReportStatusData
	Vibes     []Option
	BodyTypes []Option
}

// ChatMessage is one bubble.
type ChatMessage struct {
	Sender string
	Text   string
}

// ChatPanelData drives a chat panel.
type ChatPanelData struct {
	PanelID  string
	Messages []ChatMessage
}
