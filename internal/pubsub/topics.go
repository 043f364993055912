package pubsub

import (
	"fmt"
	"time"
)

// ReportGenerated is published after a PDF was received and stored for download.
type ReportGenerated struct {
	DraftID string    `json:"draft_id"`
	Bytes   int       `json:"bytes"`
	Source  string    `json:"source"`
	At      time.Time `json:"at"`
}

// ReportFailed is published when a report request ends without a download.
type ReportFailed struct {
	DraftID    string    `json:"draft_id"`
	StatusCode int       `json:"status_code,omitempty"`
	Message    string    `json:"message"`
	At         time.Time `json:"at"`
}

// ChatExchanged is published once per bot entry appended to a transcript.
type ChatExchanged struct {
	PanelID string    `json:"panel_id"`
	Failed  bool      `json:"failed"`
	At      time.Time `json:"at"`
}

// ImageCaptured is published when a draft receives a new image.
type ImageCaptured struct {
	DraftID string    `json:"draft_id"`
	Source  string    `json:"source"`
	Bytes   int64     `json:"bytes"`
	At      time.Time `json:"at"`
}

var (
	TopicReportGenerated = NewEvent[ReportGenerated]("report.generated")
	TopicReportFailed    = NewEvent[ReportFailed]("report.failed")
	TopicChatExchanged   = NewEvent[ChatExchanged]("chat.exchanged")
	TopicImageCaptured   = NewEvent[ImageCaptured]("capture.stored")
)

// TopicInfo describes a published event for tooling.
type TopicInfo struct {
	Name        string `json:"name"`
	Payload     string `json:"payload"`
	Description string `json:"description"`
}

// Catalog lists every event the application publishes, sorted by name.
func Catalog() []TopicInfo {
	return []TopicInfo{
		{TopicImageCaptured.Name(), fmt.Sprintf("%T", ImageCaptured{}), "a draft received a new image"},
		{TopicChatExchanged.Name(), fmt.Sprintf("%T", ChatExchanged{}), "a bot entry was appended to a chat panel"},
		{TopicReportFailed.Name(), fmt.Sprintf("%T", ReportFailed{}), "a report request ended without a download"},
		{TopicReportGenerated.Name(), fmt.Sprintf("%T", ReportGenerated{}), "a report is waiting for its single download"},
	}
}
