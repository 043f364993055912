package domain

import (
	"fmt"
	"time"
)

// Source identifies where the active image came from. Exactly one source is
// active on a capture form at a time.
type Source string

const (
	SourceFile   Source = "file"
	SourceCamera Source = "camera"
)

// ParseSource maps a form value to a Source, defaulting to file upload.
func ParseSource(v string) Source {
	if Source(v) == SourceCamera {
		return SourceCamera
	}
	return SourceFile
}

// Image is an in-memory encoded photo. A new capture replaces it wholesale.
type Image struct {
	Data        []byte
	ContentType string
	Filename    string
	Source      Source
	CapturedAt  time.Time
}

// Size returns the encoded size in bytes.
func (i *Image) Size() int64 {
	if i == nil {
		return 0
	}
	return int64(len(i.Data))
}

// RGB is a colour triple as returned by the colour-analysis service.
type RGB [3]int

// CSS renders the colour as a CSS rgb() value.
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c[0], c[1], c[2])
}
