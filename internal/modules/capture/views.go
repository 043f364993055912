package capture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nfrund/stylelens/internal/capture"
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/view/dto/studio"
)

const maxCameraErrorLen = 200

func captureView(st capture.DraftState) studio.CaptureData {
	d := studio.CaptureData{
		DraftID:  st.ID,
		Mode:     string(st.Mode),
		HasImage: st.HasImage,
		Source:   string(st.Source),
	}
	if !st.HasImage {
		return d
	}
	version := st.CapturedAt.UnixNano()
	d.ImageURL = fmt.Sprintf("/app/capture/%s/image?v=%d", st.ID, version)
	if st.Color != nil {
		d.Color = st.Color.CSS()
	} else {
		d.ColorURL = fmt.Sprintf("/app/capture/%s/color?at=%d", st.ID, version)
	}
	return d
}

// uploadMessage turns a capture failure into the inline message.
func uploadMessage(err error, limits capture.Limits) string {
	switch {
	case errors.Is(err, domain.ErrImageRequired):
		return domain.MsgImageMissing
	case errors.Is(err, domain.ErrImageTooLarge):
		return fmt.Sprintf("Images must be %s or smaller.", humanBytes(limits.MaxBytes))
	case errors.Is(err, domain.ErrUnsupportedImage):
		if len(limits.AllowedTypes) == 0 {
			return "Please choose an image file."
		}
		names := make([]string, 0, len(limits.AllowedTypes))
		for _, t := range limits.AllowedTypes {
			names = append(names, strings.ToUpper(strings.TrimPrefix(t, "image/")))
		}
		return "Please choose a " + strings.Join(names, ", ") + " image."
	default:
		return "Could not read that image. Please try another one."
	}
}

func humanBytes(n int64) string {
	const mb = 1 << 20
	if n >= mb && n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	if n >= 1<<10 {
		return fmt.Sprintf("%d KB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}

func cameraMessage(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxCameraErrorLen {
		s = s[:maxCameraErrorLen]
	}
	return s
}
