package partials

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// Camera is the live preview and snapshot control. app.js starts the stream
// when the element is swapped in, posts the frame as a JPEG data URL and stops
// every track afterwards.
func Camera(draftID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := templ.EscapeString(draftID)
		action := templ.EscapeString("/app/capture/snapshot?draft_id=" + url.QueryEscape(draftID))
		_, err := io.WriteString(w, `<div data-camera class="space-y-3">`+
			`<video data-camera-video autoplay playsinline muted class="w-full h-64 object-cover rounded-xl border border-slate-700 bg-black"></video>`+
			`<canvas data-camera-canvas class="hidden"></canvas>`+
			`<form data-camera-form hx-post="`+action+`" hx-target="#capture-panel" hx-swap="outerHTML">`+
			`<input type="hidden" name="draft_id" value="`+id+`">`+
			`<input type="hidden" name="image_data" data-camera-data>`+
			`<button type="button" data-camera-shoot class="w-full rounded-xl bg-slate-700 py-3 text-slate-100 hover:bg-slate-600">📸 Take photo</button>`+
			`</form></div>`)
		return err
	})
}
