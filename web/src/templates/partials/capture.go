package partials

import (
	"encoding/json"
	"net/url"

	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/view"
	"github.com/nfrund/stylelens/internal/view/dto/studio"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

// CapturePanel is swapped as a whole after every capture action.
func CapturePanel(d studio.CaptureData) g.Node {
	return h.Section(
		h.ID("capture-panel"),
		h.Class("space-y-4"),
		g.Attr("data-mode", d.Mode),
		modeTabs(d),
		g.If(d.CameraError != "", Alert("Camera unavailable: "+d.CameraError)),
		g.If(d.UploadError != "", Alert(d.UploadError)),
		g.Iff(d.Mode == string(domain.SourceCamera), func() g.Node { return view.Templ(Camera(d.DraftID)) }),
		g.Iff(d.Mode != string(domain.SourceCamera), func() g.Node { return filePicker(d.DraftID) }),
		g.Iff(d.HasImage, func() g.Node { return preview(d) }),
		FieldError(domain.FieldImage, "", false),
	)
}

func draftVals(draftID string, extra map[string]string) string {
	vals := map[string]string{"draft_id": draftID}
	for k, v := range extra {
		vals[k] = v
	}
	b, _ := json.Marshal(vals)
	return string(b)
}

func modeTabs(d studio.CaptureData) g.Node {
	tab := func(mode domain.Source, label string) g.Node {
		active := d.Mode == string(mode)
		return h.Button(
			h.Type("button"),
			c.Classes{
				"flex-1 rounded-lg py-2 text-sm transition-all":     true,
				"bg-rose-500/70 text-white":                         active,
				"bg-slate-700/40 text-slate-300 hover:bg-slate-700": !active,
			},
			hx.Post("/app/capture/mode"),
			g.Attr("hx-vals", draftVals(d.DraftID, map[string]string{"mode": string(mode)})),
			hx.Target("#capture-panel"),
			hx.Swap("outerHTML"),
			g.Attr("aria-pressed", boolString(active)),
			g.Text(label),
		)
	}
	return h.Div(
		h.Class("flex gap-2"),
		tab(domain.SourceFile, "🖼️ Upload"),
		tab(domain.SourceCamera, "📷 Camera"),
	)
}

func filePicker(draftID string) g.Node {
	return h.Form(
		hx.Post("/app/capture/upload?draft_id="+url.QueryEscape(draftID)),
		hx.Encoding("multipart/form-data"),
		hx.Trigger("change"),
		hx.Target("#capture-panel"),
		hx.Swap("outerHTML"),
		h.Input(h.Type("hidden"), h.Name("draft_id"), h.Value(draftID)),
		h.Label(
			h.Class("block group cursor-pointer transform transition-all hover:scale-[1.01]"),
			h.Div(
				h.Class("border-2 border-dashed border-slate-600 rounded-xl p-6 transition-all hover:border-rose-500/50 hover:bg-slate-700/20"),
				h.Div(
					h.Class("text-center space-y-3"),
					h.Div(h.Class("text-3xl opacity-80"), g.Text("🖼️")),
					h.P(h.Class("text-lg font-medium text-slate-200"), g.Text("Capture or Upload")),
					h.P(h.Class("text-sm text-slate-400 font-light"), g.Text("Recommended: High-resolution image with natural lighting")),
				),
				h.Input(h.Type("file"), h.Name("image"), h.Accept("image/*"), h.Class("hidden")),
			),
		),
	)
}

func preview(d studio.CaptureData) g.Node {
	banner := "Image Perfectly Captured"
	if d.Source == string(domain.SourceCamera) {
		banner = "Snapshot Perfectly Captured"
	}
	return h.Div(
		h.Class("space-y-4"),
		h.Div(
			h.Class("bg-emerald-900/30 border border-emerald-800/50 text-emerald-300 px-4 py-3 rounded-lg flex items-center space-x-3 animate-fade-in"),
			h.Span(h.Class("text-xl"), g.Text("🌟")),
			h.Span(h.Class("font-light"), g.Text(banner)),
		),
		h.Div(
			h.Class("relative group overflow-hidden rounded-xl border border-slate-700 shadow-xl"),
			h.Img(h.Src(d.ImageURL), h.Alt("Analysis preview"), h.Class("w-full h-64 object-cover transform transition-transform duration-500 group-hover:scale-105")),
		),
		ColorSwatch(d.Color, d.ColorURL),
		h.Button(
			h.Type("button"),
			h.Class("text-sm text-slate-400 hover:text-rose-300"),
			hx.Post("/app/capture/reset"),
			g.Attr("hx-vals", draftVals(d.DraftID, nil)),
			hx.Target("#capture-panel"),
			hx.Swap("outerHTML"),
			g.Text("Remove photo"),
		),
	)
}

// ColorSwatch shows the dominant colour, or a placeholder that loads it once.
// An empty colour without a URL renders nothing.
func ColorSwatch(color, loadURL string) g.Node {
	if color == "" {
		if loadURL == "" {
			return nil
		}
		return h.Div(
			h.ID("color-swatch"),
			h.Class("text-sm text-slate-400 font-light"),
			hx.Get(loadURL),
			hx.Trigger("load"),
			hx.Swap("outerHTML"),
			g.Text("Reading the dominant hue…"),
		)
	}
	return h.Div(
		h.ID("color-swatch"),
		h.Class("bg-slate-700/20 p-6 rounded-xl border border-slate-700/50 space-y-4 backdrop-blur-sm"),
		h.H3(h.Class("text-xl font-light text-rose-100"), g.Text("Dominant Hue")),
		h.Div(
			h.Class("relative h-24 rounded-xl overflow-hidden"),
			h.Div(h.Class("absolute inset-0 opacity-90"), h.Style("background-color: "+color)),
			h.Span(h.Class("absolute bottom-3 right-3 font-mono text-sm text-slate-100 bg-slate-900/30 px-3 py-1 rounded-full"), g.Text(color)),
		),
	)
}

// Alert is an inline error message.
func Alert(msg string) g.Node {
	return h.Div(
		h.Class("bg-rose-900/30 border border-rose-800/50 text-rose-300 px-4 py-3 rounded-lg"),
		g.Attr("role", "alert"),
		g.Text(msg),
	)
}

// FieldError is the message slot next to a form field. With oob set it
// replaces the existing slot from any response.
func FieldError(field, msg string, oob bool) g.Node {
	return h.P(
		h.ID("field-error-"+field),
		h.Class("mt-1 text-sm text-rose-300 min-h-[1.25rem]"),
		g.If(oob, hx.SwapOOB("true")),
		g.Text(msg),
	)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
