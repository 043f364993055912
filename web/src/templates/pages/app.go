package pages

import (
	"github.com/nfrund/stylelens/internal/view"
	"github.com/nfrund/stylelens/internal/view/dto/studio"
	"github.com/nfrund/stylelens/web/src/templates/layouts"
	"github.com/nfrund/stylelens/web/src/templates/partials"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// App is the main screen: capture, profile, report and the chat launcher.
func App(d studio.AppData, flash view.FlashData) g.Node {
	return layouts.Base("Color Analysis", flash, "min-h-screen bg-slate-900 py-8 px-4 flex items-center justify-center",
		h.Main(
			h.Class("max-w-md w-full mx-auto bg-slate-800 rounded-2xl shadow-2xl p-8 border border-slate-700/50 backdrop-blur-lg bg-opacity-90"),
			h.Div(
				h.Class("mb-8 text-center"),
				h.Div(h.Class("animate-pulse-slow bg-gradient-to-r from-rose-400 to-violet-600 w-24 h-24 rounded-full mx-auto mb-4 shadow-glow")),
				h.H1(h.Class("text-4xl font-light text-transparent bg-clip-text bg-gradient-to-r from-rose-300 to-violet-400 mb-2"), g.Text("Color Analysis")),
				h.P(h.Class("text-slate-400 font-light"), g.Text("Color Analysis Suite")),
				g.If(d.Email != "", h.P(h.Class("text-xs text-slate-500 mt-1"), g.Text("Signed in as "+d.Email))),
			),
			h.Div(
				h.Class("space-y-6"),
				partials.CapturePanel(d.Capture),
				partials.ReportForm(d),
				h.Div(
					h.Class("text-center text-slate-400 text-sm pt-6 border-t border-slate-700/50"),
					h.P(h.Class("flex items-center justify-center space-x-2"),
						h.Span(g.Text("💎")),
						h.Span(h.Class("font-light italic"), g.Text("Professional Tip: Use diffused lighting for optimal color accuracy")),
					),
				),
			),
		),
		partials.ChatLauncher(),
	)
}
