package layouts

import (
	"github.com/nfrund/stylelens/internal/view"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// AppName is shown in titles and headings.
const AppName = "Style Analyzer"

// CalculateTitle handles the conditional logic for the page title.
func CalculateTitle(title string) string {
	if title != "" {
		return title + " - " + AppName
	}
	return AppName
}

// Flashes renders one-shot messages from the previous request.
func Flashes(f view.FlashData) g.Node {
	if f.Empty() {
		return nil
	}
	return h.Div(
		h.ID("flash-messages"),
		h.Class("fixed top-4 inset-x-0 z-50 flex flex-col items-center gap-2"),
		g.Map(f.Success, func(msg string) g.Node {
			return h.Div(h.Class("bg-emerald-900/80 text-emerald-200 px-4 py-2 rounded-lg shadow"), g.Text(msg))
		}),
		g.Map(f.Error, func(msg string) g.Node {
			return h.Div(h.Class("bg-rose-900/80 text-rose-200 px-4 py-2 rounded-lg shadow"), g.Attr("role", "alert"), g.Text(msg))
		}),
	)
}
