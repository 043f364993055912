package layouts

import (
	"github.com/nfrund/stylelens/internal/view"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

const (
	htmxSrc     = "https://unpkg.com/htmx.org@2.0.4"
	tailwindSrc = "https://cdn.tailwindcss.com"
)

// Base is the document shell shared by every full page.
func Base(title string, flash view.FlashData, bodyClass string, body ...g.Node) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "en",
		Head: []g.Node{
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.Script(h.Src(tailwindSrc)),
			h.Script(h.Src(htmxSrc)),
			h.Link(h.Rel("stylesheet"), h.Href("/static/app.css")),
			h.Script(h.Src("/static/app.js"), h.Defer()),
		},
		Body: []g.Node{
			h.Class(bodyClass),
			Flashes(flash),
			g.Group(body),
		},
	})
}
