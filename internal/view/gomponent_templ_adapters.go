package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// templNode renders a templ component wherever a gomponents node is expected.
type templNode struct {
	ctx       context.Context
	component templ.Component
}

func (n templNode) Render(w io.Writer) error {
	return n.component.Render(n.ctx, w)
}

// Templ embeds a templ component in a gomponents tree. gomponents does not pass
// a context down, so the component renders with context.Background().
func Templ(component templ.Component) g.Node {
	return templNode{ctx: context.Background(), component: component}
}

// TemplWithContext is Templ with an explicit context, e.g. the request's.
func TemplWithContext(ctx context.Context, component templ.Component) g.Node {
	return templNode{ctx: ctx, component: component}
}

// Gomponent wraps a gomponents node as a templ component.
func Gomponent(node g.Node) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return node.Render(w)
	})
}
