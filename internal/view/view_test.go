package view_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/nfrund/stylelens/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "Inverted Triangle", view.Label("inverted-triangle"))
	assert.Equal(t, "Streetwear", view.Label("streetwear"))
}

func TestOptions(t *testing.T) {
	opts := view.Options([]string{"pear", "apple"})
	require.Len(t, opts, 2)
	assert.Equal(t, "pear", opts[0].Value)
	assert.Equal(t, "Apple", opts[1].Label)
}

func TestAdapters(t *testing.T) {
	comp := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<video></video>")
		return err
	})

	var buf bytes.Buffer
	require.NoError(t, h.Div(view.Templ(comp)).Render(&buf))
	assert.Equal(t, "<div><video></video></div>", buf.String())

	buf.Reset()
	require.NoError(t, view.Gomponent(h.Span(g.Text("x"))).Render(context.Background(), &buf))
	assert.Equal(t, "<span>x</span>", buf.String())
}
