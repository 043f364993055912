package pages

import (
	"strings"

	"github.com/nfrund/stylelens/internal/view"
	"github.com/nfrund/stylelens/internal/view/dto/gate"
	"github.com/nfrund/stylelens/web/src/templates/layouts"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const inputClass = "w-full rounded-lg bg-white/80 px-3 py-2 text-slate-900 placeholder-slate-500 outline-none focus:ring-2 focus:ring-indigo-300"

// Login renders the gate card. The signup variant only adds a name field;
// neither variant checks credentials.
func Login(data gate.LoginData, flash view.FlashData) g.Node {
	submitLabel, togglePrompt, toggleLabel, toggleHref := "Login", "Don't have an account?", "Sign Up", "/login?mode=signup"
	if data.Signup {
		submitLabel, togglePrompt, toggleLabel, toggleHref = "Sign Up", "Already have an account?", "Login", "/login"
	}

	return layouts.Base(submitLabel, flash, "min-h-screen animated-gradient flex items-center justify-center",
		h.Main(
			h.Class("relative z-10 max-w-md w-full bg-white/20 backdrop-blur-md border border-white/30 rounded-2xl shadow-2xl p-8"),
			h.Div(
				h.Class("text-center mb-6"),
				h.H1(h.Class("text-4xl font-extrabold text-white drop-shadow-lg"), g.Text(layouts.AppName)),
				h.P(h.Class("mt-2 text-indigo-100 drop-shadow-md"), g.Text("Your personalized fashion guide")),
			),
			TypingEffect(data.Lines),
			h.Form(
				h.Method("post"), h.Action("/login"), h.Class("space-y-4"),
				g.If(data.Signup, h.Input(h.Type("hidden"), h.Name("mode"), h.Value("signup"))),
				field("Email", h.Input(h.ID("email"), h.Type("email"), h.Name("email"), h.Value(data.Email),
					h.Placeholder("you@example.com"), h.Required(), h.AutoComplete("email"), h.Class(inputClass))),
				g.If(data.Signup, field("Full Name", h.Input(h.ID("full_name"), h.Type("text"), h.Name("full_name"),
					h.Placeholder("Your Name"), h.Required(), h.Class(inputClass)))),
				field("Password", h.Input(h.ID("password"), h.Type("password"), h.Name("password"),
					h.Placeholder("••••••••"), h.Required(), h.Class(inputClass))),
				h.Button(h.Type("submit"), h.Class("w-full rounded-lg bg-indigo-600 py-2 font-semibold text-white hover:bg-indigo-500"), g.Text(submitLabel)),
			),
			h.Div(
				h.Class("mt-6 text-sm text-center text-indigo-100 space-y-2"),
				h.P(
					g.Text(togglePrompt+" "),
					h.A(h.Href(toggleHref), h.Class("text-white font-semibold hover:underline"), g.Text(toggleLabel)),
				),
				h.Form(
					h.Method("post"), h.Action("/login/skip"),
					h.Button(h.Type("submit"), h.Class("mx-auto text-white/80 hover:text-white transition-all duration-200 text-sm hover:scale-105"),
						g.Text("✨ Skip for now")),
				),
			),
		),
	)
}

func field(label string, input g.Node) g.Node {
	id := strings.ToLower(strings.ReplaceAll(label, " ", "_"))
	return h.Div(
		h.Label(h.For(id), h.Class("text-sm text-white"), g.Text(label)),
		input,
	)
}

// TypingEffect renders the rotating lines; app.js animates them and the
// first line is shown as-is without JavaScript.
func TypingEffect(lines []string) g.Node {
	if len(lines) == 0 {
		return nil
	}
	return h.Div(
		h.Class("text-center mb-6 text-indigo-100 text-xl font-bold"),
		g.Attr("data-typing", strings.Join(lines, "|")),
		h.Span(g.Attr("data-typing-text", ""), g.Text(lines[0])),
		h.Span(h.Class("blinking-cursor"), g.Text("|")),
	)
}
