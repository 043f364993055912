package partials

import (
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/view/dto/studio"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

const fieldClass = "w-full rounded-lg bg-slate-900/60 border border-slate-700 px-3 py-2 text-slate-100 placeholder-slate-500 outline-none focus:border-rose-500/60"

// ReportForm holds the profile fields and the submit control. Without
// JavaScript it posts normally and the server answers with a redirect.
func ReportForm(d studio.AppData) g.Node {
	return h.Form(
		h.ID("report-form"),
		h.Method("post"),
		h.Action("/app/reports"),
		h.Class("space-y-4"),
		hx.Post("/app/reports"),
		hx.Target("#report-status"),
		hx.Swap("outerHTML"),
		hx.Indicator("#report-indicator"),
		g.Attr("hx-disabled-elt", "find button[type=submit]"),
		h.Input(h.Type("hidden"), h.ID("draft-id"), h.Name("draft_id"), h.Value(d.Capture.DraftID)),
		h.Div(
			h.Label(h.For("name"), h.Class("text-sm text-slate-300"), g.Text("Name")),
			h.Input(h.ID("name"), h.Type("text"), h.Name(domain.FieldName), h.Value(d.Profile.Name),
				h.Placeholder("Your name"), h.AutoComplete("name"), h.Class(fieldClass)),
			FieldError(domain.FieldName, d.Errors[domain.FieldName], false),
		),
		h.Div(
			h.Label(h.For("age"), h.Class("text-sm text-slate-300"), g.Text("Age")),
			h.Input(h.ID("age"), h.Type("number"), h.Name(domain.FieldAge), h.Value(d.Profile.Age),
				h.Min("13"), h.Max("100"), h.Step("1"), h.Class(fieldClass)),
			FieldError(domain.FieldAge, d.Errors[domain.FieldAge], false),
		),
		h.Div(
			h.Class("grid grid-cols-2 gap-4"),
			h.Div(
				h.Label(h.For("vibe"), h.Class("text-sm text-slate-300"), g.Text("Style vibe")),
				selectField("vibe", domain.FieldVibe, d.Profile.Vibe, d.Vibes),
				FieldError(domain.FieldVibe, d.Errors[domain.FieldVibe], false),
			),
			h.Div(
				h.Label(h.For("body_type"), h.Class("text-sm text-slate-300"), g.Text("Body type")),
				selectField("body_type", domain.FieldBodyType, d.Profile.BodyType, d.BodyTypes),
				FieldError(domain.FieldBodyType, d.Errors[domain.FieldBodyType], false),
			),
		),
		h.Button(
			h.Type("submit"),
			h.Class("w-full bg-gradient-to-r from-rose-500/80 to-violet-600/80 text-slate-100 py-4 rounded-xl font-light transition-all hover:shadow-lg hover:from-rose-500 hover:to-violet-600 disabled:opacity-50 flex items-center justify-center space-x-3"),
			h.Span(h.Class("text-xl"), g.Text("📜")),
			h.Span(g.Text("Generate Report")),
		),
		ReportStatus(d.Report),
	)
}

func selectField(id, name, selected string, opts []studio.Option) g.Node {
	return h.Select(
		h.ID(id), h.Name(name), h.Class(fieldClass),
		h.Option(h.Value(""), g.Text("Choose…")),
		g.Map(opts, func(o studio.Option) g.Node {
			return h.Option(h.Value(o.Value), g.If(o.Value == selected, h.Selected()), g.Text(o.Label))
		}),
	)
}

// ReportStatus is the feedback area for the report request.
func ReportStatus(d studio.ReportStatusData) g.Node {
	return reportStatus(d, false)
}

// ReportStatusOOB replaces the feedback area from a response aimed elsewhere.
func ReportStatusOOB(d studio.ReportStatusData) g.Node {
	return reportStatus(d, true)
}

func reportStatus(d studio.ReportStatusData, oob bool) g.Node {
	var body g.Node
	switch domain.UploadStatus(d.Status) {
	case domain.StatusSuccess:
		body = h.Div(h.Class("bg-emerald-900/30 border border-emerald-800/50 text-emerald-300 px-4 py-3 rounded-lg"), g.Text(d.Message))
	case domain.StatusError:
		body = Alert(d.Message)
	default:
		if d.Message != "" {
			body = h.P(h.Class("text-sm text-slate-400"), g.Text(d.Message))
		}
	}
	return h.Div(
		h.ID("report-status"),
		g.Attr("data-status", d.Status),
		g.Attr("role", "status"),
		g.Attr("aria-live", "polite"),
		g.If(oob, hx.SwapOOB("true")),
		h.Div(h.ID("report-indicator"), h.Class("htmx-indicator text-sm text-slate-300"), g.Text("Generating your report…")),
		body,
	)
}

// FieldErrors renders every profile slot out of band so stale messages clear.
func FieldErrors(errs domain.FieldErrors) g.Node {
	fields := []string{domain.FieldName, domain.FieldAge, domain.FieldVibe, domain.FieldBodyType, domain.FieldImage}
	return g.Map(fields, func(f string) g.Node {
		return FieldError(f, errs[f], true)
	})
}
