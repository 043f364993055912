package partials

import (
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/view/dto/studio"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// ChatLauncher is the floating button. The first click opens a panel on the
// server; later clicks only show the hidden panel again.
func ChatLauncher() g.Node {
	return g.Group{
		h.Div(h.ID("chat-root")),
		h.Button(
			h.ID("chat-launcher"),
			h.Type("button"),
			h.Class("fixed bottom-4 right-4 w-14 h-14 rounded-full text-3xl text-white bg-gradient-to-r from-indigo-600 to-purple-600 shadow-lg flex items-center justify-center z-50"),
			g.Attr("aria-label", "Open fashion assistant"),
			hx.Post("/app/chat/panels"),
			hx.Trigger("click once"),
			hx.Target("#chat-root"),
			hx.Swap("innerHTML"),
			g.Text("💬"),
		),
	}
}

// ChatPanel is the draggable, resizable conversation window.
func ChatPanel(d studio.ChatPanelData) g.Node {
	return h.Div(
		h.ID("chat-panel"),
		g.Attr("data-chat-panel", d.PanelID),
		h.Class("chat-panel fixed z-50 bg-gray-900 border border-gray-700 shadow-lg flex flex-col rounded-lg"),
		h.Div(
			h.Class("flex items-center justify-between px-4 py-2 bg-gradient-to-r from-indigo-700 to-purple-700 text-white rounded-t-lg cursor-move select-none"),
			g.Attr("data-chat-drag", ""),
			h.H4(h.Class("font-semibold"), g.Text("Fashion Assistant")),
			h.Button(h.Type("button"), h.Class("text-xl"), g.Attr("data-chat-close", ""), g.Attr("aria-label", "Close"), g.Raw("&times;")),
		),
		h.Div(
			h.ID("chat-messages"),
			h.Class("flex-1 p-3 bg-gray-800 overflow-y-auto flex flex-col space-y-2 text-white"),
			g.Map(d.Messages, func(m studio.ChatMessage) g.Node {
				return ChatBubble(m)
			}),
		),
		h.Form(
			h.Class("flex border-t border-gray-700"),
			hx.Post("/app/chat/panels/"+d.PanelID+"/messages"),
			hx.Target("#chat-messages"),
			hx.Swap("beforeend"),
			g.Attr("hx-on::after-request", "if (event.detail.successful) this.reset()"),
			h.Input(
				h.Type("text"), h.Name("message"), h.Placeholder("Ask me about fashion..."), h.AutoComplete("off"),
				h.Class("flex-1 p-2 bg-gray-700 text-white placeholder-gray-400 outline-none"),
			),
			h.Button(h.Type("submit"), h.Class("p-2 bg-gradient-to-r from-indigo-600 to-purple-600 text-white"), g.Text("Send")),
		),
	)
}

// ChatBubble is one transcript entry.
func ChatBubble(m studio.ChatMessage) g.Node {
	class := "p-2 rounded bg-blue-600 self-start"
	if m.Sender == string(domain.SenderUser) {
		class = "p-2 rounded bg-purple-600 self-end"
	}
	return h.Div(h.Class(class), g.Attr("data-sender", m.Sender), g.Text(m.Text))
}

// PendingBubble stands in for the bot entry and fetches it as soon as it is shown.
func PendingBubble(panelID string) g.Node {
	return h.Div(
		h.Class("p-2 rounded bg-blue-600 self-start"),
		g.Attr("data-chat-pending", ""),
		hx.Get("/app/chat/panels/"+panelID+"/reply"),
		hx.Trigger("load"),
		hx.Swap("outerHTML"),
		g.Text("..."),
	)
}
