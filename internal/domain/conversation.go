package domain

import "time"

// Sender tags a chat entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Canned texts used by the chat widget.
const (
	ChatGreeting      = "Hi there! I'm your fashion assistant. How can I help you today?"
	ChatFailureNotice = "Oops, something went wrong. Please try again later."
)

// ChatEntry is one line of a conversation.
type ChatEntry struct {
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

// Conversation is an append-only transcript owned by a single chat panel.
type Conversation struct {
	ID      string      `json:"id"`
	Entries []ChatEntry `json:"entries"`
}

// Append adds an entry to the end of the transcript.
func (c *Conversation) Append(sender Sender, text string, at time.Time) ChatEntry {
	e := ChatEntry{Sender: sender, Text: text, At: at}
	c.Entries = append(c.Entries, e)
	return e
}

// Count returns the number of entries from sender.
func (c *Conversation) Count(sender Sender) int {
	n := 0
	for _, e := range c.Entries {
		if e.Sender == sender {
			n++
		}
	}
	return n
}
