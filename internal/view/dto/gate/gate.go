package gate

// LoginData is the view model for the login/signup card.
type LoginData struct {
	Signup bool
	Email  string
	// Lines rotate under the heading.
	Lines []string
}

// Encouragement is shown by the typing effect on the login page.
var Encouragement = []string{
	"You are capable of amazing things!",
	"Believe in yourself and your dreams!",
	"Every day is a new opportunity!",
}
