package app

import (
	"github.com/nfrund/stylelens/internal/module"
	"github.com/nfrund/stylelens/internal/modules/capture"
	"github.com/nfrund/stylelens/internal/modules/chat"
	"github.com/nfrund/stylelens/internal/modules/report"
)

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
// Capture must come before report: it registers the drafts report reads.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		capture.New(captureDeps(deps)),
		report.New(reportDeps(deps)),
		chat.New(chatDeps(deps)),
	}
}
