package app

import (
	"github.com/nfrund/stylelens/internal/modules/capture"
	"github.com/nfrund/stylelens/internal/modules/chat"
	"github.com/nfrund/stylelens/internal/modules/report"
	"github.com/nfrund/stylelens/internal/pubsub"
	"github.com/nfrund/stylelens/internal/rendering"
)

// Dependencies holds the core services that are required by the application's modules.
// This struct is passed from the main application entrypoint to wire up the modules.
type Dependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
}

// captureDeps creates the dependency struct for the capture module.
func captureDeps(deps Dependencies) capture.Dependencies {
	return capture.Dependencies{
		Publisher: deps.Publisher,
		Renderer:  deps.Renderer,
	}
}

// reportDeps creates the dependency struct for the report module.
func reportDeps(deps Dependencies) report.Dependencies {
	return report.Dependencies{
		Publisher: deps.Publisher,
		Renderer:  deps.Renderer,
	}
}

// chatDeps creates the dependency struct for the chat module.
func chatDeps(deps Dependencies) chat.Dependencies {
	return chat.Dependencies{
		Publisher: deps.Publisher,
		Renderer:  deps.Renderer,
	}
}
