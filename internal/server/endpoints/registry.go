package endpoints

import (
	"github.com/claimlens/claimlens/internal/api"
	"github.com/claimlens/claimlens/internal/extractor"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	ExtractorManager *extractor.DockerManager
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{ExtractorManager: cfg.ExtractorManager},

		// Document endpoints
		&UploadDocumentsEndpoint{},
		&ListDocumentsEndpoint{},
		&GetDocumentEndpoint{},

		// Export endpoints
		&MergedJSONEndpoint{},
		&MergedCSVEndpoint{},
		&DocumentResultEndpoint{},
	}
}
