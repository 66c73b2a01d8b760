package config

// Config holds claimlens configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Backend   BackendCfg   `mapstructure:"backend" yaml:"backend"`
	Extractor ExtractorCfg `mapstructure:"extractor" yaml:"extractor"`
	Progress  ProgressCfg  `mapstructure:"progress" yaml:"progress"`
	Server    ServerCfg    `mapstructure:"server" yaml:"server"`
}

// BackendCfg points at the extraction service.
type BackendCfg struct {
	// URL is the extraction service base URL.
	URL string `mapstructure:"url" yaml:"url"`
}

// ExtractorCfg holds extraction backend container configuration.
type ExtractorCfg struct {
	// Managed starts and stops the container with the server.
	Managed bool `mapstructure:"managed" yaml:"managed"`
	// ContainerName is the Docker container name (default: claimlens-extractor).
	ContainerName string `mapstructure:"container_name" yaml:"container_name"`
	// Image is the Docker image to use.
	Image string `mapstructure:"image" yaml:"image"`
	// Port is the host port to bind (default: 5000).
	Port string `mapstructure:"port" yaml:"port"`
	// APIKey is passed to the container as OPENAI_API_KEY
	// (supports ${ENV_VAR} syntax).
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// ProgressCfg controls the scripted stage narrative.
type ProgressCfg struct {
	// Simulate plays the scripted stage sequence while uploads run.
	Simulate bool `mapstructure:"simulate" yaml:"simulate"`
}

// ServerCfg configures the HTTP gateway.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendCfg{
			URL: "http://localhost:5000",
		},
		Extractor: ExtractorCfg{
			Managed:       false,
			ContainerName: "claimlens-extractor",
			Image:         "claimlens/extractor:latest",
			Port:          "5000",
			APIKey:        "${OPENAI_API_KEY}",
		},
		Progress: ProgressCfg{
			Simulate: true,
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}
