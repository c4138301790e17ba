package app

const ServiceName = "lucy-college"

// Set via -ldflags during build:
//
//	go build -ldflags="-X 'lucy-college/internal/app.Version=1.0.0'" ./cmd/server
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
