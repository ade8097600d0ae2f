package constants

// Pub/Sub provider names accepted in config
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
