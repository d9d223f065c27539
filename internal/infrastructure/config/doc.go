// Package config loads service configuration from environment variables
// with kelseyhightower/envconfig.
//
// Variables are grouped by concern: server (PORT, HOST), generation
// endpoints (GENERATION_*, CHAT_ENDPOINT, PLACEHOLDER_IMAGE_URL), studio
// timing (PROGRESS_TICK, REPLY_DELAY, RENDER_LIMIT, STYLES_FILE), storage
// (STORAGE_*, PERSIST_DEBOUNCE), logging (LOG_*) and rate limiting
// (RATE_LIMIT_*). Command-line flags in cmd/server override a few of them.
package config
