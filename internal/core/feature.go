package core

import (
	"context"
	"net/http"
)

// Feature is one view of the application shell (news, rss, search, ...).
// Features contribute JSON routes mounted under the protected /api group.
type Feature interface {
	// Name returns the unique name of the feature
	Name() string

	// Description returns a human-readable description
	Description() string

	// Enabled returns whether this feature is enabled
	Enabled() bool

	// Init initializes the feature
	Init(ctx context.Context) error

	// Routes returns the HTTP routes for this feature
	Routes() []Route

	// Shutdown gracefully shuts down the feature
	Shutdown(ctx context.Context) error
}

// Route represents an HTTP route for a feature
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// BaseFeature provides common functionality for all features
type BaseFeature struct {
	name        string
	description string
	enabled     bool
	logger      *Logger
}

// NewBaseFeature creates a new base feature
func NewBaseFeature(name, description string, enabled bool, logger *Logger) *BaseFeature {
	return &BaseFeature{
		name:        name,
		description: description,
		enabled:     enabled,
		logger:      logger,
	}
}

// Name returns the feature name
func (f *BaseFeature) Name() string {
	return f.name
}

// Description returns the feature description
func (f *BaseFeature) Description() string {
	return f.description
}

// Enabled returns whether the feature is enabled
func (f *BaseFeature) Enabled() bool {
	return f.enabled
}

// Logger returns the feature-specific logger
func (f *BaseFeature) Logger() *Logger {
	return f.logger.ForFeature(f.name)
}

// Init logs the start of a feature that needs no setup. Features that load
// state before their routes are served override it.
func (f *BaseFeature) Init(ctx context.Context) error {
	f.Logger().Debug("Initializing feature", "name", f.name)
	return nil
}

// Routes returns no routes. The nav entry of such a feature points at
// /api/<name>.
func (f *BaseFeature) Routes() []Route {
	return []Route{}
}

// Shutdown logs the stop of a feature that holds no resources
func (f *BaseFeature) Shutdown(ctx context.Context) error {
	f.Logger().Debug("Shutting down feature", "name", f.name)
	return nil
}
