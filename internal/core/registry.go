package core

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Registry manages the views mounted in the application shell. Views keep
// their registration order, which is also the navigation order.
type Registry struct {
	mutex    sync.RWMutex
	order    []string
	features map[string]Feature
	logger   *Logger
}

// NavItem is one entry of the shell navigation
type NavItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path"`
}

// NewRegistry creates a new feature registry
func NewRegistry(logger *Logger) *Registry {
	return &Registry{
		features: make(map[string]Feature),
		logger:   logger,
	}
}

// Register adds a feature to the registry
func (r *Registry) Register(feature Feature) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	name := feature.Name()
	if _, exists := r.features[name]; exists {
		return fmt.Errorf("feature %s already registered", name)
	}

	r.features[name] = feature
	r.order = append(r.order, name)
	r.logger.Debug("Registered feature", "name", name, "enabled", feature.Enabled())
	return nil
}

// Get retrieves a feature by name
func (r *Registry) Get(name string) (Feature, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	feature, exists := r.features[name]
	return feature, exists
}

// ListEnabled returns enabled features in registration order
func (r *Registry) ListEnabled() []Feature {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	enabled := make([]Feature, 0, len(r.order))
	for _, name := range r.order {
		if f := r.features[name]; f.Enabled() {
			enabled = append(enabled, f)
		}
	}
	return enabled
}

// InitAll initializes all enabled features
func (r *Registry) InitAll(ctx context.Context) error {
	features := r.ListEnabled()
	r.logger.Info("Initializing features", "count", len(features))

	for _, feature := range features {
		if err := feature.Init(ctx); err != nil {
			return NewFeatureError(feature.Name(), "failed to initialize", err)
		}
	}

	return nil
}

// ShutdownAll shuts down every enabled feature, continuing past failures
func (r *Registry) ShutdownAll(ctx context.Context) {
	for _, feature := range r.ListEnabled() {
		if err := feature.Shutdown(ctx); err != nil {
			r.logger.Error("Failed to shutdown feature", "name", feature.Name(), "error", err)
		}
	}
}

// Mount registers the routes of every enabled feature on router
func (r *Registry) Mount(router chi.Router) {
	for _, feature := range r.ListEnabled() {
		for _, route := range feature.Routes() {
			router.Method(route.Method, route.Path, route.Handler)
		}
	}
}

// Nav returns navigation entries for the enabled features. Each entry
// points at the feature's first GET route under basePath's /api group.
func (r *Registry) Nav(basePath string) []NavItem {
	features := r.ListEnabled()
	items := make([]NavItem, 0, len(features))
	for _, f := range features {
		path := "/" + f.Name()
		for _, route := range f.Routes() {
			if route.Method == http.MethodGet {
				path = route.Path
				break
			}
		}
		items = append(items, NavItem{
			Name:        f.Name(),
			Description: f.Description(),
			Path:        basePath + "/api" + path,
		})
	}
	return items
}
