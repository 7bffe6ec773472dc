package catalog

import (
	"context"
	"strings"

	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/utils"
)

// Entity is the ownership metadata the directory resolves a reference to.
// The directory is read-only from this service's point of view.
type Entity struct {
	Ref       string `json:"ref" yaml:"ref"`
	Kind      string `json:"kind" yaml:"kind"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Name      string `json:"name" yaml:"name"`
	Team      string `json:"team" yaml:"team"`
	Type      string `json:"type" yaml:"type"`
}

// Directory resolves entity references against the external catalog.
// Resolve returns (nil, nil) for an unknown reference; callers treat that as
// "no team match", never as a failure.
type Directory interface {
	Resolve(ctx context.Context, ref string) (*Entity, error)
	List(ctx context.Context) ([]Entity, error)
}

// NewFromEnv picks the directory implementation: a YAML file when
// CATALOG_FILE is set, otherwise an HTTP client against CATALOG_BASE_URL,
// otherwise an empty static directory.
func NewFromEnv(log *logger.Logger) (Directory, error) {
	if file := strings.TrimSpace(utils.GetEnv("CATALOG_FILE", "", log)); file != "" {
		return NewStaticDirectoryFromFile(file, log)
	}
	if baseURL := strings.TrimSpace(utils.GetEnv("CATALOG_BASE_URL", "", log)); baseURL != "" {
		return NewHTTPDirectory(baseURL, log), nil
	}
	log.Warn("No catalog configured, team filtering will resolve nothing")
	return NewStaticDirectory(nil, log), nil
}
