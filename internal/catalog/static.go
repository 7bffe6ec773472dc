package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/types"
)

type staticDirectory struct {
	byRef map[string]Entity
	all   []Entity
	log   *logger.Logger
}

type staticFile struct {
	Entities []Entity `yaml:"entities"`
}

func NewStaticDirectory(entities []Entity, baseLog *logger.Logger) Directory {
	d := &staticDirectory{
		byRef: make(map[string]Entity, len(entities)),
		log:   baseLog.With("directory", "static"),
	}
	for _, e := range entities {
		ref, err := types.ParseEntityRef(e.Ref)
		if err != nil {
			d.log.Warn("Skipping catalog entity with malformed ref", "ref", e.Ref, "error", err)
			continue
		}
		e.Ref = ref.String()
		e.Kind = ref.Kind
		e.Namespace = ref.Namespace
		e.Name = ref.Name
		d.byRef[e.Ref] = e
		d.all = append(d.all, e)
	}
	return d
}

func NewStaticDirectoryFromFile(path string, baseLog *logger.Logger) (Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var f staticFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return NewStaticDirectory(f.Entities, baseLog), nil
}

func (d *staticDirectory) Resolve(ctx context.Context, ref string) (*Entity, error) {
	parsed, err := types.ParseEntityRef(ref)
	if err != nil {
		return nil, nil
	}
	if e, ok := d.byRef[parsed.String()]; ok {
		return &e, nil
	}
	return nil, nil
}

func (d *staticDirectory) List(ctx context.Context) ([]Entity, error) {
	out := make([]Entity, len(d.all))
	copy(out, d.all)
	return out, nil
}
