package types

import (
	"fmt"
	"strings"
)

// EntityRef is the structured form of a directory entity reference. The wire
// form is "kind:namespace/name"; the namespace segment may be omitted and
// defaults to "default".
type EntityRef struct {
	Kind      string `json:"kind"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

const DefaultNamespace = "default"

func ParseEntityRef(s string) (EntityRef, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return EntityRef{}, fmt.Errorf("entity ref is empty")
	}
	kind, rest, ok := strings.Cut(raw, ":")
	if !ok || kind == "" || rest == "" {
		return EntityRef{}, fmt.Errorf("entity ref %q: want kind:namespace/name", s)
	}
	namespace := DefaultNamespace
	name := rest
	if ns, n, hasNS := strings.Cut(rest, "/"); hasNS {
		if ns == "" || n == "" {
			return EntityRef{}, fmt.Errorf("entity ref %q: empty namespace or name", s)
		}
		namespace = ns
		name = n
	}
	if strings.ContainsAny(name, ":/") {
		return EntityRef{}, fmt.Errorf("entity ref %q: name contains separator", s)
	}
	return EntityRef{
		Kind:      strings.ToLower(kind),
		Namespace: strings.ToLower(namespace),
		Name:      name,
	}, nil
}

func (r EntityRef) String() string {
	ns := r.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	return fmt.Sprintf("%s:%s/%s", r.Kind, ns, r.Name)
}

func ValidEntityRef(s string) bool {
	_, err := ParseEntityRef(s)
	return err == nil
}
