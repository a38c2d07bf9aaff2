package session

import "strings"

// Path is an immutable, validated sequence of name components used as
// a broadcast namespace. The empty path (zero components) is valid.
// Comparison is byte-exact; prefix matching is by component boundary,
// not by raw string prefix, so "room/a" is not a prefix of "room/ab".
type Path struct {
	components []string
}

// NewPath splits s on "/" into path components. An empty string yields
// the empty path.
func NewPath(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path{components: strings.Split(s, "/")}
}

// PathFromComponents builds a Path directly from its components,
// matching the []string representation control messages carry on the
// wire (control.Subscribe.Namespace and friends).
func PathFromComponents(components []string) Path {
	if len(components) == 0 {
		return Path{}
	}
	out := make([]string, len(components))
	copy(out, components)
	return Path{components: out}
}

// Components returns the path's components, suitable for passing
// straight into a control message's Namespace/Prefix field.
func (p Path) Components() []string {
	if len(p.components) == 0 {
		return nil
	}
	out := make([]string, len(p.components))
	copy(out, p.components)
	return out
}

// String renders the path as its "/"-joined form.
func (p Path) String() string {
	return strings.Join(p.components, "/")
}

// Join returns a new path with component appended.
func (p Path) Join(component string) Path {
	next := make([]string, len(p.components)+1)
	copy(next, p.components)
	next[len(p.components)] = component
	return Path{components: next}
}

// Equal reports whether p and other have byte-exact identical
// components.
func (p Path) Equal(other Path) bool {
	if len(p.components) != len(other.components) {
		return false
	}
	for i, c := range p.components {
		if c != other.components[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a component-boundary prefix of
// p: every component of prefix matches the corresponding component of
// p exactly. A path is always its own prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.components) > len(p.components) {
		return false
	}
	for i, c := range prefix.components {
		if p.components[i] != c {
			return false
		}
	}
	return true
}
