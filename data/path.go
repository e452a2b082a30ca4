package data

import (
	"fmt"
	"strings"
)

// Resolve walks a dotted path from root with one Get per segment. Each Get is
// an ordinary read, so an active computation sees every hop.
func Resolve(root any, path string) (any, error) {
	if path == "" {
		return root, nil
	}
	cur := root
	for _, seg := range strings.Split(path, ".") {
		c, ok := AsContainer(cur)
		if !ok {
			return nil, fmt.Errorf("reading %q of %s in %q: %w", seg, describe(cur), path, ErrNotContainer)
		}
		cur = c.Get(seg)
	}
	return cur, nil
}

// ResolveParent resolves everything but the last segment and returns the
// container that owns it along with the final key.
func ResolveParent(root any, path string) (Container, string, error) {
	parentPath, key := SplitPath(path)
	parent, err := Resolve(root, parentPath)
	if err != nil {
		return nil, "", err
	}
	c, ok := AsContainer(parent)
	if !ok {
		return nil, "", fmt.Errorf("setting %q of %s in %q: %w", key, describe(parent), path, ErrNotContainer)
	}
	return c, key, nil
}

func SplitPath(path string) (parent, key string) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

func describe(v any) string {
	if v == nil {
		return "undefined"
	}
	return fmt.Sprintf("%T", v)
}
