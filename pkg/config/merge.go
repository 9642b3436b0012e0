package config

import (
	"reflect"
	"sort"
)

// Merge returns a new document in which every leaf present in override
// replaces the same leaf in base. Mappings are merged key by key, so an
// override that sets one field of a section keeps the rest of that section;
// any other value, lists included, is replaced whole. Neither input is
// modified.
func Merge(base, override *Document) *Document {
	root := cloneMap(base.root)
	if override != nil {
		deepMerge(root, override.root)
	}

	source := base.source
	if override != nil && override.source != "" {
		source = override.source
	}
	return &Document{root: root, source: source}
}

// MergeAll folds docs left to right with Merge. It returns an empty
// document when docs is empty.
func MergeAll(docs ...*Document) *Document {
	out := Empty()
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		out = Merge(out, doc)
	}
	return out
}

func deepMerge(dst, src map[string]any) {
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			deepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = cloneValue(srcVal)
	}
}

// Diff returns the leaf paths that were added, modified, or removed going
// from old to new. Each slice is sorted.
func Diff(old, new *Document) (added, modified, removed []string) {
	oldFlat := map[string]any{}
	if old != nil {
		oldFlat = old.Flatten()
	}
	newFlat := map[string]any{}
	if new != nil {
		newFlat = new.Flatten()
	}

	for path, newVal := range newFlat {
		oldVal, exists := oldFlat[path]
		if !exists {
			added = append(added, path)
		} else if !reflect.DeepEqual(oldVal, newVal) {
			modified = append(modified, path)
		}
	}
	for path := range oldFlat {
		if _, exists := newFlat[path]; !exists {
			removed = append(removed, path)
		}
	}

	sort.Strings(added)
	sort.Strings(modified)
	sort.Strings(removed)
	return added, modified, removed
}
