package configstore

import "gopkg.in/yaml.v3"

// deepMerge merges patch into target in place. When both sides of a key are
// mappings the merge recurses key by key; any other pairing replaces the
// target value wholesale. Sequences and scalars are never merged element-wise.
//
// Merging into the target's node tree rather than a decoded map is what keeps
// comments, key order and scalar styles of untouched keys intact.
func deepMerge(target, patch *yaml.Node) {
	if target.Kind != yaml.MappingNode || patch.Kind != yaml.MappingNode {
		return
	}

	// Mapping nodes store key/value pairs as alternating Content entries.
	for i := 0; i+1 < len(patch.Content); i += 2 {
		patchKey := patch.Content[i]
		patchVal := patch.Content[i+1]

		existing := findMappingValue(target, patchKey.Value)
		if existing == nil {
			target.Content = append(target.Content, cloneNode(patchKey), cloneNode(patchVal))
			continue
		}

		if existing.Kind == yaml.MappingNode && patchVal.Kind == yaml.MappingNode {
			deepMerge(existing, patchVal)
			continue
		}

		replaceValue(existing, patchVal)
	}
}

func findMappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// replaceValue overwrites dst's content while keeping the node itself (and
// therefore the head comment attached to its key) in place.
func replaceValue(dst, src *yaml.Node) {
	comment := dst.LineComment
	*dst = *cloneNode(src)
	if dst.LineComment == "" {
		dst.LineComment = comment
	}
}

func cloneNode(n *yaml.Node) *yaml.Node {
	clone := *n
	if len(n.Content) > 0 {
		clone.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			clone.Content[i] = cloneNode(child)
		}
	}
	return &clone
}
