package normalizer

import (
	"fmt"

	"github.com/erraggy/oasir/internal/pathutil"
	"github.com/erraggy/oasir/loader"
)

// Methods lists the operation keys of a path item in the order they are
// recognized.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// IsMethod reports whether key names an HTTP method of a path item.
func IsMethod(key string) bool {
	for _, m := range Methods {
		if m == key {
			return true
		}
	}
	return false
}

// discoverComponents normalizes the schema positions of reusable parameters,
// request bodies, responses, and headers.
func (z *normalizer) discoverComponents() {
	components := z.g.Root().Get("components")
	base := pathutil.RefPrefixComponents
	z.eachEntry(components.Get("parameters"), pathutil.Append(base, "parameters"), z.parameter)
	z.eachEntry(components.Get("requestBodies"), pathutil.Append(base, "requestBodies"), z.content)
	z.eachEntry(components.Get("responses"), pathutil.Append(base, "responses"), z.response)
	z.eachEntry(components.Get("headers"), pathutil.Append(base, "headers"), z.header)
}

// discoverPaths normalizes the schema positions of every path item and
// operation.
func (z *normalizer) discoverPaths() {
	paths := z.g.Root().Get("paths")
	z.eachEntry(paths, pathutil.RefPrefixPaths, func(ptr string) {
		item, itemPtr, ok := z.g.Follow(ptr)
		if !ok || !item.IsMapping() {
			return
		}
		z.eachItem(item.Get("parameters"), pathutil.Append(itemPtr, "parameters"), z.parameter)
		for _, e := range item.Entries {
			if !IsMethod(e.Key) {
				continue
			}
			opPtr := pathutil.Append(itemPtr, e.Key)
			z.eachItem(e.Value.Get("parameters"), pathutil.Append(opPtr, "parameters"), z.parameter)
			if e.Value.Has("requestBody") {
				z.content(pathutil.Append(opPtr, "requestBody"))
			}
			z.eachEntry(e.Value.Get("responses"), pathutil.Append(opPtr, "responses"), z.response)
		}
	})
}

func (z *normalizer) eachEntry(n *loader.Node, ptr string, fn func(string)) {
	if !n.IsMapping() {
		return
	}
	for _, e := range n.Entries {
		fn(pathutil.Append(ptr, e.Key))
	}
}

func (z *normalizer) eachItem(n *loader.Node, ptr string, fn func(string)) {
	if !n.IsSequence() {
		return
	}
	for i := range n.Items {
		fn(fmt.Sprintf("%s/%d", ptr, i))
	}
}

// follow resolves a possibly-$ref position to its real node.
func (z *normalizer) follow(ptr string) (*loader.Node, string, bool) {
	n, final, ok := z.g.Follow(ptr)
	if !ok || !n.IsMapping() {
		return nil, "", false
	}
	return n, final, true
}

func (z *normalizer) schemaAt(owner *loader.Node, ownerPtr string) {
	if owner.Has("schema") {
		z.normalizeAt(pathutil.Append(ownerPtr, "schema"))
	}
}

// parameter and header objects carry either a schema or a content map.
func (z *normalizer) parameter(ptr string) {
	n, final, ok := z.follow(ptr)
	if !ok {
		return
	}
	z.schemaAt(n, final)
	z.mediaTypes(n, final)
}

func (z *normalizer) header(ptr string) {
	z.parameter(ptr)
}

// content handles request bodies.
func (z *normalizer) content(ptr string) {
	n, final, ok := z.follow(ptr)
	if !ok {
		return
	}
	z.mediaTypes(n, final)
}

func (z *normalizer) response(ptr string) {
	n, final, ok := z.follow(ptr)
	if !ok {
		return
	}
	z.mediaTypes(n, final)
	z.eachEntry(n.Get("headers"), pathutil.Append(final, "headers"), z.header)
}

func (z *normalizer) mediaTypes(n *loader.Node, ptr string) {
	content := n.Get("content")
	if !content.IsMapping() {
		return
	}
	contentPtr := pathutil.Append(ptr, "content")
	for _, e := range content.Entries {
		if e.Value.IsMapping() {
			z.schemaAt(e.Value, pathutil.Append(contentPtr, e.Key))
		}
	}
}
