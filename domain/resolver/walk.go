package resolver

// Walk calls fn for n and every node below it, depth first.
// It never crosses a SchemaRefNode, so it terminates on cyclic catalogs.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	switch v := n.(type) {
	case ArrayNode:
		Walk(v.Item, fn)
	case ObjectNode:
		for _, row := range v.Rows {
			Walk(row.Detail, fn)
		}
	}
}

// Errors collects the errors of every ErrorNode in the tree.
func Errors(n Node) []error {
	var errs []error
	Walk(n, func(n Node) {
		if e, ok := n.(ErrorNode); ok {
			errs = append(errs, e.Err)
		}
	})
	return errs
}

// Refs collects the schema references of the tree in render order.
func Refs(n Node) []SchemaRefNode {
	var refs []SchemaRefNode
	Walk(n, func(n Node) {
		if r, ok := n.(SchemaRefNode); ok {
			refs = append(refs, r)
		}
	})
	return refs
}
