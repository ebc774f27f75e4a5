package css

// WalkRules visits every style rule under c in document order, parents
// before children.
//
// fn may insert siblings in front of the visited rule, replace it or remove
// it; the walk continues with the sibling that followed the rule before the
// call. fn returns the container whose children are walked next (normally
// the rule itself) or nil to skip them. At-rules are always descended into.
func WalkRules(c Container, fn func(*Rule) Container) {
	b := c.body()
	for i := 0; i < len(b.nodes); i++ {
		switch n := b.nodes[i].(type) {
		case *Rule:
			count := len(b.nodes)
			next := fn(n)
			// siblings were added or removed at or before i
			i += len(b.nodes) - count
			if next != nil {
				WalkRules(next, fn)
			}
		case Container:
			WalkRules(n, fn)
		}
	}
}

// Rules returns all style rules under c in document order.
func Rules(c Container) []*Rule {
	var rules []*Rule
	WalkRules(c, func(r *Rule) Container {
		rules = append(rules, r)
		return r
	})
	return rules
}
