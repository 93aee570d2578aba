package extraction

// strategy is one named way of producing entries. Chains try strategies in
// order and stop at the first one that yields anything.
type strategy struct {
	name string
	run  func() []string
}

// firstOf returns the name and output of the first productive strategy.
func firstOf(strategies ...strategy) (string, []string) {
	for _, s := range strategies {
		if out := s.run(); len(out) > 0 {
			return s.name, out
		}
	}
	return "", []string{}
}
