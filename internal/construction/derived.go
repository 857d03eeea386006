package construction

// TotalPrice is the bun price counted twice (top and bottom) plus every filling.
func TotalPrice(s State) int {
	total := 0
	if s.Bun != nil {
		total += 2 * s.Bun.Price
	}
	for _, item := range s.Items {
		total += item.Price
	}
	return total
}

// Ready reports whether the construction can be ordered.
func Ready(s State) bool {
	return s.Bun != nil
}

// OrderIngredientIDs lists the catalog ids to submit for this construction:
// fillings in order, then the bun twice. It is empty while no bun is selected.
func OrderIngredientIDs(s State) []string {
	if s.Bun == nil {
		return nil
	}
	ids := make([]string, 0, len(s.Items)+2)
	for _, item := range s.Items {
		ids = append(ids, item.ID)
	}
	return append(ids, s.Bun.ID, s.Bun.ID)
}

// Counts returns how many times each catalog ingredient is used.
func Counts(s State) map[string]int {
	counts := make(map[string]int, len(s.Items)+1)
	if s.Bun != nil {
		counts[s.Bun.ID] = 2
	}
	for _, item := range s.Items {
		counts[item.ID]++
	}
	return counts
}
