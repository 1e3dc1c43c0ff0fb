package ecs

// intersectIDs returns ids present in every set, iterating the smallest one.
func intersectIDs(sets ...*SparseSet) []entityID {
	if len(sets) == 0 {
		return nil
	}
	smallest := 0
	for i, s := range sets {
		if s == nil {
			return nil
		}
		if s.Len() < sets[smallest].Len() {
			smallest = i
		}
	}
	out := make([]entityID, 0, sets[smallest].Len())
	for _, id := range sets[smallest].ids() {
		keep := true
		for i, s := range sets {
			if i == smallest {
				continue
			}
			if !s.Has(id) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, id)
		}
	}
	return out
}
