package set

// attributeOK reports whether three attribute values satisfy the Set rule:
// all equal or pairwise distinct.
func attributeOK(a, b, c int) bool {
	if a == b && b == c {
		return true
	}
	return a != b && a != c && b != c
}

// IsSet reports whether the three cards form a valid combination: for each
// of the four attributes independently, the values must be all equal or all
// distinct. Symmetric in its arguments.
func IsSet(a, b, c Card) bool {
	return attributeOK(a.Count, b.Count, c.Count) &&
		attributeOK(a.Color, b.Color, c.Color) &&
		attributeOK(a.Shape, b.Shape, c.Shape) &&
		attributeOK(a.Fill, b.Fill, c.Fill)
}

// FindSets enumerates every valid combination among the visible cards and
// returns the index triples, each with i < j < k. Each unordered triple
// appears exactly once. O(n^3) over the window; at the production window
// size of 12 that is 220 candidates.
func FindSets(visible []Card) [][3]int {
	var found [][3]int
	for i := 0; i < len(visible); i++ {
		for j := i + 1; j < len(visible); j++ {
			for k := j + 1; k < len(visible); k++ {
				if IsSet(visible[i], visible[j], visible[k]) {
					found = append(found, [3]int{i, j, k})
				}
			}
		}
	}
	return found
}
