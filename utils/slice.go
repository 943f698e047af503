package utils

// UniqueInt removes duplicate values from a slice of ints, preserving order.
func UniqueInt(slice []int) []int {
	keys := make(map[int]bool, len(slice))
	list := make([]int, 0, len(slice))
	for _, entry := range slice {
		if !keys[entry] {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}
