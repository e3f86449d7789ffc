package util

// RemoveDuplicates keeps the first occurrence of every value, preserving order
func RemoveDuplicates[T comparable](items []T) []T {
	seen := make(map[T]bool, len(items))
	var list []T

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			list = append(list, item)
		}
	}
	return list
}
