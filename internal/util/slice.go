package util

// FilterSlice returns the elements of slice accepted by keep, in order.
// The result is never nil.
func FilterSlice[T any](slice []T, keep func(T) bool) []T {
	filtered := make([]T, 0, len(slice))
	for _, element := range slice {
		if keep(element) {
			filtered = append(filtered, element)
		}
	}
	return filtered
}
