package functools

import "fmt"

// MapWithError transforms every element with fn and stops at the first
// failure, reporting the index of the element that failed.
func MapWithError[T any, R any](slice []T, fn func(T) (R, error)) ([]R, error) {
	if slice == nil {
		return nil, nil
	}
	result := make([]R, 0, len(slice))
	for i, v := range slice {
		r, err := fn(v)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		result = append(result, r)
	}
	return result, nil
}
