package sorter

// partition runs the two-pointer exchange scan over data[left..right] around pivot.
// On return rb < lb; every element of data[left..rb] is <= pivot, every element of
// data[lb..right] is >= pivot, and anything strictly between them equals pivot.
// pivot must be a value present in the range, which keeps both cursors in bounds.
func partition[T any](data []T, left, right int, pivot T, compare func(a, b T) int) (lb, rb int) {
	lb, rb = left, right
	for lb <= rb {
		for compare(data[lb], pivot) < 0 {
			lb++
		}
		for compare(data[rb], pivot) > 0 {
			rb--
		}
		if lb <= rb {
			data[lb], data[rb] = data[rb], data[lb]
			lb++
			rb--
		}
	}
	return lb, rb
}
