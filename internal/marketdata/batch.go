package marketdata

// batched splits items into fixed-size chunks, issues call once per chunk
// sequentially, and concatenates the results. pace runs between chunks but
// never after the last one. A chunk error aborts the whole run.
func batched[T, R any](items []T, size int, pace func(), call func([]T) ([]R, error)) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if size <= 0 {
		size = len(items)
	}

	var out []R
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		res, err := call(items[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, res...)

		if end < len(items) && pace != nil {
			pace()
		}
	}
	return out, nil
}
