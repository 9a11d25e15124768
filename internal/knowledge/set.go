package knowledge

type void struct{}

type set[T comparable] map[T]void

func (s set[T]) add(v T) {
	s[v] = void{}
}

func (s set[T]) del(v T) {
	delete(s, v)
}

func (s set[T]) has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s set[T]) clone() set[T] {
	result := make(set[T], len(s))
	for v := range s {
		result[v] = void{}
	}
	return result
}

func (s set[T]) items() []T {
	result := make([]T, 0, len(s))
	for v := range s {
		result = append(result, v)
	}
	return result
}

func (s set[T]) equal(x set[T]) bool {
	if len(s) != len(x) {
		return false
	}
	for v := range s {
		if _, ok := x[v]; !ok {
			return false
		}
	}
	return true
}

func (s set[T]) subsetOf(x set[T]) bool {
	if len(s) > len(x) {
		return false
	}
	for v := range s {
		if _, ok := x[v]; !ok {
			return false
		}
	}
	return true
}

// diff returns a new set with the elements of s not present in x.
func (s set[T]) diff(x set[T]) set[T] {
	result := make(set[T])
	for v := range s {
		if _, ok := x[v]; !ok {
			result[v] = void{}
		}
	}
	return result
}
