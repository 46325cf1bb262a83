package pipeline

import "context"

// StaticSource serves an already-fetched item set as a single page. Used for
// upstream endpoints that return their whole entity set in one response but
// whose items still flow through the normal process/checkpoint cycle.
type StaticSource[T any] struct {
	Items []T
}

func (s StaticSource[T]) FetchPage(_ context.Context, _ string) (Page[T], error) {
	return Page[T]{Items: s.Items}, nil
}
