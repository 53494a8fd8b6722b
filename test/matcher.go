package test

import (
	"fmt"

	"go.uber.org/mock/gomock"
)

// predicateMatcher remembers the last value it saw so failed expectations
// print the argument that was rejected.
type predicateMatcher[T any] struct {
	predicate func(val T) bool
	last      interface{}
}

func (p *predicateMatcher[T]) Matches(val interface{}) bool {
	p.last = val
	typed, ok := val.(T)
	return ok && p.predicate(typed)
}

func (p *predicateMatcher[T]) String() string {
	var zero T
	return fmt.Sprintf("a %T accepted by the predicate (last seen %+v)", zero, p.last)
}

// Match returns a gomock matcher accepting arguments of type T for which m
// returns true.
func Match[T any](m func(v T) bool) gomock.Matcher {
	return &predicateMatcher[T]{predicate: m}
}
