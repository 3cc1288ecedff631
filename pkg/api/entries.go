package api

import (
	"context"
	"fmt"
	"reflect"
)

// NoArgs wraps an entry point that takes no arguments. Calling it with any
// arguments fails with ErrBadArgs.
func NoArgs(fn func(ctx context.Context) (Outcome, error)) EntryPoint {
	return func(ctx context.Context, args ...any) (Outcome, error) {
		if len(args) != 0 {
			return Outcome{}, fmt.Errorf("%w: expected no arguments, got %d", ErrBadArgs, len(args))
		}
		return fn(ctx)
	}
}

// TypedEntry wraps a strongly-typed single-argument entry point:
//
//	flow.RegisterEntryPoint("greet", api.TypedEntry(func(ctx context.Context, name string) (api.Outcome, error) {
//	    ...
//	}))
func TypedEntry[A any](fn func(ctx context.Context, a A) (Outcome, error)) EntryPoint {
	return func(ctx context.Context, args ...any) (Outcome, error) {
		if len(args) != 1 {
			return Outcome{}, fmt.Errorf("%w: expected 1 argument, got %d", ErrBadArgs, len(args))
		}
		a, err := argAs[A](args, 0)
		if err != nil {
			return Outcome{}, err
		}
		return fn(ctx, a)
	}
}

// TypedEntry2 is TypedEntry for two arguments.
func TypedEntry2[A, B any](fn func(ctx context.Context, a A, b B) (Outcome, error)) EntryPoint {
	return func(ctx context.Context, args ...any) (Outcome, error) {
		if len(args) != 2 {
			return Outcome{}, fmt.Errorf("%w: expected 2 arguments, got %d", ErrBadArgs, len(args))
		}
		a, err := argAs[A](args, 0)
		if err != nil {
			return Outcome{}, err
		}
		b, err := argAs[B](args, 1)
		if err != nil {
			return Outcome{}, err
		}
		return fn(ctx, a, b)
	}
}

func argAs[T any](args []any, i int) (T, error) {
	var zero T
	want := reflect.TypeOf((*T)(nil)).Elem()
	if args[i] == nil {
		switch want.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return zero, nil
		}
		return zero, fmt.Errorf("%w: argument %d is nil, want %s", ErrBadArgs, i, want)
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: argument %d has type %T, want %s", ErrBadArgs, i, args[i], want)
	}
	return v, nil
}
