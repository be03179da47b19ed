// Package result carries the outcome of a business operation. Expected
// failures are values of Result, never errors.
package result

// Kind tags the outcome of an operation.
type Kind int

const (
	KindSuccess Kind = iota
	KindCreated
	KindNotFound
	KindDuplicated
	KindUnauthorized
	KindNoContent
	// KindFailure is any other expected failure; the boundary answers 400.
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "Success"
	case KindCreated:
		return "Created"
	case KindNotFound:
		return "NotFound"
	case KindDuplicated:
		return "Duplicated"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNoContent:
		return "NoContent"
	default:
		return "Failure"
	}
}

// Result is the tagged outcome of an operation with an optional payload.
type Result[T any] struct {
	Kind    Kind
	Data    T
	Message string
}

// IsSuccess reports whether the operation succeeded in any of its forms.
func (r Result[T]) IsSuccess() bool {
	return r.Kind == KindSuccess || r.Kind == KindCreated || r.Kind == KindNoContent
}

func Success[T any](data T) Result[T] {
	return Result[T]{Kind: KindSuccess, Data: data}
}

func Created[T any](data T) Result[T] {
	return Result[T]{Kind: KindCreated, Data: data}
}

func NoContent[T any]() Result[T] {
	return Result[T]{Kind: KindNoContent}
}

func NotFound[T any](message string) Result[T] {
	return Result[T]{Kind: KindNotFound, Message: message}
}

func Duplicated[T any](message string) Result[T] {
	return Result[T]{Kind: KindDuplicated, Message: message}
}

func Unauthorized[T any](message string) Result[T] {
	return Result[T]{Kind: KindUnauthorized, Message: message}
}

func Failure[T any](message string) Result[T] {
	return Result[T]{Kind: KindFailure, Message: message}
}
