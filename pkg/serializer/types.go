package serializer

import "context"

// Serializer writes a value to some destination in a fixed format.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is implemented by Serializers that hold resources such as file handles.
type Closer interface {
	Close() error
}
