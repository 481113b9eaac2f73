package note

import "github.com/jaevor/go-nanoid"

// DefaultIDLength is nanoid's canonical length: 21 characters from a
// 64-symbol URL-safe alphabet, about 126 bits of entropy.
const DefaultIDLength = 21

// Generator generates retrieval identifiers.
type Generator func() ID

// NewGenerator creates a Generator backed by a cryptographically secure
// random source. Length must be between 2 and 255.
func NewGenerator(length int) (Generator, error) {
	gen, err := nanoid.Standard(length)
	if err != nil {
		return nil, err
	}

	return func() ID { return ID(gen()) }, nil
}
