package domain

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// IDSource produces candidate ids. Candidates are checked for collisions by
// the caller, so a source only needs to be "usually unique".
type IDSource interface {
	NewID(prefix string) string
}

// UUIDSource generates ids of the form "<prefix>-<uuid>".
type UUIDSource struct{}

func (UUIDSource) NewID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}

// SequenceSource generates predictable ids "<prefix>-<n>". Useful in tests and
// deterministic tooling.
type SequenceSource struct {
	n int
}

func (s *SequenceSource) NewID(prefix string) string {
	s.n++
	if prefix == "" {
		return strconv.Itoa(s.n)
	}
	return fmt.Sprintf("%s-%d", prefix, s.n)
}
