package styler

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator mints identifier making cell selectors of a single rendered
// table unique on a page.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

// NewID implements IDGenerator.
func (f IDGeneratorFunc) NewID() string {
	return f()
}

// RandomIDs produces 6 hex digit identifiers from random UUID bits.
type RandomIDs struct{}

// NewID implements IDGenerator.
func (RandomIDs) NewID() string {
	u := uuid.New()
	return fmt.Sprintf("%06x", uint32(u[0])<<16|uint32(u[1])<<8|uint32(u[2]))
}
