package model

import "strconv"

// IDGenerator issues identifiers for elements and relationships.
type IDGenerator interface {
	// GenerateID returns an identifier that has never been issued or
	// reported through Found.
	GenerateID() string

	// Found informs the generator of an externally supplied identifier.
	Found(id string)
}

// SequentialIntegerIDGenerator issues "1", "2", "3", ... and skips past any
// numeric identifier reported through Found.
type SequentialIntegerIDGenerator struct {
	counter int64
}

// NewSequentialIntegerIDGenerator creates a generator starting at 1.
func NewSequentialIntegerIDGenerator() *SequentialIntegerIDGenerator {
	return &SequentialIntegerIDGenerator{}
}

// GenerateID returns the next integer identifier.
func (g *SequentialIntegerIDGenerator) GenerateID() string {
	g.counter++
	return strconv.FormatInt(g.counter, 10)
}

// Found advances the counter when id is numeric and larger than any
// identifier issued so far. Non-numeric identifiers are ignored.
func (g *SequentialIntegerIDGenerator) Found(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	if n > g.counter {
		g.counter = n
	}
}
