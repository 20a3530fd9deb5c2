package view

import (
	"strconv"
	"strings"
)

type counterKind int

const (
	counterRoot counterKind = iota
	counterSubsequence
	counterParallel
)

type sequenceCounter struct {
	sequence int
	kind     counterKind
	parent   *sequenceCounter
}

func (c *sequenceCounter) String() string {
	return c.prefix() + strconv.Itoa(c.sequence)
}

func (c *sequenceCounter) prefix() string {
	switch c.kind {
	case counterSubsequence:
		return c.parent.String() + "."
	case counterParallel:
		return c.parent.prefix()
	}
	return ""
}

// sequenceNumber hands out interaction orders such as "1", "2", "2.1".
type sequenceNumber struct {
	counter *sequenceCounter
}

func newSequenceNumber() *sequenceNumber {
	return &sequenceNumber{counter: &sequenceCounter{}}
}

func (s *sequenceNumber) next() string {
	s.counter.sequence++
	return s.counter.String()
}

// resumeAfter restarts root numbering after the highest top-level order.
func (s *sequenceNumber) resumeAfter(orders []string) {
	highest := 0
	for _, o := range orders {
		top, _, _ := strings.Cut(o, ".")
		if n, err := strconv.Atoi(top); err == nil && n > highest {
			highest = n
		}
	}
	s.counter = &sequenceCounter{sequence: highest}
}

func (s *sequenceNumber) startSubsequence() {
	s.counter = &sequenceCounter{kind: counterSubsequence, parent: s.counter}
}

func (s *sequenceNumber) endSubsequence() error {
	if s.counter.kind != counterSubsequence {
		return ErrSequence
	}
	s.counter = s.counter.parent
	return nil
}

func (s *sequenceNumber) startParallelSequence() {
	s.counter = &sequenceCounter{kind: counterParallel, parent: s.counter, sequence: s.counter.sequence}
}

func (s *sequenceNumber) endParallelSequence(continueNumbering bool) error {
	if s.counter.kind != counterParallel {
		return ErrSequence
	}
	seq := s.counter.sequence
	s.counter = s.counter.parent
	if continueNumbering {
		s.counter.sequence = seq
	}
	return nil
}

// compareOrder orders interaction numbers like versions: 1 < 1.1 < 2 < 10.
func compareOrder(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr != nil || berr != nil {
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
			continue
		}
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	}
	return len(as) - len(bs)
}
