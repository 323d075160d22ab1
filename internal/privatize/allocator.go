package privatize

import "fmt"

// ExhaustedError is returned when a record has used up every code point in
// the block table
type ExhaustedError struct {
	Class    string
	Capacity int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s and its related classes have exceeded %d private members.", e.Class, e.Capacity)
}

// Allocator mints single-character identifiers from a block table
type Allocator struct {
	table    []Block
	capacity int
}

func NewAllocator(table []Block) *Allocator {
	return &Allocator{table: table, capacity: Capacity(table)}
}

func (a *Allocator) Capacity() int {
	return a.capacity
}

// Allocate returns the identifier for a memo key, minting the next code point
// in the record's cursor if the key has not been seen before. Cursors only
// move forward, so two keys in one record never get the same identifier.
func (a *Allocator) Allocate(record *Record, class string, name string) (string, error) {
	key := memoKey(class, name)
	if id, ok := record.nameMap[key]; ok {
		return id, nil
	}

	if record.blockIndex >= 0 && record.currentCode < record.blockUpperBound {
		record.currentCode++
	} else {
		next := record.blockIndex + 1
		if next >= len(a.table) {
			return "", &ExhaustedError{Class: class, Capacity: a.capacity}
		}
		record.blockIndex = next
		record.currentCode = a.table[next].Low
		record.blockUpperBound = a.table[next].High
	}

	id := string(record.currentCode)
	record.claim(key, id)
	return id, nil
}

// Private names are keyed by the class that declares them so that a subclass
// declaring "#x" gets a different identifier than its base class's "#x"
func memoKey(class string, name string) string {
	return class + name
}
