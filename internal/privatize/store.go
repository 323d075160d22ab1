package privatize

// Record is the allocation state shared by a class and every class that
// extends it. Sharing one record across a hierarchy keeps a subclass from
// minting a name its base class already uses.
type Record struct {
	// Index into the block table, or -1 before the first allocation
	blockIndex      int
	currentCode     rune
	blockUpperBound rune

	// Maps a memo key ("Class#name") to the identifier it was given
	nameMap map[string]string

	// Maps an identifier back to the first memo key that claimed it
	owners map[string]string
}

func newRecord() *Record {
	return &Record{
		blockIndex: -1,
		nameMap:    make(map[string]string),
		owners:     make(map[string]string),
	}
}

// Len returns the number of memoized names
func (r *Record) Len() int {
	return len(r.nameMap)
}

// Lookup returns the identifier previously memoized for a key
func (r *Record) Lookup(key string) (string, bool) {
	id, ok := r.nameMap[key]
	return id, ok
}

// claim memoizes an identifier for a key. If a different key already owns the
// identifier, that key is returned so the caller can report the collision.
func (r *Record) claim(key string, id string) (previousOwner string, collides bool) {
	r.nameMap[key] = id
	if owner, ok := r.owners[id]; ok {
		return owner, owner != key
	}
	r.owners[id] = key
	return "", false
}

// Store maps class names to allocation records. Anonymous classes never have
// an entry. There is no way to remove an entry, but declaring a class with a
// name that is already present binds the name to the new class.
type Store struct {
	records map[string]*Record
}

func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

func (s *Store) Get(class string) (*Record, bool) {
	record, ok := s.records[class]
	return record, ok
}

// GetOrCreate returns the record for a class declaration. When "base" names a
// class that already has a record, that same record is shared with the new
// class. Otherwise the class gets a fresh record. An empty class name means
// the class is anonymous and the result is not stored.
func (s *Store) GetOrCreate(class string, base string) *Record {
	record, ok := s.records[base]
	if base == "" || !ok {
		record = newRecord()
	}
	if class != "" {
		s.records[class] = record
	}
	return record
}

// Len returns the number of class names bound to a record
func (s *Store) Len() int {
	return len(s.records)
}
