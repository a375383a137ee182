package codec

// KeyValuePair is the in-memory view of one decoded record: a key and a
// value, both opaque byte sequences with no encoding assumed.
type KeyValuePair struct {
	Key   []byte
	Value []byte
}

// IsTombstone reports whether this pair represents a deletion marker
// (an empty value).
func (kv KeyValuePair) IsTombstone() bool {
	return len(kv.Value) == 0
}

// HeaderSize is the fixed size, in bytes, of the checksum/key_len/value_len
// header that precedes every record's key and value bytes.
const HeaderSize = 12
