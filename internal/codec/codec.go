// Package codec converts between KeyValuePair and the on-disk record
// layout shared by both storage layouts:
//
//	offset  size  field
//	0       4     checksum (CRC-32/IEEE, little-endian) over key||value
//	4       4     key_len  (u32, little-endian)
//	8       4     value_len(u32, little-endian)
//	12      K     key bytes    (K = key_len)
//	12+K    V     value bytes  (V = value_len)
//
// No padding, no framing beyond the lengths themselves. Records are
// written back-to-back by the log store.
package codec

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/iamNilotpal/ignitedb/pkg/errors"
)

// Encode produces the on-disk byte layout for a (key, value) pair:
// checksum_le32 || key_len_le32 || value_len_le32 || key || value, where
// checksum = CRC32_IEEE(key || value).
func Encode(key, value []byte) []byte {
	buf := make([]byte, HeaderSize+len(key)+len(value))

	sum := crc32.NewIEEE()
	sum.Write(key)
	sum.Write(value)

	binary.LittleEndian.PutUint32(buf[0:4], sum.Sum32())
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(key)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(value)))
	copy(buf[HeaderSize:], key)
	copy(buf[HeaderSize+len(key):], value)

	return buf
}

// Decode reads exactly one record from r, starting at the given offset
// (used only to annotate errors with the record's position in the log; r
// is assumed to already be positioned there).
//
// If r reaches EOF before any header byte is read, Decode fails with
// ErrEndOfStream — the signal sequential scanners use to terminate
// normally. EOF reached anywhere after the first header byte (a short
// header or a short payload) fails with TruncatedRecord, since a prior
// write was evidently never completed. Any other read failure is a
// genuine I/O fault — the device, not the record, is the problem — and
// surfaces as a storage error with ErrorCodeIO, never as TruncatedRecord:
// conflating the two would let a transient disk error masquerade as a
// torn write and trigger recovery truncation against healthy bytes. A
// checksum mismatch fails with Corruption. A declared key+value length
// exceeding maxRecordSize fails with OversizedRecord before the payload
// is read off disk.
//
// On success, Decode returns the pair and the total number of bytes the
// record occupies on disk (header + key + value), which callers use to
// compute the offset of the next record.
func Decode(r io.Reader, offset int64, maxRecordSize uint64) (KeyValuePair, uint32, error) {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil {
		switch {
		case err == io.EOF && n == 0:
			return KeyValuePair{}, 0, errors.NewEndOfStreamError(offset)
		case err == io.ErrUnexpectedEOF:
			return KeyValuePair{}, 0, errors.NewTruncatedRecordError(offset, err)
		default:
			return KeyValuePair{}, 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read record header").
				WithOffset(int(offset))
		}
	}

	checksum := binary.LittleEndian.Uint32(header[0:4])
	keyLen := binary.LittleEndian.Uint32(header[4:8])
	valueLen := binary.LittleEndian.Uint32(header[8:12])

	dataLen := uint64(keyLen) + uint64(valueLen)
	if dataLen > maxRecordSize {
		return KeyValuePair{}, 0, errors.NewOversizedRecordError(offset, dataLen, maxRecordSize)
	}

	data := make([]byte, dataLen)
	if _, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return KeyValuePair{}, 0, errors.NewTruncatedRecordError(offset, err)
		}
		return KeyValuePair{}, 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read record payload").
			WithOffset(int(offset))
	}

	key := data[:keyLen]
	value := data[keyLen:]

	sum := crc32.NewIEEE()
	sum.Write(key)
	sum.Write(value)
	actual := sum.Sum32()

	if actual != checksum {
		return KeyValuePair{}, 0, errors.NewCorruptionError(offset, checksum, actual)
	}

	return KeyValuePair{Key: key, Value: value}, uint32(HeaderSize) + uint32(dataLen), nil
}
