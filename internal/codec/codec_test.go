package codec

import (
	"bytes"
	stdErrors "errors"
	"testing"

	"github.com/iamNilotpal/ignitedb/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	encoded := Encode([]byte("foo"), []byte("bar"))
	require.Len(t, encoded, HeaderSize+len("foo")+len("bar"))

	kv, n, err := Decode(bytes.NewReader(encoded), 0, 1024)
	require.NoError(t, err)
	assert.Equal(t, uint32(len(encoded)), n)
	assert.Equal(t, []byte("foo"), kv.Key)
	assert.Equal(t, []byte("bar"), kv.Value)
	assert.False(t, kv.IsTombstone())
}

func TestEncodeDecode_Tombstone(t *testing.T) {
	encoded := Encode([]byte("foo"), nil)

	kv, _, err := Decode(bytes.NewReader(encoded), 0, 1024)
	require.NoError(t, err)
	assert.Equal(t, []byte("foo"), kv.Key)
	assert.True(t, kv.IsTombstone())
}

func TestDecode_EndOfStream(t *testing.T) {
	_, _, err := Decode(bytes.NewReader(nil), 0, 1024)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrEndOfStream)
}

func TestDecode_TruncatedHeader(t *testing.T) {
	encoded := Encode([]byte("foo"), []byte("bar"))
	truncated := encoded[:HeaderSize-2]

	_, _, err := Decode(bytes.NewReader(truncated), 0, 1024)
	require.Error(t, err)
	codecErr, ok := errors.AsCodecError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorCodeTruncatedRecord, codecErr.Code())
}

func TestDecode_TruncatedBody(t *testing.T) {
	encoded := Encode([]byte("foo"), []byte("bar"))
	truncated := encoded[:len(encoded)-2]

	_, _, err := Decode(bytes.NewReader(truncated), 0, 1024)
	require.Error(t, err)
	codecErr, ok := errors.AsCodecError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorCodeTruncatedRecord, codecErr.Code())
}

func TestDecode_CorruptedChecksum(t *testing.T) {
	encoded := Encode([]byte("foo"), []byte("bar"))
	corrupted := make([]byte, len(encoded))
	copy(corrupted, encoded)
	corrupted[len(corrupted)-1] ^= 0xFF

	_, _, err := Decode(bytes.NewReader(corrupted), 0, 1024)
	require.Error(t, err)
	codecErr, ok := errors.AsCodecError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorCodeCorrupted, codecErr.Code())
}

func TestDecode_OversizedRecord(t *testing.T) {
	encoded := Encode([]byte("foo"), []byte("bar"))

	_, _, err := Decode(bytes.NewReader(encoded), 0, 3)
	require.Error(t, err)
	codecErr, ok := errors.AsCodecError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorCodeOversizedRecord, codecErr.Code())
}

// faultyReader fails with a non-EOF error after serving its prefix,
// standing in for a device-level read fault mid-decode.
type faultyReader struct {
	prefix []byte
	err    error
}

func (f *faultyReader) Read(p []byte) (int, error) {
	if len(f.prefix) == 0 {
		return 0, f.err
	}
	n := copy(p, f.prefix)
	f.prefix = f.prefix[n:]
	return n, nil
}

func TestDecode_IOFaultBeforeHeader(t *testing.T) {
	deviceErr := stdErrors.New("read: input/output error")

	_, _, err := Decode(&faultyReader{err: deviceErr}, 0, 1024)
	require.Error(t, err)

	storageErr, ok := errors.AsStorageError(err)
	require.True(t, ok, "device fault must surface as a storage error, not truncation")
	assert.Equal(t, errors.ErrorCodeIO, storageErr.Code())
	assert.ErrorIs(t, err, deviceErr)
}

func TestDecode_IOFaultMidPayload(t *testing.T) {
	deviceErr := stdErrors.New("read: input/output error")
	encoded := Encode([]byte("foo"), []byte("bar"))

	_, _, err := Decode(&faultyReader{prefix: encoded[:HeaderSize+1], err: deviceErr}, 0, 1024)
	require.Error(t, err)

	storageErr, ok := errors.AsStorageError(err)
	require.True(t, ok, "device fault must surface as a storage error, not truncation")
	assert.Equal(t, errors.ErrorCodeIO, storageErr.Code())
	assert.False(t, errors.IsCodecError(err))
}

func TestDecode_SequentialRecords(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Encode([]byte("a"), []byte("1")))
	buf.Write(Encode([]byte("b"), []byte("2")))

	r := bytes.NewReader(buf.Bytes())

	kv1, n1, err := Decode(r, 0, 1024)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), kv1.Key)

	kv2, n2, err := Decode(r, int64(n1), 1024)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), kv2.Key)

	_, _, err = Decode(r, int64(n1)+int64(n2), 1024)
	assert.ErrorIs(t, err, errors.ErrEndOfStream)
}
