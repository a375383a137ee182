package logstore

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/ignitedb/internal/codec"
	"github.com/iamNilotpal/ignitedb/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data")

	s, err := Open(&Config{Path: path, MaxRecordSize: 1024, Logger: logger.New("test")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpen_CreatesFile(t *testing.T) {
	s, path := newStore(t)
	assert.Equal(t, int64(0), s.Size())

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestAppendAndReadAt(t *testing.T) {
	s, _ := newStore(t)

	offset, err := s.Append(codec.Encode([]byte("foo"), []byte("bar")))
	require.NoError(t, err)
	assert.Equal(t, int64(0), offset)

	kv, err := s.ReadAt(offset)
	require.NoError(t, err)
	assert.Equal(t, []byte("foo"), kv.Key)
	assert.Equal(t, []byte("bar"), kv.Value)
}

func TestAppend_TracksOffsetsAcrossWrites(t *testing.T) {
	s, _ := newStore(t)

	off1, err := s.Append(codec.Encode([]byte("a"), []byte("1")))
	require.NoError(t, err)
	off2, err := s.Append(codec.Encode([]byte("b"), []byte("2")))
	require.NoError(t, err)

	assert.Equal(t, int64(0), off1)
	assert.True(t, off2 > off1)

	kv, err := s.ReadAt(off2)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), kv.Key)
}

func TestReopen_PreservesSizeAndContent(t *testing.T) {
	s, path := newStore(t)
	_, err := s.Append(codec.Encode([]byte("foo"), []byte("bar")))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(&Config{Path: path, MaxRecordSize: 1024, Logger: logger.New("test")})
	require.NoError(t, err)
	defer s2.Close()

	assert.Equal(t, s.Size(), s2.Size())

	kv, err := s2.ReadAt(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("foo"), kv.Key)
}

func TestScan_IteratesAllRecordsThenEOF(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.Append(codec.Encode([]byte("a"), []byte("1")))
	require.NoError(t, err)
	_, err = s.Append(codec.Encode([]byte("b"), []byte("2")))
	require.NoError(t, err)

	scanner := s.Scan(0)

	_, kv1, err := scanner.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), kv1.Key)

	_, kv2, err := scanner.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), kv2.Key)

	_, _, err = scanner.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestTruncateToLastGood_QuarantinesAndTruncates(t *testing.T) {
	s, path := newStore(t)

	goodOffset, err := s.Append(codec.Encode([]byte("a"), []byte("1")))
	require.NoError(t, err)
	goodLen := s.Size() - goodOffset

	_, err = s.file.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	s.size += 3

	quarantinePath, err := s.TruncateToLastGood(goodOffset + goodLen)
	require.NoError(t, err)

	_, statErr := os.Stat(quarantinePath)
	assert.NoError(t, statErr)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, goodOffset+goodLen, info.Size())

	kv, err := s.ReadAt(goodOffset)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), kv.Key)
}
