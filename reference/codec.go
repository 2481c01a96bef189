package reference

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"encoding/gob"
	"io"
	"os"

	"github.com/hscells/themeval"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Codec is the compression wrapped around the gob-encoded reference mapping.
type Codec string

const (
	Gzip Codec = "gzip"
	Zstd Codec = "zstd"
	// Bzip2 can be read but not written.
	Bzip2 Codec = "bzip2"
	None  Codec = "none"
)

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	bzip2Magic = []byte("BZh")
)

// ParseCodec parses the name of a writable codec.
func ParseCodec(s string) (Codec, error) {
	switch Codec(s) {
	case Gzip, Zstd, None:
		return Codec(s), nil
	}
	return "", errors.Errorf("unknown codec %q", s)
}

// sniff guesses the codec from the first bytes of the stream.
func sniff(r *bufio.Reader) Codec {
	head, _ := r.Peek(4)
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	case bytes.HasPrefix(head, bzip2Magic):
		return Bzip2
	}
	return None
}

// Read decodes a reference mapping, detecting its compression.
func Read(r io.Reader) (*Store, error) {
	raw, err := decompress(r)
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// Load reads the reference file at path.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open reference")
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read reference %s", path)
	}
	return s, nil
}

// decompress returns the gob stream held by r.
func decompress(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	var src io.Reader
	switch sniff(br) {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "gzip")
		}
		defer zr.Close()
		src = zr
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "zstd")
		}
		defer zr.Close()
		src = zr
	case Bzip2:
		src = bzip2.NewReader(br)
	default:
		src = br
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "decompress")
	}
	return b, nil
}

func decode(raw []byte) (*Store, error) {
	var m map[int64][]int64
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "decode reference mapping")
	}
	refs := make(map[themeval.DocID]themeval.LabelSet, len(m))
	for id, labels := range m {
		if len(labels) == 0 {
			return nil, errors.Errorf("document %d has no reference theme", id)
		}
		l := make(themeval.LabelSet, len(labels))
		for i, label := range labels {
			l[i] = themeval.LabelID(label)
		}
		refs[themeval.DocID(id)] = l
	}
	return &Store{refs: refs}, nil
}

func encode(s *Store) ([]byte, error) {
	m := make(map[int64][]int64, len(s.refs))
	for id, labels := range s.refs {
		l := make([]int64, len(labels))
		for i, label := range labels {
			l[i] = int64(label)
		}
		m[int64(id)] = l
	}
	var buff bytes.Buffer
	if err := gob.NewEncoder(&buff).Encode(m); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// Write encodes the store with the given codec.
func Write(w io.Writer, s *Store, codec Codec) error {
	raw, err := encode(s)
	if err != nil {
		return errors.Wrap(err, "encode reference mapping")
	}
	switch codec {
	case Gzip:
		zw := gzip.NewWriter(w)
		if _, err := zw.Write(raw); err != nil {
			return errors.Wrap(err, "gzip")
		}
		return zw.Close()
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return errors.Wrap(err, "zstd")
		}
		if _, err := zw.Write(raw); err != nil {
			zw.Close()
			return errors.Wrap(err, "zstd")
		}
		return zw.Close()
	case None:
		_, err := w.Write(raw)
		return err
	}
	return errors.Errorf("cannot write reference with codec %q", codec)
}

// Save writes the store to path.
func Save(path string, s *Store, codec Codec) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0664)
	if err != nil {
		return errors.Wrap(err, "create reference")
	}
	if err := Write(f, s, codec); err != nil {
		f.Close()
		return errors.Wrapf(err, "write reference %s", path)
	}
	return f.Close()
}
