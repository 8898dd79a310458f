// Single-pixel PNG writer.
//
// Output layout: signature, IHDR, cICP, IDAT, IEND. The cICP chunk tags the
// pixel as Display P3 primaries with the sRGB transfer curve, so conforming
// viewers do not fall back to plain sRGB. Each chunk is framed as
// length(4) + type(4) + data + crc32(type+data), all big-endian.

package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/klauspost/compress/zlib"
)

var pngSignature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Coding-independent code points (ITU-T H.273).
const (
	cicpPrimariesDisplayP3 = 12
	cicpTransferSRGB       = 13
	cicpMatrixIdentity     = 0
	cicpFullRange          = 1
)

// PNG color types.
const (
	colorTypeRGB  = 2
	colorTypeRGBA = 6
)

// Options selects the output sample layout.
type Options struct {
	BitDepth     int // 8 or 16
	IncludeAlpha bool
}

func (o Options) colorType() byte {
	if o.IncludeAlpha {
		return colorTypeRGBA
	}
	return colorTypeRGB
}

// EncodingError reports an internal framing or quantization failure.
type EncodingError struct {
	Chunk string
	Len   int
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Chunk != "" {
		return fmt.Sprintf("png: chunk %s: %d bytes: %v", e.Chunk, e.Len, e.Err)
	}
	return fmt.Sprintf("png: %v", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// IOError reports a failure to create or write the destination.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Encoder writes single-pixel PNG files. It keeps its scanline buffer and
// zlib writer between calls; it is not safe for concurrent use.
type Encoder struct {
	raw  []byte
	comp bytes.Buffer
	zw   *zlib.Writer
}

// NewEncoder returns an Encoder using the default zlib compression level.
func NewEncoder() *Encoder {
	zw, err := zlib.NewWriterLevel(io.Discard, zlib.DefaultCompression)
	if err != nil {
		// DefaultCompression is always a valid level.
		panic(err)
	}
	return &Encoder{zw: zw}
}

var encPool = sync.Pool{
	New: func() any { return NewEncoder() },
}

// Encode writes s as a one-pixel PNG to w using a pooled Encoder.
func Encode(w io.Writer, s Sample, opts Options) error {
	e := encPool.Get().(*Encoder)
	defer encPool.Put(e)
	return e.EncodeTo(w, s, opts)
}

// EncodeTo writes s as a one-pixel PNG to w. Writes go straight to w chunk
// by chunk; on failure w holds whatever was written up to that point.
func (e *Encoder) EncodeTo(w io.Writer, s Sample, opts Options) error {
	if opts.BitDepth != 8 && opts.BitDepth != 16 {
		return &EncodingError{Err: fmt.Errorf("bit depth must be 8 or 16, got %d", opts.BitDepth)}
	}

	idat, err := e.compressScanline(s, opts)
	if err != nil {
		return err
	}

	if _, err := w.Write(pngSignature[:]); err != nil {
		return &IOError{Op: "write signature", Err: err}
	}

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], 1)
	binary.BigEndian.PutUint32(ihdr[4:8], 1)
	ihdr[8] = byte(opts.BitDepth)
	ihdr[9] = opts.colorType()
	// compression, filter and interlace methods stay 0.
	if err := writeChunk(w, "IHDR", ihdr[:]); err != nil {
		return err
	}

	cicp := []byte{cicpPrimariesDisplayP3, cicpTransferSRGB, cicpMatrixIdentity, cicpFullRange}
	if err := writeChunk(w, "cICP", cicp); err != nil {
		return err
	}
	if err := writeChunk(w, "IDAT", idat); err != nil {
		return err
	}
	return writeChunk(w, "IEND", nil)
}

// compressScanline builds the single filtered scanline (filter type 0, then
// R, G, B and optionally A) and deflates it into e.comp.
func (e *Encoder) compressScanline(s Sample, opts Options) ([]byte, error) {
	e.raw = append(e.raw[:0], 0)

	channels := []float64{s.R, s.G, s.B}
	if opts.IncludeAlpha {
		channels = append(channels, s.A)
	}
	for _, v := range channels {
		var err error
		if e.raw, err = appendSample(e.raw, v, opts.BitDepth); err != nil {
			return nil, &EncodingError{Chunk: "IDAT", Len: len(e.raw), Err: err}
		}
	}

	e.comp.Reset()
	e.zw.Reset(&e.comp)
	if _, err := e.zw.Write(e.raw); err != nil {
		return nil, &EncodingError{Chunk: "IDAT", Len: len(e.raw), Err: fmt.Errorf("zlib: %w", err)}
	}
	if err := e.zw.Close(); err != nil {
		return nil, &EncodingError{Chunk: "IDAT", Len: len(e.raw), Err: fmt.Errorf("zlib: %w", err)}
	}
	Logger().Debug("scanline compressed", "raw", len(e.raw), "compressed", e.comp.Len())
	return e.comp.Bytes(), nil
}

// chunkLength checks that a payload of n bytes fits the 32-bit length field.
func chunkLength(typ string, n int) (uint32, error) {
	l, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, &EncodingError{Chunk: typ, Len: n, Err: err}
	}
	return l, nil
}

// writeChunk frames data as one PNG chunk of the given type.
func writeChunk(w io.Writer, typ string, data []byte) error {
	n, err := chunkLength(typ, len(data))
	if err != nil {
		return err
	}

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], n)
	copy(hdr[4:], typ)

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(data)
	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], crc.Sum32())

	for _, part := range [][]byte{hdr[:], data, trailer[:]} {
		if len(part) == 0 {
			continue
		}
		if _, err := w.Write(part); err != nil {
			return &IOError{Op: "write " + typ, Err: err}
		}
	}
	Logger().Debug("chunk written", "type", typ, "len", n)
	return nil
}

// WriteFile encodes s into a new file at path, replacing any existing file.
// A failed write may leave a partial file behind.
func WriteFile(path string, s Sample, opts Options) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if err := Encode(f, s, opts); err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = path
		}
		return err
	}
	return nil
}
