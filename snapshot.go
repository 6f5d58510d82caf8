package stackpool

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used for snapshots.
type CompressionType uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

const (
	snapshotMagic   uint32 = 0x53504f4c // "SPOL"
	snapshotVersion uint8  = 1

	// lz4MaxExpansion bounds the plausible ratio of declared uncompressed
	// size to compressed input for an LZ4 block.
	lz4MaxExpansion = 255
)

// snapshotHeader precedes the (possibly compressed) gob payload.
// Format: [Magic uint32][Version uint8][Compression uint8][UncompressedSize uint32]
type snapshotHeader struct {
	Magic            uint32
	Version          uint8
	Compression      uint8
	UncompressedSize uint32
}

// GobEncode implements gob.GobEncoder. Node values and links are encoded as
// parallel slices because gob requires exported fields.
func (p *Pool[T]) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)

	values := make([]T, len(p.nodes))
	nexts := make([]Index, len(p.nodes))

	for i, n := range p.nodes {
		values[i] = n.value
		nexts[i] = n.next
	}

	if err := encoder.Encode(values); err != nil {
		return nil, err
	}

	if err := encoder.Encode(nexts); err != nil {
		return nil, err
	}

	if err := encoder.Encode(p.free); err != nil {
		return nil, err
	}

	if err := encoder.Encode(p.pushes); err != nil {
		return nil, err
	}

	if err := encoder.Encode(p.recycled); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder. Logger and compression settings of
// the receiver are kept.
func (p *Pool[T]) GobDecode(data []byte) error {
	decoder := gob.NewDecoder(bytes.NewBuffer(data))

	var (
		values []T
		nexts  []Index
	)

	if err := decoder.Decode(&values); err != nil {
		return err
	}

	if err := decoder.Decode(&nexts); err != nil {
		return err
	}

	if len(values) != len(nexts) {
		return fmt.Errorf("%w: %d values vs %d links", ErrInvalidSnapshot, len(values), len(nexts))
	}

	var (
		free     Index
		pushes   uint64
		recycled uint64
	)

	if err := decoder.Decode(&free); err != nil {
		return err
	}

	if err := decoder.Decode(&pushes); err != nil {
		return err
	}

	if err := decoder.Decode(&recycled); err != nil {
		return err
	}

	// The snapshot surface is the one untrusted input path: reject links
	// pointing outside the node array here, so ordinary handle operations
	// on the restored pool stay trusted.
	limit := Index(len(values))
	if free > limit {
		return fmt.Errorf("%w: free head %d beyond %d nodes", ErrInvalidSnapshot, free, len(values))
	}

	for i, next := range nexts {
		if next > limit {
			return fmt.Errorf("%w: node %d links to %d beyond %d nodes", ErrInvalidSnapshot, i+1, next, len(values))
		}
	}

	p.free = free
	p.pushes = pushes
	p.recycled = recycled

	p.nodes = make([]node[T], len(values))
	for i := range values {
		p.nodes[i] = node[T]{value: values[i], next: nexts[i]}
	}

	return nil
}

// WriteSnapshot writes the full pool state to w, framed and compressed
// according to the pool's WithCompression setting. Every issued Index stays
// valid against a pool restored from the snapshot.
func (p *Pool[T]) WriteSnapshot(w io.Writer) error {
	payload, err := p.GobEncode()
	if err != nil {
		return fmt.Errorf("failed to encode pool: %w", err)
	}

	if uint64(len(payload)) > math.MaxUint32 {
		return fmt.Errorf("stackpool: snapshot payload of %d bytes exceeds format limit", len(payload))
	}

	compression := p.compression

	data, err := compressPayload(payload, compression)
	if err != nil {
		return fmt.Errorf("failed to compress snapshot: %w", err)
	}

	// Incompressible payloads are stored raw.
	if len(data) >= len(payload) {
		compression = CompressionNone
		data = payload
	}

	header := snapshotHeader{
		Magic:            snapshotMagic,
		Version:          snapshotVersion,
		Compression:      uint8(compression),
		UncompressedSize: uint32(len(payload)),
	}

	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot payload: %w", err)
	}

	if p.logger != nil {
		p.logger.Debug("snapshot written",
			"nodes", len(p.nodes),
			"payload_bytes", len(payload),
			"written_bytes", len(data),
			"compression", compression,
		)
	}

	return nil
}

// ReadSnapshot replaces the pool state with a snapshot previously produced
// by WriteSnapshot. The compression algorithm recorded in the snapshot
// header is honored regardless of the pool's own setting.
func (p *Pool[T]) ReadSnapshot(r io.Reader) error {
	var header snapshotHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read snapshot header: %w", err)
	}

	if header.Magic != snapshotMagic {
		return fmt.Errorf("%w: bad magic 0x%08x", ErrInvalidSnapshot, header.Magic)
	}

	if header.Version != snapshotVersion {
		return fmt.Errorf("%w: got version %d, want %d", ErrSnapshotVersion, header.Version, snapshotVersion)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot payload: %w", err)
	}

	payload, err := decompressPayload(data, CompressionType(header.Compression), int(header.UncompressedSize))
	if err != nil {
		return fmt.Errorf("failed to decompress snapshot: %w", err)
	}

	if err := p.GobDecode(payload); err != nil {
		return fmt.Errorf("failed to decode pool: %w", err)
	}

	if p.logger != nil {
		p.logger.Debug("snapshot restored",
			"nodes", len(p.nodes),
			"payload_bytes", len(payload),
			"compression", CompressionType(header.Compression),
		)
	}

	return nil
}

func compressPayload(payload []byte, compression CompressionType) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return payload, nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(payload)))

		var c lz4.Compressor

		n, err := c.CompressBlock(payload, buf)
		if err != nil {
			return nil, err
		}

		if n == 0 { // incompressible
			return payload, nil
		}

		return buf[:n], nil
	case CompressionZSTD:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer enc.Close()

		return enc.EncodeAll(payload, nil), nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidSnapshot, compression)
	}
}

func decompressPayload(data []byte, compression CompressionType, uncompressedSize int) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		// The declared size comes from the untrusted header. LZ4 block
		// compression cannot expand beyond 255x, so anything larger is
		// corrupt and must not drive the allocation below.
		if uncompressedSize > lz4MaxExpansion*len(data) {
			return nil, fmt.Errorf("%w: declared size %d implausible for %d compressed bytes",
				ErrInvalidSnapshot, uncompressedSize, len(data))
		}

		buf := make([]byte, uncompressedSize)

		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			return nil, err
		}

		return buf[:n], nil
	case CompressionZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()

		return dec.DecodeAll(data, nil)
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrInvalidSnapshot, compression)
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}
