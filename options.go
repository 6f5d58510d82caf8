package stackpool

type options struct {
	capacity    int
	logger      *Logger
	compression CompressionType
}

// Option configures Pool construction.
type Option func(*options)

// WithCapacity pre-sizes the pool for n nodes, so that the first n pushes
// never reallocate. Equivalent to calling Reserve(n) on a fresh pool.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithLogger sets the logger used on the snapshot I/O boundary. Handle
// operations never log. If unset, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCompression selects the compression algorithm used by WriteSnapshot.
// The default is CompressionNone. ReadSnapshot ignores this setting and
// honors the algorithm recorded in the snapshot header.
func WithCompression(c CompressionType) Option {
	return func(o *options) {
		o.compression = c
	}
}
