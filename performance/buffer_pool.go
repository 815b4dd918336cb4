package performance

import (
	"bytes"
	"sync"

	"github.com/shreshta-sdc/shreshta-server/constants"
)

// BufferPool recycles byte buffers across uploaded-file reads. Both
// the screenshot upload and the statement scan copy a multipart part
// into memory; pooling keeps those allocations off the hot path during
// the registration rush.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Buffer{}
	},
}

// GetBuffer returns a reset buffer from the pool.
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool. Oversized buffers are
// dropped so one large statement upload does not pin memory forever.
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= constants.MaxPoolBufferCapacity {
		bufferPool.Put(buf)
	}
}
