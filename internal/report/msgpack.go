package report

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"csvmend/internal/driver"
)

// Msgpack writes the same document as JSON in MessagePack encoding, keyed by
// the JSON field names.
func Msgpack(w io.Writer, results []driver.FileResult, opts JSONOpts) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	return enc.Encode(BuildOutput(results, opts))
}

// DecodeMsgpack reads a document written by Msgpack.
func DecodeMsgpack(r io.Reader) (Output, error) {
	var out Output
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("json")
	err := dec.Decode(&out)
	return out, err
}
