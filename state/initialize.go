package state

import (
	"fmt"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

// LookupEncoding resolves IANA encoding name. Empty name and UTF-8 mean no
// decoding is necessary and return nil.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if len(name) == 0 {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q is not supported", name)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}
