package landmark

import "github.com/smartsession/go-smartsession/internal/log"

// FallbackExtractor tries a primary engine and falls back to a secondary one
// when the primary fails. The core never sees which backend ran: either way
// it receives a face count and an optional landmark frame.
type FallbackExtractor struct {
	primary  Extractor
	fallback Extractor
}

// NewFallback wraps primary with a fallback backend.
func NewFallback(primary, fallback Extractor) *FallbackExtractor {
	return &FallbackExtractor{primary: primary, fallback: fallback}
}

// Extract runs the primary engine, switching to the fallback on error.
func (f *FallbackExtractor) Extract(jpeg []byte) (Result, error) {
	result, err := f.primary.Extract(jpeg)
	if err == nil {
		return result, nil
	}

	log.Warn("primary landmark engine failed, using fallback", "error", err)
	return f.fallback.Extract(jpeg)
}

// Close closes both backends, returning the first error encountered.
func (f *FallbackExtractor) Close() error {
	err := f.primary.Close()
	if err2 := f.fallback.Close(); err == nil {
		err = err2
	}
	return err
}
