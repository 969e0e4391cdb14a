package schemaidx

import (
	"errors"
	"fmt"

	"github.com/hupe1980/schemaidx/codec"
	"github.com/hupe1980/schemaidx/internal/manifest"
	"github.com/hupe1980/schemaidx/internal/resource"
	"github.com/hupe1980/schemaidx/layout"
	"github.com/hupe1980/schemaidx/segment"
)

var (
	// ErrClosed is returned by operations on a closed index.
	ErrClosed = errors.New("index closed")

	// ErrUniqueConstraint is returned when a unique index already maps the
	// value to another entity.
	ErrUniqueConstraint = errors.New("unique constraint violation")

	// ErrIndexExists is returned by Create when the index already exists.
	ErrIndexExists = errors.New("index already exists")

	// ErrIndexNotFound is returned by Open when no index exists under the name.
	ErrIndexNotFound = errors.New("index not found")

	// ErrInvalidName is returned for index names that are not usable as blob prefixes.
	ErrInvalidName = errors.New("invalid index name")

	// ErrFormatMismatch is returned when persisted data was written by a
	// different layout or major version. The *layout.FormatMismatchError
	// stays reachable through errors.As.
	ErrFormatMismatch = errors.New("format mismatch")

	// ErrCorrupt is returned for segments or manifests that fail integrity checks.
	ErrCorrupt = errors.New("corrupt index data")

	// ErrMemoryLimit is returned when a single entry exceeds the memtable limit.
	ErrMemoryLimit = errors.New("memtable limit exceeded")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, layout.ErrFormatMismatch):
		return fmt.Errorf("%w: %w", ErrFormatMismatch, err)
	case errors.Is(err, manifest.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrIndexNotFound, err)
	case errors.Is(err, segment.ErrCorrupt),
		errors.Is(err, segment.ErrInvalidMagic),
		errors.Is(err, manifest.ErrCorrupt),
		errors.Is(err, codec.ErrCorruptBlock):
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	case errors.Is(err, resource.ErrMemoryLimitExceeded):
		return fmt.Errorf("%w: %w", ErrMemoryLimit, err)
	}

	return err
}
