package qtlscan

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// Input is an opened, possibly decompressed, input stream. Closing it closes
// every underlying handle that was opened on its behalf.
type Input struct {
	io.Reader
	Path     string
	DataType DataType

	closers []io.Closer
}

// Close closes the decompressor (if any) and then the underlying file or
// object reader. The first error encountered is returned.
func (in *Input) Close() error {
	var first error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	in.closers = nil

	return first
}

// SplitGSPath splits a gs://bucket/path/to/object URL into its bucket and
// object names.
func SplitGSPath(path string) (bucket, object string, err error) {
	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// OpenInput opens path for reading. Paths starting with gs:// are read from
// Google Storage through client, which must then be non-nil; everything else
// is treated as a local file. Compressed inputs are transparently
// decompressed. If OpenInput returns an error, nothing is left open.
func OpenInput(ctx context.Context, path string, client *storage.Client) (*Input, error) {
	in := &Input{Path: path}

	var raw io.ReadCloser
	if strings.HasPrefix(path, "gs://") {
		if client == nil {
			return nil, fmt.Errorf("%s: a Google Storage client is required to read gs:// paths", path)
		}

		bucketName, pathName, err := SplitGSPath(path)
		if err != nil {
			return nil, err
		}

		rdr, err := client.Bucket(bucketName).Object(pathName).NewReader(ctx)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}
		raw = rdr
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		raw = f
	}
	in.closers = append(in.closers, raw)

	r, dt, err := MaybeDecompress(raw)
	if err != nil {
		in.Close()
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	in.Reader = r
	in.DataType = dt

	// Some decompressors hold resources of their own.
	if c, ok := r.(io.Closer); ok && dt != DataTypeNoCompression {
		in.closers = append(in.closers, c)
	}

	return in, nil
}
