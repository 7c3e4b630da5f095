package cmd

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/relex/ecs-formatter/base"
	"github.com/relex/ecs-formatter/format"
	"github.com/relex/ecs-formatter/input"
	"github.com/relex/ecs-formatter/output/jsonline"
	"github.com/relex/gotils/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenReader yields its head and then fails instead of reporting EOF
type brokenReader struct {
	head io.Reader
	err  error
}

func (r *brokenReader) Read(p []byte) (int, error) {
	n, rerr := r.head.Read(p)
	if rerr == io.EOF {
		return n, r.err
	}
	return n, rerr
}

func TestFormatStreamGzipReadableAfterError(t *testing.T) {
	index, serr := base.NewSchemaIndex(strings.NewReader(`
http:
  fields:
    request:
      fields:
        method: {}
`))
	require.Nil(t, serr)
	cfg := format.NewConfig()
	formatter := cfg.NewFormatter(index, logger.Root(), base.NewMetricFactory("testecscmd_gzip_", nil, nil))

	streamErr := errors.New("stream detached")
	in := &brokenReader{
		head: strings.NewReader(`{"level_name":"INFO","channel":"app","message":"hi"}` + "\n"),
		err:  streamErr,
	}

	sink := &bytes.Buffer{}
	gzipper := gzip.NewWriter(sink)
	ferr := formatStream(input.NewRecordReader(in, logger.Root()), formatter, jsonline.NewSerializer(), gzipper)
	assert.Equal(t, streamErr, ferr)

	// the run command closes the gzip stream before aborting; records written so far must survive
	require.Nil(t, gzipper.Close())
	unzipper, uerr := gzip.NewReader(bytes.NewReader(sink.Bytes()))
	require.Nil(t, uerr)
	decompressed, derr := io.ReadAll(unzipper)
	require.Nil(t, derr)
	assert.Contains(t, string(decompressed), `"message":"hi"`)
}
