// Package input decodes JSON log record lines into normalized LogRecords ready for formatting.
// It plays the "normalize" collaborator role assumed by the format package: everything it
// produces is plain maps, slices and scalars, bounded by defs.NormalizeMaxDepth.
package input

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/relex/ecs-formatter/base"
	"github.com/relex/ecs-formatter/defs"
	"github.com/relex/gotils/logger"
	"github.com/valyala/fastjson"
)

// ErrInvalidRecord marks lines that could not be decoded; reading may continue past them
var ErrInvalidRecord = errors.New("invalid JSON record")

// RecordReader reads one JSON log record per line from a stream
//
// Not safe for concurrent use; the fastjson parser is reused between lines.
type RecordReader struct {
	reader  *bufio.Reader
	parser  fastjson.Parser
	rlogger logger.Logger
}

// NewRecordReader creates a RecordReader over the given stream
func NewRecordReader(reader io.Reader, parentLogger logger.Logger) *RecordReader {
	return &RecordReader{
		reader:  bufio.NewReaderSize(reader, defs.InputLineBufferSize),
		parser:  fastjson.Parser{},
		rlogger: parentLogger.WithField(defs.LabelComponent, "RecordReader"),
	}
}

// Read returns the next record, io.EOF at the end of the stream, or a parse error.
// Blank lines are skipped; lines over defs.InputLineBufferSize are reported as invalid records.
func (r *RecordReader) Read() (*base.LogRecord, error) {
	for {
		line, lerr := r.readLine()
		if lerr != nil {
			return nil, lerr
		}
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		parsed, perr := r.parser.ParseBytes(trimmed)
		if perr != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRecord, perr.Error())
		}
		return r.buildRecord(parsed, len(trimmed)), nil
	}
}

// readLine returns the next line or io.EOF at the end of the stream. An overlong line is
// discarded whole and reported as an invalid record, so following lines remain readable.
func (r *RecordReader) readLine() ([]byte, error) {
	line, err := r.reader.ReadSlice('\n')
	switch {
	case err == nil:
		return line, nil
	case errors.Is(err, bufio.ErrBufferFull):
		length := len(line)
		for errors.Is(err, bufio.ErrBufferFull) {
			line, err = r.reader.ReadSlice('\n')
			length += len(line)
		}
		if err != nil && err != io.EOF {
			return nil, err
		}
		return nil, fmt.Errorf("%w: line of %d bytes exceeds the %d-byte limit",
			ErrInvalidRecord, length, defs.InputLineBufferSize)
	case err == io.EOF:
		if len(line) > 0 {
			return line, nil
		}
		return nil, io.EOF
	default:
		return nil, err
	}
}

func (r *RecordReader) buildRecord(parsed *fastjson.Value, length int) *base.LogRecord {
	record := &base.LogRecord{
		LevelName: string(parsed.GetStringBytes("level_name")),
		Channel:   string(parsed.GetStringBytes("channel")),
		Message:   string(parsed.GetStringBytes("message")),
		RawLength: length,
	}
	if datetime := parsed.GetStringBytes("datetime"); len(datetime) > 0 {
		tm, terr := time.Parse(time.RFC3339Nano, string(datetime))
		if terr != nil {
			r.rlogger.Warnf("unparseable datetime '%s': %s", datetime, terr.Error())
		} else {
			record.Timestamp = tm
		}
	}
	record.Context = NormalizeObject(parsed.Get("context"), defs.NormalizeMaxDepth)
	record.Extra = NormalizeObject(parsed.Get("extra"), defs.NormalizeMaxDepth)
	return record
}
