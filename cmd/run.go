package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/relex/ecs-formatter/base"
	"github.com/relex/ecs-formatter/format"
	"github.com/relex/ecs-formatter/input"
	"github.com/relex/ecs-formatter/output/jsonline"
	"github.com/relex/ecs-formatter/output/msgpackline"
	"github.com/relex/ecs-formatter/util"
	"github.com/relex/gotils/logger"
)

type runCommandState struct {
	Config      string `help:"Configuration file path"`
	MetricsAddr string `help:"The listener address to expose Prometheus metrics and debug information, empty to disable"`
	Gzip        bool   `help:"Compress the output stream with gzip"`
}

var runCmd = runCommandState{
	Config:      "config.yml",
	MetricsAddr: "",
	Gzip:        false,
}

type appConfig struct {
	SchemaFile string        `yaml:"schemaFile"`
	Output     string        `yaml:"output"`
	Formatter  format.Config `yaml:"formatter"`
}

func (cmd *runCommandState) run(args []string) {
	conf := appConfig{
		SchemaFile: "",
		Output:     "json",
		Formatter:  format.NewConfig(),
	}
	if err := util.UnmarshalYamlFile(cmd.Config, &conf); err != nil {
		logger.Fatalf("failed to load config '%s': %s", cmd.Config, err.Error())
	}
	if len(conf.SchemaFile) == 0 {
		logger.Fatalf("config '%s': .schemaFile is unspecified", cmd.Config)
	}
	if err := conf.Formatter.VerifyConfig(); err != nil {
		logger.Fatalf("config '%s': .formatter%s", cmd.Config, err.Error())
	}

	var serializer base.DocumentSerializer
	switch conf.Output {
	case "json":
		serializer = jsonline.NewSerializer()
	case "msgpack":
		serializer = msgpackline.NewSerializer()
	default:
		logger.Fatalf("config '%s': unsupported .output '%s'", cmd.Config, conf.Output)
	}

	schema := base.MustNewSchemaIndexFromFile(conf.SchemaFile)
	mfactory := base.NewMetricFactory("ecs_formatter_", nil, nil)
	formatter := conf.Formatter.NewFormatter(schema, logger.Root(), mfactory)

	var msrv *http.Server
	if cmd.MetricsAddr != "" {
		msrv = util.LaunchMetricsListener(cmd.MetricsAddr)
	}

	var out io.Writer = os.Stdout
	var gzipper *gzip.Writer
	if cmd.Gzip {
		gzipper = gzip.NewWriter(os.Stdout)
		out = gzipper
	}

	ferr := formatStream(input.NewRecordReader(os.Stdin, logger.Root()), formatter, serializer, out)

	// flush the gzip trailer before any fatal exit, or the stream written so far is unreadable
	if gzipper != nil {
		if cerr := gzipper.Close(); cerr != nil {
			logger.Errorf("failed to finish gzip stream: %s", cerr.Error())
		}
	}
	if ferr != nil {
		logger.Fatalf("failed to process input: %s", ferr.Error())
	}

	if msrv != nil {
		if err := msrv.Shutdown(context.Background()); err != nil {
			logger.Errorf("error shutting down metrics listener: %v", err)
		}
	}
}

// formatStream runs the read-format-serialize loop until the input ends.
// Undecodable lines are logged and skipped, so one bad record doesn't abort the stream.
func formatStream(reader *input.RecordReader, formatter *format.Formatter, serializer base.DocumentSerializer, out io.Writer) error {
	for {
		record, rerr := reader.Read()
		switch {
		case rerr == io.EOF:
			return nil
		case errors.Is(rerr, input.ErrInvalidRecord):
			logger.Errorf("skipped record: %s", rerr.Error())
			continue
		case rerr != nil:
			return rerr
		}
		encoded, serr := serializer.SerializeDocument(formatter.FormatRecord(record))
		if serr != nil {
			return fmt.Errorf("failed to serialize record: %w", serr)
		}
		if _, werr := out.Write(encoded); werr != nil {
			return fmt.Errorf("failed to write output: %w", werr)
		}
	}
}
