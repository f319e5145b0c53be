package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	log "github.com/jensneuse/abstractlogger"
	"github.com/spf13/cobra"

	"github.com/wundergraph/graphql-cacheid/pkg/cacheid"
	"github.com/wundergraph/graphql-cacheid/pkg/querydocument"
	"github.com/wundergraph/graphql-cacheid/pkg/responsejson"
)

var (
	replayInputFile string
	replayPopulate  bool
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "replay runs a log of cache writes through identifier population",
	Long: `replay reads a stream of cache write records and writes one {"dataId", "result"} line per record,
the result carrying the injected identifiers. A record is a JSON object:

  {"query": "...", "operationName": "...", "variables": {...}, "fragmentName": "...", "dataId": "ROOT_QUERY", "result": {...}}

Documents are parsed once per distinct query and shared by all records using it.`,
	Example: `cacheid replay --input ./writes.ndjson
cat writes.ndjson | cacheid replay --documentCacheSize 1024`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		logger, sync, err := newLogger(config.Debug)
		if err != nil {
			return err
		}
		defer sync()

		documents, err := querydocument.NewCache(config.DocumentCacheSize)
		if err != nil {
			return err
		}

		input, err := readInput(cmd, replayInputFile)
		if err != nil {
			return err
		}

		writer := cacheid.NewWriter(
			&lineCacheWriter{out: cmd.OutOrStdout()},
			cacheid.New(config.Config, cacheid.WithLogger(logger)),
			documents,
			replayPopulate,
			cacheid.WithLogger(logger),
		)

		records, err := replay(context.Background(), writer, input)
		if err != nil {
			return err
		}

		stats := writer.DocumentStats()
		logger.Info("cmd.replay",
			log.Int("records", records),
			log.Int("documents", documents.Len()),
			log.Any("documentCacheHits", stats.Hits),
			log.Any("documentCacheMisses", stats.Misses),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayInputFile, "input", "i", stdin, "file holding the write records, - reads stdin")
	replayCmd.Flags().BoolVar(&replayPopulate, "populate", true, "populate identifiers, false passes results through")
}

func replay(ctx context.Context, writer *cacheid.Writer, input []byte) (int, error) {
	decoder := json.NewDecoder(bytes.NewReader(input))

	records := 0
	for {
		var raw json.RawMessage
		err := decoder.Decode(&raw)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("record %d: %w", records+1, err)
		}
		records++

		record, err := responsejson.ReadWriteRecord(raw)
		if err != nil {
			return records, fmt.Errorf("record %d: %w", records, err)
		}
		result, err := responsejson.Decode(record.Result)
		if err != nil {
			return records, fmt.Errorf("record %d: %w", records, err)
		}

		dataID := record.DataID
		if dataID == "" {
			dataID = cacheid.RootQuery
		}

		err = writer.Write(ctx, cacheid.WriteRequest{
			Operation: cacheid.Operation{
				OperationName: record.OperationName,
				FragmentName:  record.FragmentName,
				Variables:     record.Variables,
				DataID:        dataID,
			},
			Query:  record.Query,
			Result: result,
		})
		if err != nil {
			return records, fmt.Errorf("record %d: %w", records, err)
		}
	}
}

// lineCacheWriter writes every cache write as one JSON line.
type lineCacheWriter struct {
	out io.Writer
}

func (l *lineCacheWriter) Write(_ context.Context, request cacheid.WriteRequest) error {
	line, err := responsejson.Encode(map[string]interface{}{
		"dataId": request.Operation.DataID,
		"result": request.Result,
	})
	if err != nil {
		return err
	}
	_, err = l.out.Write(append(line, '\n'))
	return err
}
