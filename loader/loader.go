package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/w-h-a/semsearch/embedder"
	"github.com/w-h-a/semsearch/mapper"
	"github.com/w-h-a/semsearch/storer"
)

const sniffSize = 10000

// DetectEncoding sniffs the charset from the first chunk of the file.
func DetectEncoding(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	raw := make([]byte, sniffSize)
	n, err := f.Read(raw)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	result, err := chardet.NewTextDetector().DetectBest(raw[:n])
	if err != nil {
		return "", fmt.Errorf("detect encoding: %w", err)
	}

	return result.Charset, nil
}

// Load parses a header-driven CSV of support emails into reply threads.
// Rows missing an id or summary are skipped with a log line, never fatal.
func Load(path string) ([]mapper.ReplyThread, error) {
	charset, err := DetectEncoding(path)
	if err != nil {
		return nil, err
	}

	slog.Info("detected file encoding", "path", path, "charset", charset)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if enc, err := htmlindex.Get(charset); err == nil {
		reader = transform.NewReader(f, enc.NewDecoder())
	} else {
		slog.Warn("unrecognized charset, reading raw bytes", "charset", charset)
	}

	cr := csv.NewReader(reader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		col[strings.TrimSpace(name)] = i
	}

	for _, required := range []string{"Email ID", "Email Summary", "Ideal Reply"} {
		if _, exists := col[required]; !exists {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var rows []mapper.ReplyThread
	line := 1

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			slog.Warn("skipping malformed row", "line", line, "error", err)
			continue
		}

		get := func(name string) string {
			if i, exists := col[name]; exists && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		id := get("Email ID")
		summary := get("Email Summary")
		if len(id) == 0 || len(summary) == 0 {
			slog.Warn("skipping row with missing Email ID or Email Summary", "line", line)
			continue
		}

		rows = append(rows, mapper.ReplyThread{
			ThreadID:    id,
			CustomerMsg: summary,
			AIReply:     get("Ideal Reply"),
		})
	}

	return rows, nil
}

// Upload embeds each row and performs one bulk upsert. Rows whose embedding
// fails are skipped so a provider hiccup does not lose the whole batch.
func Upload(ctx context.Context, e embedder.Embedder, s storer.Storer, rows []mapper.ReplyThread) (int, error) {
	records := make([]storer.Record, 0, len(rows))

	for _, row := range rows {
		vector, err := e.Embed(ctx, row.EmbedText())
		if err != nil {
			slog.WarnContext(ctx, "skipping row that failed to embed", "id", row.ThreadID, "error", err)
			continue
		}

		records = append(records, storer.Record{
			Id:       row.ThreadID,
			Values:   vector,
			Metadata: row.Metadata(),
		})
	}

	if len(records) == 0 {
		return 0, errors.New("no valid vectors to upload")
	}

	return s.Upsert(ctx, records)
}
