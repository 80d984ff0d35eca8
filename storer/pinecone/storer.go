package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/w-h-a/semsearch/storer"
)

const defaultControlPlane = "https://api.pinecone.io"

type pineconeStorer struct {
	options storer.Options
	client  *http.Client
	control string
	data    string
}

func (s *pineconeStorer) Upsert(ctx context.Context, records []storer.Record) (int, error) {
	vectors := make([]vectorModel, 0, len(records))

	for _, rec := range records {
		if !storer.Valid(rec, s.options.VectorSize) {
			slog.WarnContext(ctx, "skipping record with missing or malformed vector", "id", rec.Id)
			continue
		}
		vectors = append(vectors, vectorModel{
			Id:       rec.Id,
			Values:   rec.Values,
			Metadata: rec.Metadata,
		})
	}

	if len(vectors) == 0 {
		return 0, nil
	}

	req := upsertRequest{Vectors: vectors}

	var rsp upsertResponse

	if err := s.do(ctx, http.MethodPost, s.data+"/vectors/upsert", req, &rsp); err != nil {
		return 0, err
	}

	return rsp.UpsertedCount, nil
}

func (s *pineconeStorer) Query(ctx context.Context, vector []float32, topK int) ([]storer.Match, error) {
	if topK < 1 {
		return nil, nil
	}

	req := queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	}

	var rsp queryResponse

	if err := s.do(ctx, http.MethodPost, s.data+"/query", req, &rsp); err != nil {
		return nil, err
	}

	matches := make([]storer.Match, 0, len(rsp.Matches))

	for _, m := range rsp.Matches {
		matches = append(matches, storer.Match{
			Id:       m.Id,
			Score:    float32(m.Score),
			Metadata: m.Metadata,
		})
	}

	return matches, nil
}

func (s *pineconeStorer) Fetch(ctx context.Context, ids []string) (map[string]storer.Record, error) {
	if len(ids) == 0 {
		return map[string]storer.Record{}, nil
	}

	params := url.Values{}
	for _, id := range ids {
		params.Add("ids", id)
	}

	var rsp fetchResponse

	if err := s.do(ctx, http.MethodGet, s.data+"/vectors/fetch?"+params.Encode(), nil, &rsp); err != nil {
		return nil, err
	}

	records := make(map[string]storer.Record, len(rsp.Vectors))

	for id, v := range rsp.Vectors {
		records[id] = storer.Record{
			Id:       v.Id,
			Values:   v.Values,
			Metadata: v.Metadata,
		}
	}

	return records, nil
}

func (s *pineconeStorer) do(ctx context.Context, method string, u string, req any, rsp any) error {
	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Api-Key", s.options.ApiKey)
	request.Header.Set("X-Pinecone-Api-Version", "2025-01")

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("pinecone http %d: %s", response.StatusCode, string(payload))
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

func (s *pineconeStorer) configure() error {
	index, err := s.describeIndex()
	if err != nil {
		return err
	}

	if index == nil {
		if err := s.createIndex(); err != nil {
			return err
		}
		index, err = s.describeIndex()
		if err != nil {
			return err
		}
		if index == nil {
			return fmt.Errorf("index %s was created but cannot be described", s.options.Index)
		}
	}

	host := index.Host
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}

	s.data = strings.TrimSuffix(host, "/")

	return nil
}

func (s *pineconeStorer) describeIndex() (*indexModel, error) {
	path := fmt.Sprintf("%s/indexes/%s", s.control, url.PathEscape(s.options.Index))

	var index indexModel

	err := s.do(context.Background(), http.MethodGet, path, nil, &index)
	if err != nil {
		if strings.Contains(err.Error(), "pinecone http 404") {
			return nil, nil
		}
		return nil, err
	}

	return &index, nil
}

func (s *pineconeStorer) createIndex() error {
	req := createIndexRequest{
		Name:      s.options.Index,
		Dimension: s.options.VectorSize,
		Metric:    strings.ToLower(s.options.Metric),
		Spec: indexSpec{
			Serverless: serverlessSpec{
				Cloud:  s.options.Cloud,
				Region: s.options.Region,
			},
		},
	}

	var rsp indexModel

	return s.do(context.Background(), http.MethodPost, s.control+"/indexes", req, &rsp)
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	if len(options.ApiKey) == 0 ||
		len(options.Index) == 0 ||
		options.VectorSize == 0 {
		panic("missing api key, index, or vector size for pinecone storer")
	}

	control := options.Location
	if len(control) == 0 {
		control = defaultControlPlane
	}

	client := &http.Client{
		Timeout: 15 * time.Second,
	}

	s := &pineconeStorer{
		options: options,
		client:  client,
		control: strings.TrimSuffix(control, "/"),
	}

	if err := s.configure(); err != nil {
		panic(err)
	}

	return s
}
