package main

import (
	"context"
	"fmt"
	"log"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/w-h-a/semsearch/embedder"
	openaiembedder "github.com/w-h-a/semsearch/embedder/openai"
	"github.com/w-h-a/semsearch/loader"
	"github.com/w-h-a/semsearch/storer"
	pineconestorer "github.com/w-h-a/semsearch/storer/pinecone"
)

var (
	cfg struct {
		File string `arg:"" help:"Path to the CSV file of support emails" default:"emails.csv"`

		PineconeApiKey string `help:"API key for pinecone" default:"" env:"PINECONE_API_KEY"`
		PineconeIndex  string `help:"Name of the pinecone index" default:"" env:"PINECONE_INDEX_NAME"`
		PineconeRegion string `help:"Region for the pinecone serverless index" default:"us-east-1" env:"PINECONE_REGION"`

		OpenAIApiKey   string `help:"API key for OpenAI" default:"" env:"OPENAI_API_KEY"`
		EmbeddingModel string `help:"Model identifier for vector embeddings" default:"text-embedding-3-small" env:"EMBEDDING_MODEL"`
		Dimension      int    `help:"Vector dimension of the index" default:"1536" env:"EMBEDDING_DIMENSION"`
	}
)

func main() {
	// Parse inputs
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)
	ctx := context.Background()

	rows, err := loader.Load(cfg.File)
	if err != nil {
		log.Fatalf("❌ failed to load %s: %v", cfg.File, err)
	}

	fmt.Printf("Uploading %d emails to the vector store...\n", len(rows))

	e := openaiembedder.NewEmbedder(
		embedder.WithApiKey(cfg.OpenAIApiKey),
		embedder.WithModel(cfg.EmbeddingModel),
		embedder.WithDimension(cfg.Dimension),
	)

	st := pineconestorer.NewStorer(
		storer.WithApiKey(cfg.PineconeApiKey),
		storer.WithIndex(cfg.PineconeIndex),
		storer.WithRegion(cfg.PineconeRegion),
		storer.WithVectorSize(cfg.Dimension),
	)

	count, err := loader.Upload(ctx, e, st, rows)
	if err != nil {
		log.Fatalf("❌ upload failed: %v", err)
	}

	fmt.Printf("✅ Uploaded %d vectors.\n", count)
}
