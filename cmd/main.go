package main

import (
	"log"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/w-h-a/semsearch/embedder"
	googleembedder "github.com/w-h-a/semsearch/embedder/google"
	openaiembedder "github.com/w-h-a/semsearch/embedder/openai"
	"github.com/w-h-a/semsearch/generator"
	anthropicgenerator "github.com/w-h-a/semsearch/generator/anthropic"
	openaigenerator "github.com/w-h-a/semsearch/generator/openai"
	"github.com/w-h-a/semsearch/internal/service"
	"github.com/w-h-a/semsearch/server"
	httpserver "github.com/w-h-a/semsearch/server/http"
	"github.com/w-h-a/semsearch/storer"
	memorystorer "github.com/w-h-a/semsearch/storer/memory"
	pineconestorer "github.com/w-h-a/semsearch/storer/pinecone"
	postgresstorer "github.com/w-h-a/semsearch/storer/postgres"
)

var (
	cfg struct {
		// Server config
		Address string `help:"Address for the http server to listen on" default:":8000" env:"ADDRESS"`

		// Storer config
		Storer         string `help:"Vector store backend (pinecone, postgres, memory)" default:"pinecone" env:"STORER"`
		PineconeApiKey string `help:"API key for pinecone" default:"" env:"PINECONE_API_KEY"`
		PineconeIndex  string `help:"Name of the pinecone index" default:"" env:"PINECONE_INDEX_NAME"`
		PineconeRegion string `help:"Region for the pinecone serverless index" default:"us-east-1" env:"PINECONE_REGION"`
		PostgresUrl    string `help:"Connection string for the postgres backend" default:"" env:"POSTGRES_URL"`

		// Embedder config
		Embedder       string `help:"Embedding provider (openai, google)" default:"openai" env:"EMBEDDER"`
		OpenAIApiKey   string `help:"API key for OpenAI" default:"" env:"OPENAI_API_KEY"`
		GoogleApiKey   string `help:"API key for Google" default:"" env:"GOOGLE_API_KEY"`
		EmbeddingModel string `help:"Model identifier for vector embeddings" default:"text-embedding-3-small" env:"EMBEDDING_MODEL"`
		Dimension      int    `help:"Vector dimension of the index" default:"1536" env:"EMBEDDING_DIMENSION"`

		// Generator config
		Generator       string `help:"Reply draft provider (openai, anthropic, or empty to disable)" default:"" env:"GENERATOR"`
		AnthropicApiKey string `help:"API key for Anthropic" default:"" env:"ANTHROPIC_API_KEY"`
		GeneratorModel  string `help:"Model identifier for reply drafting" default:"gpt-3.5-turbo" env:"GENERATOR_MODEL"`
	}
)

func main() {
	// Parse inputs
	_ = godotenv.Load()
	_ = kong.Parse(&cfg)

	// Create providers
	e := newEmbedder()
	st := newStorer()
	g := newGenerator()

	// Create service
	svc := service.New(e, st, g, cfg.Dimension)

	// Create server
	srv := httpserver.NewServer(
		svc,
		server.WithAddress(cfg.Address),
		httpserver.WithMiddleware(
			httpserver.CORS,
			httpserver.Logging,
		),
	)

	log.Fatal(srv.Run())
}

func newEmbedder() embedder.Embedder {
	switch strings.ToLower(cfg.Embedder) {
	case "google":
		return googleembedder.NewEmbedder(
			embedder.WithApiKey(cfg.GoogleApiKey),
			embedder.WithModel(cfg.EmbeddingModel),
			embedder.WithDimension(cfg.Dimension),
		)
	default:
		return openaiembedder.NewEmbedder(
			embedder.WithApiKey(cfg.OpenAIApiKey),
			embedder.WithModel(cfg.EmbeddingModel),
			embedder.WithDimension(cfg.Dimension),
		)
	}
}

func newStorer() storer.Storer {
	switch strings.ToLower(cfg.Storer) {
	case "postgres":
		return postgresstorer.NewStorer(
			storer.WithLocation(cfg.PostgresUrl),
			storer.WithVectorSize(cfg.Dimension),
		)
	case "memory":
		return memorystorer.NewStorer(
			storer.WithVectorSize(cfg.Dimension),
		)
	default:
		return pineconestorer.NewStorer(
			storer.WithApiKey(cfg.PineconeApiKey),
			storer.WithIndex(cfg.PineconeIndex),
			storer.WithRegion(cfg.PineconeRegion),
			storer.WithVectorSize(cfg.Dimension),
		)
	}
}

func newGenerator() generator.Generator {
	switch strings.ToLower(cfg.Generator) {
	case "openai":
		return openaigenerator.NewGenerator(
			generator.WithApiKey(cfg.OpenAIApiKey),
			generator.WithModel(cfg.GeneratorModel),
		)
	case "anthropic":
		return anthropicgenerator.NewGenerator(
			generator.WithApiKey(cfg.AnthropicApiKey),
			generator.WithModel(cfg.GeneratorModel),
		)
	default:
		return nil
	}
}
