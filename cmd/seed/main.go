// Command seed loads a JSON corpus of papers, chunks and embeds them, and
// fills the synonym table with the built-in defaults.
//
// Corpus format: a JSON array of objects with title, abstract, authors,
// category, year and source_url fields.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"ai-research-hub-be/internal/config"
	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/model"
	"ai-research-hub-be/internal/repository/implementation"
	"ai-research-hub-be/pkg/database"
	"ai-research-hub-be/pkg/embedding"
	"ai-research-hub-be/pkg/rag/rewrite"
)

type seedPaper struct {
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	Authors   string `json:"authors"`
	Category  string `json:"category"`
	Year      int    `json:"year"`
	SourceURL string `json:"source_url"`
}

const (
	chunkSize    = 1500
	chunkOverlap = 200
)

func main() {
	corpusPath := flag.String("corpus", "seed/papers.json", "path to the papers JSON file")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	embedder, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OpenAIBaseURL,
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("Error: Failed to initialize embedding provider: %v", err)
	}

	raw, err := os.ReadFile(*corpusPath)
	if err != nil {
		log.Fatalf("Error: Failed to read corpus %s: %v", *corpusPath, err)
	}
	var papers []seedPaper
	if err := json.Unmarshal(raw, &papers); err != nil {
		log.Fatalf("Error: Failed to parse corpus: %v", err)
	}

	ctx := context.Background()
	paperRepo := implementation.NewPaperRepository(db)
	chunkRepo := implementation.NewPaperChunkRepository(db)
	embeddingRepo := implementation.NewChunkEmbeddingRepository(db)

	log.Printf("Seeding %d papers...", len(papers))

	for i, p := range papers {
		paper := &entity.Paper{
			Id:        uuid.New(),
			Title:     p.Title,
			Abstract:  p.Abstract,
			Authors:   p.Authors,
			Category:  p.Category,
			Year:      p.Year,
			SourceURL: p.SourceURL,
			CreatedAt: time.Now(),
		}
		if err := paperRepo.Create(ctx, paper); err != nil {
			log.Fatalf("Error: Failed to create paper %q: %v", p.Title, err)
		}

		chunks := splitText(p.Abstract, chunkSize, chunkOverlap)
		var chunkEntities []*entity.PaperChunk
		var embeddings []*entity.ChunkEmbedding

		for j, content := range chunks {
			chunk := &entity.PaperChunk{
				Id:         uuid.New(),
				PaperId:    paper.Id,
				Content:    content,
				ChunkIndex: j,
				CreatedAt:  time.Now(),
			}
			chunkEntities = append(chunkEntities, chunk)

			res, err := embedder.Generate(ctx, content, "RETRIEVAL_DOCUMENT")
			if err != nil {
				log.Fatalf("Error: Failed to embed chunk %d of %q: %v", j, p.Title, err)
			}
			embeddings = append(embeddings, &entity.ChunkEmbedding{
				Id:             uuid.New(),
				ChunkId:        chunk.Id,
				PaperId:        paper.Id,
				EmbeddingValue: res.Values,
				CreatedAt:      time.Now(),
			})
		}

		if err := chunkRepo.CreateBulk(ctx, chunkEntities); err != nil {
			log.Fatalf("Error: Failed to create chunks for %q: %v", p.Title, err)
		}
		if err := embeddingRepo.CreateBulk(ctx, embeddings); err != nil {
			log.Fatalf("Error: Failed to create embeddings for %q: %v", p.Title, err)
		}

		log.Printf("[%d/%d] %s (%d chunks)", i+1, len(papers), p.Title, len(chunks))
	}

	log.Println("Seeding synonym table...")
	for term, expansion := range rewrite.DefaultSynonyms {
		row := model.Synonym{Term: term, Expansion: expansion}
		if err := db.Where("term = ?", term).FirstOrCreate(&row).Error; err != nil {
			log.Printf("Warn: Failed to seed synonym %q: %v", term, err)
		}
	}

	log.Println("✅ Success: Corpus seeded.")
}

// splitText cuts text into overlapping rune windows so no chunk exceeds
// the embedding model's comfortable input size.
func splitText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
