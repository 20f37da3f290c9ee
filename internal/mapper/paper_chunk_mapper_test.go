package mapper

import (
	"testing"
	"time"

	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/model"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPaperChunkMapperRoundTrip(t *testing.T) {
	m := NewPaperChunkMapper()

	in := &entity.PaperChunk{
		Id:         uuid.New(),
		PaperId:    uuid.New(),
		Content:    "Attention mechanisms weigh token interactions by learned relevance.",
		ChunkIndex: 4,
		CreatedAt:  time.Now(),
	}

	got := m.ToEntity(m.ToModel(in))
	require.NotNil(t, got)

	assert.Equal(t, in.Id, got.Id)
	assert.Equal(t, in.PaperId, got.PaperId)
	assert.Equal(t, in.Content, got.Content)
	assert.Equal(t, in.ChunkIndex, got.ChunkIndex)
	assert.False(t, got.IsDeleted)
}

func TestPaperChunkMapperSoftDelete(t *testing.T) {
	m := NewPaperChunkMapper()

	deleted := time.Now().Add(-time.Hour)
	got := m.ToEntity(&model.PaperChunk{
		Id:        uuid.New(),
		PaperId:   uuid.New(),
		Content:   "stale chunk",
		DeletedAt: gorm.DeletedAt{Time: deleted, Valid: true},
	})
	require.NotNil(t, got)

	assert.True(t, got.IsDeleted)
	require.NotNil(t, got.DeletedAt)
	assert.WithinDuration(t, deleted, *got.DeletedAt, time.Second)
}

func TestChunkEmbeddingMapperRoundTrip(t *testing.T) {
	m := NewChunkEmbeddingMapper()

	values := []float32{0.1, -0.5, 0.25}
	in := &entity.ChunkEmbedding{
		Id:             uuid.New(),
		ChunkId:        uuid.New(),
		PaperId:        uuid.New(),
		EmbeddingValue: values,
		CreatedAt:      time.Now(),
	}

	mdl := m.ToModel(in)
	require.NotNil(t, mdl)
	assert.Equal(t, pgvector.NewVector(values), mdl.EmbeddingValue)

	got := m.ToEntity(mdl)
	require.NotNil(t, got)
	assert.Equal(t, in.ChunkId, got.ChunkId)
	assert.Equal(t, in.PaperId, got.PaperId)
	assert.Equal(t, values, got.EmbeddingValue)
}

func TestChunkEmbeddingMapperNil(t *testing.T) {
	m := NewChunkEmbeddingMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
}
