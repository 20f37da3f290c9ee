package mapper

import (
	"testing"
	"time"

	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryLogMapperRoundTrip(t *testing.T) {
	m := NewQueryLogMapper()

	queryID := uuid.New()
	answer := "Grounded answer citing [1]."
	in := &entity.QueryLog{
		Id:        uuid.New(),
		QueryId:   &queryID,
		RawText:   "latest advances in llm reasoning",
		Answer:    &answer,
		Citations: 3,
		Partial:   true,
		LatencyMs: 842,
		Details:   map[string]interface{}{"diagnostics": []interface{}{"rerank/RERANK_FAILED: model down"}},
		CreatedAt: time.Now(),
	}

	got := m.ToEntity(m.ToModel(in))
	require.NotNil(t, got)

	assert.Equal(t, in.Id, got.Id)
	assert.Equal(t, in.QueryId, got.QueryId)
	assert.Equal(t, in.RawText, got.RawText)
	assert.Equal(t, in.Answer, got.Answer)
	assert.Equal(t, in.Citations, got.Citations)
	assert.Equal(t, in.Partial, got.Partial)
	assert.Equal(t, in.LatencyMs, got.LatencyMs)
	assert.Equal(t, in.Details, got.Details)
}

func TestQueryLogMapperFailedQuery(t *testing.T) {
	m := NewQueryLogMapper()

	kind := "NO_EVIDENCE_FOUND"
	in := &entity.QueryLog{
		Id:        uuid.New(),
		RawText:   "question with no coverage",
		ErrorKind: &kind,
	}

	got := m.ToEntity(m.ToModel(in))
	require.NotNil(t, got)

	assert.Nil(t, got.QueryId)
	assert.Nil(t, got.Answer)
	require.NotNil(t, got.ErrorKind)
	assert.Equal(t, kind, *got.ErrorKind)
	assert.Zero(t, got.Citations)
}

func TestQueryLogMapperNil(t *testing.T) {
	m := NewQueryLogMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
}

func TestQueryLogMapperMalformedDetails(t *testing.T) {
	m := NewQueryLogMapper()

	got := m.ToEntity(&model.QueryLog{
		Id:      uuid.New(),
		RawText: "q",
		Details: []byte("{not json"),
	})
	require.NotNil(t, got)
	assert.Nil(t, got.Details)
}

func TestSynonymMapperToEntity(t *testing.T) {
	m := NewSynonymMapper()

	in := &model.Synonym{
		Id:        uuid.New(),
		Term:      "moe",
		Expansion: "mixture of experts",
		CreatedAt: time.Now(),
	}

	got := m.ToEntity(in)
	require.NotNil(t, got)
	assert.Equal(t, "moe", got.Term)
	assert.Equal(t, "mixture of experts", got.Expansion)
	assert.Nil(t, got.UpdatedAt)
}
