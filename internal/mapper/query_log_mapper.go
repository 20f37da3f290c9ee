package mapper

import (
	"encoding/json"
	"time"

	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/model"

	"gorm.io/datatypes"
)

type QueryLogMapper struct{}

func NewQueryLogMapper() *QueryLogMapper {
	return &QueryLogMapper{}
}

func (m *QueryLogMapper) ToEntity(q *model.QueryLog) *entity.QueryLog {
	if q == nil {
		return nil
	}

	var details map[string]interface{}
	if len(q.Details) > 0 {
		// Malformed rows keep a nil map rather than failing the read.
		_ = json.Unmarshal(q.Details, &details)
	}

	return &entity.QueryLog{
		Id:        q.Id,
		QueryId:   q.QueryId,
		RawText:   q.RawText,
		Answer:    q.Answer,
		ErrorKind: q.ErrorKind,
		Citations: q.Citations,
		Partial:   q.Partial,
		LatencyMs: q.LatencyMs,
		Details:   details,
		CreatedAt: q.CreatedAt,
	}
}

func (m *QueryLogMapper) ToModel(q *entity.QueryLog) *model.QueryLog {
	if q == nil {
		return nil
	}

	var details datatypes.JSON
	if q.Details != nil {
		if raw, err := json.Marshal(q.Details); err == nil {
			details = raw
		}
	}

	return &model.QueryLog{
		Id:        q.Id,
		QueryId:   q.QueryId,
		RawText:   q.RawText,
		Answer:    q.Answer,
		ErrorKind: q.ErrorKind,
		Citations: q.Citations,
		Partial:   q.Partial,
		LatencyMs: q.LatencyMs,
		Details:   details,
		CreatedAt: q.CreatedAt,
	}
}

func (m *QueryLogMapper) ToEntities(logs []*model.QueryLog) []*entity.QueryLog {
	entities := make([]*entity.QueryLog, len(logs))
	for i, q := range logs {
		entities[i] = m.ToEntity(q)
	}
	return entities
}

type SynonymMapper struct{}

func NewSynonymMapper() *SynonymMapper {
	return &SynonymMapper{}
}

func (m *SynonymMapper) ToEntity(s *model.Synonym) *entity.Synonym {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Synonym{
		Id:        s.Id,
		Term:      s.Term,
		Expansion: s.Expansion,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SynonymMapper) ToEntities(synonyms []*model.Synonym) []*entity.Synonym {
	entities := make([]*entity.Synonym, len(synonyms))
	for i, s := range synonyms {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
