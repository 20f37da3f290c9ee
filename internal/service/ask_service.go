package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"ai-research-hub-be/internal/config"
	"ai-research-hub-be/internal/dto"
	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/pkg/logger"
	"ai-research-hub-be/internal/repository/contract"
	"ai-research-hub-be/internal/repository/specification"
	"ai-research-hub-be/pkg/events"
	pkgNats "ai-research-hub-be/pkg/nats"
	"ai-research-hub-be/pkg/rag"
	"ai-research-hub-be/pkg/store"
)

type IAskService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	RecentLogs(ctx context.Context, limit int) ([]*dto.QueryLogDTO, error)
}

type askService struct {
	pipeline  *rag.Pipeline
	rdb       *redis.Client
	cacheTTL  time.Duration
	publisher IPublisherService
	natsPub   *pkgNats.Publisher
	logRepo   contract.QueryLogRepository
	sysLogger logger.ILogger
}

func NewAskService(
	pipeline *rag.Pipeline,
	rdb *redis.Client,
	cfg *config.Config,
	publisher IPublisherService,
	natsPub *pkgNats.Publisher,
	logRepo contract.QueryLogRepository,
	sysLogger logger.ILogger,
) IAskService {
	return &askService{
		pipeline:  pipeline,
		rdb:       rdb,
		cacheTTL:  cfg.Rag.AnswerCacheTTL,
		publisher: publisher,
		natsPub:   natsPub,
		logRepo:   logRepo,
		sysLogger: sysLogger,
	}
}

// Ask answers one question, serving identical repeat questions from the
// redis cache. Logging and event publishing are best-effort and never
// fail the request.
func (s *askService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	start := time.Now()
	filters := store.Filters{Year: req.Year, Category: req.Category}
	cacheKey := answerCacheKey(req)

	if cached := s.readCache(ctx, cacheKey); cached != nil {
		cached.Cached = true
		cached.LatencyMs = time.Since(start).Milliseconds()
		return cached, nil
	}

	answer, err := s.pipeline.AnswerQuery(ctx, req.Query, filters, req.BudgetTokens)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		kind := string(store.KindOf(err))
		s.sysLogger.Error("ask", "query failed", map[string]interface{}{
			"error":      err.Error(),
			"error_kind": kind,
			"latency_ms": latency,
		})
		s.recordOutcome(&dto.PublishQueryLogMessage{
			RawText:   req.Query,
			ErrorKind: kind,
			LatencyMs: latency,
		})
		s.publishEvent(ctx, events.NewQueryFailed(req.Query, kind, err.Error(), latency))
		return nil, err
	}

	res := &dto.AskResponse{
		QueryID:     answer.QueryID,
		Answer:      answer.Text,
		Citations:   toCitationDTOs(answer.Citations),
		Partial:     answer.Partial,
		Diagnostics: answer.Diagnostics,
		LatencyMs:   latency,
	}

	s.sysLogger.Info("ask", "query answered", map[string]interface{}{
		"query_id":   answer.QueryID,
		"citations":  len(answer.Citations),
		"partial":    answer.Partial,
		"latency_ms": latency,
	})

	s.writeCache(ctx, cacheKey, res)
	s.recordOutcome(&dto.PublishQueryLogMessage{
		QueryID:     answer.QueryID,
		RawText:     req.Query,
		Answer:      answer.Text,
		Citations:   len(answer.Citations),
		Partial:     answer.Partial,
		LatencyMs:   latency,
		Diagnostics: answer.Diagnostics,
	})
	s.publishEvent(ctx, events.NewQueryAnswered(
		answer.QueryID, req.Query, answer.Text, len(answer.Citations), answer.Partial, latency))

	return res, nil
}

func (s *askService) RecentLogs(ctx context.Context, limit int) ([]*dto.QueryLogDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	logs, err := s.logRepo.FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.QueryLogDTO, len(logs))
	for i, l := range logs {
		out[i] = toQueryLogDTO(l)
	}
	return out, nil
}

func (s *askService) readCache(ctx context.Context, key string) *dto.AskResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var res dto.AskResponse
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil
	}
	return &res
}

func (s *askService) writeCache(ctx context.Context, key string, res *dto.AskResponse) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		log.Printf("[WARN] Failed to cache answer: %v", err)
	}
}

func (s *askService) recordOutcome(msg *dto.PublishQueryLogMessage) {
	if err := s.publisher.Publish(msg); err != nil {
		log.Printf("[WARN] Failed to publish query log message: %v", err)
	}
}

func (s *askService) publishEvent(ctx context.Context, event events.Event) {
	if s.natsPub == nil {
		return
	}
	if err := s.natsPub.Publish(ctx, event); err != nil {
		log.Printf("[WARN] Failed to publish %s event: %v", event.EventType(), err)
	}
}

func answerCacheKey(req *dto.AskRequest) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s|%d",
		req.Query, req.Year, req.Category, req.BudgetTokens)))
	return "answer:" + hex.EncodeToString(sum[:])
}

func toCitationDTOs(citations []store.Citation) []dto.CitationDTO {
	out := make([]dto.CitationDTO, len(citations))
	for i, c := range citations {
		out[i] = dto.CitationDTO{
			SourceID: c.SourceID,
			Source:   string(c.Source),
			Title:    c.Title,
			Locator:  c.Locator,
		}
	}
	return out
}

func toQueryLogDTO(l *entity.QueryLog) *dto.QueryLogDTO {
	return &dto.QueryLogDTO{
		Id:        l.Id.String(),
		RawText:   l.RawText,
		Answer:    l.Answer,
		ErrorKind: l.ErrorKind,
		Citations: l.Citations,
		Partial:   l.Partial,
		LatencyMs: l.LatencyMs,
		CreatedAt: l.CreatedAt,
	}
}
