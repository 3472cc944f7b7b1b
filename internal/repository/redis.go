package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
)

const (
	incidentKeyPrefix = "incident:"
	incidentIndexKey  = "incidents:index"

	// incidentTTL is the fixed retention window for incident records.
	incidentTTL = 90 * 24 * time.Hour
)

// RedisRepository stores each incident as a JSON record with a fixed TTL and
// keeps a sorted-set index keyed by creation time for most-recent-N queries.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository creates a repository backed by the given Redis client.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func incidentKey(id string) string {
	return incidentKeyPrefix + id
}

// Create persists the incident and adds it to the time-ordered index.
func (r *RedisRepository) Create(ctx context.Context, inc *models.Incident) error {
	data, err := json.Marshal(inc)
	if err != nil {
		return fmt.Errorf("failed to marshal incident: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, incidentKey(inc.ID), data, incidentTTL)
		pipe.ZAdd(ctx, incidentIndexKey, redis.Z{
			Score:  float64(inc.CreatedAt.UnixMilli()),
			Member: inc.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store incident: %w", err)
	}
	return nil
}

// Get fetches a single incident by id.
func (r *RedisRepository) Get(ctx context.Context, id string) (*models.Incident, error) {
	data, err := r.client.Get(ctx, incidentKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrIncidentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	var inc models.Incident
	if err := json.Unmarshal([]byte(data), &inc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident: %w", err)
	}
	return &inc, nil
}

// List fetches ids from the index in descending creation order, batch-fetches
// the records, and applies the request filters in memory. Index entries whose
// record has expired are skipped.
func (r *RedisRepository) List(ctx context.Context, req *models.ListIncidentsRequest) ([]*models.Incident, error) {
	start := int64(req.Offset)
	stop := int64(req.Offset + req.Limit - 1)

	ids, err := r.client.ZRevRange(ctx, incidentIndexKey, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to range incident index: %w", err)
	}

	incidents, err := r.fetchAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if req.Status != "" && string(inc.Status) != req.Status {
			continue
		}
		if req.Severity != "" && string(inc.Severity) != req.Severity {
			continue
		}
		if req.Type != "" && string(inc.Type) != req.Type {
			continue
		}
		filtered = append(filtered, inc)
	}
	return filtered, nil
}

// Update overwrites the record and refreshes its TTL.
func (r *RedisRepository) Update(ctx context.Context, inc *models.Incident) error {
	data, err := json.Marshal(inc)
	if err != nil {
		return fmt.Errorf("failed to marshal incident: %w", err)
	}
	if err := r.client.Set(ctx, incidentKey(inc.ID), data, incidentTTL).Err(); err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}
	return nil
}

// ListRecent returns up to n of the most recently created incidents.
func (r *RedisRepository) ListRecent(ctx context.Context, n int) ([]*models.Incident, error) {
	ids, err := r.client.ZRevRange(ctx, incidentIndexKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to range incident index: %w", err)
	}
	return r.fetchAll(ctx, ids)
}

// Ping verifies connectivity to Redis.
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// fetchAll batch-fetches incident records, silently dropping ids whose
// record is missing (expired between indexing and retrieval).
func (r *RedisRepository) fetchAll(ctx context.Context, ids []string) ([]*models.Incident, error) {
	if len(ids) == 0 {
		return []*models.Incident{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = incidentKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incidents: %w", err)
	}

	incidents := make([]*models.Incident, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var inc models.Incident
		if err := json.Unmarshal([]byte(raw), &inc); err != nil {
			continue
		}
		incidents = append(incidents, &inc)
	}
	return incidents, nil
}
