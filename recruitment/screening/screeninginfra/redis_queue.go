package screeninginfra

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Abraxas-365/resumescan/pkg/kernel"
	"github.com/Abraxas-365/resumescan/recruitment/screening"
	"github.com/go-redis/redis/v8"
)

// RedisQueue implements screening.JobQueue.
//
// Keys under the prefix:
//
//	{prefix}:ready     list of job payloads, LPUSH in and BRPOP out
//	{prefix}:retry     sorted set of job ids scored by due time in unix millis
//	{prefix}:payloads  hash of job id to payload for the retry set
//
// Retries are keyed by job id, so rescheduling a job replaces its earlier slot.
type RedisQueue struct {
	client *redis.Client
	prefix string
}

func NewRedisQueue(client *redis.Client, prefix string) *RedisQueue {
	return &RedisQueue{client: client, prefix: prefix}
}

var _ screening.JobQueue = (*RedisQueue)(nil)

func (q *RedisQueue) readyKey() string    { return q.prefix + ":ready" }
func (q *RedisQueue) retryKey() string    { return q.prefix + ":retry" }
func (q *RedisQueue) payloadsKey() string { return q.prefix + ":payloads" }

// promoteDue moves every due retry onto the ready list in one step so two
// workers never push the same job
var promoteDue = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[2], '-inf', ARGV[1])
for _, id in ipairs(ids) do
	local payload = redis.call('HGET', KEYS[3], id)
	if payload then
		redis.call('LPUSH', KEYS[1], payload)
	end
	redis.call('HDEL', KEYS[3], id)
	redis.call('ZREM', KEYS[2], id)
end
return #ids
`)

// Enqueue adds an analysis job to the ready list
func (q *RedisQueue) Enqueue(ctx context.Context, jobID kernel.JobID, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal analysis job %s: %w", jobID, err)
	}
	if err := q.client.LPush(ctx, q.readyKey(), data).Err(); err != nil {
		return fmt.Errorf("enqueue analysis job %s: %w", jobID, err)
	}
	return nil
}

// Dequeue blocks up to timeout; a timeout yields nil, nil
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	result, err := q.client.BRPop(ctx, timeout, q.readyKey()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dequeue analysis job: %w", err)
	}
	// BRPOP replies with [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply with %d elements", len(result))
	}
	return []byte(result[1]), nil
}

// EnqueueDelayed schedules a retry of the job after delay
func (q *RedisQueue) EnqueueDelayed(ctx context.Context, jobID kernel.JobID, payload any, delay time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal retry of analysis job %s: %w", jobID, err)
	}

	due := time.Now().Add(delay).UnixMilli()
	pipe := q.client.TxPipeline()
	pipe.HSet(ctx, q.payloadsKey(), jobID.String(), data)
	pipe.ZAdd(ctx, q.retryKey(), &redis.Z{Score: float64(due), Member: jobID.String()})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("schedule retry of analysis job %s: %w", jobID, err)
	}
	return nil
}

// MoveDelayedToReady promotes retries whose due time has passed
func (q *RedisQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	n, err := promoteDue.Run(ctx, q.client,
		[]string{q.readyKey(), q.retryKey(), q.payloadsKey()}, now).Int()
	if err != nil {
		return 0, fmt.Errorf("promote due retries: %w", err)
	}
	return n, nil
}

// Size returns the number of ready jobs
func (q *RedisQueue) Size(ctx context.Context) (int64, error) {
	size, err := q.client.LLen(ctx, q.readyKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("get ready queue size: %w", err)
	}
	return size, nil
}

// DelayedSize returns the number of jobs waiting for a retry
func (q *RedisQueue) DelayedSize(ctx context.Context) (int64, error) {
	size, err := q.client.ZCard(ctx, q.retryKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("get retry queue size: %w", err)
	}
	return size, nil
}

// Stats reports ready and retrying counts for the health endpoint
func (q *RedisQueue) Stats(ctx context.Context) (map[string]any, error) {
	ready, err := q.Size(ctx)
	if err != nil {
		return nil, err
	}
	retrying, err := q.DelayedSize(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"queue":         q.prefix,
		"ready_jobs":    ready,
		"retrying_jobs": retrying,
	}, nil
}
