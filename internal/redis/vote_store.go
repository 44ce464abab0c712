package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ayang007/flora-fauna/internal/domain"
)

// voteRecordMissing is the error text the toggle script raises when the
// user's vote record document does not exist.
const voteRecordMissing = "vote record missing"

// toggleScript performs one complete vote toggle atomically. It mirrors
// the state machine in vote.Transition; keep the two in sync.
//
// KEYS: [1]=vote record hash, [2]=target hash, [3]=rating index zset,
// [4]=author stats hash (untouched unless ARGV[5] is "1").
// ARGV: [1]=record field, [2]=op weight (1 or -1), [3]=index member,
// [4]=stats field, [5]=apply-stats flag.
// Returns {previous, current, delta, new rating}.
var toggleScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return redis.error_reply('vote record missing')
end
local cur = tonumber(redis.call('HGET', KEYS[1], ARGV[1])) or 0
local op = tonumber(ARGV[2])
local new = 0
if cur ~= op then new = op end
local delta = new - cur
if new == 0 then
	redis.call('HDEL', KEYS[1], ARGV[1])
else
	redis.call('HSET', KEYS[1], ARGV[1], tostring(new))
end
local rating = redis.call('HINCRBY', KEYS[2], 'rating', delta)
redis.call('ZADD', KEYS[3], rating, ARGV[3])
if ARGV[5] == '1' then
	redis.call('HINCRBY', KEYS[4], ARGV[4], delta)
end
return {cur, new, delta, rating}
`)

// VoteStore implements domain.VoteStore on per-user vote record hashes.
type VoteStore struct {
	rdb   *goredis.Client
	clock clockwork.Clock
}

func NewVoteStore(rdb *goredis.Client, clock clockwork.Clock) *VoteStore {
	return &VoteStore{rdb: rdb, clock: clock}
}

// InitRecord seeds the vote record document. The created_at marker field
// keeps the hash alive even when every vote has been retracted, so a
// missing hash always means "no such user record".
func (s *VoteStore) InitRecord(ctx context.Context, userID uuid.UUID) error {
	key := votesKey(userID)
	now := strconv.FormatInt(s.clock.Now().UnixMilli(), 10)
	if err := s.rdb.HSet(ctx, key, "created_at", now).Err(); err != nil {
		return fmt.Errorf("failed to init vote record: %w", err)
	}
	return nil
}

func (s *VoteStore) GetDirection(ctx context.Context, userID uuid.UUID, target domain.Target) (domain.Direction, error) {
	field, err := recordField(target)
	if err != nil {
		return domain.DirectionAbsent, err
	}
	key := votesKey(userID)

	pipe := s.rdb.Pipeline()
	existsCmd := pipe.Exists(ctx, key)
	getCmd := pipe.HGet(ctx, key, field)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return domain.DirectionAbsent, fmt.Errorf("failed to read vote direction: %w", err)
	}

	if existsCmd.Val() == 0 {
		return domain.DirectionAbsent, domain.ErrVoteRecordNotFound
	}

	raw, err := getCmd.Result()
	if errors.Is(err, goredis.Nil) {
		return domain.DirectionAbsent, nil
	}
	if err != nil {
		return domain.DirectionAbsent, fmt.Errorf("failed to read vote direction: %w", err)
	}

	weight, err := strconv.ParseInt(raw, 10, 8)
	if err != nil {
		return domain.DirectionAbsent, fmt.Errorf("corrupt vote direction %q: %w", raw, err)
	}
	return domain.Direction(weight), nil
}

func (s *VoteStore) ApplyToggle(ctx context.Context, userID uuid.UUID, target domain.Target, op domain.Direction, authorID uuid.UUID, applyStats bool) (*domain.ToggleResult, error) {
	field, err := recordField(target)
	if err != nil {
		return nil, err
	}
	docKey, indexKey, member, err := targetKeys(target)
	if err != nil {
		return nil, err
	}
	stat, err := statsField(target.Kind)
	if err != nil {
		return nil, err
	}

	applyFlag := "0"
	if applyStats {
		applyFlag = "1"
	}

	keys := []string{votesKey(userID), docKey, indexKey, statsKey(authorID)}
	raw, err := toggleScript.Run(ctx, s.rdb, keys,
		field,
		strconv.FormatInt(op.Weight(), 10),
		member,
		stat,
		applyFlag,
	).Result()
	if err != nil {
		if strings.Contains(err.Error(), voteRecordMissing) {
			return nil, domain.ErrVoteRecordNotFound
		}
		return nil, fmt.Errorf("toggle script failed: %w", err)
	}

	vals, ok := raw.([]any)
	if !ok || len(vals) != 4 {
		return nil, fmt.Errorf("toggle script returned unexpected value %v", raw)
	}

	nums := make([]int64, 4)
	for i, v := range vals {
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("toggle script returned non-integer %v", v)
		}
		nums[i] = n
	}

	return &domain.ToggleResult{
		Previous:  domain.Direction(nums[0]),
		Current:   domain.Direction(nums[1]),
		Delta:     nums[2],
		NewRating: nums[3],
	}, nil
}

var _ domain.VoteStore = (*VoteStore)(nil)
