package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// commitScript saves the session only when the ticket is still the latest
// one and the session has not expired. Returns 1 on save, 0 when the
// session is gone and -1 when superseded.
var commitScript = valkey.NewLuaScript(`
local cur = tonumber(redis.call('GET', KEYS[2]) or '0')
if cur ~= tonumber(ARGV[2]) then return -1 end
if redis.call('EXISTS', KEYS[1]) == 0 then return 0 end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[3])
else
  redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// ValkeyStore keeps sessions in a Valkey-compatible database so several
// dashboard replicas can share them. Expiry is delegated to key TTLs.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a session store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "dashboard"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyStore) Create(ctx context.Context, session weather.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	builder := s.client.B().Set().Key(s.sessionKey(session.ID)).Value(string(payload)).Nx()
	var cmd valkey.Completed
	if s.ttl > 0 {
		cmd = builder.Ex(s.ttlOrSecond()).Build()
	} else {
		cmd = builder.Build()
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return fmt.Errorf("%w: %s", ErrExists, session.ID)
		}
		return err
	}
	return nil
}

func (s *ValkeyStore) Get(ctx context.Context, id string) (weather.Session, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.sessionKey(id)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return weather.Session{}, ErrNotFound
		}
		return weather.Session{}, err
	}
	var session weather.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return weather.Session{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	return session, nil
}

// Touch extends the key TTLs. The stored payload is left untouched so a
// concurrent Commit is never overwritten.
func (s *ValkeyStore) Touch(ctx context.Context, id string, _ time.Time) error {
	if s.ttl <= 0 {
		_, err := s.Get(ctx, id)
		return err
	}
	seconds := int64(s.ttlOrSecond().Seconds())
	ok, err := s.client.Do(ctx, s.client.B().Expire().Key(s.sessionKey(id)).Seconds(seconds).Build()).AsInt64()
	if err != nil {
		return err
	}
	if ok == 0 {
		return ErrNotFound
	}
	return s.client.Do(ctx, s.client.B().Expire().Key(s.seqKey(id)).Seconds(seconds).Build()).Error()
}

func (s *ValkeyStore) Begin(ctx context.Context, id string) (weather.Session, uint64, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return weather.Session{}, 0, err
	}

	seqKey := s.seqKey(id)
	ticket, err := s.client.Do(ctx, s.client.B().Incr().Key(seqKey).Build()).AsInt64()
	if err != nil {
		return weather.Session{}, 0, err
	}
	if s.ttl > 0 {
		expire := s.client.B().Expire().Key(seqKey).Seconds(int64(s.ttlOrSecond().Seconds())).Build()
		if err := s.client.Do(ctx, expire).Error(); err != nil {
			return weather.Session{}, 0, err
		}
	}
	return session, uint64(ticket), nil
}

func (s *ValkeyStore) Commit(ctx context.Context, session weather.Session, ticket uint64) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttlSeconds := int64(0)
	if s.ttl > 0 {
		ttlSeconds = int64(s.ttlOrSecond().Seconds())
	}

	res, err := commitScript.Exec(ctx, s.client,
		[]string{s.sessionKey(session.ID), s.seqKey(session.ID)},
		[]string{string(payload), strconv.FormatUint(ticket, 10), strconv.FormatInt(ttlSeconds, 10)},
	).AsInt64()
	if err != nil {
		return err
	}

	switch res {
	case 1:
		return nil
	case 0:
		return ErrNotFound
	default:
		return weather.ErrSuperseded
	}
}

// Prune is a no-op: Valkey expires idle sessions through key TTLs.
func (s *ValkeyStore) Prune(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *ValkeyStore) ttlOrSecond() time.Duration {
	if s.ttl < time.Second {
		return time.Second
	}
	return s.ttl
}

func (s *ValkeyStore) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

func (s *ValkeyStore) seqKey(id string) string {
	return fmt.Sprintf("%s:seq:%s", s.prefix, id)
}

var _ weather.SessionStore = (*ValkeyStore)(nil)
