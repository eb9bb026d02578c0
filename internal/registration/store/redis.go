package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"legalbooks/internal/platform/redis"
	"legalbooks/internal/registration"
	"legalbooks/pkg/platform/sentinel"
)

const draftKeyPrefix = "onboarding:draft:"

// Redis persists drafts in Redis with a TTL, sealing the password fields so
// credentials never sit in the store as plaintext.
type Redis struct {
	client *redis.Client
	sealer *Sealer
	ttl    time.Duration
}

// NewRedis builds the Redis-backed draft store.
func NewRedis(client *redis.Client, sealer *Sealer, ttl time.Duration) *Redis {
	return &Redis{client: client, sealer: sealer, ttl: ttl}
}

func (r *Redis) Create(ctx context.Context, d *registration.Draft) error {
	return r.write(ctx, d, false)
}

func (r *Redis) Save(ctx context.Context, d *registration.Draft) error {
	return r.write(ctx, d, true)
}

func (r *Redis) Get(ctx context.Context, id string) (*registration.Draft, error) {
	raw, err := r.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("draft %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get draft %s: %w", id, err)
	}
	var d registration.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	if err := r.unsealCredentials(&d); err != nil {
		return nil, fmt.Errorf("unseal draft %s: %w", id, err)
	}
	return &d, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	removed, err := r.client.Del(ctx, draftKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	if removed == 0 {
		return fmt.Errorf("draft %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func (r *Redis) write(ctx context.Context, d *registration.Draft, overwrite bool) error {
	sealed := *d
	sealed.Fields = make(map[string]string, len(d.Fields))
	for name, value := range d.Fields {
		sealed.Fields[name] = value
	}
	if err := r.sealCredentials(&sealed); err != nil {
		return fmt.Errorf("seal draft %s: %w", d.ID, err)
	}

	raw, err := json.Marshal(&sealed)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", d.ID, err)
	}

	key := draftKeyPrefix + d.ID
	if overwrite {
		if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			return fmt.Errorf("save draft %s: %w", d.ID, err)
		}
		return nil
	}
	ok, err := r.client.SetNX(ctx, key, raw, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("create draft %s: %w", d.ID, err)
	}
	if !ok {
		return fmt.Errorf("draft %s: %w", d.ID, sentinel.ErrConflict)
	}
	return nil
}

func (r *Redis) sealCredentials(d *registration.Draft) error {
	for _, field := range []string{registration.FieldPassword, registration.FieldConfirmPassword} {
		sealed, err := r.sealer.Seal(d.Fields[field])
		if err != nil {
			return err
		}
		d.Fields[field] = sealed
	}
	return nil
}

func (r *Redis) unsealCredentials(d *registration.Draft) error {
	for _, field := range []string{registration.FieldPassword, registration.FieldConfirmPassword} {
		plain, err := r.sealer.Open(d.Fields[field])
		if err != nil {
			return err
		}
		d.Fields[field] = plain
	}
	return nil
}
