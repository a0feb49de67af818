package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"fraddriso20022/internal/address"

	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "address:"
	indexKey  = "addresses"
)

// Repository stores each address as JSON under address:<id> and tracks the
// known ids in the addresses set.
type Repository struct {
	client *goredis.Client
}

func NewRepository(client *goredis.Client) *Repository {
	return &Repository{client: client}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (r *Repository) Save(ctx context.Context, addr *address.ISOAddress) error {
	data, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("marshal address: %w", err)
	}

	created, err := r.client.SetNX(ctx, keyPrefix+addr.ID, data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis setnx address: %w", err)
	}
	if !created {
		return address.ErrAddressExists
	}

	if err := r.client.SAdd(ctx, indexKey, addr.ID).Err(); err != nil {
		return fmt.Errorf("redis sadd address: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, addr *address.ISOAddress) error {
	data, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("marshal address: %w", err)
	}

	replaced, err := r.client.SetXX(ctx, keyPrefix+addr.ID, data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis setxx address: %w", err)
	}
	if !replaced {
		return address.ErrAddressNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	var del *goredis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		del = pipe.Del(ctx, keyPrefix+id)
		pipe.SRem(ctx, indexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete address: %w", err)
	}
	if del.Val() == 0 {
		return address.ErrAddressNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*address.ISOAddress, error) {
	data, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, address.ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get address: %w", err)
	}

	var a address.ISOAddress
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal address: %w", err)
	}
	return &a, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]*address.ISOAddress, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	res := make([]*address.ISOAddress, 0, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// id left in the set without its value
			continue
		}
		var a address.ISOAddress
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			return nil, fmt.Errorf("unmarshal address: %w", err)
		}
		res = append(res, &a)
	}
	return res, nil
}
