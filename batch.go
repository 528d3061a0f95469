// SPDX-License-Identifier: MIT
package querystring

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// DecodeAll decodes texts concurrently, results follow the order of texts.
//
// The first failure cancels the pending work & is returned wrapped with the index of its input.
func DecodeAll(ctx context.Context, texts []string, opts ...Option) (results []*Map, err error) {
	results = make([]*Map, len(texts))

	err = runAll(ctx, len(texts), newConfig(opts), func(index int) (err error) {
		results[index], err = Decode(texts[index], opts...)
		return
	})
	if err != nil {
		return nil, err
	}

	return
}

// EncodeAll encodes values concurrently, results follow the order of values.
//
// The first failure cancels the pending work & is returned wrapped with the index of its input.
func EncodeAll(ctx context.Context, values []*Map, opts ...Option) (results []string, err error) {
	results = make([]string, len(values))

	err = runAll(ctx, len(values), newConfig(opts), func(index int) (err error) {
		results[index], err = Encode(values[index], opts...)
		return
	})
	if err != nil {
		return nil, err
	}

	return
}

// runAll executes task for every index in [0, n) on a goroutine pool.
func runAll(parent context.Context, n int, cfg *Config, task func(index int) error) (err error) {
	if n < 1 {
		return parent.Err()
	}

	size := cfg.PoolSize
	if size > n {
		size = n
	}

	pool, err := ants.NewPool(size, ants.WithLogger(cfg.Logger))
	if err != nil {
		return
	}
	defer pool.Release()

	if cfg.Debug {
		cfg.Logger.Debugf("running %d tasks over %d workers", n, size)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for index := 0; index < n; index++ {
		if ctx.Err() != nil {
			break
		}

		index := index
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					fail(fmt.Errorf("item %d: %w: %v", index, ErrPanicked, r))
				}
			}()

			if ctx.Err() != nil {
				return
			}
			if err := task(index); err != nil {
				fail(fmt.Errorf("item %d: %w", index, err))
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)

			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	return parent.Err()
}
