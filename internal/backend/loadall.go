package backend

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Loader 一次独立的拉取
type Loader func(ctx context.Context) error

// LoadAll 并行执行全部拉取，全部结束后才返回；任一失败会取消其余请求并返回第一个错误
func LoadAll(ctx context.Context, loaders ...Loader) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, load := range loaders {
		load := load
		g.Go(func() error { return load(gctx) })
	}
	return g.Wait()
}
