package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"lazuli/internal/crash"
)

// FileResult is the result of running one file in RunFiles.
type FileResult struct {
	Path    string
	Outcome *Outcome
	Err     error // чтение файла или отмена
}

// RunFiles runs every file concurrently, at most jobs at a time (0:
// GOMAXPROCS). Results keep the order of paths. Per-file failures are
// stored in FileResult.Err; the returned error is only the context error.
//
// Stream is ignored here: concurrent runs would interleave it.
func RunFiles(ctx context.Context, paths []string, opts RunOptions, jobs int) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			if opts.OnFileStart != nil {
				opts.OnFileStart(i, path)
			}
			res := runFile(gctx, path, opts)
			results[i] = res
			if opts.OnFileDone != nil {
				opts.OnFileDone(i, res)
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func runFile(ctx context.Context, path string, opts RunOptions) FileResult {
	res := FileResult{Path: path}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", path, err)
		return res
	}

	fileOpts := opts
	fileOpts.Context = path
	fileOpts.Stream = nil
	// общий Ring между горутинами перемешал бы события разных файлов
	fileOpts.Ring = nil
	fileOpts.Handler = sessionFor(path, opts)
	if fileOpts.Preprocess.FS == nil {
		fileOpts.Preprocess.FS = os.DirFS(filepath.Dir(path))
	}

	res.Outcome, res.Err = RunCode(ctx, string(data), fileOpts)
	return res
}

// sessionFor даёт файлу свой handler: цепочка процессоров пересобирается
// на каждый запуск, и общий reporter смешал бы source/tokens разных файлов.
// Синки общего handler'а переиспользуются.
func sessionFor(path string, opts RunOptions) *crash.Handler {
	if opts.NewSession != nil {
		if h := opts.NewSession(path); h != nil {
			return h
		}
	}
	h := crash.NewHandler()
	if opts.Handler != nil {
		h.Register(crash.NewSimpleReporter(), opts.Handler.Sinks()...)
	}
	return h
}
