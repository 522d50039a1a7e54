// Package driver runs detection over one or many files: loading, optional
// caching, and parallel scheduling with progress events.
package driver

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"csvmend/internal/detect"
	"csvmend/internal/diag"
	"csvmend/internal/observ"
	"csvmend/internal/source"
)

// StdinPath names standard input on the command line.
const StdinPath = "-"

// Options configures a scan.
type Options struct {
	Source source.Options
	Detect detect.Options
	// Jobs bounds parallel workers; zero or less uses GOMAXPROCS.
	Jobs     int
	Cache    *DiskCache
	Log      *zap.Logger
	Progress ProgressSink
	// Stdin is read for StdinPath.
	Stdin io.Reader
}

// FileResult is the outcome for one file. Err is set for load or input
// errors; Result is nil then.
type FileResult struct {
	Path     string
	Encoding string
	Result   *detect.Result
	Cached   bool
	Err      error
	Timing   observ.Report
}

// Issues returns the file's issues, nil when it failed.
func (r FileResult) Issues() []diag.Issue {
	if r.Result == nil {
		return nil
	}
	return r.Result.Issues
}

// ListCSVFiles expands directories in args into their *.csv files (sorted,
// recursive). Plain paths and StdinPath are kept as given; duplicates drop.
func ListCSVFiles(args []string) ([]string, error) {
	seen := make(map[string]struct{}, len(args))
	files := make([]string, 0, len(args))
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, arg := range args {
		if arg == StdinPath {
			add(arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// missing files are reported per file by the loader
			add(arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}

// LoadDocument loads path, or standard input for StdinPath.
func LoadDocument(path string, opts Options) (*source.Document, error) {
	if path == StdinPath {
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		return source.ReadFrom(StdinPath, in, opts.Source)
	}
	return source.Load(path, opts.Source)
}

// DiagnoseFile loads and scans one file, consulting the cache when set.
func DiagnoseFile(path string, opts Options) FileResult {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	emit := func(ev Event) {
		if opts.Progress != nil {
			ev.Path = path
			opts.Progress.OnEvent(ev)
		}
	}
	started := time.Now()
	timer := observ.NewTimer()
	res := FileResult{Path: path}

	emit(Event{Status: FileLoading})
	endLoad := timer.Track(observ.StageLoad)
	doc, err := LoadDocument(path, opts)
	if err != nil {
		endLoad("failed")
		res.Err = err
		res.Timing = timer.Report()
		emit(Event{Status: FileFailed, Elapsed: time.Since(started)})
		log.Debug("load failed", zap.String("path", path), zap.Error(err))
		return res
	}
	endLoad(doc.Encoding())
	res.Encoding = doc.Encoding()

	emit(Event{Status: FileScanning})
	endDetect := timer.Track(observ.StageDetect)
	key := KeyFor(doc.Hash(), opts.Detect)
	var payload DiskPayload
	if hit, cerr := opts.Cache.Get(key, &payload); cerr != nil {
		log.Warn("cache read failed", zap.String("path", path), zap.Error(cerr))
	} else if hit {
		res.Result = resultFromPayload(&payload)
		res.Cached = true
	}

	if res.Result == nil {
		scan, err := detect.New(log, opts.Detect).Run(doc)
		if err != nil {
			endDetect("failed")
			res.Err = fmt.Errorf("%s: %w", path, err)
			res.Timing = timer.Report()
			emit(Event{Status: FileFailed, Elapsed: time.Since(started)})
			return res
		}
		res.Result = scan
		if perr := opts.Cache.Put(key, payloadFromResult(doc.Encoding(), scan)); perr != nil {
			log.Warn("cache write failed", zap.String("path", path), zap.Error(perr))
		}
	}
	note := ""
	if res.Cached {
		note = "cached"
	}
	endDetect(note)
	res.Timing = timer.Report()

	emit(Event{Status: FileDone, Issues: len(res.Result.Issues), Cached: res.Cached, Elapsed: time.Since(started)})
	return res
}

// DiagnoseFiles scans paths in parallel. Results keep the order of paths.
// Per-file failures land in FileResult.Err; the returned error is only set
// when ctx is cancelled.
func DiagnoseFiles(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	for _, p := range paths {
		if opts.Progress != nil {
			opts.Progress.OnEvent(Event{Path: p, Status: FileQueued})
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// index i is unique per goroutine, no lock needed
			results[i] = DiagnoseFile(path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
