// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package etl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/cardinalhq/songlake/config"
	"github.com/cardinalhq/songlake/internal/cloudstorage"
	"github.com/cardinalhq/songlake/internal/filereader"
	"github.com/cardinalhq/songlake/internal/idgen"
	"github.com/cardinalhq/songlake/internal/logctx"
	"github.com/cardinalhq/songlake/internal/parquetwriter"
	"github.com/cardinalhq/songlake/internal/pipeline"
)

// Runner executes one batch run: read both record collections, derive the
// five tables, and write each table's partitioned Parquet output.
type Runner struct {
	cfg *config.Config
	in  cloudstorage.Client
	out cloudstorage.Client
	ids *idgen.SonyFlakeGenerator
}

// NewRunner builds storage clients for the configured roots.
func NewRunner(ctx context.Context, cfg *config.Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s3s := cloudstorage.S3Settings{
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		RoleARN:   cfg.S3.RoleARN,
		PathStyle: cfg.S3.PathStyle,
	}
	in, err := cloudstorage.ForRoot(ctx, cfg.InputRoot, s3s)
	if err != nil {
		return nil, fmt.Errorf("input root %s: %w", cfg.InputRoot, err)
	}
	out, err := cloudstorage.ForRoot(ctx, cfg.OutputRoot, s3s)
	if err != nil {
		return nil, fmt.Errorf("output root %s: %w", cfg.OutputRoot, err)
	}
	return &Runner{cfg: cfg, in: in, out: out, ids: idgen.DefaultFlakeGenerator}, nil
}

// Run executes the full pipeline. Extraction failures abort the run; write
// failures are isolated per table, with all tables attempted and the errors
// aggregated. Already-written tables are never rolled back.
func (r *Runner) Run(ctx context.Context) error {
	ll := logctx.FromContext(ctx)

	workdir := filepath.Join(os.TempDir(), "run-"+uuid.NewString())
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(workdir) }()

	songRecords, err := r.readSongData(ctx)
	if err != nil {
		return fmt.Errorf("song data stage: %w", err)
	}
	events, err := r.readLogData(ctx)
	if err != nil {
		return fmt.Errorf("log data stage: %w", err)
	}

	songs := extractSongs(songRecords)
	artists := extractArtists(songRecords)
	users := extractUsers(events)
	timeRows := extractTime(events)
	songplays := buildSongplays(events, buildSongIndex(songRecords), r.ids)

	ll.Info("extraction complete",
		"songs", len(songs),
		"artists", len(artists),
		"users", len(users),
		"time", len(timeRows),
		"songplays", len(songplays))

	// Each table writes to its own output subtree; no ordering between them.
	var mu sync.Mutex
	var merr *multierror.Error
	collect := func(table string, err error) {
		if err != nil {
			ll.Error("table write failed", "table", table, "error", err)
			mu.Lock()
			merr = multierror.Append(merr, fmt.Errorf("write stage, table %s: %w", table, err))
			mu.Unlock()
		}
	}

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		collect("songs", writeTable(ctx, r.out, workdir, "songs", songs, SongPartition))
	}()
	go func() {
		defer wg.Done()
		collect("artists", writeTable(ctx, r.out, workdir, "artists", artists, nil))
	}()
	go func() {
		defer wg.Done()
		collect("users", writeTable(ctx, r.out, workdir, "users", users, nil))
	}()
	go func() {
		defer wg.Done()
		collect("time", writeTable(ctx, r.out, workdir, "time", timeRows, TimePartition))
	}()
	go func() {
		defer wg.Done()
		collect("songplays", writeTable(ctx, r.out, workdir, "songplays", songplays, SongplayPartition))
	}()
	wg.Wait()

	return merr.ErrorOrNil()
}

// readSongData lists and parses the song-metadata collection.
func (r *Runner) readSongData(ctx context.Context) ([]songRecord, error) {
	objects, err := listRecordObjects(ctx, r.in, r.cfg.SongDataPath)
	if err != nil {
		return nil, err
	}

	perObject := make([][]songRecord, len(objects))
	skipped, err := r.parseObjects(ctx, objects, func(i int, row pipeline.Row) bool {
		rec, ok := songRecordFromRow(row)
		if ok {
			perObject[i] = append(perObject[i], rec)
		}
		return ok
	})
	if err != nil {
		return nil, err
	}

	var records []songRecord
	for _, recs := range perObject {
		records = append(records, recs...)
	}
	logctx.FromContext(ctx).Info("song data read",
		"files", len(objects), "records", len(records), "skipped", skipped)
	return records, nil
}

// readLogData lists and parses the activity-log collection, keeping only
// qualifying events and assigning each its stable input ordinal.
func (r *Runner) readLogData(ctx context.Context) ([]logEvent, error) {
	objects, err := listRecordObjects(ctx, r.in, r.cfg.LogDataPath)
	if err != nil {
		return nil, err
	}

	perObject := make([][]logEvent, len(objects))
	skipped, err := r.parseObjects(ctx, objects, func(i int, row pipeline.Row) bool {
		ev, kind := logEventFromRow(row)
		switch kind {
		case logEventQualifying:
			perObject[i] = append(perObject[i], ev)
		case logEventMalformed:
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	var events []logEvent
	for _, evs := range perObject {
		for _, ev := range evs {
			ev.ordinal = int64(len(events))
			events = append(events, ev)
		}
	}
	logctx.FromContext(ctx).Info("log data read",
		"files", len(objects), "qualifyingEvents", len(events), "skipped", skipped)
	return events, nil
}

// listRecordObjects lists the JSON record files under a source subtree.
// An unlistable or empty source is fatal for the run; there is no
// partial-table fallback.
func listRecordObjects(ctx context.Context, client cloudstorage.Client, prefix string) ([]cloudstorage.Object, error) {
	objects, err := client.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list source %s: %w", prefix, err)
	}
	records := objects[:0]
	for _, obj := range objects {
		if isRecordFile(obj.Key) {
			records = append(records, obj)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no record files found under %s", prefix)
	}
	return records, nil
}

func isRecordFile(key string) bool {
	return strings.HasSuffix(key, ".json") ||
		strings.HasSuffix(key, ".jsonl") ||
		strings.HasSuffix(key, ".json.gz")
}

// parseObjects runs the projection over every object with a bounded worker
// pool. Workers touch disjoint slices indexed by object position, so the
// merged result preserves stable input order regardless of scheduling.
// project returns false for a malformed row; those are counted, not fatal.
func (r *Runner) parseObjects(ctx context.Context, objects []cloudstorage.Object, project func(i int, row pipeline.Row) bool) (int64, error) {
	var malformed int64
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, obj := range objects {
		g.Go(func() error {
			skipped, err := r.parseObject(gctx, obj.Key, func(row pipeline.Row) bool {
				return project(i, row)
			})
			if err != nil {
				return fmt.Errorf("read %s: %w", obj.Key, err)
			}
			mu.Lock()
			malformed += skipped
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return malformed, nil
}

func (r *Runner) parseObject(ctx context.Context, key string, project func(row pipeline.Row) bool) (int64, error) {
	rc, err := r.in.Open(ctx, key)
	if err != nil {
		return 0, err
	}

	var reader *filereader.JSONLinesReader
	if strings.HasSuffix(key, ".gz") {
		reader, err = filereader.NewJSONGzLinesReader(rc, r.cfg.BatchSize)
	} else {
		reader, err = filereader.NewJSONLinesReader(rc, r.cfg.BatchSize)
	}
	if err != nil {
		return 0, err
	}
	defer func() { _ = reader.Close() }()

	var malformed int64
	for {
		batch, err := reader.Next(ctx)
		if batch != nil {
			for j := 0; j < batch.Len(); j++ {
				if !project(batch.Get(j)) {
					malformed++
				}
			}
			pipeline.ReturnBatch(batch)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	return malformed + reader.SkippedRows(), nil
}

// writeTable stages one table's part files locally, clears the table's
// previous output, and publishes the new part files. Reruns therefore
// replace the table wholesale instead of accumulating part files beside
// stale ones.
func writeTable[T any](ctx context.Context, out cloudstorage.Client, workdir, table string, rows []T, partFn func(T) parquetwriter.Partition) error {
	tw := parquetwriter.NewTableWriter[T](table, workdir, partFn)
	if err := tw.Write(rows...); err != nil {
		tw.Abort()
		return err
	}
	results, err := tw.Close()
	if err != nil {
		return err
	}

	// Staging is complete before anything is removed, so a failed write
	// leaves either the old table or the new one, never a torn mix of a
	// half-staged run.
	stale, err := out.List(ctx, table)
	if err == nil {
		for _, obj := range stale {
			if err := out.Delete(ctx, obj.Key); err != nil {
				return fmt.Errorf("clear previous output %s: %w", obj.Key, err)
			}
		}
	}

	for _, res := range results {
		if err := out.Put(ctx, res.Key, res.FileName); err != nil {
			return fmt.Errorf("publish %s: %w", res.Key, err)
		}
		_ = os.Remove(res.FileName)
	}
	logctx.FromContext(ctx).Info("table written",
		"table", table, "rows", len(rows), "files", len(results))
	return nil
}
