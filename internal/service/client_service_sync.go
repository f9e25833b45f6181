package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/utils"
	"github.com/MKhiriev/go-task-sync/models"
)

const defaultMinFetchInterval = 5 * time.Minute

type clientSyncService struct {
	invoker    adapter.Invoker
	tasks      store.TaskRepository
	updates    store.UpdateRepository
	tagGroups  store.TagGroupRepository
	watermarks store.WatermarkRepository
	notifier   Notifier
	gate       syncGate

	minFetchInterval time.Duration
	concurrency      int
	now              func() time.Time

	ids     *utils.UUIDGenerator
	locks   *keyedMutex
	flights singleflight.Group

	logger *logger.Logger
}

// NewClientSyncService wires the sync engine. notifier may be nil.
func NewClientSyncService(
	invoker adapter.Invoker,
	storages *store.ClientStorages,
	auth AuthProvider,
	notifier Notifier,
	cfg config.ClientSync,
	logger *logger.Logger,
) ClientSyncService {
	return newClientSyncService(invoker, storages, auth, notifier, cfg, time.Now, logger)
}

func newClientSyncService(
	invoker adapter.Invoker,
	storages *store.ClientStorages,
	auth AuthProvider,
	notifier Notifier,
	cfg config.ClientSync,
	now func() time.Time,
	logger *logger.Logger,
) *clientSyncService {
	minFetch := cfg.MinFetchInterval
	if minFetch <= 0 {
		minFetch = defaultMinFetchInterval
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &clientSyncService{
		invoker:          invoker,
		tasks:            storages.Tasks,
		updates:          storages.Updates,
		tagGroups:        storages.TagGroups,
		watermarks:       storages.Watermarks,
		notifier:         notifier,
		gate:             syncGate{auth: auth},
		minFetchInterval: minFetch,
		concurrency:      concurrency,
		now:              now,
		ids:              utils.NewUUIDGenerator(),
		locks:            newKeyedMutex(),
		logger:           logger,
	}
}

// log returns the cycle logger stored in ctx, or the service logger.
func (s *clientSyncService) log(ctx context.Context) *logger.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return &logger.Logger{Logger: *l}
	}
	return s.logger
}

// listKind describes one fetchable list: which procedure to call, how to
// look up and write local rows, and which rows a manual fetch may prune.
type listKind struct {
	model   string
	syncKey string
	scope   models.Params

	// lookup returns local pairs for exactly the given remote ids.
	lookup func(ctx context.Context, remoteIDs []int64) ([]models.IDPair, error)
	// merge writes one item; localID is zero for a new row.
	merge func(ctx context.Context, item json.RawMessage, localID int64) error
	// remove deletes a local row; deleting a missing row is not an error.
	remove func(ctx context.Context, localID int64) error
	// scoped returns the remote-identified local rows this list covers.
	scoped func(ctx context.Context) ([]models.IDPair, error)
}

// fetchList runs one fetch-and-merge cycle. It reports whether a merge
// completed; a gated or throttled call returns false and no error.
func (s *clientSyncService) fetchList(ctx context.Context, kind listKind, manual bool) (bool, error) {
	flightKey := fmt.Sprintf("%s/%t", kind.syncKey, manual)
	v, err, _ := s.flights.Do(flightKey, func() (any, error) {
		return s.doFetchList(ctx, kind, manual)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (s *clientSyncService) doFetchList(ctx context.Context, kind listKind, manual bool) (bool, error) {
	stage := "list-" + kind.model
	log := s.log(ctx).WithFields("stage", stage, "key", kind.syncKey)

	token, ok := s.gate.Authorized(ctx)
	if !ok {
		log.Debug().Str("func", "clientSyncService.fetchList").Msg("not signed in, skipping fetch")
		return false, nil
	}

	now := s.now()
	lastAttempt, err := s.watermarks.GetInt64(ctx, models.LastAttemptKey(kind.syncKey), 0)
	if err != nil {
		return false, fmt.Errorf("%s: read last attempt: %w", stage, err)
	}
	if !manual && now.UnixMilli()-lastAttempt < s.minFetchInterval.Milliseconds() {
		log.Debug().Str("func", "clientSyncService.fetchList").Msg("fetched recently, skipping")
		return false, nil
	}

	var cursor int64
	if !manual {
		if cursor, err = s.watermarks.GetInt64(ctx, models.ServerCursorKey(kind.syncKey), 0); err != nil {
			return false, fmt.Errorf("%s: read server cursor: %w", stage, err)
		}
	}

	params := append(models.Params{}, kind.scope...).
		Add(paramToken, token).
		Add(paramModifiedAfter, cursor)

	body, err := s.invoker.Invoke(ctx, models.ListProcedure(kind.model), params)
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.fetchList").Msg("list call failed")
		return false, fmt.Errorf("%s: %w", stage, mapAdapterError(err))
	}

	var resp models.ListResponse
	if err = json.Unmarshal(body, &resp); err != nil || resp.List == nil {
		log.Error().Str("func", "clientSyncService.fetchList").RawJSON("body", body).Msg("malformed list response")
		return false, fmt.Errorf("%s: %w: list response", stage, ErrMalformedRemoteItem)
	}

	if err = s.mergeList(ctx, kind, resp.List, manual); err != nil {
		log.Err(err).Str("func", "clientSyncService.fetchList").Msg("merge failed")
		return false, fmt.Errorf("%s: %w", stage, err)
	}

	if err = s.watermarks.SetInt64(ctx, models.ServerCursorKey(kind.syncKey), resp.Time); err != nil {
		return false, fmt.Errorf("%s: write server cursor: %w", stage, err)
	}
	if err = s.watermarks.SetInt64(ctx, models.LastAttemptKey(kind.syncKey), now.UnixMilli()); err != nil {
		return false, fmt.Errorf("%s: write last attempt: %w", stage, err)
	}

	log.Info().Str("func", "clientSyncService.fetchList").Int("items", len(resp.List)).
		Bool("manual", manual).Int64("cursor", resp.Time).Msg("list merged")

	return true, nil
}

// mergeList reconciles items against local rows and writes them one by
// one. Items written before a failure stay written.
func (s *clientSyncService) mergeList(ctx context.Context, kind listKind, items []json.RawMessage, manual bool) error {
	remoteIDs, err := readRemoteIDs(items)
	if err != nil {
		return err
	}

	pairs, err := kind.lookup(ctx, remoteIDs)
	if err != nil {
		return fmt.Errorf("look up local rows: %w", err)
	}

	rec, err := newReconciler(ctx, pairs, kind.remove)
	if err != nil {
		return err
	}

	for i, item := range items {
		localID, _ := rec.Claim(remoteIDs[i])
		if err = kind.merge(ctx, item, localID); err != nil {
			return fmt.Errorf("merge remote id %d: %w", remoteIDs[i], err)
		}
	}

	if !manual {
		return nil
	}

	for _, localID := range rec.Leftovers() {
		if err = kind.remove(ctx, localID); err != nil {
			return fmt.Errorf("delete leftover %d: %w", localID, err)
		}
	}

	return s.pruneScope(ctx, kind, remoteIDs)
}

// pruneScope deletes remote-identified rows of the list's scope that the
// server no longer reports. Rows never pushed are kept.
func (s *clientSyncService) pruneScope(ctx context.Context, kind listKind, reported []int64) error {
	if kind.scoped == nil {
		return nil
	}

	pairs, err := kind.scoped(ctx)
	if err != nil {
		return fmt.Errorf("list scope: %w", err)
	}

	seen := make(map[int64]struct{}, len(reported))
	for _, id := range reported {
		seen[id] = struct{}{}
	}

	for _, pair := range pairs {
		if _, ok := seen[pair.RemoteID]; ok {
			continue
		}
		if err = kind.remove(ctx, pair.LocalID); err != nil {
			return fmt.Errorf("prune %d: %w", pair.LocalID, err)
		}
	}

	return nil
}

func (s *clientSyncService) FetchTagGroups(ctx context.Context, manual bool, done func()) error {
	kind := listKind{
		model:   "goal",
		syncKey: models.SyncKeyGoals,
		lookup:  s.tagGroups.FindTagGroupIDsByRemoteIDs,
		merge: func(ctx context.Context, item json.RawMessage, localID int64) error {
			group, err := tagGroupFromRemote(item, s.gate.currentUserID(ctx))
			if err != nil {
				return err
			}
			return s.saveMerged(ctx, localID, func(id int64) error {
				group.ID = id
				return s.tagGroups.SaveTagGroup(ctx, &group, models.NewChangeSet(tagGroupMergeFields...))
			})
		},
		remove: s.tagGroups.DeleteTagGroup,
		scoped: s.tagGroups.FindRemoteTagGroupIDs,
	}

	return s.runFetch(ctx, kind, manual, done)
}

func (s *clientSyncService) FetchTasksForTagGroup(ctx context.Context, group models.TagGroup, manual bool, done func()) error {
	if group.RemoteID == 0 {
		s.log(ctx).Debug().Str("func", "clientSyncService.FetchTasksForTagGroup").
			Int64("tag_group", group.ID).Msg("tag group not on server yet")
		return nil
	}

	kind := listKind{
		model:   "task",
		syncKey: models.TasksSyncKey(group.ID),
		scope:   models.Params{}.Add(paramTagID, group.RemoteID),
		lookup:  s.tasks.FindTaskIDsByRemoteIDs,
		merge: func(ctx context.Context, item json.RawMessage, localID int64) error {
			task, err := taskFromRemote(item, s.gate.currentUserID(ctx))
			if err != nil {
				return err
			}
			return s.saveMerged(ctx, localID, func(id int64) error {
				task.ID = id
				return s.tasks.SaveTask(ctx, &task, taskMergeChanges())
			})
		},
		remove: s.tasks.DeleteTask,
		scoped: func(ctx context.Context) ([]models.IDPair, error) {
			return s.tasks.FindTaskIDsByTag(ctx, group.Name)
		},
	}

	return s.runFetch(ctx, kind, manual, done)
}

func (s *clientSyncService) FetchUpdatesForTagGroup(ctx context.Context, group models.TagGroup, manual bool, done func()) error {
	if group.RemoteID == 0 {
		s.log(ctx).Debug().Str("func", "clientSyncService.FetchUpdatesForTagGroup").
			Int64("tag_group", group.ID).Msg("tag group not on server yet")
		return nil
	}

	kind := listKind{
		model:   "activity",
		syncKey: models.UpdatesSyncKey(group.ID),
		scope:   models.Params{}.Add(paramTagID, group.RemoteID),
		lookup:  s.updates.FindUpdateIDsByRemoteIDs,
		merge: func(ctx context.Context, item json.RawMessage, localID int64) error {
			update, err := updateFromRemote(item, group.ID, s.gate.currentUserID(ctx))
			if err != nil {
				return err
			}
			return s.saveMerged(ctx, localID, func(id int64) error {
				update.ID = id
				return s.updates.SaveUpdate(ctx, &update, models.NewChangeSet(updateMergeFields...))
			})
		},
		remove: s.updates.DeleteUpdate,
		scoped: func(ctx context.Context) ([]models.IDPair, error) {
			return s.updates.FindUpdateIDsByTagGroup(ctx, group.ID)
		},
	}

	return s.runFetch(ctx, kind, manual, done)
}

// saveMerged writes an item over localID, or as a new row when localID is
// zero or the row vanished since the lookup.
func (s *clientSyncService) saveMerged(ctx context.Context, localID int64, save func(id int64) error) error {
	err := save(localID)
	if localID != 0 && errors.Is(err, store.ErrNotFound) {
		return save(0)
	}
	return err
}

func (s *clientSyncService) runFetch(ctx context.Context, kind listKind, manual bool, done func()) error {
	merged, err := s.fetchList(ctx, kind, manual)
	if err != nil {
		return err
	}
	if merged && done != nil {
		done()
	}
	return nil
}

func (s *clientSyncService) FetchTagGroupDetails(ctx context.Context, group models.TagGroup) (models.TagGroup, error) {
	log := s.log(ctx).WithFields("stage", "tag-show")

	token, ok := s.gate.Authorized(ctx)
	if !ok {
		return group, nil
	}

	var params models.Params
	if group.RemoteID == 0 {
		params = params.Add(paramName, group.Name)
	} else {
		params = params.Add(paramID, group.RemoteID)
	}
	params = params.Add(paramToken, token)

	body, err := s.invoker.Invoke(ctx, models.ProcedureTagShow, params)
	if err != nil {
		log.Err(err).Str("func", "clientSyncService.FetchTagGroupDetails").Msg("tag_show failed")
		return group, fmt.Errorf("tag-show: %w", mapAdapterError(err))
	}

	if _, err = readRemoteID(body); err != nil {
		return group, fmt.Errorf("tag-show: %w", err)
	}
	merged, err := tagGroupFromRemote(body, s.gate.currentUserID(ctx))
	if err != nil {
		return group, fmt.Errorf("tag-show: %w", err)
	}

	if err = s.saveMerged(ctx, group.ID, func(id int64) error {
		merged.ID = id
		return s.tagGroups.SaveTagGroup(ctx, &merged, models.NewChangeSet(tagGroupMergeFields...))
	}); err != nil {
		return group, fmt.Errorf("tag-show: save: %w", err)
	}

	return merged, nil
}

// RefreshAll implements [ClientSyncService]. Per tag group fetches run
// concurrently; the first error is returned after all of them finish.
func (s *clientSyncService) RefreshAll(ctx context.Context, manual bool) error {
	if _, ok := s.gate.Authorized(ctx); !ok {
		return nil
	}

	ctx = s.startCycle(ctx, manual)

	if err := s.FetchTagGroups(ctx, manual, nil); err != nil {
		return err
	}

	groups, err := s.tagGroups.ListTagGroups(ctx)
	if err != nil {
		return fmt.Errorf("list tag groups: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, group := range groups {
		if group.RemoteID == 0 {
			continue
		}
		g.Go(func() error { return s.FetchTasksForTagGroup(ctx, group, manual, nil) })
		g.Go(func() error { return s.FetchUpdatesForTagGroup(ctx, group, manual, nil) })
	}

	if err = g.Wait(); err != nil {
		return err
	}

	s.log(ctx).Info().Str("func", "clientSyncService.RefreshAll").Int("tag_groups", len(groups)).Msg("refresh finished")
	return nil
}

// startCycle attaches a child logger with a fresh cycle id to ctx.
func (s *clientSyncService) startCycle(ctx context.Context, manual bool) context.Context {
	l := s.log(ctx).With().
		Str("cycle_id", s.ids.Generate()).
		Bool("manual", manual).
		Logger()
	return l.WithContext(ctx)
}
