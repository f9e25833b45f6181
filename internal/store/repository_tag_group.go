package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

const tagGroupsTable = "tag_groups"

var tagGroupColumns = []string{
	"id", "remote_id", "name", "members", "member_count", "picture", "silent", "user_id", "user",
}

// tagGroupRepository is the SQLite-backed implementation of
// [TagGroupRepository]. Members are stored as a JSON array.
type tagGroupRepository struct {
	db      *DB
	changes *Feed[TagGroupChange]
	logger  *logger.Logger
}

// NewTagGroupRepository constructs a [TagGroupRepository] over db.
func NewTagGroupRepository(db *DB, logger *logger.Logger) TagGroupRepository {
	return &tagGroupRepository{
		db:      db,
		changes: NewFeed[TagGroupChange](),
		logger:  logger,
	}
}

func (r *tagGroupRepository) Changes() *Feed[TagGroupChange] {
	return r.changes
}

func (r *tagGroupRepository) FindTagGroup(ctx context.Context, id int64) (models.TagGroup, error) {
	return r.findOne(ctx, "tagGroupRepository.FindTagGroup", sq.Eq{"id": id})
}

// FindTagGroupByName returns the oldest tag group called name.
func (r *tagGroupRepository) FindTagGroupByName(ctx context.Context, name string) (models.TagGroup, error) {
	return r.findOne(ctx, "tagGroupRepository.FindTagGroupByName", sq.Eq{"name": name})
}

func (r *tagGroupRepository) findOne(ctx context.Context, funcName string, where sq.Eq) (models.TagGroup, error) {
	log := logger.FromContext(ctx)

	query, args, err := sqlBuilder.Select(tagGroupColumns...).From(tagGroupsTable).
		Where(where).OrderBy("id").Limit(1).ToSql()
	if err != nil {
		return models.TagGroup{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	group, err := scanTagGroup(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.TagGroup{}, ErrNotFound
	}
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to scan tag group row")
		return models.TagGroup{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return group, nil
}

func (r *tagGroupRepository) ListTagGroups(ctx context.Context) ([]models.TagGroup, error) {
	log := logger.FromContext(ctx)

	query, args, err := sqlBuilder.Select(tagGroupColumns...).From(tagGroupsTable).OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "tagGroupRepository.ListTagGroups").Msg("failed to execute query for listing tag groups")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var groups []models.TagGroup
	for rows.Next() {
		group, scanErr := scanTagGroup(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "tagGroupRepository.ListTagGroups").Msg("failed to scan tag group row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		groups = append(groups, group)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return groups, nil
}

// SaveTagGroup implements [TagGroupRepository].
func (r *tagGroupRepository) SaveTagGroup(ctx context.Context, group *models.TagGroup, changes models.ChangeSet) error {
	log := logger.FromContext(ctx)

	inserted := group.ID == 0
	if !inserted && changes.IsEmpty() {
		return nil
	}

	members, err := encodeMembers(group.Members)
	if err != nil {
		return err
	}

	if inserted {
		query, args, buildErr := sqlBuilder.Insert(tagGroupsTable).
			Columns(tagGroupColumns[1:]...).
			Values(group.RemoteID, group.Name, members, group.MemberCount, group.Picture, group.Silent,
				group.UserID, group.User).
			ToSql()
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}

		result, execErr := r.db.ExecContext(ctx, query, args...)
		if execErr != nil {
			log.Err(execErr).Str("func", "tagGroupRepository.SaveTagGroup").Msg("failed to insert tag group")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
		if group.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	} else {
		set := make(map[string]any)
		for _, f := range changes.Fields() {
			if v, ok := tagGroupFieldValue(*group, members, f); ok {
				set[string(f)] = v
			}
		}
		if len(set) > 0 {
			affected, execErr := execBuilt(ctx, r.db, "tagGroupRepository.SaveTagGroup",
				sqlBuilder.Update(tagGroupsTable).SetMap(set).Where(sq.Eq{"id": group.ID}))
			if execErr != nil {
				return fmt.Errorf("failed to save tag group (id=%d): %w", group.ID, execErr)
			}
			if affected == 0 {
				return ErrNotFound
			}
		}
	}

	log.Debug().Str("func", "tagGroupRepository.SaveTagGroup").Int64("id", group.ID).Bool("inserted", inserted).
		Strs("fields", fieldNames(changes)).Msg("tag group saved")

	snapshot := *group
	snapshot.Members = append([]models.Member(nil), group.Members...)
	r.changes.Publish(TagGroupChange{TagGroup: snapshot, Changes: changes})

	return nil
}

func (r *tagGroupRepository) SetTagGroupRemoteID(ctx context.Context, id, remoteID int64) error {
	affected, err := execBuilt(ctx, r.db, "tagGroupRepository.SetTagGroupRemoteID",
		sqlBuilder.Update(tagGroupsTable).Set("remote_id", remoteID).Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("failed to set tag group remote id (id=%d): %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	group, err := r.FindTagGroup(ctx, id)
	if err != nil {
		return err
	}
	r.changes.Publish(TagGroupChange{TagGroup: group, Changes: models.NewChangeSet(models.FieldRemoteID)})

	return nil
}

// DeleteTagGroup removes the tag group. Deleting a missing tag group is not
// an error.
func (r *tagGroupRepository) DeleteTagGroup(ctx context.Context, id int64) error {
	if _, err := execBuilt(ctx, r.db, "tagGroupRepository.DeleteTagGroup",
		sqlBuilder.Delete(tagGroupsTable).Where(sq.Eq{"id": id})); err != nil {
		return fmt.Errorf("failed to delete tag group (id=%d): %w", id, err)
	}
	return nil
}

func (r *tagGroupRepository) FindTagGroupIDsByRemoteIDs(ctx context.Context, remoteIDs []int64) ([]models.IDPair, error) {
	if len(remoteIDs) == 0 {
		return nil, nil
	}

	builder := sqlBuilder.Select("remote_id", "id").From(tagGroupsTable).
		Where(sq.Eq{"remote_id": remoteIDs}).
		Where(sq.NotEq{"remote_id": 0}).
		OrderBy("remote_id", "id")

	return queryIDPairs(ctx, r.db, "tagGroupRepository.FindTagGroupIDsByRemoteIDs", builder)
}

func (r *tagGroupRepository) FindRemoteTagGroupIDs(ctx context.Context) ([]models.IDPair, error) {
	builder := sqlBuilder.Select("remote_id", "id").From(tagGroupsTable).
		Where(sq.NotEq{"remote_id": 0}).
		OrderBy("remote_id", "id")

	return queryIDPairs(ctx, r.db, "tagGroupRepository.FindRemoteTagGroupIDs", builder)
}

func tagGroupFieldValue(g models.TagGroup, members string, f models.Field) (any, bool) {
	switch f {
	case models.FieldRemoteID:
		return g.RemoteID, true
	case models.FieldName:
		return g.Name, true
	case models.FieldMembers:
		return members, true
	case models.FieldMemberCount:
		return g.MemberCount, true
	case models.FieldPicture:
		return g.Picture, true
	case models.FieldSilent:
		return g.Silent, true
	case models.FieldUserID:
		return g.UserID, true
	case models.FieldUser:
		return g.User, true
	default:
		return nil, false
	}
}

func encodeMembers(members []models.Member) (string, error) {
	if len(members) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(members)
	if err != nil {
		return "", fmt.Errorf("encode members: %w", err)
	}
	return string(b), nil
}

func scanTagGroup(row scanner) (models.TagGroup, error) {
	var (
		g       models.TagGroup
		members string
	)
	err := row.Scan(&g.ID, &g.RemoteID, &g.Name, &members, &g.MemberCount, &g.Picture, &g.Silent, &g.UserID, &g.User)
	if err != nil {
		return models.TagGroup{}, err
	}

	if members != "" {
		if err = json.Unmarshal([]byte(members), &g.Members); err != nil {
			return models.TagGroup{}, fmt.Errorf("decode members: %w", err)
		}
	}

	return g, nil
}
