// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"circles/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Live restricts a query to rows that are not soft-deleted.
func Live(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// lockHeader takes a row lock on the aggregate header matched by ownerKey and
// reports whether the header exists. Mutations of one aggregate serialize on
// this lock.
func lockHeader(tx *gorm.DB, header interface{}, ownerKey map[string]interface{}) (bool, error) {
	var ids []uint
	if err := tx.Model(header).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(ownerKey).
		Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// insertMember inserts header and member in one transaction, both as
// insert-if-absent. The header is locked before the member is written.
// It reports whether the member row was new.
func insertMember(ctx context.Context, db *gorm.DB, header, member interface{}, ownerKey map[string]interface{}) (bool, error) {
	var added bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := lockHeader(tx, header, ownerKey)
		if err != nil {
			return err
		}
		if !found {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(header).Error; err != nil {
				return err
			}
			if _, err := lockHeader(tx, header, ownerKey); err != nil {
				return err
			}
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(member)
		if res.Error != nil {
			return res.Error
		}
		added = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return added, nil
}

// deleteMembers locks the header under ownerKey, deletes the member rows
// matched by memberKey and, when no members remain, the header row, all in
// one transaction. It reports how many member rows were deleted.
func deleteMembers(ctx context.Context, db *gorm.DB, member, header interface{}, memberKey, ownerKey map[string]interface{}) (int64, error) {
	var removed int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockHeader(tx, header, ownerKey); err != nil {
			return err
		}
		res := tx.Where(memberKey).Delete(member)
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		var remaining int64
		if err := tx.Model(member).Where(ownerKey).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Where(ownerKey).Delete(header).Error
		}
		return nil
	})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return removed, nil
}

func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
