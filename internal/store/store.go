package store

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/revenantonthemission/sogangcomputerclub.org/internal/models"
)

// Store executes CRUD and search statements against the memos table. Every
// mutation runs inside a single transaction; Update and Delete are single
// conditional statements so a concurrent delete cannot slip between an
// existence check and the write.
type Store struct {
	db *gorm.DB
}

func Open(driverName, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driverName {
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s database", driverName)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "getting underlying sql.DB")
	}
	if driverName == "mysql" {
		// 10 base connections plus 20 overflow, recycled hourly.
		sqlDB.SetMaxOpenConns(30)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		// sqlite serializes writers; a single connection avoids
		// database-locked errors and keeps :memory: databases coherent.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.Memo{}); err != nil {
		return nil, errors.Wrap(err, "migrating memos table")
	}

	return &Store{db: db}, nil
}

func (s *Store) Insert(ctx context.Context, in models.MemoCreate) (*models.Memo, error) {
	memo := &models.Memo{
		Title:      in.Title,
		Content:    in.Content,
		Tags:       in.Tags,
		Priority:   2,
		Category:   in.Category,
		IsArchived: in.IsArchived,
		IsFavorite: in.IsFavorite,
		Author:     in.Author,
	}
	if in.Tags == nil {
		memo.Tags = models.TagList{}
	}
	if in.Priority != nil {
		memo.Priority = *in.Priority
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(memo).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "inserting memo")
	}
	return memo, nil
}

func (s *Store) GetByID(ctx context.Context, id uint) (*models.Memo, error) {
	var memo models.Memo
	err := s.db.WithContext(ctx).First(&memo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading memo %d", id)
	}
	return &memo, nil
}

func (s *Store) ListPage(ctx context.Context, skip, limit int) ([]models.Memo, error) {
	memos := []models.Memo{}
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&memos).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing memos")
	}
	return memos, nil
}

func (s *Store) Update(ctx context.Context, id uint, in models.MemoUpdate) (*models.Memo, error) {
	fields := map[string]interface{}{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.Tags != nil {
		fields["tags"] = *in.Tags
	}
	if in.Priority != nil {
		fields["priority"] = *in.Priority
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.IsArchived != nil {
		fields["is_archived"] = *in.IsArchived
	}
	if in.IsFavorite != nil {
		fields["is_favorite"] = *in.IsFavorite
	}
	if in.Author != nil {
		fields["author"] = *in.Author
	}
	fields["updated_at"] = time.Now().UTC()

	var memo models.Memo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Memo{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return tx.First(&memo, id).Error
	})
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "updating memo %d", id)
	}
	return &memo, nil
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Memo{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "deleting memo %d", id)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, query string) ([]models.Memo, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	memos := []models.Memo{}
	err := s.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern).
		Order("id DESC").
		Find(&memos).Error
	if err != nil {
		return nil, errors.Wrapf(err, "searching memos for %q", query)
	}
	return memos, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "getting underlying sql.DB")
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "getting underlying sql.DB")
	}
	return sqlDB.Close()
}
