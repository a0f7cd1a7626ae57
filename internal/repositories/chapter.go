package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "greekpay/internal/errors"
	"greekpay/internal/models"

	"gorm.io/gorm"
)

type ChapterRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Chapter, error)
	Create(ctx context.Context, chapter *models.Chapter) error
}

type MemberRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	Create(ctx context.Context, member *models.Member) error
}

type DuesRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Dues, error)
	Create(ctx context.Context, dues *models.Dues) error
}

type chapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) GetByID(ctx context.Context, id uint) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.WithContext(ctx).First(&chapter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return &chapter, nil
}

func (r *chapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithContext(ctx).Create(chapter).Error
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &member, nil
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &member, nil
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

type duesRepository struct {
	db *gorm.DB
}

func NewDuesRepository(db *gorm.DB) DuesRepository {
	return &duesRepository{db: db}
}

func (r *duesRepository) GetByID(ctx context.Context, id uint) (*models.Dues, error) {
	var dues models.Dues
	if err := r.db.WithContext(ctx).First(&dues, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDuesNotFound
		}
		return nil, fmt.Errorf("failed to get dues: %w", err)
	}
	return &dues, nil
}

func (r *duesRepository) Create(ctx context.Context, dues *models.Dues) error {
	return r.db.WithContext(ctx).Create(dues).Error
}
