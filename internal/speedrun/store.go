package speedrun

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a game or runner does not exist.
var ErrNotFound = errors.New("not found")

// Store persists speedrun data.
type Store interface {
	ListGames(ctx context.Context) ([]Game, error)
	CreateGame(ctx context.Context, g *Game) error
	GetGame(ctx context.Context, id uint) (*Game, error)

	ListRunners(ctx context.Context) ([]Runner, error)
	CreateRunner(ctx context.Context, r *Runner) error
	GetRunner(ctx context.Context, id uint) (*Runner, error)

	ListRecords(ctx context.Context) ([]Record, error)
	CreateRecord(ctx context.Context, r *Record) error
}

// GormStore is a Store backed by gorm.
type GormStore struct {
	db *gorm.DB
}

// Open connects to postgres at dsn.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// NewGormStore migrates the schema and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Game{}, &Runner{}, &Record{}); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) ListGames(ctx context.Context) ([]Game, error) {
	var games []Game
	if err := s.db.WithContext(ctx).Order("title").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func (s *GormStore) CreateGame(ctx context.Context, g *Game) error {
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *GormStore) GetGame(ctx context.Context, id uint) (*Game, error) {
	var g Game
	err := s.db.WithContext(ctx).First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GormStore) ListRunners(ctx context.Context) ([]Runner, error) {
	var runners []Runner
	if err := s.db.WithContext(ctx).Order("name").Find(&runners).Error; err != nil {
		return nil, err
	}
	return runners, nil
}

func (s *GormStore) CreateRunner(ctx context.Context, r *Runner) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *GormStore) GetRunner(ctx context.Context, id uint) (*Runner, error) {
	var r Runner
	err := s.db.WithContext(ctx).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecords returns records fastest first, with their game and runner loaded.
func (s *GormStore) ListRecords(ctx context.Context) ([]Record, error) {
	var records []Record
	err := s.db.WithContext(ctx).
		Preload("Game").
		Preload("Runner").
		Order("time ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CreateRecord stores r. The Game and Runner associations are not written.
func (s *GormStore) CreateRecord(ctx context.Context, r *Record) error {
	return s.db.WithContext(ctx).Omit("Game", "Runner").Create(r).Error
}
