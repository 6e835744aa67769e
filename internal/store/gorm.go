package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/logger"
)

const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// GormStore keeps patients in a relational table.
type GormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// OpenGorm connects to sqlite (dsn is a file path) or postgres and migrates
// the patients table.
func OpenGorm(driver, dsn string, logg *logger.Logger) (*GormStore, error) {
	if logg == nil {
		logg = logger.Nop()
	}
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		if strings.TrimSpace(dsn) == "" {
			return nil, fmt.Errorf("postgres store: missing POSTGRES_DSN")
		}
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	return NewGormStore(db, logg.With("driver", driver))
}

func NewGormStore(db *gorm.DB, logg *logger.Logger) (*GormStore, error) {
	if logg == nil {
		logg = logger.Nop()
	}
	if err := db.AutoMigrate(&domain.Patient{}); err != nil {
		return nil, fmt.Errorf("migrate patients: %w", err)
	}
	return &GormStore{db: db, log: logg.With("store", "GormStore")}, nil
}

func (s *GormStore) Append(ctx context.Context, p domain.Patient) error {
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return fmt.Errorf("append patient: %w", err)
	}
	return nil
}

func (s *GormStore) All(ctx context.Context) ([]domain.Patient, error) {
	var rows []domain.Patient
	if err := s.db.WithContext(ctx).Order("created_at asc, patient_id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (domain.Patient, error) {
	var p domain.Patient
	err := s.db.WithContext(ctx).Where("patient_id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Patient{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.Patient{}, err
	}
	return p, nil
}

func (s *GormStore) MarkSent(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&domain.Patient{}).
		Where("patient_id IN ? AND email_sent <> ?", ids, domain.SentYes).
		Update("email_sent", domain.SentYes)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (s *GormStore) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.Patient{}).Error
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
