package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/types"
	"github.com/archboard/archboard-backend/internal/utils"
)

// Service is the persistence gateway. The repository layer performs cascades
// explicitly; the foreign key constraints added on postgres are a backstop,
// not the contract.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", log))

	var (
		gdb *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "archboard.db", log)
		log.Info("Connecting to SQLite...", "path", path)
		gdb, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	default:
		postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
		postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
		postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		postgresName := utils.GetEnv("POSTGRES_NAME", "archboard", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)
		log.Info("Connecting to Postgres...", "host", postgresHost, "db", postgresName)
		gdb, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
		})
	}
	if err != nil {
		log.Error("Failed to connect to database", "driver", driver, "error", err)
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := Migrate(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if s.db.Dialector.Name() == "postgres" {
		if err := s.addForeignKeys(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) addForeignKeys() error {
	s.log.Info("Configuring foreign key relationships...")
	stmts := []string{
		`ALTER TABLE "technical_planning"
		 DROP CONSTRAINT IF EXISTS "fk_technical_planning_hypothesis_id"`,
		`ALTER TABLE "technical_planning"
		 ADD CONSTRAINT "fk_technical_planning_hypothesis_id"
		 FOREIGN KEY ("hypothesis_id")
		 REFERENCES "hypothesis"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "hypothesis_event"
		 DROP CONSTRAINT IF EXISTS "fk_hypothesis_event_hypothesis_id"`,
		`ALTER TABLE "hypothesis_event"
		 ADD CONSTRAINT "fk_hypothesis_event_hypothesis_id"
		 FOREIGN KEY ("hypothesis_id")
		 REFERENCES "hypothesis"("id")
		 ON DELETE CASCADE`,
	}
	for _, stmt := range stmts {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("configure foreign keys: %w", err)
		}
	}
	return nil
}

// Migrate creates the three core tables. Exported so tests can run it
// against an in-memory sqlite handle.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&types.Hypothesis{},
		&types.TechnicalPlanning{},
		&types.HypothesisEvent{},
	)
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
