package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"github.com/nishikaramnani04/PIH2026-SHEield/colors"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/logger"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/models"
	"github.com/nishikaramnani04/PIH2026-SHEield/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "sheield.db"

// ErrDuplicate is relayed to a caller whose statement violated a uniqueness
// constraint e.g. registering a phone number twice.
var ErrDuplicate = errors.New("record violates a uniqueness constraint")

var logg = logger.NewLogger()

type FetchMode int

const (
	FetchNone FetchMode = iota
	FetchOne
	FetchAll
)

type task struct {
	run  func(tx *gorm.DB) (interface{}, error)
	resp chan taskResult
}

type taskResult struct {
	value interface{}
	err   error
}

// Store owns the only handle to the embedded database. All reads and writes,
// no matter which goroutine issues them, are funnelled through a single queue
// drained by one worker goroutine, so every statement observes a global
// serialization order equal to submission order.
type Store struct {
	db         *gorm.DB
	dbFilePath string
	queue      chan *task
	done       chan struct{}
}

// New removes stale recovery artifacts from a prior abnormal termination,
// opens the encrypted sqlite file, migrates the schema and starts the
// worker goroutine.
func New(passPhrase string, rootDir string) (*Store, error) {
	dbDir, err := dbDirectory(rootDir)
	if err != nil {
		return nil, err
	}
	dbFilePath := filepath.Join(dbDir, DB_NAME)

	if err := removeStaleArtifacts(dbFilePath); err != nil {
		return nil, fmt.Errorf("failed to clear stale db artifacts: %v", err)
	}

	db, err := openDB(passPhrase, dbFilePath)
	if err != nil {
		return nil, err
	}

	db.AutoMigrate(
		&models.JobStatus{}, &models.Job{},
		&models.User{}, &models.EmergencyContact{}, &models.SosLog{},
	)
	populateDBWithSeedData(db)

	store := &Store{
		db:         db,
		dbFilePath: dbFilePath,
		queue:      make(chan *task, 64),
		done:       make(chan struct{}),
	}
	go store.loop()

	return store, nil
}

// Submit posts a raw statement onto the worker queue and blocks until the
// worker has executed it. FetchOne yields map[string]interface{} (nil when no
// row matched), FetchAll yields []map[string]interface{}, FetchNone yields nil.
func (s *Store) Submit(query string, args []interface{}, fetch FetchMode) (interface{}, error) {
	return s.perform(func(tx *gorm.DB) (interface{}, error) {
		switch fetch {
		case FetchOne:
			row := map[string]interface{}{}
			if err := tx.Raw(query, args...).Scan(&row).Error; err != nil {
				return nil, err
			}
			if len(row) == 0 {
				return nil, nil
			}
			return row, nil
		case FetchAll:
			rows := []map[string]interface{}{}
			if err := tx.Raw(query, args...).Scan(&rows).Error; err != nil {
				return nil, err
			}
			return rows, nil
		default:
			return nil, tx.Exec(query, args...).Error
		}
	})
}

// Stop delivers the shutdown sentinel and waits for the worker to drain the
// queue and close the database.
func (s *Store) Stop() {
	s.queue <- nil
	<-s.done
}

// DBFilePath returns the location of the sqlite file, used by the backup job.
func (s *Store) DBFilePath() string {
	return s.dbFilePath
}

// perform blocks the calling goroutine until the worker has run fn. Every
// typed repository operation and every raw Submit goes through here, there is
// no other path to the connection.
func (s *Store) perform(fn func(tx *gorm.DB) (interface{}, error)) (interface{}, error) {
	t := &task{run: fn, resp: make(chan taskResult, 1)}
	s.queue <- t
	res := <-t.resp

	return res.value, res.err
}

func (s *Store) loop() {
	logg.Infof(colors.Cyan("[db worker] ")+"starting, db=%v", s.dbFilePath)

	for t := range s.queue {
		if t == nil {
			break
		}
		t.resp <- s.execute(t)
	}

	logg.Info(colors.Cyan("[db worker] ") + "stopping")
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
	close(s.done)
}

// execute runs one unit of work in its own transaction. A statement failure
// rolls back and is relayed to the waiting caller, the worker itself carries
// on with the next item.
func (s *Store) execute(t *task) taskResult {
	tx := s.db.Begin()
	if tx.Error != nil {
		return taskResult{err: tx.Error}
	}

	value, err := t.run(tx)
	if err != nil {
		tx.Rollback()
		return taskResult{err: translateErr(err)}
	}

	if err := tx.Commit().Error; err != nil {
		return taskResult{err: translateErr(err)}
	}

	return taskResult{value: value}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func openDB(passPhrase string, dbFilePath string) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"file:%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL",
		dbFilePath,
		passPhrase,
	)

	db, err := gorm.Open(sqliteEncrypt.Open(dsn), &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %v", err)
	}

	return db, nil
}

// removeStaleArtifacts clears journal/wal/shm leftovers so a previous crash
// cannot wedge the new session.
func removeStaleArtifacts(dbFilePath string) error {
	for _, suffix := range []string{"-journal", "-wal", "-shm"} {
		if err := utils.RemoveIfExist(dbFilePath + suffix); err != nil {
			return err
		}
	}

	return nil
}

func populateDBWithSeedData(db *gorm.DB) {
	if err := db.First(&models.JobStatus{}).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		logg.Info("Inserting seed data into 'JobStatus'")
		db.Create(&[]models.JobStatus{
			{Name: models.EnqueuedJob},
			{Name: models.InProgressJob},
			{Name: models.SuccessfulJob},
			{Name: models.DeadJob},
		})
	}
}

func dbDirectory(rootDir string) (string, error) {
	dbDir := filepath.Join(rootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return dbDir, nil
}

func translateErr(err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return errors.Wrap(ErrDuplicate, err.Error())
	}

	return err
}
