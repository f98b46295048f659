package initializers

import (
	"careers-backend/config"
	"careers-backend/db"
	"careers-backend/lib/storage"
	memorystore "careers-backend/lib/storage/memory-store"
	pgstore "careers-backend/lib/storage/pg-store"
	sheetsstore "careers-backend/lib/storage/sheets-store"
	"careers-backend/lib/utils/retry"
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	StorageSheets   = "sheets"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

func InitStorage(ctx context.Context) storage.Provider {
	backend := config.Conf.Storage.Backend
	logger := log.WithField("storage_backend", backend)
	var (
		store storage.Provider
		err   error
	)
	switch backend {
	case StorageSheets:
		store, err = initSheetsStore(ctx)
	case StoragePostgres:
		store, err = initPgStore()
	case StorageMemory:
		logger.Warn("данные хранятся в памяти процесса и пропадут при перезапуске")
		store = memorystore.NewInstance()
	default:
		err = errors.Errorf("unknown storage backend %q", backend)
	}
	if err != nil {
		panic("ошибка инициализации хранилища: " + err.Error())
	}
	logger.Info("хранилище инициализировано")
	return store
}

func initSheetsStore(ctx context.Context) (storage.Provider, error) {
	conf := config.Conf.Sheets
	if conf.SpreadsheetID == "" {
		return nil, errors.New("sheets spreadsheet id is not set")
	}
	credentialsJSON, err := os.ReadFile(conf.CredentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read sheets credentials file")
	}
	credentials, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse sheets credentials")
	}
	srv, err := sheets.NewService(ctx, option.WithCredentials(credentials))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create sheets client")
	}
	return sheetsstore.NewInstance(ctx, sheetsstore.NewGoogleAPI(srv, conf.SpreadsheetID), sheetsstore.Config{
		Tabs: sheetsstore.Tabs{
			Users:        conf.UsersTab,
			AdminUsers:   conf.AdminUsersTab,
			Jobs:         conf.JobsTab,
			Applications: conf.ApplicationsTab,
		},
		Timeout: time.Duration(conf.TimeoutSec) * time.Second,
		Retry: retry.NewPolicy(conf.RetryAttempts,
			time.Duration(conf.RetryInitialMs)*time.Millisecond,
			time.Duration(conf.RetryMaxMs)*time.Millisecond),
		RequestsPerSecond: conf.RequestsPerSecond,
	})
}

func initPgStore() (storage.Provider, error) {
	conf := config.Conf.Database
	err := db.Connect(conf.Host, conf.Port, conf.Name, conf.User, conf.Password, *conf.DebugMode, *conf.MigrateOnStart)
	if err != nil {
		return nil, err
	}
	return pgstore.NewInstance(db.DB), nil
}
