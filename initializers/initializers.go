package initializers

import (
	"careers-backend/config"
	"careers-backend/fiberlog"
	adminpanelhandler "careers-backend/lib/admin-panel"
	adminpanelauthhandler "careers-backend/lib/admin-panel/auth"
	applicationhandler "careers-backend/lib/application"
	xlsexport "careers-backend/lib/export/xls"
	filestorage "careers-backend/lib/file-storage"
	jobhandler "careers-backend/lib/job"
	jobcatalog "careers-backend/lib/job-catalog"
	"careers-backend/lib/reconcile"
	"careers-backend/lib/smtp"
	"careers-backend/lib/storage"
	usershandler "careers-backend/lib/users"
	applicationapimodels "careers-backend/models/api/application"
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	LoggerConfig *fiberlog.Config
	Store        storage.Provider
	Files        filestorage.Provider
)

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	Store = InitStorage(ctx)
	Files = InitS3(ctx)
	InitSmtp()
	xlsexport.NewHandler()
	adminpanelhandler.NewHandler(Store)
	adminpanelauthhandler.NewHandler(Store, config.Conf.AdminPanelAuth.JWTSecret, config.Conf.AdminPanelAuth.JWTExpireInSec)
	usershandler.NewHandler(Store)
	jobhandler.NewHandler(Store)
	applicationhandler.NewHandler(Store, Files, smtp.Instance, config.Conf.Smtp.HREmail, SubmissionRules())
	seed(ctx)
	go initWorkers(ctx)
}

// SubmissionRules ограничения анкеты из конфигурации
func SubmissionRules() applicationapimodels.Rules {
	rules := applicationapimodels.DefaultRules()
	if config.Conf.Submission.MaxCVSizeMb > 0 {
		rules.MaxCVSize = int64(config.Conf.Submission.MaxCVSizeMb) << 20
	}
	if exts := applicationapimodels.ParseExtList(config.Conf.Submission.AllowedCVExt); len(exts) != 0 {
		rules.AllowedCVExt = exts
	}
	return rules
}

func seed(ctx context.Context) {
	if *config.Conf.Storage.SeedCatalog {
		created, err := jobcatalog.Seed(ctx, Store)
		if err != nil {
			log.WithError(err).Error("ошибка заполнения каталога вакансий")
		} else if created != 0 {
			log.WithField("created", created).Info("каталог вакансий заполнен")
		}
	}
	err := adminpanelhandler.Instance.Bootstrap(ctx, config.Conf.AdminPanelAuth.BootstrapEmail, config.Conf.AdminPanelAuth.BootstrapPassword)
	if err != nil {
		log.WithError(err).Error("ошибка создания суперадмина")
	}
}

func initWorkers(ctx context.Context) {
	// Задача сверки резюме в S3 с заявками
	reconcile.StartWorker(ctx, Store, Files,
		time.Duration(config.Conf.Reconcile.IntervalMin)*time.Minute,
		time.Duration(config.Conf.Reconcile.GracePeriodMin)*time.Minute)
}
