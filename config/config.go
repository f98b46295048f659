package config

import (
	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr   string `default:"" env:"APP_HOST"`
		Port         int    `default:"8080" env:"APP_PORT"`
		BodyLimitMb  int    `default:"20" env:"APP_BODY_LIMIT_MB"`
		CorsOrigins  string `default:"*" env:"APP_CORS_ORIGINS"`
		ErrNotifyURL string `default:"" env:"APP_ERR_NOTIFY_URL"` // куда сообщать об ответах 5xx
	}
	Storage struct {
		Backend     string `default:"sheets" env:"STORAGE_BACKEND"` // sheets | postgres | memory
		SeedCatalog *bool  `default:"true" env:"STORAGE_SEED_CATALOG"`
	}
	Sheets struct {
		SpreadsheetID     string  `default:"" env:"SHEETS_SPREADSHEET_ID"`
		CredentialsFile   string  `default:"credentials.json" env:"SHEETS_CREDENTIALS_FILE"`
		TimeoutSec        int     `default:"10" env:"SHEETS_TIMEOUT_SEC"`
		RetryAttempts     int     `default:"4" env:"SHEETS_RETRY_ATTEMPTS"`
		RetryInitialMs    int     `default:"300" env:"SHEETS_RETRY_INITIAL_MS"`
		RetryMaxMs        int     `default:"5000" env:"SHEETS_RETRY_MAX_MS"`
		RequestsPerSecond float64 `default:"1" env:"SHEETS_REQUESTS_PER_SECOND"`
		UsersTab          string  `default:"Users" env:"SHEETS_USERS_TAB"`
		AdminUsersTab     string  `default:"AdminUsers" env:"SHEETS_ADMIN_USERS_TAB"`
		JobsTab           string  `default:"Jobs" env:"SHEETS_JOBS_TAB"`
		ApplicationsTab   string  `default:"Applications" env:"SHEETS_APPLICATIONS_TAB"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"careers" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		BucketName      string `default:"careers-cv" env:"S3_BUCKET_NAME"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		HREmail    string `default:"" env:"SMTP_HR_EMAIL"`
	}
	AdminPanelAuth struct {
		JWTSecret         string `default:"" env:"ADMIN_PANEL_JWT_SECRET"`
		JWTExpireInSec    int    `default:"43200" env:"ADMIN_PANEL_JWT_EXPIRE_IN_SEC"`
		BootstrapEmail    string `default:"" env:"ADMIN_PANEL_BOOTSTRAP_EMAIL"`
		BootstrapPassword string `default:"" env:"ADMIN_PANEL_BOOTSTRAP_PASSWORD"`
	}
	Submission struct {
		RateLimitPerMinute int    `default:"5" env:"SUBMISSION_RATE_LIMIT_PER_MINUTE"`
		MaxCVSizeMb        int    `default:"5" env:"SUBMISSION_MAX_CV_SIZE_MB"`
		AllowedCVExt       string `default:".pdf,.doc,.docx" env:"SUBMISSION_ALLOWED_CV_EXT"`
	}
	Reconcile struct {
		IntervalMin    int `default:"60" env:"RECONCILE_INTERVAL_MIN"`
		GracePeriodMin int `default:"30" env:"RECONCILE_GRACE_PERIOD_MIN"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Debug("файл .env не найден, используются переменные окружения")
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
