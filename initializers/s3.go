package initializers

import (
	"careers-backend/config"
	filestorage "careers-backend/lib/file-storage"
	s3client "careers-backend/s3"
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// InitS3 хранилище резюме: S3 если задан ключ доступа, иначе память процесса
func InitS3(ctx context.Context) filestorage.Provider {
	if config.Conf.S3.AccessKeyID == "" {
		log.Warn("S3 не настроен, резюме хранятся в памяти процесса")
		return filestorage.NewMemory()
	}
	minioClient, err := s3client.NewClient(config.Conf.S3.Endpoint, config.Conf.S3.AccessKeyID,
		config.Conf.S3.SecretAccessKey, *config.Conf.S3.UseSSL)
	if err != nil {
		panic("ошибка инициализации клиента S3: " + err.Error())
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = s3client.MakeBucket(checkCtx, minioClient, config.Conf.S3.BucketName); err != nil {
		// сервис поднимается, заявки с резюме будут получать 503 до восстановления S3
		log.
			WithField("bucket", config.Conf.S3.BucketName).
			WithError(err).
			Error("S3 соединение не удалось, бакет не проверен")
	}

	log.Info("S3 клиент успешно инициализирован")
	return filestorage.NewInstance(minioClient, config.Conf.S3.BucketName)
}
