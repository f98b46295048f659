package fiberlog

import "github.com/sirupsen/logrus"

// Config настройки middleware логирования запросов
type Config struct {
	Logger *logrus.Logger
	Tags   []string
	// MaxBodyLen тела длиннее обрезаются, 0 - без ограничения
	MaxBodyLen int
	// SkipBodyFor пути, тела которых не логируются (multipart с файлами)
	SkipBodyFor []string
}

var ConfigDefault = Config{
	Logger: nil,
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
	},
	MaxBodyLen: 2048,
}
