package reconcile

import (
	filestorage "careers-backend/lib/file-storage"
	"careers-backend/lib/storage"
	baseworker "careers-backend/lib/utils/base-worker"
	"careers-backend/lib/utils/helpers"
	"context"
	"time"
)

const workerName = "cv_reconcile"

// Report результат одного прохода
type Report struct {
	Objects        int
	Applications   int
	OrphansRemoved []string
	OrphansKept    []string // моложе grace period или не удалось удалить
	MissingCV      []string // id заявок, чей файл не найден
}

type impl struct {
	*baseworker.BaseImpl
	store       storage.Provider
	files       filestorage.Provider
	gracePeriod time.Duration
	now         func() time.Time
}

// StartWorker периодически сверяет файлы резюме с заявками
func StartWorker(ctx context.Context, store storage.Provider, files filestorage.Provider, interval, gracePeriod time.Duration) {
	i := newImpl(store, files, interval, gracePeriod)
	go i.Run(ctx, i.handle)
}

func newImpl(store storage.Provider, files filestorage.Provider, interval, gracePeriod time.Duration) *impl {
	return &impl{
		BaseImpl:    baseworker.NewInstance(workerName, time.Minute, interval),
		store:       store,
		files:       files,
		gracePeriod: gracePeriod,
		now:         time.Now,
	}
}

func (i impl) handle(ctx context.Context) {
	_, _ = i.reconcile(ctx)
}

func (i impl) reconcile(ctx context.Context) (*Report, error) {
	logger := i.GetLogger()
	objects, err := i.files.ListCV(ctx)
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка резюме")
		return nil, err
	}
	applications, err := i.store.GetAllApplications(ctx)
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка заявок")
		return nil, err
	}
	report := &Report{Objects: len(objects), Applications: len(applications)}

	referenced := make(map[string]struct{}, len(applications))
	for _, rec := range applications {
		if rec.CVFileRef != "" {
			referenced[rec.CVFileRef] = struct{}{}
		}
	}
	stored := make(map[string]struct{}, len(objects))
	for _, obj := range objects {
		stored[obj.Key] = struct{}{}
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if helpers.IsContextDone(ctx) {
			return report, ctx.Err()
		}
		objLogger := logger.
			WithField("cv_key", obj.Key).
			WithField("last_modified", obj.LastModified)
		// загрузка могла завершиться, а строка заявки еще пишется
		if i.now().Sub(obj.LastModified) < i.gracePeriod {
			report.OrphansKept = append(report.OrphansKept, obj.Key)
			continue
		}
		if err = i.files.DeleteCV(ctx, obj.Key); err != nil {
			objLogger.WithError(err).Error("не удалось удалить резюме без заявки")
			report.OrphansKept = append(report.OrphansKept, obj.Key)
			continue
		}
		objLogger.Warn("удалено резюме без заявки")
		report.OrphansRemoved = append(report.OrphansRemoved, obj.Key)
	}
	for _, rec := range applications {
		if rec.CVFileRef == "" {
			continue
		}
		if _, ok := stored[rec.CVFileRef]; !ok {
			logger.
				WithField("application_id", rec.ID).
				WithField("cv_key", rec.CVFileRef).
				Error("файл резюме заявки не найден")
			report.MissingCV = append(report.MissingCV, rec.ID)
		}
	}
	logger.
		WithField("objects", report.Objects).
		WithField("applications", report.Applications).
		WithField("orphans_removed", len(report.OrphansRemoved)).
		WithField("orphans_kept", len(report.OrphansKept)).
		WithField("missing_cv", len(report.MissingCV)).
		Info("сверка резюме завершена")
	return report, nil
}
