package filestorage

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// CVPrefix все резюме хранятся под этим префиксом
const CVPrefix = "cv/"

type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

type Provider interface {
	// UploadCV сохраняет файл и возвращает ключ объекта; после возврата файл уже надежно сохранен
	UploadCV(ctx context.Context, fileName string, reader io.Reader, size int64, contentType string) (key string, err error)
	GetCV(ctx context.Context, key string) ([]byte, *ObjectInfo, error)
	DeleteCV(ctx context.Context, key string) error
	ListCV(ctx context.Context) ([]ObjectInfo, error)
}

var ErrNotFound = errors.New("file not found")

func NewInstance(s3client *minio.Client, bucketName string) Provider {
	return &impl{
		s3client:   s3client,
		bucketName: bucketName,
	}
}

type impl struct {
	s3client   *minio.Client
	bucketName string
}

func (i impl) UploadCV(ctx context.Context, fileName string, reader io.Reader, size int64, contentType string) (key string, err error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key = NewCVKey(fileName)
	_, err = i.s3client.PutObject(ctx, i.bucketName, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"original-name": SanitizeName(fileName)},
	})
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки файла в S3")
	}
	return key, nil
}

func (i impl) GetCV(ctx context.Context, key string) ([]byte, *ObjectInfo, error) {
	obj, err := i.s3client.GetObject(ctx, i.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения файла из S3")
	}
	defer obj.Close()
	stat, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil, ErrNotFound
		}
		return nil, nil, errors.Wrap(err, "ошибка получения файла из S3")
	}
	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка чтения файла из S3")
	}
	return body, &ObjectInfo{
		Key:          key,
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		LastModified: stat.LastModified,
	}, nil
}

func (i impl) DeleteCV(ctx context.Context, key string) error {
	err := i.s3client.RemoveObject(ctx, i.bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, "ошибка удаления файла из S3")
	}
	return nil
}

func (i impl) ListCV(ctx context.Context) ([]ObjectInfo, error) {
	result := []ObjectInfo{}
	for obj := range i.s3client.ListObjects(ctx, i.bucketName, minio.ListObjectsOptions{Prefix: CVPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, "ошибка получения списка файлов из S3")
		}
		result = append(result, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
	}
	return result, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeName имя файла без пути и небезопасных символов
func SanitizeName(fileName string) string {
	name := filepath.Base(strings.ReplaceAll(fileName, `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "cv"
	}
	if len(name) > 120 {
		ext := filepath.Ext(name)
		name = name[:120-len(ext)] + ext
	}
	return name
}

// NewCVKey cv/<uuid>/<имя файла>
func NewCVKey(fileName string) string {
	return CVPrefix + uuid.NewString() + "/" + SanitizeName(fileName)
}

// NewMemory хранилище файлов в памяти процесса, для локального запуска без S3
func NewMemory() *Memory {
	return &Memory{
		objects: map[string]memoryObject{},
		now:     time.Now,
	}
}

type memoryObject struct {
	body []byte
	info ObjectInfo
}

type Memory struct {
	mu      sync.Mutex
	objects map[string]memoryObject
	now     func() time.Time
}

func (m *Memory) UploadCV(ctx context.Context, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", errors.Wrap(err, "ошибка чтения файла")
	}
	key := NewCVKey(fileName)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{
		body: body,
		info: ObjectInfo{
			Key:          key,
			Size:         int64(len(body)),
			ContentType:  contentType,
			LastModified: m.now(),
		},
	}
	return key, nil
}

func (m *Memory) GetCV(ctx context.Context, key string) ([]byte, *ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, nil, ErrNotFound
	}
	info := obj.info
	return append([]byte(nil), obj.body...), &info, nil
}

func (m *Memory) DeleteCV(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *Memory) ListCV(ctx context.Context) ([]ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]ObjectInfo, 0, len(m.objects))
	for _, obj := range m.objects {
		result = append(result, obj.info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

// SetModTime для проверки отложенной очистки
func (m *Memory) SetModTime(key string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if obj, ok := m.objects[key]; ok {
		obj.info.LastModified = modTime
		m.objects[key] = obj
	}
}
