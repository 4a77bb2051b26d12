package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/foodiespot/foodiespot-ai/pkg/config"
	"github.com/foodiespot/foodiespot-ai/pkg/utils"
)

// Source — источник каталога: откуда читается JSON со списком ресторанов.
type Source interface {
	Load(ctx context.Context) ([]Restaurant, error)
}

// FileSource читает каталог из локального JSON файла.
type FileSource struct {
	Path string
}

func (f FileSource) Load(ctx context.Context) ([]Restaurant, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return parseRecords(data)
}

// S3Source скачивает каталог из объектного хранилища.
type S3Source struct {
	api    *minio.Client
	bucket string
	key    string
}

// NewS3Source создаёт источник поверх minio клиента.
func NewS3Source(s3cfg config.S3Config, bucket, key string) (*S3Source, error) {
	client, err := minio.New(s3cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s3cfg.AccessKey, s3cfg.SecretKey, ""),
		Secure: s3cfg.UseSSL,
		Region: s3cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &S3Source{api: client, bucket: bucket, key: key}, nil
}

func (s *S3Source) Load(ctx context.Context) ([]Restaurant, error) {
	obj, err := s.api.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog object: %w", err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj); err != nil {
		return nil, fmt.Errorf("failed to download catalog object: %w", err)
	}

	return parseRecords(buf.Bytes())
}

func parseRecords(data []byte) ([]Restaurant, error) {
	var records []Restaurant
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catalog json: %w", err)
	}
	return records, nil
}

// LoadStore создаёт каталог из источника, описанного конфигурацией.
func LoadStore(ctx context.Context, cfg *config.AppConfig) (*Store, error) {
	var src Source
	switch cfg.Catalog.Source {
	case "", "file":
		src = FileSource{Path: cfg.Catalog.Path}
	case "s3":
		s3src, err := NewS3Source(cfg.S3, cfg.Catalog.Bucket, cfg.Catalog.Key)
		if err != nil {
			return nil, err
		}
		src = s3src
	default:
		return nil, fmt.Errorf("unknown catalog source: %s", cfg.Catalog.Source)
	}

	records, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	store, err := NewStore(records)
	if err != nil {
		return nil, err
	}

	utils.Info("Catalog loaded",
		"source", cfg.Catalog.Source,
		"records", store.Len())

	return store, nil
}
