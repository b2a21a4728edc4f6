package storage

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"scoringd/internal/models"
	"scoringd/internal/providers"
	"scoringd/internal/services"
	"scoringd/internal/storage/interfaces"
)

// FileManager persists the metrics history as zstd-compressed JSON.
type FileManager struct {
	service    services.AnalyticsServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.AnalyticsServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
	}
}

// SaveToFile writes to a temporary file first and renames it over fileName.
func (f *FileManager) SaveToFile(ctx context.Context, fileName string) error {
	storage, err := f.service.GetSnapshot(ctx)
	if err != nil {
		return err
	}

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the history. A missing file is not an error.
func (f *FileManager) LoadFromFile(ctx context.Context, fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressedData, &storage); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if storage.Version > models.StorageVersion {
		return fmt.Errorf("snapshot version %d is newer than supported version %d", storage.Version, models.StorageVersion)
	}
	if storage.Subjects == nil {
		f.logger.Warnf(providers.TypeApp, "Snapshot %s holds no subjects", fileName)
		storage.Subjects = make(map[string][]models.Snapshot)
	}

	if err := f.service.PutSnapshot(ctx, &storage); err != nil {
		return err
	}
	f.logger.Infof(providers.TypeApp, "Restored %d subjects from %s", len(storage.Subjects), fileName)
	return nil
}
