package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage кладёт загруженные файлы (видео, обложки) на диск.
// Имя файла генерируется, чтобы не конфликтовать и не светить оригинал.
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save сохраняет файл и возвращает относительный путь для записи в БД.
func (s *LocalStorage) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	name := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Delete удаляет файл по сохранённому пути. Отсутствующий файл не ошибка:
// запись могли уже подчистить руками.
func (s *LocalStorage) Delete(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path возвращает абсолютный путь для отдачи файла, не выпуская
// запрос за пределы baseDir.
func (s *LocalStorage) Path(name string) (string, error) {
	clean := filepath.Base(strings.TrimSpace(name))
	if clean == "." || clean == "" {
		return "", fmt.Errorf("bad file name %q", name)
	}
	full := filepath.Join(s.baseDir, clean)
	if _, err := os.Stat(full); err != nil {
		return "", err
	}
	return full, nil
}
