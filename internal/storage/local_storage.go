package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// LocalStorage keeps book cover images on disk, sharded into a hundred
// directories so no single directory grows with the whole catalog.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) coverPath(bookID int64) string {
	shard := strconv.FormatInt(bookID%100, 10)
	return filepath.Join(ls.basePath, shard, strconv.FormatInt(bookID, 10))
}

func (ls *LocalStorage) SaveCover(bookID int64, data io.Reader) error {
	filePath := ls.coverPath(bookID)
	dir := filepath.Dir(filePath)

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, data)
	return err
}

func (ls *LocalStorage) GetCover(bookID int64) (io.ReadCloser, error) {
	filePath := ls.coverPath(bookID)

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("cover for book %d not found: %w", bookID, err)
		}
		return nil, err
	}

	return file, nil
}

func (ls *LocalStorage) DeleteCover(bookID int64) error {
	filePath := ls.coverPath(bookID)

	err := os.Remove(filePath)
	if os.IsNotExist(err) {
		return nil
	}

	return err
}

func (ls *LocalStorage) HasCover(bookID int64) bool {
	_, err := os.Stat(ls.coverPath(bookID))
	return err == nil
}
