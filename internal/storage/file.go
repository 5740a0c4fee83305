package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileKV keeps the whole namespace in one JSON object on disk and
// rewrites it on every Set.
type FileKV struct {
	filename string
	data     map[string]string
	// loadErr is reported for every Get until the file is rewritten
	loadErr error
}

func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	kv := &FileKV{
		filename: filepath.Join(dir, "storage.json"),
		data:     map[string]string{},
	}
	kv.load()
	return kv, nil
}

// load reads the file once. An unreadable or corrupt file leaves the
// namespace empty and is reported through Get.
func (s *FileKV) load() {
	data, err := os.ReadFile(s.filename)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		s.loadErr = fmt.Errorf("read %s: %w", s.filename, err)
		return
	}

	if err := json.Unmarshal(data, &s.data); err != nil {
		s.data = map[string]string{}
		s.loadErr = fmt.Errorf("parse %s: %w", s.filename, err)
	}
}

func (s *FileKV) Get(key string) (string, bool, error) {
	if s.loadErr != nil {
		return "", false, s.loadErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *FileKV) Set(key, value string) error {
	s.data[key] = value
	if err := s.save(); err != nil {
		return err
	}
	s.loadErr = nil
	return nil
}

func (s *FileKV) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.filename), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), s.filename)
}

func (s *FileKV) Close() error {
	return nil
}

// Path is the backing file.
func (s *FileKV) Path() string {
	return s.filename
}
