package assets

import (
	"errors"
	"fmt"
	"sync"

	"github.com/alnah/go-cardgen/internal/category"
)

// TemplateExt is appended to the category name to form the template file name.
const TemplateExt = ".html"

// TemplateStore returns the HTML template of a category, read from
// {dir}/{category}.html. Content is opaque and is not validated.
type TemplateStore struct {
	loader *FilesystemLoader

	mu    sync.RWMutex
	cache map[category.Category]string
}

// NewTemplateStore creates a TemplateStore reading from dir.
// Returns ErrInvalidBasePath if dir is not a readable directory.
func NewTemplateStore(dir string) (*TemplateStore, error) {
	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		return nil, err
	}
	return &TemplateStore{
		loader: loader,
		cache:  make(map[category.Category]string, len(category.All())),
	}, nil
}

// Dir returns the resolved template directory.
func (s *TemplateStore) Dir() string {
	return s.loader.BasePath()
}

// Load returns the template for c.
// Returns ErrTemplateNotFound when the file is absent; any other error
// means the directory itself is unusable.
func (s *TemplateStore) Load(c category.Category) (string, error) {
	s.mu.RLock()
	content, ok := s.cache[c]
	s.mu.RUnlock()
	if ok {
		return content, nil
	}

	data, err := s.loader.Read(string(c) + TemplateExt)
	if err != nil {
		if errors.Is(err, ErrAssetNotFound) {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, c)
		}
		return "", err
	}

	content = string(data)
	s.mu.Lock()
	s.cache[c] = content
	s.mu.Unlock()
	return content, nil
}

// Missing lists the known categories that have no template file.
func (s *TemplateStore) Missing() []category.Category {
	var missing []category.Category
	for _, c := range category.All() {
		if _, err := s.Load(c); errors.Is(err, ErrTemplateNotFound) {
			missing = append(missing, c)
		}
	}
	return missing
}
