package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dpshade/prompt-overflow/internal/models"
)

// PromptMetadata is a cached, fully parsed prompt file
type PromptMetadata struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
	FilePath    string    `json:"file_path"`
	ModTime     time.Time `json:"mod_time"`
	Size        int64     `json:"size"`
	FileHash    string    `json:"file_hash"`
}

// MetadataCache keeps parsed prompt files keyed by path relative to the library root
type MetadataCache struct {
	cacheDir  string
	cacheFile string
	metadata  map[string]*PromptMetadata
	mu        sync.RWMutex
}

// NewMetadataCache creates a new metadata cache
func NewMetadataCache(baseDir string) *MetadataCache {
	cacheDir := filepath.Join(baseDir, ".prompt-overflow", "cache")
	return &MetadataCache{
		cacheDir:  cacheDir,
		cacheFile: filepath.Join(cacheDir, "metadata.json"),
		metadata:  make(map[string]*PromptMetadata),
	}
}

// Load loads the metadata cache from disk
func (c *MetadataCache) Load() error {
	data, err := os.ReadFile(c.cacheFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := json.Unmarshal(data, &c.metadata); err != nil || c.metadata == nil {
		// Corrupted cache, start fresh
		c.metadata = make(map[string]*PromptMetadata)
	}

	return nil
}

// Save saves the metadata cache to disk
func (c *MetadataCache) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c.metadata, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(c.cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Get returns the cached entry when the file is unchanged since it was cached
func (c *MetadataCache) Get(filePath string, fileInfo os.FileInfo) (*PromptMetadata, bool) {
	c.mu.RLock()
	cached, exists := c.metadata[filePath]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}

	if !fileInfo.ModTime().Equal(cached.ModTime) || fileInfo.Size() != cached.Size {
		return nil, false
	}

	return cached, true
}

// Set stores a parsed prompt in the cache
func (c *MetadataCache) Set(relPath string, fullPath string, fileInfo os.FileInfo, prompt *models.Prompt) {
	fileHash := ""
	if data, err := os.ReadFile(fullPath); err == nil {
		fileHash = calculateHash(data)
	}

	c.mu.Lock()
	c.metadata[relPath] = &PromptMetadata{
		ID:          prompt.ID,
		Title:       prompt.Name,
		Description: prompt.Summary,
		Category:    prompt.Category,
		Tags:        prompt.Tags,
		Body:        prompt.Body,
		CreatedAt:   prompt.CreatedAt,
		FilePath:    prompt.FilePath,
		ModTime:     fileInfo.ModTime(),
		Size:        fileInfo.Size(),
		FileHash:    fileHash,
	}
	c.mu.Unlock()
}

// ToPrompt converts a cached entry back to a Prompt
func (m *PromptMetadata) ToPrompt() models.Prompt {
	return models.Prompt{
		ID:        m.ID,
		Name:      m.Title,
		Summary:   m.Description,
		Category:  m.Category,
		Tags:      m.Tags,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		FilePath:  m.FilePath,
	}
}

// Cleanup removes entries for files that no longer exist and reports whether
// anything was removed
func (c *MetadataCache) Cleanup(existingFiles map[string]bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := false
	for filePath := range c.metadata {
		if !existingFiles[filePath] {
			delete(c.metadata, filePath)
			removed = true
		}
	}
	return removed
}

// Len reports the number of cached entries
func (c *MetadataCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.metadata)
}
