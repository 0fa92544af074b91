package storage

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dpshade/prompt-overflow/internal/logging"
	"github.com/dpshade/prompt-overflow/internal/models"
)

// idNamespace derives stable ids for prompt files that do not declare one
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/dpshade/prompt-overflow"))

// FileStore reads prompts from markdown files with YAML frontmatter
type FileStore struct {
	rootPath string
	cache    *MetadataCache
}

// NewFileStore creates a file store rooted at rootPath
func NewFileStore(rootPath string) (*FileStore, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".prompt-overflow")
	}

	cache := NewMetadataCache(rootPath)
	if err := cache.Load(); err != nil {
		// The cache only saves parsing work
		logging.Logger.Warnw("failed to load metadata cache", "error", err)
	}

	return &FileStore{
		rootPath: rootPath,
		cache:    cache,
	}, nil
}

// Name implements Repository
func (s *FileStore) Name() string {
	return "file library " + s.PromptsDir()
}

// PromptsDir is the directory scanned for *.md prompt files
func (s *FileStore) PromptsDir() string {
	return filepath.Join(s.rootPath, "prompts")
}

// InitLibrary creates the directory structure for a prompt library
func (s *FileStore) InitLibrary() error {
	dirs := []string{
		s.rootPath,
		s.PromptsDir(),
		filepath.Join(s.rootPath, "logs"),
		filepath.Join(s.rootPath, ".prompt-overflow", "cache"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// LoadPrompt loads a prompt from a markdown file with YAML frontmatter
func (s *FileStore) LoadPrompt(path string) (*models.Prompt, error) {
	fullPath := filepath.Join(s.rootPath, path)

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open prompt file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}

	prompt, err := parsePromptFile(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt: %w", err)
	}

	prompt.FilePath = path
	if prompt.ID == "" {
		prompt.ID = uuid.NewSHA1(idNamespace, []byte(filepath.ToSlash(path))).String()
	}

	return prompt, nil
}

// SavePrompt writes a prompt to <root>/<FilePath>, defaulting to prompts/<id>.md
func (s *FileStore) SavePrompt(prompt *models.Prompt) error {
	if prompt.FilePath == "" {
		prompt.FilePath = filepath.Join("prompts", prompt.ID+".md")
	}
	fullPath := filepath.Join(s.rootPath, prompt.FilePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	content, err := serializePrompt(prompt)
	if err != nil {
		return fmt.Errorf("failed to serialize prompt: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write prompt file: %w", err)
	}

	return nil
}

// WriteSeed saves each prompt that does not already have a file and reports
// how many were written
func (s *FileStore) WriteSeed(prompts []models.Prompt) (int, error) {
	if err := s.InitLibrary(); err != nil {
		return 0, err
	}

	written := 0
	for i := range prompts {
		p := prompts[i]
		p.FilePath = filepath.Join("prompts", p.ID+".md")
		if _, err := os.Stat(filepath.Join(s.rootPath, p.FilePath)); err == nil {
			continue
		}
		if err := s.SavePrompt(&p); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// FetchPrompts implements Repository
func (s *FileStore) FetchPrompts(ctx context.Context) ([]models.Prompt, error) {
	promptsDir := s.PromptsDir()
	if _, err := os.Stat(promptsDir); err != nil {
		return nil, fmt.Errorf("prompt library not found at %s (run 'prompt-overflow init'): %w", promptsDir, err)
	}

	prompts := make([]models.Prompt, 0)
	existingFiles := make(map[string]bool)
	cacheModified := false

	err := filepath.Walk(promptsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		relPath, _ := filepath.Rel(s.rootPath, path)
		existingFiles[relPath] = true

		if cached, valid := s.cache.Get(relPath, info); valid {
			prompts = append(prompts, cached.ToPrompt())
			return nil
		}

		prompt, err := s.LoadPrompt(relPath)
		if err != nil {
			logging.Logger.Warnw("skipping unreadable prompt file", "file", relPath, "error", err)
			return nil
		}
		if prompt.CreatedAt.IsZero() {
			prompt.CreatedAt = info.ModTime().UTC()
		}

		s.cache.Set(relPath, path, info, prompt)
		cacheModified = true

		prompts = append(prompts, *prompt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache.Cleanup(existingFiles) {
		cacheModified = true
	}
	if cacheModified {
		if err := s.cache.Save(); err != nil {
			logging.Logger.Warnw("failed to save metadata cache", "error", err)
		}
	}

	sortNewestFirst(prompts)
	return prompts, nil
}

// Helper functions

func parsePromptFile(content []byte) (*models.Prompt, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return nil, fmt.Errorf("missing frontmatter delimiter")
	}

	var frontmatterLines []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			closed = true
			break
		}
		frontmatterLines = append(frontmatterLines, line)
	}
	if !closed {
		return nil, fmt.Errorf("unterminated frontmatter")
	}

	var prompt models.Prompt
	if err := yaml.Unmarshal([]byte(strings.Join(frontmatterLines, "\n")), &prompt); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	var contentLines []string
	for scanner.Scan() {
		contentLines = append(contentLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	// Only the blank lines after the frontmatter are dropped
	prompt.Body = strings.TrimLeft(strings.Join(contentLines, "\n"), " \t\n")

	return &prompt, nil
}

func serializePrompt(prompt *models.Prompt) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("---\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(prompt); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString("---\n")

	if prompt.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(prompt.Body)
		if !strings.HasSuffix(prompt.Body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

func calculateHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
