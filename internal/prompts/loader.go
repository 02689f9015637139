// Package prompts loads the LLM prompt templates used by the transform stages.
// Prompts are stored as JSON files of key -> template and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// OptimizerFile holds the tailor, score and improve prompts
const OptimizerFile = "optimizer.json"

// Prompt keys in OptimizerFile
const (
	KeyTailor  = "tailor-resume"
	KeyScore   = "score-resume"
	KeyImprove = "improve-resume"
)

//go:embed *.json
var promptFiles embed.FS

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z0-9_]+)\}\}`)

// Loader reads prompt files from a filesystem and caches them
type Loader struct {
	fsys    fs.FS
	mu      sync.RWMutex
	entries map[string]map[string]string
}

// NewLoader creates a loader over fsys
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, entries: make(map[string]map[string]string)}
}

var defaultLoader = NewLoader(promptFiles)

// Get retrieves a prompt by filename and key from the embedded prompts.
func Get(filename, key string) (string, error) {
	return defaultLoader.Get(filename, key)
}

// MustGet retrieves a prompt by filename and key, panicking if not found.
// Use this for prompts that are required at initialization time.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Render loads a prompt and fills its placeholders. Every placeholder in the
// template must have a value in data.
func Render(filename, key string, data map[string]string) (string, error) {
	return defaultLoader.Render(filename, key, data)
}

// List returns the sorted prompt keys of an embedded file.
func List(filename string) ([]string, error) {
	return defaultLoader.List(filename)
}

// ClearCache clears the cache of the embedded prompts. Useful for testing.
func ClearCache() {
	defaultLoader.mu.Lock()
	defaultLoader.entries = make(map[string]map[string]string)
	defaultLoader.mu.Unlock()
}

// Get retrieves a prompt by filename and key.
func (l *Loader) Get(filename, key string) (string, error) {
	prompts, err := l.load(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// Render loads a prompt and fills its placeholders
func (l *Loader) Render(filename, key string, data map[string]string) (string, error) {
	template, err := l.Get(filename, key)
	if err != nil {
		return "", err
	}

	var missing []string
	for _, name := range Placeholders(template) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s/%s: missing values for %s", filename, key, strings.Join(missing, ", "))
	}

	return Format(template, data), nil
}

// List returns the sorted prompt keys of a file
func (l *Loader) List(filename string) ([]string, error) {
	prompts, err := l.load(filename)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (l *Loader) load(filename string) (map[string]string, error) {
	l.mu.RLock()
	prompts, exists := l.entries[filename]
	l.mu.RUnlock()
	if exists {
		return prompts, nil
	}

	data, err := fs.ReadFile(l.fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	l.mu.Lock()
	l.entries[filename] = prompts
	l.mu.Unlock()

	return prompts, nil
}

// Format replaces placeholders in the form {{.Key}} with values from data.
// Substituted values are not rescanned, so a value containing "{{.X}}" is left as is.
func Format(template string, data map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := data[name]; ok {
			return value
		}
		return match
	})
}

// Placeholders returns the distinct placeholder names of a template in order of appearance
func Placeholders(template string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}
