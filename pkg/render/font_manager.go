package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dailyimage/pkg/logger"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
)

// FontManager holds one parsed TrueType font and caches a face per size
type FontManager struct {
	font       *truetype.Font
	path       string
	faceCache  map[float64]font.Face
	cacheMutex sync.RWMutex
}

// NewFontManager creates an empty font manager; call LoadFile or LoadBytes before use
func NewFontManager() *FontManager {
	return &FontManager{
		faceCache: make(map[float64]font.Face),
	}
}

// LoadFile loads the font from fontPath, trying the candidate locations
// relative to the working directory and the executable
func (fm *FontManager) LoadFile(fontPath string) error {
	var lastErr error
	for _, candidate := range CandidatePaths(fontPath) {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}

		data, err := os.ReadFile(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		if err := fm.load(data, candidate); err != nil {
			logger.Warn("字体解析失败", zap.String("path", candidate), zap.Error(err))
			lastErr = err
			continue
		}

		logger.Info("successfully loaded font", zap.String("path", candidate))
		return nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("font file not found: %s", fontPath)
	}
	return fmt.Errorf("%w: %w", ErrFontLoad, lastErr)
}

// LoadBytes parses an in-memory TrueType font
func (fm *FontManager) LoadBytes(data []byte) error {
	if err := fm.load(data, "<memory>"); err != nil {
		return fmt.Errorf("%w: %w", ErrFontLoad, err)
	}
	return nil
}

func (fm *FontManager) load(data []byte, source string) error {
	f, err := freetype.ParseFont(data)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}

	fm.cacheMutex.Lock()
	defer fm.cacheMutex.Unlock()
	fm.font = f
	fm.path = source
	fm.faceCache = make(map[float64]font.Face)
	return nil
}

// Loaded reports whether a font has been parsed
func (fm *FontManager) Loaded() bool {
	fm.cacheMutex.RLock()
	defer fm.cacheMutex.RUnlock()
	return fm.font != nil
}

// Path returns where the current font came from
func (fm *FontManager) Path() string {
	fm.cacheMutex.RLock()
	defer fm.cacheMutex.RUnlock()
	return fm.path
}

// Face returns the cached face for a pixel size. Sizes are pixels at 72 DPI.
func (fm *FontManager) Face(size float64) (font.Face, error) {
	fm.cacheMutex.RLock()
	if face, exists := fm.faceCache[size]; exists {
		fm.cacheMutex.RUnlock()
		return face, nil
	}
	fm.cacheMutex.RUnlock()

	fm.cacheMutex.Lock()
	defer fm.cacheMutex.Unlock()

	if fm.font == nil {
		return nil, ErrFontLoad
	}
	if face, exists := fm.faceCache[size]; exists {
		return face, nil
	}

	face := truetype.NewFace(fm.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	fm.faceCache[size] = face
	return face, nil
}

// CacheSize returns the number of cached faces
func (fm *FontManager) CacheSize() int {
	fm.cacheMutex.RLock()
	defer fm.cacheMutex.RUnlock()
	return len(fm.faceCache)
}

// CandidatePaths lists where fontPath is looked up. Absolute paths are used as is.
func CandidatePaths(fontPath string) []string {
	if filepath.IsAbs(fontPath) {
		return []string{fontPath}
	}

	paths := []string{
		fontPath,
		filepath.Join("..", fontPath),
		filepath.Join("..", "..", fontPath),
	}

	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		paths = append(paths,
			filepath.Join(execDir, fontPath),
			filepath.Join(filepath.Dir(execDir), fontPath),
		)
	}
	return paths
}
