package vision

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	llmsdk "github.com/hoangvvo/llm-sdk/sdk-go"

	"github.com/vgrajeda/muela-guide/backend/internal/model/place"
)

// Service prepares image evidence as model input for the vision path.
type Service struct {
	imageDir string
}

// NewService creates a vision service reading images under imageDir.
func NewService(imageDir string) *Service {
	return &Service{imageDir: imageDir}
}

// SelectForInput picks catalog records whose leading name token appears
// in the user message and loads their images as multimodal parts. This
// is deliberately looser than the reply-time matcher: it only sees the
// raw user text, so recall beats precision here. An unreadable image
// file skips that record without failing the request.
func (s *Service) SelectForInput(message string, features []place.Feature) ([]llmsdk.Part, []place.AnalyzedImage) {
	lowerMessage := strings.ToLower(message)

	var parts []llmsdk.Part
	var analyzed []place.AnalyzedImage
	for _, f := range features {
		locator := f.ImageLocator()
		if locator == "" {
			continue
		}

		tokens := strings.Fields(strings.ToLower(f.Name()))
		if len(tokens) == 0 || !strings.Contains(lowerMessage, tokens[0]) {
			continue
		}

		imagePath := filepath.Join(s.imageDir, filepath.FromSlash(locator))
		raw, err := os.ReadFile(imagePath)
		if err != nil {
			log.Printf("[vision] skipping %s: %v", imagePath, err)
			continue
		}

		log.Printf("[vision] attaching evidence for %s", f.Name())
		parts = append(parts,
			llmsdk.NewImagePart(base64.StdEncoding.EncodeToString(raw), MimeType(locator)),
			llmsdk.NewTextPart(fmt.Sprintf("[Archivo visual: %s. Analiza esta evidencia para responder.]", f.Name())),
		)
		analyzed = append(analyzed, place.AnalyzedImage{PlaceName: f.Name(), Locator: locator})
	}
	return parts, analyzed
}

// MimeType maps an image locator's extension to its MIME type.
func MimeType(locator string) string {
	switch strings.ToLower(filepath.Ext(locator)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
