// Package mention decides which catalog places a generated reply refers
// to. It is a substring heuristic, not entity recognition: short-token
// false positives and paraphrase false negatives are accepted.
package mention

import (
	"net/url"
	"strings"

	"github.com/vgrajeda/muela-guide/backend/internal/model/place"
)

// Policy selects how a place name is tested against the reply text.
type Policy int

const (
	// PolicyExact matches only the full place name, case-insensitively.
	PolicyExact Policy = iota
	// PolicyKeyword also matches on any individual name token longer
	// than three runes. An exact full-name match still counts even when
	// every token is short.
	PolicyKeyword
)

// Tokens shorter than this ("La", "de", "El") are discarded to avoid
// matching unrelated text.
const minTokenLen = 4

// ParsePolicy maps a profile's matchPolicy value. Unknown values fall
// back to PolicyExact.
func ParsePolicy(name string) Policy {
	if strings.EqualFold(strings.TrimSpace(name), "keyword") {
		return PolicyKeyword
	}
	return PolicyExact
}

// Match returns one attachment, in catalog order, for every record with
// an image locator that the reply mentions. When baseURL is non-empty
// the locator is resolved to an absolute URL.
func Match(policy Policy, reply string, features []place.Feature, baseURL string) []place.Attachment {
	lowerReply := strings.ToLower(reply)

	var attachments []place.Attachment
	for _, f := range features {
		locator := f.ImageLocator()
		if locator == "" || !mentioned(policy, lowerReply, f.Name()) {
			continue
		}

		att := place.Attachment{
			PlaceName:   f.Name(),
			URL:         ResolveURL(baseURL, locator),
			Description: f.Properties.Descripcion,
		}
		if f.Geometry != nil {
			att.Coordinates = f.Geometry.Coordinates
		}
		attachments = append(attachments, att)
	}
	return attachments
}

func mentioned(policy Policy, lowerReply, name string) bool {
	lowerName := strings.ToLower(name)
	if strings.Contains(lowerReply, lowerName) {
		return true
	}
	if policy != PolicyKeyword {
		return false
	}

	for _, token := range strings.Fields(lowerName) {
		if len([]rune(token)) < minTokenLen {
			continue
		}
		if strings.Contains(lowerReply, token) {
			return true
		}
	}
	return false
}

// ResolveURL joins a relative locator onto baseURL, percent-encoding
// each path segment. An empty baseURL returns the locator unchanged.
func ResolveURL(baseURL, locator string) string {
	if baseURL == "" {
		return locator
	}

	segments := strings.Split(strings.TrimPrefix(locator, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.Join(segments, "/")
}
