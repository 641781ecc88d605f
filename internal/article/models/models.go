// Package models defines the source-document record backing timeline points.
// The engine interprets only ID and PublishDate; the remaining fields pass
// through to the rendering layer (and feed best-effort search once loaded).
package models

import (
	"encoding/hex"
	"sort"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Article is one fetched source document.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Body        string    `json:"body,omitempty"`
	URL         string    `json:"url,omitempty"`
	PublishDate time.Time `json:"publish_date"`
}

// Fingerprint returns a stable content digest, used by the cache layer to
// tell a rewritten article from a stale cached copy.
func (a Article) Fingerprint() string {
	h, _ := blake2b.New256(nil)
	for _, field := range []string{a.ID, a.Title, a.Subtitle, a.Body, a.URL} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SortByPublishDate orders articles newest first; ties keep input order.
// Used when several articles back one timeline point.
func SortByPublishDate(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishDate.After(articles[j].PublishDate)
	})
}
