package bgg

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Image URLs scraped from BGG pages come in many variants. Only full
// cover images from the geekdo CDN are acceptable; thumbnails, avatars
// and social-card renders are not.
var rejectedPathMarkers = []string{
	"thumb",
	"avatar",
	"icon",
	"logo",
	"crop",
	"_t.",
	"_mt.",
	"opengraph",
}

var allowedImageHosts = map[string]bool{
	"cf.geekdo-images.com": true,
	"geekdo-images.com":    true,
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// AcceptImageURL reports whether raw is an acceptable cover image URL.
func AcceptImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	if !allowedImageHosts[strings.ToLower(u.Host)] {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, marker := range rejectedPathMarkers {
		if strings.Contains(path, marker) {
			return false
		}
	}

	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	// CDN URLs without extensions still carry a picture path segment.
	return strings.Contains(path, "/pic")
}

// imageRank orders candidate cover images: itemrep renders are the
// canonical catalog cover, imagepage renders next, then full-size
// original uploads, everything else last. Lower is better.
func imageRank(raw string) int {
	switch {
	case strings.Contains(raw, "itemrep"):
		return 0
	case strings.Contains(raw, "imagepage"):
		return 1
	case strings.Contains(raw, "original"):
		return 2
	default:
		return 3
	}
}

// BestImage picks the best acceptable cover image from candidates,
// or "" when none qualify. Order within a rank is preserved.
func BestImage(candidates []string) string {
	var accepted []string
	for _, c := range candidates {
		if AcceptImageURL(c) {
			accepted = append(accepted, c)
		}
	}
	if len(accepted) == 0 {
		return ""
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		return imageRank(accepted[i]) < imageRank(accepted[j])
	})
	return accepted[0]
}

// ExtractImageCandidates pulls candidate cover image URLs out of a BGG
// page: the og:image meta tag plus any geekdo CDN <img> sources.
func ExtractImageCandidates(doc *goquery.Document) []string {
	var candidates []string

	if og, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		candidates = append(candidates, og)
	}
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && strings.Contains(src, "geekdo-images") {
			candidates = append(candidates, src)
		}
	})
	doc.Find(`link[rel="preload"][as="image"]`).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && strings.Contains(href, "geekdo-images") {
			candidates = append(candidates, href)
		}
	})

	return candidates
}

// ExtractTitle pulls the game title from a BGG page, preferring the
// og:title meta tag and stripping the site suffix.
func ExtractTitle(doc *goquery.Document) string {
	title, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	if title == "" {
		title = doc.Find("title").First().Text()
	}
	title = strings.TrimSpace(title)
	if idx := strings.Index(title, "|"); idx >= 0 {
		title = strings.TrimSpace(title[:idx])
	}
	return title
}
