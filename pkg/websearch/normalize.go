package websearch

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var blobEntry = regexp.MustCompile(`(?s)\[snippet:\s*(.*?),\s*title:\s*(.*?),\s*link:\s*(\S*?)\]`)

// Normalize converts the payload shapes search backends produce into
// SearchResults:
//   - a JSON array of records
//   - a JSON object with a "results" array (Tavily), optionally with an "answer"
//   - a single JSON record
//   - a plain text blob, either "[snippet: ..., title: ..., link: ...]" entries or free text
//
// Record keys are matched leniently: title|name, content|snippet|body, url|link|href.
func Normalize(raw []byte) []SearchResult {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return []SearchResult{}
	}
	if !gjson.Valid(text) {
		return normalizeBlob(text)
	}

	doc := gjson.Parse(text)
	switch {
	case doc.IsArray():
		return normalizeRecords(doc)
	case doc.IsObject() && doc.Get("results").IsArray():
		out := []SearchResult{}
		if answer := doc.Get("answer").String(); answer != "" {
			out = append(out, SearchResult{Title: "Summary", Snippet: answer})
		}
		return append(out, normalizeRecords(doc.Get("results"))...)
	case doc.IsObject():
		if r, ok := normalizeRecord(doc); ok {
			return []SearchResult{r}
		}
		return []SearchResult{}
	case doc.Type == gjson.String:
		return normalizeBlob(doc.String())
	}
	return []SearchResult{}
}

func normalizeRecords(arr gjson.Result) []SearchResult {
	out := []SearchResult{}
	arr.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String {
			out = append(out, normalizeBlob(item.String())...)
			return true
		}
		if r, ok := normalizeRecord(item); ok {
			out = append(out, r)
		}
		return true
	})
	return out
}

func normalizeRecord(item gjson.Result) (SearchResult, bool) {
	r := SearchResult{
		Title:   firstString(item, "title", "name"),
		Snippet: firstString(item, "content", "snippet", "body"),
		URL:     firstString(item, "url", "link", "href"),
	}
	if r.Title == "" && r.Snippet == "" && r.URL == "" {
		return r, false
	}
	return r, true
}

func firstString(item gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(item.Get(k).String()); v != "" {
			return v
		}
	}
	return ""
}

func normalizeBlob(text string) []SearchResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return []SearchResult{}
	}

	matches := blobEntry.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return []SearchResult{{Title: "Web result", Snippet: text}}
	}

	out := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, SearchResult{
			Title:   strings.TrimSpace(m[2]),
			Snippet: strings.TrimSpace(m[1]),
			URL:     strings.TrimSpace(m[3]),
		})
	}
	return out
}
