package validate

import "fmt"

// Input limits shared by the HTTP handlers and the page.
const (
	MaxAddTextLength  = 4096
	MaxVideoIDLength  = 64
	MaxQueryLength    = 8192
	MaxCommandsPerRun = 50
	DefaultMaxVideos  = 36
)

func checkLen(value string, max int, field string) string {
	if len(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

func AddText(s string) string { return checkLen(s, MaxAddTextLength, "video list") }
func VideoID(s string) string { return checkLen(s, MaxVideoIDLength, "video ID") }
func Query(s string) string   { return checkLen(s, MaxQueryLength, "query") }

// VideoCount reports when adding n videos to current would pass limit.
// A limit of zero means unlimited.
func VideoCount(current, n, limit int) string {
	if limit > 0 && current+n > limit {
		return fmt.Sprintf("a grid holds at most %d videos", limit)
	}
	return ""
}

// Commands reports when a batch holds too many commands.
func Commands(n int) string {
	if n > MaxCommandsPerRun {
		return fmt.Sprintf("at most %d commands per request", MaxCommandsPerRun)
	}
	return ""
}

// FieldLimits returns a map of field names to max lengths for the /api/limits endpoint.
func FieldLimits(maxVideos int) map[string]int {
	return map[string]int{
		"addText":  MaxAddTextLength,
		"videoId":  MaxVideoIDLength,
		"query":    MaxQueryLength,
		"commands": MaxCommandsPerRun,
		"videos":   maxVideos,
	}
}
