package feed

import "github.com/good-yellow-bee/cyberguard/internal/models"

// All matches every value of a filter criterion.
const All = "All"

// Filter returns the entries matching both criteria, preserving feed order.
// A criterion of All or the empty string matches everything. The input is
// never modified.
func Filter(feed []models.ThreatFeedEntry, severity, threatType string) []models.ThreatFeedEntry {
	out := make([]models.ThreatFeedEntry, 0, len(feed))
	for _, e := range feed {
		if !matches(severity, string(e.Severity)) || !matches(threatType, e.Type) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matches(criterion, value string) bool {
	return criterion == "" || criterion == All || criterion == value
}
