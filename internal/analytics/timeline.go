package analytics

// mergeTimeline merges two date-ordered event lists into one. Dates are
// YYYY-MM-DD strings so they compare lexically. On equal dates production
// events come first.
func mergeTimeline(production, financial []TimelineEvent) []TimelineEvent {
	out := make([]TimelineEvent, 0, len(production)+len(financial))

	i, j := 0, 0
	for i < len(production) && j < len(financial) {
		if financial[j].Date < production[i].Date {
			out = append(out, financial[j])
			j++

			continue
		}

		out = append(out, production[i])
		i++
	}

	out = append(out, production[i:]...)
	out = append(out, financial[j:]...)

	return out
}
