package record

// ResultSet is an ordered sequence of records plus pagination metadata.
// Metadata is normalized to scalars exactly once, at ingestion: some
// upstream code paths merge paged responses and hand back array-shaped
// limit/total_count values, which FromPayload flattens so nothing
// downstream has to guard for the dual shape.
type ResultSet struct {
	Items []Record

	TotalCount int
	HasTotal   bool
	Limit      int
	Offset     int
}

// Empty reports whether the set carries no records. An empty set is an
// expected outcome, distinct from an upstream error.
func (rs *ResultSet) Empty() bool {
	return rs == nil || len(rs.Items) == 0
}

// Len returns the number of records.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Items)
}

// FromPayload builds a ResultSet from a decoded JSON payload whose key
// member holds the record array.
func FromPayload(payload map[string]any, key string) *ResultSet {
	rs := &ResultSet{}
	if raw, ok := payload[key].([]any); ok {
		rs.Items = make([]Record, 0, len(raw))
		for _, item := range raw {
			if obj, ok := item.(map[string]any); ok {
				rs.Items = append(rs.Items, Record(obj))
			}
		}
	}
	if v, ok := payload["total_count"]; ok {
		// Merged responses carry one total per page; the first page's
		// total is the authoritative one.
		rs.TotalCount, rs.HasTotal = metaFirst(v)
	}
	if v, ok := payload["limit"]; ok {
		// Per-page limits sum to the effective limit of a merged response.
		rs.Limit, _ = metaSum(v)
	}
	if v, ok := payload["offset"]; ok {
		rs.Offset, _ = metaFirst(v)
	}
	return rs
}

func metaFirst(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case []any:
		if len(t) == 0 {
			return 0, false
		}
		return metaFirst(t[0])
	}
	return 0, false
}

func metaSum(v any) (int, bool) {
	arr, ok := v.([]any)
	if !ok {
		return metaFirst(v)
	}
	sum := 0
	found := false
	for _, item := range arr {
		if n, ok := metaFirst(item); ok {
			sum += n
			found = true
		}
	}
	return sum, found
}
