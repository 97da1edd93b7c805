package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"

	"filenode/models"
)

// normalizeDescriptions aligns the raw descriptions form value with n
// uploaded files. The payload is a JSON array, a single JSON value (wrapped
// as a one-element array), or absent (treated as []). The result always has
// length n: missing entries default to "", excess entries are silently
// dropped. A payload that is not valid JSON fails the whole request.
func normalizeDescriptions(raw string, n int) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		raw = "[]"
	}
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("descriptions must be a valid JSON array")
	}
	items, ok := decoded.([]any)
	if !ok {
		items = []any{decoded}
	}
	out := make([]string, n)
	for i := 0; i < n && i < len(items); i++ {
		switch v := items[i].(type) {
		case nil:
			// null stays ""
		case string:
			out[i] = v
		default:
			if b, err := json.Marshal(v); err == nil {
				out[i] = string(b)
			}
		}
	}
	return out, nil
}

// persistBatch stores each (file, description) pair in list order: bytes to
// the blob store, then exactly one metadata row. There is deliberately no
// cross-file transaction — if pair k fails, pairs 0..k-1 stay durably
// persisted and the batch reports failure as a whole. Callers must not wrap
// this in a transaction; clients see all-or-nothing responses while the
// store keeps whatever was written before the failure.
func (s *Server) persistBatch(ctx context.Context, files []*multipart.FileHeader, descriptions []string) ([]models.File, error) {
	inserted := make([]models.File, 0, len(files))
	for i, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		contentType := fh.Header.Get("Content-Type")
		location, err := s.store.Put(ctx, fh.Filename, src, fh.Size, contentType)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", fh.Filename, err)
		}
		rec := models.File{
			FileName:    fh.Filename,
			FilePath:    location,
			Description: descriptions[i],
			FileType:    contentType,
		}
		if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
			return nil, fmt.Errorf("insert %s: %w", fh.Filename, err)
		}
		inserted = append(inserted, rec)
	}
	return inserted, nil
}
