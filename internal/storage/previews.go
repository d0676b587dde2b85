/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"carouselstudio/internal/domain"
)

// PreviewContentKey fingerprints a slide's visible contents. Previews carry
// the key of the slide state they were rendered from; a mismatch marks the
// cached thumb as stale without consulting timestamps.
func PreviewContentKey(slide domain.Slide) string {
	b, err := json.Marshal(slide)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// GetPreview returns the cached PNG for a slide at pixel width w, or nil when
// there is no fresh entry. A cached row rendered from different slide contents
// counts as absent. Hits update last_access for LRU bookkeeping.
func (s *Store) GetPreview(ctx context.Context, slideID string, w int, contentKey string) ([]byte, error) {
	var blob []byte
	var storedKey string
	err := s.db.QueryRowContext(ctx, `SELECT png_blob, content_key FROM previews WHERE slide_id=? AND w=?`, slideID, w).Scan(&blob, &storedKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query preview: %w", err)
	}
	if storedKey != contentKey {
		return nil, nil
	}
	// touch
	now := time.Now().UTC().Format(time.RFC3339)
	_, _ = s.db.ExecContext(ctx, `UPDATE previews SET last_access=? WHERE slide_id=? AND w=?`, now, slideID, w)
	return blob, nil
}

// PutPreview upserts a preview blob and enforces the cache size cap via LRU eviction.
func (s *Store) PutPreview(ctx context.Context, slideID string, w int, contentKey string, blob []byte) error {
	if slideID == "" {
		return errors.New("slide id is required")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	size := len(blob)
	_, err := s.db.ExecContext(ctx, `INSERT INTO previews(slide_id,w,content_key,png_blob,size,updated_at,last_access)
		VALUES(?,?,?,?,?,?,?)
		ON CONFLICT(slide_id,w) DO UPDATE SET content_key=excluded.content_key, png_blob=excluded.png_blob, size=excluded.size, updated_at=excluded.updated_at, last_access=excluded.last_access`,
		slideID, w, contentKey, blob, size, now, now)
	if err != nil {
		return fmt.Errorf("upsert preview: %w", err)
	}
	// Enforce cap
	capBytes := MaxPreviewsBytesFromEnv()
	if capBytes > 0 {
		if err := evictPreviewsToFit(ctx, s.db, capBytes); err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreatePreview fetches a fresh preview or generates and stores one using
// the provided generator.
func (s *Store) GetOrCreatePreview(ctx context.Context, slideID string, w int, contentKey string, gen func(context.Context) ([]byte, error)) ([]byte, error) {
	// Try to get existing first
	if b, err := s.GetPreview(ctx, slideID, w, contentKey); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	if gen == nil {
		return nil, nil
	}
	data, err := gen(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	if err := s.PutPreview(ctx, slideID, w, contentKey, data); err != nil {
		return nil, err
	}
	return data, nil
}

// DeletePreviews drops all cached widths for a slide, e.g. after deletion.
func (s *Store) DeletePreviews(ctx context.Context, slideID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM previews WHERE slide_id=?`, slideID); err != nil {
		return fmt.Errorf("delete previews: %w", err)
	}
	return nil
}

// evictPreviewsToFit deletes least-recently-used rows until total size <= capBytes.
func evictPreviewsToFit(ctx context.Context, db *sql.DB, capBytes int64) error {
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size),0) FROM previews`).Scan(&total); err != nil {
		return fmt.Errorf("sum previews size: %w", err)
	}
	if total <= capBytes {
		return nil
	}
	// Select victim ids ordered by last_access asc (oldest first), NULLs first
	rows, err := db.QueryContext(ctx, `SELECT id, size FROM previews ORDER BY
		CASE WHEN last_access IS NULL THEN 0 ELSE 1 END ASC, last_access ASC`)
	if err != nil {
		return fmt.Errorf("select victims: %w", err)
	}
	toDelete := make([]int64, 0, 32)
	var cur = total
	for rows.Next() {
		var id int64
		var sz int64
		if err := rows.Scan(&id, &sz); err != nil {
			_ = rows.Close()
			return err
		}
		toDelete = append(toDelete, id)
		cur -= sz
		if cur <= capBytes {
			break
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	// Important: close the rows cursor before attempting to write
	if err := rows.Close(); err != nil {
		return err
	}
	if len(toDelete) == 0 {
		return nil
	}
	// Delete selected ids
	sqlBase := `DELETE FROM previews WHERE id IN (`
	for i := range toDelete {
		if i > 0 {
			sqlBase += ","
		}
		sqlBase += "?"
	}
	sqlBase += ")"
	args := make([]any, len(toDelete))
	for i, v := range toDelete {
		args[i] = v
	}
	if _, err := db.ExecContext(ctx, sqlBase, args...); err != nil {
		return fmt.Errorf("evict delete: %w", err)
	}
	return nil
}

// TotalPreviewBytes returns total bytes tracked by previews.size
func (s *Store) TotalPreviewBytes(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size),0) FROM previews`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// MaxPreviewsBytesFromEnv reads CRS_PREVIEWS_MAX_BYTES, defaulting to 64MB if unset.
func MaxPreviewsBytesFromEnv() int64 {
	v := os.Getenv("CRS_PREVIEWS_MAX_BYTES")
	if v == "" {
		return 64 * 1024 * 1024 // 64MB
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 64 * 1024 * 1024
	}
	return n
}
