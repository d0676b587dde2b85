/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PGSource is a read-only template catalog source backed by Postgres. It
// serves teams that point the app directly at the shared database instead of
// the HTTP API; the schema is owned by the server.
type PGSource struct {
	db *sql.DB
}

// OpenPG connects to the catalog database and verifies the connection.
func OpenPG(ctx context.Context, dsn string) (*PGSource, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("catalog dsn is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &PGSource{db: db}, nil
}

// Close releases the database handle.
func (s *PGSource) Close() error { return s.db.Close() }

// ListTemplates returns all shared templates, newest first.
func (s *PGSource) ListTemplates(ctx context.Context) ([]TemplateSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, stable_id, name, style, updated_at, version FROM templates ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	var list []TemplateSummary
	for rows.Next() {
		var t TemplateSummary
		if err := rows.Scan(&t.ID, &t.StableID, &t.Name, &t.Style, &t.UpdatedAt, &t.Version); err != nil {
			return nil, fmt.Errorf("scan template row: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// GetTemplate fetches the latest stored version of a template.
func (s *PGSource) GetTemplate(ctx context.Context, stableID string) (*TemplateEnvelope, error) {
	var (
		version int64
		desc    []byte
		created time.Time
	)
	row := s.db.QueryRowContext(ctx, `SELECT version, descriptor, created_at FROM templates WHERE stable_id = $1 ORDER BY version DESC, id DESC LIMIT 1`, stableID)
	switch err := row.Scan(&version, &desc, &created); err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("template %q: %w", stableID, ErrNotFound)
	case nil:
		// ok
	default:
		return nil, fmt.Errorf("select template: %w", err)
	}
	return &TemplateEnvelope{
		StableID:   stableID,
		Version:    version,
		CreatedAt:  created.UTC().Format(time.RFC3339),
		Descriptor: json.RawMessage(desc),
	}, nil
}

// TemplateQuery filters SearchTemplates. Zero values mean "no filter".
type TemplateQuery struct {
	Text   string // full-text over the template name
	Style  string // exact style match
	Limit  int
	Offset int
}

// SearchTemplates executes a filtered search over the shared templates using
// tsvector on the name column.
func (s *PGSource) SearchTemplates(ctx context.Context, q TemplateQuery) ([]TemplateSummary, error) {
	var (
		args []any
		b    strings.Builder
	)
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		b.WriteString("SELECT id, stable_id, name, style, updated_at, version FROM templates ")
		b.WriteString("WHERE to_tsvector('simple', name) @@ plainto_tsquery('simple', $1) ")
		args = append(args, q.Text)
	} else {
		b.WriteString("SELECT id, stable_id, name, style, updated_at, version FROM templates WHERE TRUE ")
	}

	// Helper to add parameter and return placeholder like $n
	place := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if st := strings.ToLower(strings.TrimSpace(q.Style)); st != "" {
		b.WriteString(" AND style = " + place(st) + " ")
	}

	// Order and pagination
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	b.WriteString(" ORDER BY updated_at DESC, id DESC ")
	b.WriteString(" LIMIT " + place(limit) + " OFFSET " + place(offset))

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search templates: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []TemplateSummary
	for rows.Next() {
		var t TemplateSummary
		if err := rows.Scan(&t.ID, &t.StableID, &t.Name, &t.Style, &t.UpdatedAt, &t.Version); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
