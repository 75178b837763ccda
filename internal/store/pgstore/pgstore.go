// Package pgstore implements store.Store against PostgreSQL via pgx/v5,
// grounded on the original's sqlx-based TemplateDatabase: the same table
// shape, the same ON CONFLICT DO NOTHING batch-insert pattern, and the
// same begin/update-referencing-substitutes/commit shape for renames —
// translated into pgx's pool/Tx idiom.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fungen.dev/internal/fungerr"
	"fungen.dev/internal/store"
	"fungen.dev/internal/substitutor"
)

var _ store.Store = (*PgStore)(nil)

// PgStore implements store.Store against a pgxpool.Pool.
type PgStore struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fungerr.Database("connecting to substitute store", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fungerr.Database("applying substitute store schema", err)
	}
	return &PgStore{pool: pool}, nil
}

// New wraps an already-constructed pool (tests, or a pool shared with
// other subsystems).
func New(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// Close releases the underlying connection pool.
func (s *PgStore) Close() { s.pool.Close() }

func wrapScanErr(action string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return fungerr.Database(action, err)
}

func (s *PgStore) CreateTemplate(ctx context.Context, name string) (*store.Template, error) {
	if err := store.ValidateTemplateName(name); err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx,
		`INSERT INTO templates (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id, name`,
		name)
	var t store.Template
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("creating template", err)
	}
	return &t, nil
}

func (s *PgStore) ReadTemplateByID(ctx context.Context, id store.KeySize) (*store.Template, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, name FROM templates WHERE id = $1`, id)
	var t store.Template
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("reading template by id", err)
	}
	return &t, nil
}

func (s *PgStore) ReadTemplateByName(ctx context.Context, name string) (*store.Template, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, name FROM templates WHERE name = $1`, name)
	var t store.Template
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("reading template by name", err)
	}
	return &t, nil
}

func orderClause(order store.OrderBy, alias string) string {
	dir := "ASC"
	if order.Order() == store.Descending {
		dir = "DESC"
	}
	switch order.Kind() {
	case store.OrderKindID:
		return fmt.Sprintf("%s.id %s", alias, dir)
	case store.OrderKindName:
		return fmt.Sprintf("%s.name %s", alias, dir)
	case store.OrderKindNameIgnoreCase:
		return fmt.Sprintf("LOWER(%s.name) %s", alias, dir)
	case store.OrderKindRandom:
		return "RANDOM()"
	default:
		return fmt.Sprintf("%s.id ASC", alias)
	}
}

func limitClause(limit store.Limit) string {
	if limit.Unlimited() {
		return "ALL"
	}
	return fmt.Sprintf("%d", limit.Count())
}

func (s *PgStore) ReadTemplates(ctx context.Context, searchSubstring string, order store.OrderBy, limit store.Limit) ([]store.Template, error) {
	q := fmt.Sprintf(
		`SELECT id, name FROM templates WHERE name LIKE $1 ORDER BY %s LIMIT %s`,
		orderClause(order, "templates"), limitClause(limit),
	)
	rows, err := s.pool.Query(ctx, q, "%"+searchSubstring+"%")
	if err != nil {
		return nil, fungerr.Database("listing templates", err)
	}
	defer rows.Close()
	var out []store.Template
	for rows.Next() {
		var t store.Template
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fungerr.Database("scanning template row", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// propagateRenameTx rewrites, within tx, every substitute body containing
// a delimited reference to oldName across all four delimiters (spec §4.7,
// §6, invariant 3 — "any delimiter"). This includes PlusRegister: a
// substitute body can hold a register reference like $noun-1, and
// substitutor.New(PlusRegister)'s \$[a-z0-9_]+\$? match picks out noun and
// leaves the -1 tail untouched, so renaming noun tracks through it the
// same way a ^noun^ or 'noun' reference would.
func propagateRenameTx(ctx context.Context, tx pgx.Tx, oldName, newName string) error {
	for _, d := range []substitutor.Delimiter{substitutor.Caret, substitutor.SingleQuote, substitutor.BackTick, substitutor.PlusRegister} {
		rows, err := tx.Query(ctx, `SELECT id, name, template_id FROM substitutes WHERE name LIKE $1`,
			"%"+d.String()+oldName+"%")
		if err != nil {
			return fungerr.Database("scanning substitutes for rename propagation", err)
		}
		type hit struct {
			id   store.KeySize
			name string
		}
		var hits []hit
		for rows.Next() {
			var h hit
			var templateID store.KeySize
			if err := rows.Scan(&h.id, &h.name, &templateID); err != nil {
				rows.Close()
				return fungerr.Database("scanning substitute row", err)
			}
			hits = append(hits, h)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fungerr.Database("iterating substitute rows", err)
		}

		sub := substitutor.New(d)
		for _, h := range hits {
			rewritten := sub.Rename(h.name, oldName, newName)
			if rewritten == h.name {
				continue
			}
			if _, err := tx.Exec(ctx, `UPDATE substitutes SET name = $1 WHERE id = $2`, rewritten, h.id); err != nil {
				return fungerr.Database("rewriting substitute body during rename", err)
			}
		}
	}
	return nil
}

func (s *PgStore) UpdateTemplateByID(ctx context.Context, id store.KeySize, newName string) (*store.Template, error) {
	if err := store.ValidateTemplateName(newName); err != nil {
		return nil, err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fungerr.Database("beginning rename transaction", err)
	}
	defer tx.Rollback(ctx)

	old, err := s.ReadTemplateByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, nil
	}

	row := tx.QueryRow(ctx, `UPDATE templates SET name = $1 WHERE id = $2 RETURNING id, name`, newName, id)
	var t store.Template
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		return nil, fungerr.Database("renaming template", err)
	}
	if err := propagateRenameTx(ctx, tx, old.Name, newName); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fungerr.Database("committing rename transaction", err)
	}
	return &t, nil
}

func (s *PgStore) UpdateTemplateByName(ctx context.Context, oldName, newName string) (*store.Template, error) {
	if err := store.ValidateTemplateName(newName); err != nil {
		return nil, err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fungerr.Database("beginning rename transaction", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE templates SET name = $1 WHERE name = $2 RETURNING id, name`, newName, oldName)
	var t store.Template
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("renaming template", err)
	}
	if err := propagateRenameTx(ctx, tx, oldName, newName); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fungerr.Database("committing rename transaction", err)
	}
	return &t, nil
}

func (s *PgStore) DeleteTemplateByID(ctx context.Context, id store.KeySize) (*store.Template, error) {
	row := s.pool.QueryRow(ctx, `DELETE FROM templates WHERE id = $1 RETURNING id, name`, id)
	var t store.Template
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("deleting template by id", err)
	}
	return &t, nil
}

func (s *PgStore) DeleteTemplateByName(ctx context.Context, name string) (*store.Template, error) {
	row := s.pool.QueryRow(ctx, `DELETE FROM templates WHERE name = $1 RETURNING id, name`, name)
	var t store.Template
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("deleting template by name", err)
	}
	return &t, nil
}

func (s *PgStore) DeleteTemplatesByName(ctx context.Context, names []string) (store.TemplateReceipt, error) {
	rows, err := s.pool.Query(ctx, `DELETE FROM templates WHERE name = ANY($1) RETURNING id, name`, names)
	if err != nil {
		return store.TemplateReceipt{}, fungerr.Database("deleting templates by name", err)
	}
	defer rows.Close()
	deleted := make(map[string]bool)
	var receipt store.TemplateReceipt
	for rows.Next() {
		var t store.Template
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return store.TemplateReceipt{}, fungerr.Database("scanning deleted template row", err)
		}
		receipt.Updated = append(receipt.Updated, t)
		deleted[t.Name] = true
	}
	if err := rows.Err(); err != nil {
		return store.TemplateReceipt{}, fungerr.Database("iterating deleted template rows", err)
	}
	for _, n := range names {
		if !deleted[n] {
			receipt.Ignored = append(receipt.Ignored, n)
		}
	}
	return receipt, nil
}

func (s *PgStore) readOrCreateTemplate(ctx context.Context, tx pgx.Tx, name string) (store.Template, error) {
	row := tx.QueryRow(ctx,
		`INSERT INTO templates (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name`, name)
	var t store.Template
	err := row.Scan(&t.ID, &t.Name)
	return t, err
}

func (s *PgStore) CreateSubstitute(ctx context.Context, template string, body string) (store.SubstituteReceipt, error) {
	return s.CreateSubstitutes(ctx, template, []string{body})
}

func (s *PgStore) CreateSubstitutes(ctx context.Context, template string, bodies []string) (store.SubstituteReceipt, error) {
	if err := store.ValidateTemplateName(template); err != nil {
		return store.SubstituteReceipt{}, err
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return store.SubstituteReceipt{}, fungerr.Database("beginning substitute insert transaction", err)
	}
	defer tx.Rollback(ctx)

	t, err := s.readOrCreateTemplate(ctx, tx, template)
	if err != nil {
		return store.SubstituteReceipt{}, fungerr.Database("resolving parent template", err)
	}

	var receipt store.SubstituteReceipt
	for _, body := range bodies {
		row := tx.QueryRow(ctx,
			`INSERT INTO substitutes (name, template_id) VALUES ($1, $2)
			 ON CONFLICT (name, template_id) DO NOTHING
			 RETURNING id, name, template_id`, body, t.ID)
		var sub store.Substitute
		if err := row.Scan(&sub.ID, &sub.Name, &sub.TemplateID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				receipt.Ignored = append(receipt.Ignored, body)
				continue
			}
			return store.SubstituteReceipt{}, fungerr.Database("inserting substitute", err)
		}
		receipt.Updated = append(receipt.Updated, sub)
	}
	if err := tx.Commit(ctx); err != nil {
		return store.SubstituteReceipt{}, fungerr.Database("committing substitute insert transaction", err)
	}
	return receipt, nil
}

func (s *PgStore) ReadSubstituteByID(ctx context.Context, id store.KeySize) (*store.Substitute, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, name, template_id FROM substitutes WHERE id = $1`, id)
	var sub store.Substitute
	if err := row.Scan(&sub.ID, &sub.Name, &sub.TemplateID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("reading substitute by id", err)
	}
	return &sub, nil
}

func (s *PgStore) ReadSubstituteFromTemplateByName(ctx context.Context, template, name string) (*store.Substitute, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT s.id, s.name, s.template_id FROM substitutes s JOIN templates t ON s.template_id = t.id
		 WHERE t.name = $1 AND s.name = $2`, template, name)
	var sub store.Substitute
	if err := row.Scan(&sub.ID, &sub.Name, &sub.TemplateID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("reading substitute by name", err)
	}
	return &sub, nil
}

func (s *PgStore) ReadSubstitutesFromTemplate(ctx context.Context, template string, searchSubstring string, order store.OrderBy, limit store.Limit) ([]store.Substitute, error) {
	q := fmt.Sprintf(
		`SELECT s.id, s.name, s.template_id FROM substitutes s JOIN templates t ON s.template_id = t.id
		 WHERE t.name = $1 AND s.name LIKE $2 ORDER BY %s LIMIT %s`,
		orderClause(order, "s"), limitClause(limit),
	)
	rows, err := s.pool.Query(ctx, q, template, "%"+searchSubstring+"%")
	if err != nil {
		return nil, fungerr.Database("listing substitutes", err)
	}
	defer rows.Close()
	var out []store.Substitute
	for rows.Next() {
		var sub store.Substitute
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.TemplateID); err != nil {
			return nil, fungerr.Database("scanning substitute row", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *PgStore) UpdateSubstituteByID(ctx context.Context, id store.KeySize, newBody string) (*store.Substitute, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE substitutes SET name = $1 WHERE id = $2 RETURNING id, name, template_id`, newBody, id)
	var sub store.Substitute
	if err := row.Scan(&sub.ID, &sub.Name, &sub.TemplateID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("updating substitute by id", err)
	}
	return &sub, nil
}

func (s *PgStore) UpdateSubstituteByName(ctx context.Context, template, name, newBody string) (*store.Substitute, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE substitutes s SET name = $1 FROM templates t
		 WHERE s.template_id = t.id AND t.name = $2 AND s.name = $3
		 RETURNING s.id, s.name, s.template_id`, newBody, template, name)
	var sub store.Substitute
	if err := row.Scan(&sub.ID, &sub.Name, &sub.TemplateID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("updating substitute by name", err)
	}
	return &sub, nil
}

func (s *PgStore) DeleteSubstituteByID(ctx context.Context, id store.KeySize) (*store.Substitute, error) {
	row := s.pool.QueryRow(ctx, `DELETE FROM substitutes WHERE id = $1 RETURNING id, name, template_id`, id)
	var sub store.Substitute
	if err := row.Scan(&sub.ID, &sub.Name, &sub.TemplateID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("deleting substitute by id", err)
	}
	return &sub, nil
}

func (s *PgStore) DeleteSubstitutesByID(ctx context.Context, ids []store.KeySize) (store.SubstituteReceipt, error) {
	rows, err := s.pool.Query(ctx, `DELETE FROM substitutes WHERE id = ANY($1) RETURNING id, name, template_id`, ids)
	if err != nil {
		return store.SubstituteReceipt{}, fungerr.Database("deleting substitutes by id", err)
	}
	defer rows.Close()
	deleted := make(map[store.KeySize]bool)
	var receipt store.SubstituteReceipt
	for rows.Next() {
		var sub store.Substitute
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.TemplateID); err != nil {
			return store.SubstituteReceipt{}, fungerr.Database("scanning deleted substitute row", err)
		}
		receipt.Updated = append(receipt.Updated, sub)
		deleted[sub.ID] = true
	}
	if err := rows.Err(); err != nil {
		return store.SubstituteReceipt{}, fungerr.Database("iterating deleted substitute rows", err)
	}
	for _, id := range ids {
		if !deleted[id] {
			receipt.Ignored = append(receipt.Ignored, fmt.Sprintf("%d", id))
		}
	}
	return receipt, nil
}

func (s *PgStore) DeleteSubstituteByName(ctx context.Context, template, name string) (*store.Substitute, error) {
	row := s.pool.QueryRow(ctx,
		`DELETE FROM substitutes s USING templates t
		 WHERE s.template_id = t.id AND t.name = $1 AND s.name = $2
		 RETURNING s.id, s.name, s.template_id`, template, name)
	var sub store.Substitute
	if err := row.Scan(&sub.ID, &sub.Name, &sub.TemplateID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fungerr.Database("deleting substitute by name", err)
	}
	return &sub, nil
}

func (s *PgStore) DeleteSubstitutesByName(ctx context.Context, template string, names []string) (store.SubstituteReceipt, error) {
	var receipt store.SubstituteReceipt
	for _, name := range names {
		sub, err := s.DeleteSubstituteByName(ctx, template, name)
		if err != nil {
			return store.SubstituteReceipt{}, err
		}
		if sub != nil {
			receipt.Updated = append(receipt.Updated, *sub)
		} else {
			receipt.Ignored = append(receipt.Ignored, name)
		}
	}
	return receipt, nil
}

func (s *PgStore) CopySubstitutesFromTemplateToTemplate(ctx context.Context, src, dst string) (store.SubstituteReceipt, error) {
	rows, err := s.pool.Query(ctx,
		`INSERT INTO substitutes (name, template_id)
		 SELECT s.name, t_dest.id
		 FROM substitutes s
		 JOIN templates t_source ON s.template_id = t_source.id
		 JOIN templates t_dest ON t_dest.name = $1
		 WHERE t_source.name = $2
		 ON CONFLICT (name, template_id) DO NOTHING
		 RETURNING id, name, template_id`, dst, src)
	if err != nil {
		return store.SubstituteReceipt{}, fungerr.Database("copying substitutes between templates", err)
	}
	defer rows.Close()
	var receipt store.SubstituteReceipt
	for rows.Next() {
		var sub store.Substitute
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.TemplateID); err != nil {
			return store.SubstituteReceipt{}, fungerr.Database("scanning copied substitute row", err)
		}
		receipt.Updated = append(receipt.Updated, sub)
	}
	return receipt, rows.Err()
}

func (s *PgStore) ReadRandomSubstitutes(ctx context.Context, template string, limit int) ([]store.Substitute, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT s.id, s.name, s.template_id FROM substitutes s JOIN templates t ON s.template_id = t.id
		 WHERE t.name = $1 ORDER BY RANDOM() LIMIT $2`, template, limit)
	if err != nil {
		return nil, fungerr.Database("reading random substitutes", err)
	}
	defer rows.Close()
	var out []store.Substitute
	for rows.Next() {
		var sub store.Substitute
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.TemplateID); err != nil {
			return nil, fungerr.Database("scanning random substitute row", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}
