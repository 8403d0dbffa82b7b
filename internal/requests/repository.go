package requests

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/database"
)

const columns = `id, type, reference, theme, civilite, nom, prenoms, telephones, emails,
	pays, organisme, contact, lieu, date_debut, date_fin, duree,
	date_reception_email, date_reception_accuse, proforma, fiche_inscription, attestation, created_at`

// Repository handles request (demande) persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a requests repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Find returns the requests matching f, by id.
func (r *Repository) Find(ctx context.Context, f Filter) ([]models.Request, error) {
	q := `SELECT ` + columns + ` FROM demandes` + f.Where() + ` ORDER BY id`
	args := append([]any(nil), f.Args...)
	if f.Page.Limit > 0 {
		args = append(args, f.Page.Limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if f.Page.Offset > 0 {
		args = append(args, f.Page.Offset)
		q += ` OFFSET $` + strconv.Itoa(len(args))
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("find requests: %w", err)
	}
	defer rows.Close()
	var list []models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// Create inserts a request. (type, reference, theme) must be unused.
func (r *Repository) Create(ctx context.Context, req *models.Request) error {
	const q = `INSERT INTO demandes (type, reference, theme, civilite, nom, prenoms, telephones, emails,
			pays, organisme, contact, lieu, date_debut, date_fin, duree,
			date_reception_email, date_reception_accuse, proforma, fiche_inscription, attestation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at`
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, fields(req)...).Scan(&req.ID, &req.CreatedAt)
	})
	return database.Translate(err, "insert request")
}

// Update replaces every field of request req.ID.
func (r *Repository) Update(ctx context.Context, req *models.Request) error {
	const q = `UPDATE demandes SET type = $2, reference = $3, theme = $4, civilite = $5, nom = $6,
			prenoms = $7, telephones = $8, emails = $9, pays = $10, organisme = $11, contact = $12,
			lieu = $13, date_debut = $14, date_fin = $15, duree = $16, date_reception_email = $17,
			date_reception_accuse = $18, proforma = $19, fiche_inscription = $20, attestation = $21
		WHERE id = $1`
	args := append([]any{req.ID}, fields(req)...)
	return database.ExecOne(ctx, r.pool, "update request", q, args...)
}

// Delete removes request id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return database.ExecOne(ctx, r.pool, "delete request", `DELETE FROM demandes WHERE id = $1`, id)
}

// Count returns the number of stored requests.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM demandes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}

// fields lists the writable columns in insert order.
func fields(req *models.Request) []any {
	return []any{
		req.Type, req.Reference, req.Theme, req.Civility, req.LastName, req.FirstNames,
		req.Phones, req.Emails, req.Country, req.Organization, req.Contact, req.Venue,
		dateArg(req.StartDate), dateArg(req.EndDate), req.Duration,
		dateArg(req.EmailReceivedOn), dateArg(req.AckReceivedOn),
		string(req.Proforma), string(req.RegistrationForm), string(req.Certificate),
	}
}

func scanRequest(row pgx.Row) (models.Request, error) {
	var (
		req                         models.Request
		start, end, email, ack      pgtype.Date
		proforma, form, certificate string
	)
	err := row.Scan(&req.ID, &req.Type, &req.Reference, &req.Theme, &req.Civility, &req.LastName,
		&req.FirstNames, &req.Phones, &req.Emails, &req.Country, &req.Organization, &req.Contact,
		&req.Venue, &start, &end, &req.Duration, &email, &ack, &proforma, &form, &certificate,
		&req.CreatedAt)
	if err != nil {
		return req, err
	}
	req.StartDate, req.EndDate = fromDate(start), fromDate(end)
	req.EmailReceivedOn, req.AckReceivedOn = fromDate(email), fromDate(ack)
	req.Proforma = models.ProformaStatus(proforma)
	req.RegistrationForm = models.FormStatus(form)
	req.Certificate = models.CertificateStatus(certificate)
	return req, nil
}

func dateArg(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

func fromDate(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}
