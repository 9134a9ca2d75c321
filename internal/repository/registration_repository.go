package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairgrounds/registration-service/internal/domain"
)

// RegistrationFilter captures listing parameters. A nil Status means no
// status restriction; Search matches case-insensitively as a substring
// against first name, last name, email, or company name.
type RegistrationFilter struct {
	Status *domain.RegistrationStatus
	Search *string
	Limit  int
	Offset int
}

// RegistrationRepository encapsulates registration persistence.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.Registration) error
	Update(ctx context.Context, reg *domain.Registration) error
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	List(ctx context.Context, filter RegistrationFilter) ([]domain.Registration, error)
	Count(ctx context.Context, filter RegistrationFilter) (int64, error)
	ListAll(ctx context.Context) ([]domain.Registration, error)
	Delete(ctx context.Context, id string) error
}

type registrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository returns a Postgres-backed implementation.
func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &registrationRepository{pool: pool}
}

const registrationColumns = `id, applicant_type, company_name, first_name, last_name, birth_date, birth_place,
               address, postal_code, city, phone, email,
               product_type, stand_length, stand_depth, stand_type,
               electricity_needed, electricity_type, electricity_watts, water,
               product_category, artisanal_type, demonstration, remarks,
               status, stand_number, total_fee,
               payment_date, payment_method, payment_reference,
               created_at, updated_at`

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	const query = `
        INSERT INTO registrations (applicant_type, company_name, first_name, last_name, birth_date, birth_place,
            address, postal_code, city, phone, email,
            product_type, stand_length, stand_depth, stand_type,
            electricity_needed, electricity_type, electricity_watts, water,
            product_category, artisanal_type, demonstration, remarks,
            status, stand_number, total_fee)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		reg.ApplicantType,
		reg.CompanyName,
		reg.FirstName,
		reg.LastName,
		reg.BirthDate,
		reg.BirthPlace,
		reg.Address,
		reg.PostalCode,
		reg.City,
		reg.Phone,
		reg.Email,
		reg.ProductType,
		reg.StandLength,
		reg.StandDepth,
		reg.StandType,
		reg.Electricity.Needed,
		reg.Electricity.Type,
		reg.Electricity.Watts,
		reg.Water,
		reg.ProductCategory,
		reg.ArtisanalType,
		reg.Demonstration,
		reg.Remarks,
		reg.Status,
		reg.StandNumber,
		reg.TotalFee,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
}

// Update writes every mutable field in one statement so status and fee can
// never be observed out of sync.
func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	const query = `
        UPDATE registrations SET applicant_type=$1, company_name=$2, first_name=$3, last_name=$4,
            birth_date=$5, birth_place=$6, address=$7, postal_code=$8, city=$9, phone=$10, email=$11,
            product_type=$12, stand_length=$13, stand_depth=$14, stand_type=$15,
            electricity_needed=$16, electricity_type=$17, electricity_watts=$18, water=$19,
            product_category=$20, artisanal_type=$21, demonstration=$22, remarks=$23,
            status=$24, stand_number=$25, total_fee=$26,
            payment_date=$27, payment_method=$28, payment_reference=$29, updated_at=NOW()
        WHERE id=$30`

	cmd, err := r.pool.Exec(ctx, query,
		reg.ApplicantType,
		reg.CompanyName,
		reg.FirstName,
		reg.LastName,
		reg.BirthDate,
		reg.BirthPlace,
		reg.Address,
		reg.PostalCode,
		reg.City,
		reg.Phone,
		reg.Email,
		reg.ProductType,
		reg.StandLength,
		reg.StandDepth,
		reg.StandType,
		reg.Electricity.Needed,
		reg.Electricity.Type,
		reg.Electricity.Watts,
		reg.Water,
		reg.ProductCategory,
		reg.ArtisanalType,
		reg.Demonstration,
		reg.Remarks,
		reg.Status,
		reg.StandNumber,
		reg.TotalFee,
		reg.PaymentDate,
		reg.PaymentMethod,
		reg.PaymentReference,
		reg.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := fmt.Sprintf(`SELECT %s FROM registrations WHERE id=$1`, registrationColumns)

	row := r.pool.QueryRow(ctx, query, id)
	reg, err := scanRegistration(row)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// likeEscaper keeps LIKE metacharacters in user search terms literal, so
// "a_c" matches "a_c" and not "abc".
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

func buildFilterClauses(filter RegistrationFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, likePattern(*filter.Search))
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(first_name) LIKE %s OR LOWER(last_name) LIKE %s OR LOWER(email) LIKE %s OR LOWER(COALESCE(company_name, '')) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}

	return strings.Join(clauses, " AND "), args
}

func (r *registrationRepository) List(ctx context.Context, filter RegistrationFilter) ([]domain.Registration, error) {
	where, args := buildFilterClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	// Most recent first; id breaks ties so the order is deterministic.
	query := fmt.Sprintf(`SELECT %s FROM registrations WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		registrationColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

func (r *registrationRepository) Count(ctx context.Context, filter RegistrationFilter) (int64, error) {
	where, args := buildFilterClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM registrations WHERE %s`, where)

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *registrationRepository) ListAll(ctx context.Context) ([]domain.Registration, error) {
	query := fmt.Sprintf(`SELECT %s FROM registrations ORDER BY created_at DESC, id DESC`, registrationColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM registrations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	var reg domain.Registration
	if err := row.Scan(
		&reg.ID,
		&reg.ApplicantType,
		&reg.CompanyName,
		&reg.FirstName,
		&reg.LastName,
		&reg.BirthDate,
		&reg.BirthPlace,
		&reg.Address,
		&reg.PostalCode,
		&reg.City,
		&reg.Phone,
		&reg.Email,
		&reg.ProductType,
		&reg.StandLength,
		&reg.StandDepth,
		&reg.StandType,
		&reg.Electricity.Needed,
		&reg.Electricity.Type,
		&reg.Electricity.Watts,
		&reg.Water,
		&reg.ProductCategory,
		&reg.ArtisanalType,
		&reg.Demonstration,
		&reg.Remarks,
		&reg.Status,
		&reg.StandNumber,
		&reg.TotalFee,
		&reg.PaymentDate,
		&reg.PaymentMethod,
		&reg.PaymentReference,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &reg, nil
}

func scanRegistrations(rows pgx.Rows) ([]domain.Registration, error) {
	var result []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *reg)
	}
	return result, rows.Err()
}
