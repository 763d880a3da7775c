package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities/staff"
	"github.com/KretovDmitry/order-workflow/internal/domain/repositories"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type StaffRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
	logger logger.Logger
}

func NewStaffRepository(db *sql.DB, getter *trmsql.CtxGetter, logger logger.Logger) (*StaffRepository, error) {
	if db == nil {
		return nil, errors.New("nil dependency: database")
	}
	if getter == nil {
		return nil, errors.New("nil dependency: transaction getter")
	}

	return &StaffRepository{db: db, getter: getter, logger: logger}, nil
}

var _ repositories.StaffRepository = (*StaffRepository)(nil)

func (r *StaffRepository) GetStaffByID(ctx context.Context, id staff.ID) (*staff.Staff, error) {
	const query = "SELECT id, login, password, department, created_at FROM staff WHERE id = $1"

	return r.getOne(ctx, query, id)
}

func (r *StaffRepository) GetStaffByLogin(ctx context.Context, login string) (*staff.Staff, error) {
	const query = "SELECT id, login, password, department, created_at FROM staff WHERE login = $1"

	return r.getOne(ctx, query, login)
}

func (r *StaffRepository) getOne(ctx context.Context, query string, arg any) (*staff.Staff, error) {
	s := new(staff.Staff)

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(
		&s.ID,
		&s.Login,
		&s.Password,
		&s.Department,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	return s, nil
}

func (r *StaffRepository) CreateStaff(
	ctx context.Context, login, password string, dept entities.Department,
) (staff.ID, error) {
	const query = "INSERT INTO staff (login, password, department) VALUES ($1, $2, $3) RETURNING id"

	var id staff.ID

	err := r.getter.DefaultTrOrDB(ctx, r.db).
		QueryRowContext(ctx, query, login, password, dept).
		Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return -1, errs.ErrDataConflict
		}
		return -1, fmt.Errorf("create staff: %w", err)
	}

	return id, nil
}
