package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/umalmyha/customer-records/internal/model"
)

const pgUniqueViolationCode = "23505"

const customerColumns = "id, firstname, lastname, gender, email, phone, address, city, state, country, avatar"

// CustomerRepository represents behavior for customer repository
type CustomerRepository interface {
	FindByID(context.Context, string) (*model.Customer, error)
	FindByEmail(context.Context, string) (*model.Customer, error)
	FindByPhone(context.Context, string) (*model.Customer, error)
	FindAll(ctx context.Context, filter model.CustomerFilter, limit, offset int) ([]*model.Customer, error)
	Count(context.Context, model.CustomerFilter) (int, error)
	Create(context.Context, *model.Customer) error
	Update(context.Context, string, model.CustomerPatch) (*model.Customer, error)
	DeleteByID(context.Context, string) (bool, error)
}

type rowScanner interface {
	Scan(...any) error
}

type postgresCustomerRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCustomerRepository builds postgres customer repository
func NewPostgresCustomerRepository(p *pgxpool.Pool) CustomerRepository {
	return &postgresCustomerRepository{pool: p}
}

func (r *postgresCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.findOneBy(ctx, "id", id)
}

func (r *postgresCustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.findOneBy(ctx, "email", email)
}

func (r *postgresCustomerRepository) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	return r.findOneBy(ctx, "phone", phone)
}

func (r *postgresCustomerRepository) FindAll(ctx context.Context, filter model.CustomerFilter, limit, offset int) ([]*model.Customer, error) {
	where, args := r.where(filter)
	q := fmt.Sprintf("SELECT %s FROM customers%s ORDER BY seq LIMIT $%d OFFSET $%d", customerColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *postgresCustomerRepository) Count(ctx context.Context, filter model.CustomerFilter) (int, error) {
	where, args := r.where(filter)
	q := "SELECT COUNT(*) FROM customers" + where

	var count int
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	q := fmt.Sprintf("INSERT INTO customers(%s) VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)", customerColumns)
	_, err := r.pool.Exec(ctx, q, c.ID, c.FirstName, c.LastName, c.Gender, c.Email, c.Phone, c.Address, c.City, c.State, c.Country, c.Avatar)
	if err != nil {
		return r.translateErr(err)
	}
	return nil
}

func (r *postgresCustomerRepository) Update(ctx context.Context, id string, patch model.CustomerPatch) (*model.Customer, error) {
	fields := patch.Fields()
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}

	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i, f := range fields {
		sets = append(sets, fmt.Sprintf("%s = $%d", f.Name, i+1))
		args = append(args, f.Value)
	}
	args = append(args, id)

	q := fmt.Sprintf("UPDATE customers SET %s WHERE id = $%d RETURNING %s", strings.Join(sets, ", "), len(args), customerColumns)
	c, err := scanCustomer(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, r.translateErr(err)
	}
	return c, nil
}

func (r *postgresCustomerRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	comm, err := r.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return comm.RowsAffected() > 0, nil
}

// findOneBy column is never taken from user input
func (r *postgresCustomerRepository) findOneBy(ctx context.Context, column string, value string) (*model.Customer, error) {
	q := fmt.Sprintf("SELECT %s FROM customers WHERE %s = $1 ORDER BY seq LIMIT 1", customerColumns, column)

	c, err := scanCustomer(r.pool.QueryRow(ctx, q, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCustomerRepository) where(filter model.CustomerFilter) (string, []any) {
	if filter.City == nil {
		return "", nil
	}
	return " WHERE city = $1", []any{*filter.City}
}

func (r *postgresCustomerRepository) translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		return fmt.Errorf("customer violates unique constraint %s - %w", pgErr.ConstraintName, err)
	}
	return err
}

func scanCustomer(row rowScanner) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Gender, &c.Email, &c.Phone, &c.Address, &c.City, &c.State, &c.Country, &c.Avatar)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
