package pgstore

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

var userColumns = []string{
	"id", "id_type", "identification", "name", "surname", "phone",
	"address", "email", "role", "created_at", "updated_at",
}

var returningUser = "returning " + strings.Join(userColumns, ", ")

func (r *Repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	return getOne[model.User](ctx, r.db, qb.Insert(usersTableName).
		SetMap(map[string]any{
			"id":             user.ID,
			"id_type":        user.IDType,
			"identification": user.Identification,
			"name":           user.Name,
			"surname":        user.Surname,
			"phone":          user.Phone,
			"address":        user.Address,
			"email":          user.Email,
			"role":           user.Role,
			"created_at":     user.CreatedAt,
			"updated_at":     user.UpdatedAt,
		}).
		Suffix(returningUser))
}

func (r *Repository) GetUser(ctx context.Context, id string) (model.User, error) {
	if err := checkID(id); err != nil {
		return model.User{}, err
	}
	return getOne[model.User](ctx, r.db, qb.Select(userColumns...).
		From(usersTableName).
		Where(sq.Eq{"id": id}))
}

func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	return getAll[model.User](ctx, r.db, qb.Select(userColumns...).
		From(usersTableName).
		OrderBy("surname", "name"))
}

func (r *Repository) UpdateUser(ctx context.Context, user model.User) (model.User, error) {
	if err := checkID(user.ID); err != nil {
		return model.User{}, err
	}
	return getOne[model.User](ctx, r.db, qb.Update(usersTableName).
		SetMap(map[string]any{
			"id_type":        user.IDType,
			"identification": user.Identification,
			"name":           user.Name,
			"surname":        user.Surname,
			"phone":          user.Phone,
			"address":        user.Address,
			"email":          user.Email,
			"role":           user.Role,
			"updated_at":     user.UpdatedAt,
		}).
		Where(sq.Eq{"id": user.ID}).
		Suffix(returningUser))
}

func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return exec(ctx, r.db, qb.Delete(usersTableName).Where(sq.Eq{"id": id}))
}

const operatorColumns = `id, username, email, password_hash, role, name, phone, address, city, country, birth_date, created_at, updated_at`

func (r *Repository) CreateOperator(ctx context.Context, op model.Operator) (model.Operator, error) {
	q := `insert into operators (id, username, email, password_hash, role, created_at, updated_at)
	values (@id, @username, @email, @password_hash, @role, @created_at, @created_at)
	returning ` + operatorColumns
	args := pgx.NamedArgs{
		"id":            op.ID,
		"username":      op.Username,
		"email":         op.Email,
		"password_hash": op.PasswordHash,
		"role":          op.Role,
		"created_at":    op.CreatedAt,
	}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return model.Operator{}, mapErr(err)
	}
	res, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Operator])
	if err != nil {
		return model.Operator{}, mapErr(err)
	}
	return res, nil
}

func (r *Repository) GetOperator(ctx context.Context, id string) (model.Operator, error) {
	if err := checkID(id); err != nil {
		return model.Operator{}, err
	}
	return getOne[model.Operator](ctx, r.db, qb.Select(operatorColumns).
		From(operatorsTableName).
		Where(sq.Eq{"id": id}))
}

func (r *Repository) GetOperatorByEmail(ctx context.Context, email string) (model.Operator, error) {
	return getOne[model.Operator](ctx, r.db, qb.Select(operatorColumns).
		From(operatorsTableName).
		Where(sq.Eq{"lower(email)": strings.ToLower(email)}))
}

func (r *Repository) UpdateOperatorProfile(ctx context.Context, op model.Operator) (model.Operator, error) {
	if err := checkID(op.ID); err != nil {
		return model.Operator{}, err
	}
	return getOne[model.Operator](ctx, r.db, qb.Update(operatorsTableName).
		SetMap(map[string]any{
			"name":       op.Name,
			"phone":      op.Phone,
			"address":    op.Address,
			"city":       op.City,
			"country":    op.Country,
			"birth_date": op.BirthDate,
			"updated_at": op.UpdatedAt,
		}).
		Where(sq.Eq{"id": op.ID}).
		Suffix("returning " + operatorColumns))
}

func (r *Repository) SetOperatorPassword(ctx context.Context, id, passwordHash string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return exec(ctx, r.db, qb.Update(operatorsTableName).
		Set("password_hash", passwordHash).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}))
}
