package administration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/servicebond/pkg/pg"
	"github.com/dmitrymomot/servicebond/pkg/revision"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	shopColumns = []string{
		"id", "name", "title", "phone_number", "email", "location_lat", "location_lon",
		"street_address", "country", "city", "state", "zipcode",
		"social_contacts", "opening_hours", "preferences",
	}
	userColumns = []string{
		"id", "username", "email", "first_name", "last_name", "gender", "birth_date", "shop_id",
		"is_shop_admin", "is_master_shop_admin", "is_superuser", "is_active", "password_hash", "date_joined",
	}
	customerColumns = []string{
		"id", "shop_id", "first_name", "last_name", "street_address", "phone_number", "city", "state", "zipcode",
	}
)

type pgStorage struct {
	pool *pgxpool.Pool
}

// NewPgStorage returns a Storage backed by PostgreSQL. The schema lives in
// the migrations package.
func NewPgStorage(pool *pgxpool.Pool) Storage {
	if pool == nil {
		panic("administration: pool is nil")
	}
	return &pgStorage{pool: pool}
}

func (s *pgStorage) CreateShop(ctx context.Context, shop *Shop) error {
	q := psql.Insert("shops").SetMap(shopValues(shop)).Suffix("RETURNING id")
	return s.insert(ctx, q, &shop.ID)
}

func (s *pgStorage) UpdateShop(ctx context.Context, shop *Shop) error {
	q := psql.Update("shops").SetMap(shopValues(shop)).Where(sq.Eq{"id": shop.ID})
	return s.update(ctx, q, ErrShopNotFound)
}

func shopValues(shop *Shop) map[string]any {
	return map[string]any{
		"name":            shop.Name,
		"title":           shop.Title,
		"phone_number":    shop.PhoneNumber,
		"email":           shop.Email,
		"location_lat":    shop.LocationLat,
		"location_lon":    shop.LocationLon,
		"street_address":  shop.StreetAddress,
		"country":         shop.Country,
		"city":            shop.City,
		"state":           shop.State,
		"zipcode":         shop.Zipcode,
		"social_contacts": map[string]any(shop.SocialContacts),
		"opening_hours":   map[string]any(shop.OpeningHours),
		"preferences":     map[string]any(shop.Preferences),
	}
}

func (s *pgStorage) GetShop(ctx context.Context, id int64) (*Shop, error) {
	q := psql.Select(shopColumns...).From("shops").Where(sq.Eq{"id": id})
	return getOne[Shop](ctx, s.pool, q, ErrShopNotFound)
}

func (s *pgStorage) ListShops(ctx context.Context, opts ListOptions) (Page[*Shop], error) {
	q := psql.Select(shopColumns...).From("shops")
	return list[Shop](ctx, s.pool, q, opts, shopSearchFields, shopOrderFields)
}

func (s *pgStorage) CreateUser(ctx context.Context, user *User) error {
	q := psql.Insert("users").SetMap(userValues(user)).Suffix("RETURNING id, date_joined")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if err := s.pool.QueryRow(ctx, sqlStr, args...).Scan(&user.ID, &user.DateJoined); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *pgStorage) UpdateUser(ctx context.Context, user *User) error {
	q := psql.Update("users").SetMap(userValues(user)).Where(sq.Eq{"id": user.ID})
	return s.update(ctx, q, ErrUserNotFound)
}

func userValues(user *User) map[string]any {
	return map[string]any{
		"username":             user.Username,
		"email":                user.Email,
		"first_name":           user.FirstName,
		"last_name":            user.LastName,
		"gender":               string(user.Gender),
		"birth_date":           user.BirthDate,
		"shop_id":              user.ShopID,
		"is_shop_admin":        user.IsShopAdmin,
		"is_master_shop_admin": user.IsMasterShopAdmin,
		"is_superuser":         user.IsSuperuser,
		"is_active":            user.IsActive,
		"password_hash":        user.PasswordHash,
	}
}

func (s *pgStorage) GetUser(ctx context.Context, id int64) (*User, error) {
	q := psql.Select(userColumns...).From("users").Where(sq.Eq{"id": id})
	return getOne[User](ctx, s.pool, q, ErrUserNotFound)
}

func (s *pgStorage) DeleteUser(ctx context.Context, id int64) error {
	return s.update(ctx, psql.Delete("users").Where(sq.Eq{"id": id}), ErrUserNotFound)
}

func (s *pgStorage) ListUsers(ctx context.Context, filter UserFilter) (Page[*User], error) {
	q := psql.Select(userColumns...).From("users")
	if filter.ShopID != nil {
		q = q.Where(sq.Eq{"shop_id": *filter.ShopID})
	}
	return list[User](ctx, s.pool, q, filter.ListOptions, userSearchFields, userOrderFields)
}

// scope returns the shop in ctx that customer queries are restricted to.
func scope(ctx context.Context) (int64, error) {
	id, ok := tenant.IDFromContext(ctx)
	if !ok {
		return 0, tenant.ErrNoTenantInContext
	}
	return id, nil
}

func (s *pgStorage) CreateCustomer(ctx context.Context, customer *Customer) error {
	shopID, err := scope(ctx)
	if err != nil {
		return err
	}
	customer.ShopID = shopID
	q := psql.Insert("customers").SetMap(customerValues(customer)).Suffix("RETURNING id")
	return s.insert(ctx, q, &customer.ID)
}

func (s *pgStorage) UpdateCustomer(ctx context.Context, customer *Customer) error {
	shopID, err := scope(ctx)
	if err != nil {
		return err
	}
	customer.ShopID = shopID
	return s.update(ctx, customerUpdate(customer, shopID), ErrCustomerNotFound)
}

func customerValues(c *Customer) map[string]any {
	return map[string]any{
		"shop_id":        c.ShopID,
		"first_name":     c.FirstName,
		"last_name":      c.LastName,
		"street_address": c.StreetAddress,
		"phone_number":   c.PhoneNumber,
		"city":           c.City,
		"state":          c.State,
		"zipcode":        c.Zipcode,
	}
}

func (s *pgStorage) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	shopID, err := scope(ctx)
	if err != nil {
		return nil, err
	}
	q := customerSelect(shopID).Where(sq.Eq{"id": id})
	return getOne[Customer](ctx, s.pool, q, ErrCustomerNotFound)
}

func (s *pgStorage) DeleteCustomer(ctx context.Context, id int64) error {
	shopID, err := scope(ctx)
	if err != nil {
		return err
	}
	return s.update(ctx, customerDelete(id, shopID), ErrCustomerNotFound)
}

func (s *pgStorage) ListCustomers(ctx context.Context, opts ListOptions) (Page[*Customer], error) {
	shopID, err := scope(ctx)
	if err != nil {
		return Page[*Customer]{}, err
	}
	return list[Customer](ctx, s.pool, customerSelect(shopID), opts, customerSearchFields, customerOrderFields)
}

// Every customer statement is confined to one shop.

func customerSelect(shopID int64) sq.SelectBuilder {
	return psql.Select(customerColumns...).From("customers").Where(sq.Eq{"shop_id": shopID})
}

func customerUpdate(c *Customer, shopID int64) sq.UpdateBuilder {
	return psql.Update("customers").SetMap(customerValues(c)).
		Where(sq.Eq{"id": c.ID, "shop_id": shopID})
}

func customerDelete(id, shopID int64) sq.DeleteBuilder {
	return psql.Delete("customers").Where(sq.Eq{"id": id, "shop_id": shopID})
}

func (s *pgStorage) SaveRevision(ctx context.Context, rev *revision.Revision) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		sqlStr, args, err := psql.Insert("revisions").
			Columns("id", "created_at", "request_id", "tenant_id").
			Values(rev.ID, rev.CreatedAt, rev.RequestID, rev.TenantID).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
			return err
		}

		ins := psql.Insert("versions").Columns("revision_id", "object_type", "object_id", "snapshot")
		for _, v := range rev.Versions {
			ins = ins.Values(rev.ID, v.ObjectType, v.ObjectID, []byte(v.Snapshot))
		}
		if len(rev.Versions) == 0 {
			return nil
		}
		sqlStr, args, err = ins.ToSql()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, sqlStr, args...)
		return err
	})
}

type revisionRow struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	RequestID string    `db:"request_id"`
	TenantID  *int64    `db:"tenant_id"`
}

type versionRow struct {
	RevisionID uuid.UUID `db:"revision_id"`
	ObjectType string    `db:"object_type"`
	ObjectID   int64     `db:"object_id"`
	Snapshot   []byte    `db:"snapshot"`
}

func (s *pgStorage) ListRevisions(ctx context.Context, filter RevisionFilter) (Page[*revision.Revision], error) {
	opts := ListOptions{Limit: filter.Limit, Offset: filter.Offset}.normalized()

	base := psql.Select().From("revisions")
	if filter.TenantID != nil {
		base = base.Where(sq.Eq{"tenant_id": *filter.TenantID})
	}
	count, err := countRows(ctx, s.pool, base)
	if err != nil {
		return Page[*revision.Revision]{}, err
	}

	q := base.Columns("id", "created_at", "request_id", "tenant_id").
		OrderBy("created_at DESC", "id").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset))
	rows, err := collect[revisionRow](ctx, s.pool, q)
	if err != nil {
		return Page[*revision.Revision]{}, err
	}

	items := make([]*revision.Revision, 0, len(rows))
	byID := make(map[uuid.UUID]*revision.Revision, len(rows))
	ids := make([]any, 0, len(rows))
	for _, row := range rows {
		rev := &revision.Revision{
			ID:        row.ID,
			CreatedAt: row.CreatedAt.UTC(),
			RequestID: row.RequestID,
			TenantID:  row.TenantID,
			Versions:  []revision.Version{},
		}
		items = append(items, rev)
		byID[row.ID] = rev
		ids = append(ids, row.ID)
	}

	if len(ids) > 0 {
		vq := psql.Select("revision_id", "object_type", "object_id", "snapshot").
			From("versions").
			Where(sq.Eq{"revision_id": ids}).
			OrderBy("id")
		versions, err := collect[versionRow](ctx, s.pool, vq)
		if err != nil {
			return Page[*revision.Revision]{}, err
		}
		for _, v := range versions {
			rev := byID[v.RevisionID]
			rev.Versions = append(rev.Versions, revision.Version{
				ObjectType: v.ObjectType,
				ObjectID:   v.ObjectID,
				Snapshot:   v.Snapshot,
			})
		}
	}

	return Page[*revision.Revision]{Items: items, Count: count}, nil
}

func (s *pgStorage) insert(ctx context.Context, q sq.InsertBuilder, id *int64) error {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if err := s.pool.QueryRow(ctx, sqlStr, args...).Scan(id); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *pgStorage) update(ctx context.Context, q sq.Sqlizer, notFound error) error {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	tag, err := s.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case pg.IsDuplicateKeyError(err):
		return errors.Join(ErrDuplicate, err)
	case pg.IsForeignKeyViolationError(err):
		return errors.Join(ErrShopNotFound, err)
	}
	return errors.Join(ErrStorage, err)
}

func getOne[T any](ctx context.Context, db *pgxpool.Pool, q sq.SelectBuilder, notFound error) (*T, error) {
	sqlStr, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	rows, err := db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if pg.IsNotFoundError(err) {
		return nil, notFound
	}
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return item, nil
}

func collect[T any](ctx context.Context, db *pgxpool.Pool, q sq.SelectBuilder) ([]T, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	rows, err := db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return items, nil
}

func countRows(ctx context.Context, db *pgxpool.Pool, q sq.SelectBuilder) (int, error) {
	sqlStr, args, err := q.Column("count(*)").ToSql()
	if err != nil {
		return 0, errors.Join(ErrStorage, err)
	}
	var n int
	if err := db.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, errors.Join(ErrStorage, err)
	}
	return n, nil
}

// list applies search, ordering and paging to q and counts the matches.
func list[T any](ctx context.Context, db *pgxpool.Pool, q sq.SelectBuilder, opts ListOptions, searchFields, orderFields []string) (Page[*T], error) {
	q, counter := listQuery(q, opts, searchFields, orderFields)
	count, err := countRows(ctx, db, counter)
	if err != nil {
		return Page[*T]{}, err
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return Page[*T]{}, errors.Join(ErrStorage, err)
	}
	rows, err := db.Query(ctx, sqlStr, args...)
	if err != nil {
		return Page[*T]{}, errors.Join(ErrStorage, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return Page[*T]{}, errors.Join(ErrStorage, fmt.Errorf("collect rows: %w", err))
	}
	return Page[*T]{Items: items, Count: count}, nil
}

// listQuery returns the page query and the matching count query. The count
// query has no columns; countRows adds count(*).
func listQuery(q sq.SelectBuilder, opts ListOptions, searchFields, orderFields []string) (page, count sq.SelectBuilder) {
	opts = opts.normalized()
	if opts.Search != "" {
		pattern := "%" + escapeLike(opts.Search) + "%"
		or := make(sq.Or, 0, len(searchFields))
		for _, f := range searchFields {
			or = append(or, sq.ILike{f: pattern})
		}
		q = q.Where(or)
	}
	count = q.RemoveColumns()

	field, desc := opts.order(orderFields)
	order := field
	switch {
	case desc:
		order += " DESC NULLS LAST"
	case field != "id":
		order += " NULLS FIRST"
	}
	orderBy := []string{order}
	if field != "id" {
		orderBy = append(orderBy, "id")
	}
	page = q.OrderBy(orderBy...).Limit(uint64(opts.Limit)).Offset(uint64(opts.Offset))
	return page, count
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
