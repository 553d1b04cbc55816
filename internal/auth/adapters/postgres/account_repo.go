package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/auth/ports/repositories"
	"walkydoggy/pkg/logger"
)

// PgxPoolInterface подмножество pgxpool.Pool, позволяющее подставить pgxmock.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

const accountColumns = `
        id::text, email, password_hash, role, first_name, last_name, phone_number, avatar,
        street, city, state, zip_code, country, longitude, latitude, business_id,
        is_email_verified, is_phone_verified, refresh_token,
        email_verification_token, email_verification_expires,
        password_reset_token, password_reset_expires,
        status, last_login_at, created_at, updated_at`

// AccountRepository реализует repositories.AccountRepository поверх PostgreSQL.
type AccountRepository struct {
	pool PgxPoolInterface
}

// NewAccountRepository создает репозиторий учетных записей.
func NewAccountRepository(pool PgxPoolInterface) repositories.AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", "account"), zap.String("method", method))
}

// FindByID находит учетную запись по идентификатору.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entities.Account, error) {
	query := `SELECT` + accountColumns + `
        FROM accounts
        WHERE id = $1::uuid`

	return r.findOne(ctx, "FindByID", query, id)
}

// FindByEmail находит учетную запись по email без учета регистра.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entities.Account, error) {
	query := `SELECT` + accountColumns + `
        FROM accounts
        WHERE LOWER(email) = $1`

	return r.findOne(ctx, "FindByEmail", query, entities.NormalizeEmail(email))
}

// FindByVerificationHash находит запись по действующему коду подтверждения email.
func (r *AccountRepository) FindByVerificationHash(ctx context.Context, hash string, now time.Time) (*entities.Account, error) {
	query := `SELECT` + accountColumns + `
        FROM accounts
        WHERE email_verification_token = $1 AND email_verification_expires > $2`

	return r.findOne(ctx, "FindByVerificationHash", query, hash, now)
}

// FindByResetHash находит запись по действующему коду сброса пароля.
func (r *AccountRepository) FindByResetHash(ctx context.Context, hash string, now time.Time) (*entities.Account, error) {
	query := `SELECT` + accountColumns + `
        FROM accounts
        WHERE password_reset_token = $1 AND password_reset_expires > $2`

	return r.findOne(ctx, "FindByResetHash", query, hash, now)
}

func (r *AccountRepository) findOne(ctx context.Context, method, query string, args ...interface{}) (*entities.Account, error) {
	log := r.log(ctx, method)

	account, err := scanAccount(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			log.Debug(ctx, "account not found")
			return nil, entities.ErrAccountNotFound
		}
		log.Error(ctx, "error querying account", zap.Error(err))
		return nil, fmt.Errorf("error querying account: %w", err)
	}
	return account, nil
}

// Create сохраняет новую учетную запись.
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) (*entities.Account, error) {
	log := r.log(ctx, "Create")

	query := `
        INSERT INTO accounts (
            id, email, password_hash, role, first_name, last_name, phone_number,
            email_verification_token, email_verification_expires, status
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING` + accountColumns

	created, err := scanAccount(r.pool.QueryRow(ctx, query,
		account.ID,
		entities.NormalizeEmail(account.Email),
		account.PasswordHash,
		string(account.Role),
		account.Profile.FirstName,
		account.Profile.LastName,
		nullString(account.Profile.PhoneNumber),
		nullString(account.VerificationTokenHash),
		account.VerificationExpiresAt,
		string(account.Status),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			log.Debug(ctx, "email already registered")
			return nil, services.ErrEmailAlreadyExists
		}
		log.Error(ctx, "error creating account", zap.Error(err))
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return created, nil
}

// Update сохраняет профиль, флаги и статус.
func (r *AccountRepository) Update(ctx context.Context, account *entities.Account) (*entities.Account, error) {
	log := r.log(ctx, "Update")

	query := `
        UPDATE accounts
        SET email = $2, role = $3, first_name = $4, last_name = $5, phone_number = $6, avatar = $7,
            street = $8, city = $9, state = $10, zip_code = $11, country = $12,
            longitude = $13, latitude = $14, business_id = $15,
            is_email_verified = $16, is_phone_verified = $17, status = $18, updated_at = NOW()
        WHERE id = $1::uuid
        RETURNING` + accountColumns

	addr := account.Profile.Address
	if addr == nil {
		addr = &entities.Address{}
	}
	var lng, lat *float64
	if addr.Coordinates != nil {
		lng, lat = &addr.Coordinates.Longitude, &addr.Coordinates.Latitude
	}

	updated, err := scanAccount(r.pool.QueryRow(ctx, query,
		account.ID,
		entities.NormalizeEmail(account.Email),
		string(account.Role),
		account.Profile.FirstName,
		account.Profile.LastName,
		nullString(account.Profile.PhoneNumber),
		nullString(account.Profile.Avatar),
		nullString(addr.Street),
		nullString(addr.City),
		nullString(addr.State),
		nullString(addr.ZipCode),
		nullString(addr.Country),
		lng,
		lat,
		nullString(account.BusinessID),
		account.IsEmailVerified,
		account.IsPhoneVerified,
		string(account.Status),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			log.Debug(ctx, "account not found for update", zap.String("id", account.ID))
			return nil, entities.ErrAccountNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, services.ErrEmailAlreadyExists
		}
		log.Error(ctx, "error updating account", zap.Error(err))
		return nil, fmt.Errorf("error updating account: %w", err)
	}
	return updated, nil
}

// SetRefreshToken перезаписывает refresh токен без условий.
func (r *AccountRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	query := `
        UPDATE accounts
        SET refresh_token = $2, updated_at = NOW()
        WHERE id = $1::uuid`

	return r.execOne(ctx, "SetRefreshToken", query, id, nullString(token))
}

// RotateRefreshToken атомарно заменяет сохраненный токен, если он равен expected.
func (r *AccountRepository) RotateRefreshToken(ctx context.Context, id, expected, next string) error {
	log := r.log(ctx, "RotateRefreshToken")

	query := `
        UPDATE accounts
        SET refresh_token = $3, updated_at = NOW()
        WHERE id = $1::uuid AND refresh_token = $2`

	result, err := r.pool.Exec(ctx, query, id, expected, next)
	if err != nil {
		if isMalformedID(err) {
			return entities.ErrAccountNotFound
		}
		log.Error(ctx, "error rotating refresh token", zap.Error(err))
		return fmt.Errorf("error rotating refresh token: %w", err)
	}
	if result.RowsAffected() == 0 {
		log.Warn(ctx, "stored refresh token differs from presented one", zap.String("id", id))
		return services.ErrTokenMismatch
	}
	return nil
}

// SetVerificationToken сохраняет хэш кода подтверждения, заменяя предыдущий.
func (r *AccountRepository) SetVerificationToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	query := `
        UPDATE accounts
        SET email_verification_token = $2, email_verification_expires = $3, updated_at = NOW()
        WHERE id = $1::uuid`

	return r.execOne(ctx, "SetVerificationToken", query, id, hash, expiresAt)
}

// SetResetToken сохраняет хэш кода сброса пароля, заменяя предыдущий.
func (r *AccountRepository) SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	query := `
        UPDATE accounts
        SET password_reset_token = $2, password_reset_expires = $3, updated_at = NOW()
        WHERE id = $1::uuid`

	return r.execOne(ctx, "SetResetToken", query, id, hash, expiresAt)
}

// MarkEmailVerified подтверждает email и гасит код.
func (r *AccountRepository) MarkEmailVerified(ctx context.Context, id string) error {
	query := `
        UPDATE accounts
        SET is_email_verified = TRUE, email_verification_token = NULL,
            email_verification_expires = NULL, updated_at = NOW()
        WHERE id = $1::uuid`

	return r.execOne(ctx, "MarkEmailVerified", query, id)
}

// UpdatePassword меняет пароль, гасит код сброса и refresh токен.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
        UPDATE accounts
        SET password_hash = $2, password_reset_token = NULL, password_reset_expires = NULL,
            refresh_token = NULL, updated_at = NOW()
        WHERE id = $1::uuid`

	return r.execOne(ctx, "UpdatePassword", query, id, passwordHash)
}

// TouchLastLogin фиксирует время входа.
func (r *AccountRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	query := `
        UPDATE accounts
        SET last_login_at = $2
        WHERE id = $1::uuid`

	return r.execOne(ctx, "TouchLastLogin", query, id, at)
}

// SetBusinessID привязывает учетную запись к бизнесу.
func (r *AccountRepository) SetBusinessID(ctx context.Context, id, businessID string) error {
	query := `
        UPDATE accounts
        SET business_id = $2, updated_at = NOW()
        WHERE id = $1::uuid`

	return r.execOne(ctx, "SetBusinessID", query, id, nullString(businessID))
}

// SoftDelete помечает запись удаленной, данные сохраняются.
func (r *AccountRepository) SoftDelete(ctx context.Context, id string) error {
	query := `
        UPDATE accounts
        SET status = 'deleted', refresh_token = NULL, updated_at = NOW()
        WHERE id = $1::uuid`

	return r.execOne(ctx, "SoftDelete", query, id)
}

func (r *AccountRepository) execOne(ctx context.Context, method, query string, args ...interface{}) error {
	log := r.log(ctx, method)

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isMalformedID(err) {
			log.Debug(ctx, "account id is not a uuid")
			return entities.ErrAccountNotFound
		}
		log.Error(ctx, "error updating account", zap.Error(err))
		return fmt.Errorf("%s: %w", method, err)
	}
	if result.RowsAffected() == 0 {
		log.Debug(ctx, "account not found for update")
		return entities.ErrAccountNotFound
	}
	return nil
}

// isMalformedID сообщает, что Postgres не смог привести идентификатор к uuid.
func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var (
		account                                        entities.Account
		role, status                                   string
		phone, avatar, street, city, state, zip, cntry *string
		businessID, refresh, verifyHash, resetHash     *string
		lng, lat                                       *float64
		verifyExpires, resetExpires, lastLogin         *time.Time
	)

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&role,
		&account.Profile.FirstName,
		&account.Profile.LastName,
		&phone,
		&avatar,
		&street,
		&city,
		&state,
		&zip,
		&cntry,
		&lng,
		&lat,
		&businessID,
		&account.IsEmailVerified,
		&account.IsPhoneVerified,
		&refresh,
		&verifyHash,
		&verifyExpires,
		&resetHash,
		&resetExpires,
		&status,
		&lastLogin,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	account.Role = entities.Role(role)
	account.Status = entities.Status(status)
	account.Profile.PhoneNumber = deref(phone)
	account.Profile.Avatar = deref(avatar)
	account.BusinessID = deref(businessID)
	account.RefreshToken = deref(refresh)
	account.VerificationTokenHash = deref(verifyHash)
	account.VerificationExpiresAt = verifyExpires
	account.ResetTokenHash = deref(resetHash)
	account.ResetExpiresAt = resetExpires
	account.LastLoginAt = lastLogin

	if street != nil || city != nil || state != nil || zip != nil || cntry != nil || lng != nil {
		address := &entities.Address{
			Street:  deref(street),
			City:    deref(city),
			State:   deref(state),
			ZipCode: deref(zip),
			Country: deref(cntry),
		}
		if lng != nil && lat != nil {
			address.Coordinates = &entities.Coordinates{Longitude: *lng, Latitude: *lat}
		}
		account.Profile.Address = address
	}

	return &account, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
