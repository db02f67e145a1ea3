package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/logger"
	timeadapter "github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/time"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})
	return db, mock
}

func TestTransactionRepository_Create(t *testing.T) {
	ctx := context.Background()
	txn := &entity.Transaction{
		ID: "t1", UserID: "u1", Type: entity.TypeDeposit, Amount: 50000,
		Status: entity.TxPending, RefID: "DEP123", CreatedAt: time.Now(),
	}

	t.Run("inserts a new refId", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO "transactions" .*ON CONFLICT \("ref_id"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewTransactionRepository(db, logger.NewNoopLogger())
		assert.NoError(t, repo.Create(ctx, txn))
	})

	t.Run("rejects a duplicate refId without failing the statement", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO "transactions" .*ON CONFLICT \("ref_id"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewTransactionRepository(db, logger.NewNoopLogger())
		assert.ErrorIs(t, repo.Create(ctx, txn), errs.ErrDuplicateRefID)
	})
}

func TestTransactionRepository_GetByRefIDForUpdate(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "user_id", "type", "amount", "status", "ref_id", "description", "payment_method", "product_id", "created_at", "processed_at"}

	t.Run("locks and maps the row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE ref_id = \$1 .*FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("t1", "u1", "deposit", int64(50000), "pending", "DEP123", "Deposit", "QRIS", "", time.Now(), nil))

		repo := NewTransactionRepository(db, logger.NewNoopLogger())
		txn, err := repo.GetByRefIDForUpdate(ctx, "DEP123")
		require.NoError(t, err)
		assert.Equal(t, "DEP123", txn.RefID)
		assert.Equal(t, entity.TxPending, txn.Status)
		assert.Equal(t, int64(50000), txn.Amount)
	})

	t.Run("maps a missing row to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE ref_id = \$1`).
			WillReturnRows(sqlmock.NewRows(columns))

		repo := NewTransactionRepository(db, logger.NewNoopLogger())
		_, err := repo.GetByRefIDForUpdate(ctx, "DEP404")
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})

	t.Run("maps serialization failures to concurrent update", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "transactions"`).
			WillReturnError(&pgconn.PgError{Code: "40001", Message: "could not serialize access due to concurrent update"})

		repo := NewTransactionRepository(db, logger.NewNoopLogger())
		_, err := repo.GetByRefIDForUpdate(ctx, "DEP123")
		assert.ErrorIs(t, err, errs.ErrConcurrentUpdate)
	})
}

func TestTransactionRepository_SumCompleted(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions" WHERE user_id = \$1 AND status = \$2`).
		WithArgs("u1", "completed").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(47500)))

	repo := NewTransactionRepository(db, logger.NewNoopLogger())
	sum, err := repo.SumCompleted(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(47500), sum)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	clock := timeadapter.NewRealTimeProvider()

	t.Run("GetByIDForUpdate takes a row lock", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 .*FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role", "balance", "referral_code", "referred_by", "created_at", "updated_at"}).
				AddRow("u1", "alice", "alice@example.com", "user", int64(10000), "AB12CD34", "", time.Now(), time.Now()))

		repo := NewUserRepository(db, clock, logger.NewNoopLogger())
		user, err := repo.GetByIDForUpdate(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(10000), user.Balance())
		assert.Equal(t, "AB12CD34", user.ReferralCode)
	})

	t.Run("UpdateBalance maps the balance check to insufficient funds", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "users" SET`).
			WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "chk_users_balance"})

		repo := NewUserRepository(db, clock, logger.NewNoopLogger())
		assert.ErrorIs(t, repo.UpdateBalance(ctx, "u1", -1), errs.ErrInsufficientFunds)
	})

	t.Run("UpdateBalance reports missing users", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewUserRepository(db, clock, logger.NewNoopLogger())
		assert.ErrorIs(t, repo.UpdateBalance(ctx, "ghost", 100), errs.ErrUserNotFound)
	})

	t.Run("Create maps unique violations", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username_lower"})

		user, err := entity.NewUser("u2", "Alice", "", entity.RoleUser, clock)
		require.NoError(t, err)

		repo := NewUserRepository(db, clock, logger.NewNoopLogger())
		assert.ErrorIs(t, repo.Create(ctx, user), errs.ErrDuplicateUser)
	})
}

func TestVoucherRepository_IncrementUsage(t *testing.T) {
	ctx := context.Background()

	t.Run("increments while below the limit", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "vouchers" SET "used_count"=used_count \+ 1 WHERE id = \$1 AND used_count < max_usage`).
			WithArgs("v1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewVoucherRepository(db, logger.NewNoopLogger())
		assert.NoError(t, repo.IncrementUsage(ctx, "v1"))
	})

	t.Run("reports an exhausted voucher", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "vouchers" SET "used_count"=used_count \+ 1`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "vouchers" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "discount_type", "discount_value", "min_purchase", "max_usage", "used_count", "is_active"}).
				AddRow("v1", "LAST1", "fixed", int64(1000), int64(0), 1, 1, true))

		repo := NewVoucherRepository(db, logger.NewNoopLogger())
		err := repo.IncrementUsage(ctx, "v1")
		require.ErrorIs(t, err, errs.ErrInvalidVoucher)
		assert.Contains(t, err.Error(), "LAST1")
	})
}

func TestCatalogRepository_DecrementStock(t *testing.T) {
	ctx := context.Background()

	t.Run("out of stock", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "products" SET "stock"=stock - \$1 WHERE id = \$2 AND stock >= \$3`).
			WithArgs(2, "p1", 2).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		repo := NewCatalogRepository(db, logger.NewNoopLogger())
		assert.ErrorIs(t, repo.DecrementStock(ctx, "p1", 2), errs.ErrOutOfStock)
	})

	t.Run("unknown product", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "products" SET "stock"=stock - `).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		repo := NewCatalogRepository(db, logger.NewNoopLogger())
		assert.ErrorIs(t, repo.DecrementStock(ctx, "nope", 1), errs.ErrProductNotFound)
	})
}

func TestResourceLockRepository(t *testing.T) {
	ctx := context.Background()
	clock := timeadapter.NewRealTimeProvider()

	t.Run("acquires a free or expired lock", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO resource_locks .*ON CONFLICT \(key\) DO UPDATE`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewResourceLockRepository(db, clock, logger.NewNoopLogger())
		assert.NoError(t, repo.AcquireLock(ctx, "expiry-sweeper", "node-a", time.Minute))
	})

	t.Run("refuses a lock held by another owner", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO resource_locks`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewResourceLockRepository(db, clock, logger.NewNoopLogger())
		assert.ErrorIs(t, repo.AcquireLock(ctx, "expiry-sweeper", "node-b", time.Minute), errs.ErrLockHeld)
	})

	t.Run("releases only its own lock", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`DELETE FROM "resource_locks" WHERE key = \$1 AND owner = \$2`).
			WithArgs("expiry-sweeper", "node-a").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewResourceLockRepository(db, clock, logger.NewNoopLogger())
		assert.NoError(t, repo.ReleaseLock(ctx, "expiry-sweeper", "node-a"))
	})
}

func TestMarkerRepository_MarkOnce(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO "notification_markers" .*ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "notification_markers" .*ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewMarkerRepository(db, timeadapter.NewRealTimeProvider())

	first, err := repo.MarkOnce(context.Background(), "expiry-warning:o1:3")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := repo.MarkOnce(context.Background(), "expiry-warning:o1:3")
	require.NoError(t, err)
	assert.False(t, second)
}
