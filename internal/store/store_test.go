package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"wallet-api/internal/config"
	"wallet-api/internal/database"
	"wallet-api/internal/errs"
	"wallet-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StoreTestSuite struct {
	suite.Suite
	db    *gorm.DB
	store *Store
	ctx   context.Context

	alice *models.User
	bob   *models.User
}

// SetupTest opens a fresh sqlite file per test
func (suite *StoreTestSuite) SetupTest() {
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(suite.T().TempDir(), "wallet.db"),
	})
	require.NoError(suite.T(), err, "failed to open test database")
	require.NoError(suite.T(), database.AutoMigrate(db))

	suite.db = db
	suite.store = New(db, bcrypt.MinCost)
	suite.ctx = context.Background()

	suite.alice, err = suite.store.CreateUser(suite.ctx, "alice", "alice@x.com", "pw1")
	require.NoError(suite.T(), err)
	suite.bob, err = suite.store.CreateUser(suite.ctx, "bob", "bob@x.com", "pw2")
	require.NoError(suite.T(), err)
}

func (suite *StoreTestSuite) TearDownTest() {
	if suite.db != nil {
		database.Close(suite.db)
	}
}

func (suite *StoreTestSuite) account(name string, owner *models.User) *models.Account {
	a, err := suite.store.CreateAccount(suite.ctx, name, false, owner.UUID)
	require.NoError(suite.T(), err)
	return a
}

func (suite *StoreTestSuite) category(name string, owner *models.User) *models.Category {
	c, err := suite.store.CreateCategory(suite.ctx, name, owner.UUID)
	require.NoError(suite.T(), err)
	return c
}

func (suite *StoreTestSuite) record(typ models.RecordType, cents int64, a *models.Account, c *models.Category, owner *models.User) *models.Record {
	r, err := suite.store.CreateRecord(suite.ctx, RecordInput{
		Type:       typ,
		Amount:     cents,
		AccountID:  a.UUID,
		CategoryID: c.UUID,
	}, owner.UUID)
	require.NoError(suite.T(), err)
	return r
}

func (suite *StoreTestSuite) TestCreateUserNormalizes() {
	u, err := suite.store.CreateUser(suite.ctx, "  Carol.M ", " Carol@Example.COM ", "secret")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "carol.m", u.Username)
	assert.Equal(suite.T(), "carol@example.com", u.Email)
	assert.True(suite.T(), u.IsActive)
	assert.False(suite.T(), u.IsSuperuser)
	assert.NotEqual(suite.T(), "secret", u.HashedPassword)
	assert.NotEmpty(suite.T(), u.UUID)

	got, err := suite.store.GetUserByEmail(suite.ctx, "CAROL@example.com")
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), got)
	assert.Equal(suite.T(), u.UUID, got.UUID)
}

func (suite *StoreTestSuite) TestCreateUserConflicts() {
	_, err := suite.store.CreateUser(suite.ctx, "ALICE", "other@x.com", "pw")
	assert.ErrorIs(suite.T(), err, errs.ErrConflict)
	assert.Contains(suite.T(), err.Error(), "username")

	_, err = suite.store.CreateUser(suite.ctx, "alice2", "Alice@X.com", "pw")
	assert.ErrorIs(suite.T(), err, errs.ErrConflict)
	assert.Contains(suite.T(), err.Error(), "email")
}

func (suite *StoreTestSuite) TestCreateUserValidation() {
	cases := []struct {
		username, email, password string
	}{
		{"al", "al@x.com", "pw"},
		{"has space", "hs@x.com", "pw"},
		{"dave", "not-an-email", "pw"},
		{"dave", "dave@x.com", ""},
	}
	for _, tc := range cases {
		_, err := suite.store.CreateUser(suite.ctx, tc.username, tc.email, tc.password)
		assert.True(suite.T(), errs.IsValidation(err), "%+v: %v", tc, err)
	}
}

func (suite *StoreTestSuite) TestGetUserAbsent() {
	u, err := suite.store.GetUserByUsername(suite.ctx, "nobody")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), u)

	u, err = suite.store.GetUserByUUID(suite.ctx, "missing")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), u)
}

func (suite *StoreTestSuite) TestAccountNameIsGloballyUnique() {
	suite.account("Main", suite.alice)

	_, err := suite.store.CreateAccount(suite.ctx, "Main", true, suite.bob.UUID)
	assert.ErrorIs(suite.T(), err, errs.ErrConflict)

	_, err = suite.store.CreateAccount(suite.ctx, "my main", true, suite.bob.UUID)
	assert.True(suite.T(), errs.IsValidation(err))
}

func (suite *StoreTestSuite) TestCategoryNameIsUniquePerOwner() {
	c := suite.category("food and DRINKS", suite.alice)
	assert.Equal(suite.T(), "Food and drinks", c.Name)

	_, err := suite.store.CreateCategory(suite.ctx, "Food And Drinks", suite.alice.UUID)
	assert.ErrorIs(suite.T(), err, errs.ErrConflict)

	other, err := suite.store.CreateCategory(suite.ctx, "Food and drinks", suite.bob.UUID)
	require.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), c.UUID, other.UUID)

	_, err = suite.store.CreateCategory(suite.ctx, "Food2", suite.alice.UUID)
	assert.True(suite.T(), errs.IsValidation(err))
}

func (suite *StoreTestSuite) TestRecordSign() {
	a := suite.account("Main", suite.alice)
	c := suite.category("Food", suite.alice)

	expense := suite.record(models.RecordExpense, 100, a, c, suite.alice)
	income := suite.record(models.RecordIncome, 100, a, c, suite.alice)

	assert.Equal(suite.T(), int64(-100), expense.Amount)
	assert.Equal(suite.T(), models.RecordExpense, expense.Type())
	assert.Equal(suite.T(), int64(100), income.Amount)
	assert.Equal(suite.T(), models.RecordIncome, income.Type())
	assert.False(suite.T(), income.OccurredAt.IsZero())
}

func (suite *StoreTestSuite) TestCreateRecordValidation() {
	a := suite.account("Main", suite.alice)
	c := suite.category("Food", suite.alice)

	_, err := suite.store.CreateRecord(suite.ctx, RecordInput{
		Type: "transfer", Amount: 1, AccountID: a.UUID, CategoryID: c.UUID,
	}, suite.alice.UUID)
	assert.True(suite.T(), errs.IsValidation(err))

	_, err = suite.store.CreateRecord(suite.ctx, RecordInput{
		Type: models.RecordIncome, Amount: 0, AccountID: a.UUID, CategoryID: c.UUID,
	}, suite.alice.UUID)
	assert.True(suite.T(), errs.IsValidation(err))
}

func (suite *StoreTestSuite) TestCreateRecordRequiresOwnedReferences() {
	a := suite.account("Main", suite.alice)
	c := suite.category("Food", suite.alice)

	_, err := suite.store.CreateRecord(suite.ctx, RecordInput{
		Type: models.RecordIncome, Amount: 5, AccountID: a.UUID, CategoryID: c.UUID,
	}, suite.bob.UUID)
	assert.ErrorIs(suite.T(), err, errs.ErrNotFound)

	_, err = suite.store.CreateRecord(suite.ctx, RecordInput{
		Type: models.RecordIncome, Amount: 5, AccountID: "missing", CategoryID: c.UUID,
	}, suite.alice.UUID)
	assert.ErrorIs(suite.T(), err, errs.ErrNotFound)
}

func (suite *StoreTestSuite) TestAccountBalance() {
	a := suite.account("Main", suite.alice)
	empty := suite.account("Savings", suite.alice)
	c := suite.category("Food", suite.alice)

	suite.record(models.RecordIncome, 100, a, c, suite.alice)
	suite.record(models.RecordExpense, 30, a, c, suite.alice)
	suite.record(models.RecordIncome, 5, a, c, suite.alice)

	got, err := suite.store.GetAccountByName(suite.ctx, "Main")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(75), got.Balance)
	require.NotNil(suite.T(), got.Creator)
	assert.Equal(suite.T(), "alice", got.Creator.Username)

	got, err = suite.store.GetAccountByName(suite.ctx, empty.Name)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), got.Balance)

	list, err := suite.store.GetAccountsByOwner(suite.ctx, suite.alice.UUID)
	require.NoError(suite.T(), err)
	balances := map[string]int64{}
	for _, ab := range list {
		balances[ab.Name] = ab.Balance
	}
	assert.Equal(suite.T(), map[string]int64{"Main": 75, "Savings": 0}, balances)

	cat, err := suite.store.GetCategoryByUUID(suite.ctx, c.UUID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(75), cat.Balance)

	_, err = suite.store.GetAccountByName(suite.ctx, "Nope")
	assert.ErrorIs(suite.T(), err, errs.ErrNotFound)
}

func (suite *StoreTestSuite) TestUpdateAccount() {
	a := suite.account("Main", suite.alice)
	suite.account("Taken", suite.bob)

	updated, err := suite.store.UpdateAccount(suite.ctx, a.UUID, "Daily", true)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Daily", updated.Name)
	assert.True(suite.T(), updated.IsPrivate)

	_, err = suite.store.UpdateAccount(suite.ctx, a.UUID, "Taken", false)
	assert.ErrorIs(suite.T(), err, errs.ErrConflict)

	// renaming onto its own name is not a conflict
	_, err = suite.store.UpdateAccount(suite.ctx, a.UUID, "Daily", false)
	assert.NoError(suite.T(), err)

	_, err = suite.store.UpdateAccount(suite.ctx, "missing", "Other", false)
	assert.ErrorIs(suite.T(), err, errs.ErrNotFound)
}

func (suite *StoreTestSuite) TestUpdateCategory() {
	c := suite.category("Food", suite.alice)
	suite.category("Rent", suite.alice)
	suite.category("Travel", suite.bob)

	updated, err := suite.store.UpdateCategory(suite.ctx, c.UUID, "groceries")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Groceries", updated.Name)

	_, err = suite.store.UpdateCategory(suite.ctx, c.UUID, "rent")
	assert.ErrorIs(suite.T(), err, errs.ErrConflict)

	_, err = suite.store.UpdateCategory(suite.ctx, c.UUID, "travel")
	assert.NoError(suite.T(), err)
}

func (suite *StoreTestSuite) TestDeleteAccountRemovesRecords() {
	a := suite.account("Main", suite.alice)
	other := suite.account("Cash", suite.alice)
	c := suite.category("Food", suite.alice)

	r := suite.record(models.RecordIncome, 100, a, c, suite.alice)
	suite.record(models.RecordIncome, 7, other, c, suite.alice)

	require.NoError(suite.T(), suite.store.DeleteAccount(suite.ctx, a.UUID))

	_, err := suite.store.GetAccountByUUID(suite.ctx, a.UUID)
	assert.ErrorIs(suite.T(), err, errs.ErrNotFound)
	_, err = suite.store.GetRecordByUUID(suite.ctx, r.UUID)
	assert.ErrorIs(suite.T(), err, errs.ErrNotFound)

	cat, err := suite.store.GetCategoryByUUID(suite.ctx, c.UUID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), cat.Balance)

	assert.ErrorIs(suite.T(), suite.store.DeleteAccount(suite.ctx, a.UUID), errs.ErrNotFound)
}

func (suite *StoreTestSuite) TestDeleteCategoryRemovesRecords() {
	a := suite.account("Main", suite.alice)
	c := suite.category("Food", suite.alice)
	suite.record(models.RecordExpense, 40, a, c, suite.alice)

	require.NoError(suite.T(), suite.store.DeleteCategory(suite.ctx, c.UUID))

	got, err := suite.store.GetAccountByName(suite.ctx, "Main")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), got.Balance)

	_, err = suite.store.GetCategoryByUUID(suite.ctx, c.UUID)
	assert.ErrorIs(suite.T(), err, errs.ErrNotFound)
}

func (suite *StoreTestSuite) TestDeleteForeignRecordIsNotFound() {
	a := suite.account("Main", suite.alice)
	c := suite.category("Food", suite.alice)
	r := suite.record(models.RecordIncome, 10, a, c, suite.alice)

	_, err := suite.store.DeleteRecord(suite.ctx, r.UUID, suite.bob.UUID)
	assert.ErrorIs(suite.T(), err, errs.ErrNotFound)

	_, err = suite.store.GetRecordByUUID(suite.ctx, r.UUID)
	require.NoError(suite.T(), err, "record must survive a foreign delete")

	deleted, err := suite.store.DeleteRecord(suite.ctx, r.UUID, suite.alice.UUID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), r.UUID, deleted.UUID)

	_, err = suite.store.DeleteRecord(suite.ctx, r.UUID, suite.alice.UUID)
	assert.ErrorIs(suite.T(), err, errs.ErrNotFound)
}

func (suite *StoreTestSuite) TestListRecordsAndSummary() {
	a := suite.account("Main", suite.alice)
	cash := suite.account("Cash", suite.alice)
	food := suite.category("Food", suite.alice)
	pay := suite.category("Salary", suite.alice)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	inputs := []RecordInput{
		{Type: models.RecordIncome, Amount: 500000, AccountID: a.UUID, CategoryID: pay.UUID, OccurredAt: base},
		{Type: models.RecordExpense, Amount: 1250, AccountID: a.UUID, CategoryID: food.UUID, OccurredAt: base.Add(24 * time.Hour)},
		{Type: models.RecordExpense, Amount: 800, AccountID: cash.UUID, CategoryID: food.UUID, OccurredAt: base.Add(48 * time.Hour), Note: "lunch"},
	}
	for _, in := range inputs {
		_, err := suite.store.CreateRecord(suite.ctx, in, suite.alice.UUID)
		require.NoError(suite.T(), err)
	}

	records, total, err := suite.store.ListRecords(suite.ctx, suite.alice.UUID, RecordFilter{PageSize: 2})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), total)
	require.Len(suite.T(), records, 2)
	assert.Equal(suite.T(), "lunch", records[0].Note, "newest first")

	records, total, err = suite.store.ListRecords(suite.ctx, suite.alice.UUID, RecordFilter{Page: 2, PageSize: 2})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), total)
	require.Len(suite.T(), records, 1)
	assert.Equal(suite.T(), int64(500000), records[0].Amount)

	records, total, err = suite.store.ListRecords(suite.ctx, suite.alice.UUID, RecordFilter{
		CategoryID: food.UUID,
		AccountID:  a.UUID,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	require.Len(suite.T(), records, 1)
	assert.Equal(suite.T(), int64(-1250), records[0].Amount)

	_, total, err = suite.store.ListRecords(suite.ctx, suite.bob.UUID, RecordFilter{})
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), total)

	sum, err := suite.store.Summary(suite.ctx, suite.alice.UUID, RecordFilter{})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), Summary{Income: 500000, Expense: 2050, Balance: 497950}, sum)

	sum, err = suite.store.Summary(suite.ctx, suite.alice.UUID, RecordFilter{Type: models.RecordExpense})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), Summary{Income: 0, Expense: 2050, Balance: -2050}, sum)

	sum, err = suite.store.Summary(suite.ctx, suite.bob.UUID, RecordFilter{})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), Summary{}, sum)
}

func (suite *StoreTestSuite) TestRecordRows() {
	a := suite.account("Main", suite.alice)
	c := suite.category("Food", suite.alice)
	_, err := suite.store.CreateRecord(suite.ctx, RecordInput{
		Type: models.RecordExpense, Amount: 2000, AccountID: a.UUID, CategoryID: c.UUID, Note: "pizza",
	}, suite.alice.UUID)
	require.NoError(suite.T(), err)

	rows, err := suite.store.RecordRows(suite.ctx, suite.alice.UUID, RecordFilter{})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), rows, 1)
	assert.Equal(suite.T(), "Main", rows[0].AccountName)
	assert.Equal(suite.T(), "Food", rows[0].CategoryName)
	assert.Equal(suite.T(), int64(-2000), rows[0].Amount)
	assert.Equal(suite.T(), "pizza", rows[0].Note)

	rows, err = suite.store.RecordRows(suite.ctx, suite.bob.UUID, RecordFilter{})
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), rows)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (suite *StoreTestSuite) TestAuditLogs() {
	for _, m := range []string{"POST", "PATCH", "DELETE"} {
		require.NoError(suite.T(), suite.store.CreateAuditLog(suite.ctx, &models.AuditLog{
			UserID: suite.alice.UUID,
			Method: m,
		}))
	}
	require.NoError(suite.T(), suite.store.CreateAuditLog(suite.ctx, &models.AuditLog{
		UserID: suite.bob.UUID,
		Method: "POST",
	}))

	logs, total, err := suite.store.ListAuditLogs(suite.ctx, suite.alice.UUID, LogFilter{PageSize: 2})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), total)
	require.Len(suite.T(), logs, 2)
	assert.Equal(suite.T(), "DELETE", logs[0].Method, "newest first")

	_, total, err = suite.store.ListAuditLogs(suite.ctx, suite.alice.UUID, LogFilter{
		From: time.Now().Add(time.Hour),
	})
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), total)
}

func (suite *StoreTestSuite) TestMonthlyStats() {
	a := suite.account("Main", suite.alice)
	food := suite.category("Food", suite.alice)
	pay := suite.category("Salary", suite.alice)

	march := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	inputs := []RecordInput{
		{Type: models.RecordIncome, Amount: 300000, CategoryID: pay.UUID, OccurredAt: march},
		{Type: models.RecordExpense, Amount: 1500, CategoryID: food.UUID, OccurredAt: march},
		{Type: models.RecordExpense, Amount: 500, CategoryID: food.UUID, OccurredAt: march.AddDate(0, 0, 2)},
		{Type: models.RecordExpense, Amount: 999, CategoryID: food.UUID, OccurredAt: march.AddDate(0, 1, 0)},
	}
	for _, in := range inputs {
		in.AccountID = a.UUID
		_, err := suite.store.CreateRecord(suite.ctx, in, suite.alice.UUID)
		require.NoError(suite.T(), err)
	}

	stats, err := suite.store.MonthlyStats(suite.ctx, suite.alice.UUID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "2024-03", stats.Month)
	assert.Equal(suite.T(), Totals{Income: 300000, Expense: 2000}, stats.Total)
	assert.Equal(suite.T(), int64(298000), stats.Total.Balance())

	require.Len(suite.T(), stats.Days, 2)
	assert.Equal(suite.T(), "2024-03-05", stats.Days[0].Date)
	assert.Equal(suite.T(), Totals{Income: 300000, Expense: 1500}, stats.Days[0].Totals)
	assert.Equal(suite.T(), "2024-03-07", stats.Days[1].Date)

	require.Len(suite.T(), stats.Categories, 2)
	assert.Equal(suite.T(), "Food", stats.Categories[0].Category)
	assert.Equal(suite.T(), Totals{Expense: 2000}, stats.Categories[0].Totals)
	assert.Equal(suite.T(), "Salary", stats.Categories[1].Category)
}

func (suite *StoreTestSuite) TestMonthBoundaryIgnoresInputZone() {
	a := suite.account("Main", suite.alice)
	food := suite.category("Food", suite.alice)
	cst := time.FixedZone("CST", 8*3600)

	// 2024-03-01T00:00Z and 2024-02-29T23:59Z, both given in +08:00
	for _, at := range []time.Time{
		time.Date(2024, 3, 1, 8, 0, 0, 0, cst),
		time.Date(2024, 3, 1, 7, 59, 0, 0, cst),
	} {
		_, err := suite.store.CreateRecord(suite.ctx, RecordInput{
			Type: models.RecordExpense, Amount: 500, AccountID: a.UUID, CategoryID: food.UUID, OccurredAt: at,
		}, suite.alice.UUID)
		require.NoError(suite.T(), err)
	}

	feb, err := suite.store.MonthlyStats(suite.ctx, suite.alice.UUID, time.Date(2024, 2, 1, 0, 0, 0, 0, cst))
	require.NoError(suite.T(), err)
	require.Len(suite.T(), feb.Days, 1)
	assert.Equal(suite.T(), "2024-02-29", feb.Days[0].Date)

	mar, err := suite.store.MonthlyStats(suite.ctx, suite.alice.UUID, time.Date(2024, 3, 1, 0, 0, 0, 0, cst))
	require.NoError(suite.T(), err)
	require.Len(suite.T(), mar.Days, 1)
	assert.Equal(suite.T(), "2024-03-01", mar.Days[0].Date)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).In(cst)
	_, total, err := suite.store.ListRecords(suite.ctx, suite.alice.UUID, RecordFilter{From: from})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
}

func (suite *StoreTestSuite) TestChangePassword() {
	err := suite.store.ChangePassword(suite.ctx, suite.alice.UUID, "wrong", "new-pw")
	assert.True(suite.T(), errs.IsValidation(err))

	require.NoError(suite.T(), suite.store.ChangePassword(suite.ctx, suite.alice.UUID, "pw1", "new-pw"))

	u, err := suite.store.GetUserByUUID(suite.ctx, suite.alice.UUID)
	require.NoError(suite.T(), err)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("new-pw")))

	err = suite.store.ChangePassword(suite.ctx, "missing", "pw1", "x")
	assert.ErrorIs(suite.T(), err, errs.ErrNotFound)
}
