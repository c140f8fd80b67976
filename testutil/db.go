// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookpos-backend/models"
)

// NewDB opens a migrated in-memory sqlite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "open db")
	require.NoError(t, db.AutoMigrate(models.All()...), "migrate")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func Logger() *zap.Logger {
	return zap.NewNop()
}

// Tenant is a company with one user per role.
type Tenant struct {
	Company models.Company
	Owner   models.User
	Staff   models.User
	Client  models.User
}

// SeedTenant creates a company named name with an owner, a staff login and a client.
func SeedTenant(t *testing.T, db *gorm.DB, name string) Tenant {
	t.Helper()
	slug := strings.ToLower(strings.ReplaceAll(name, " ", ""))

	var tn Tenant
	tn.Company = models.Company{Name: name, IsActive: true, WorkingHours: models.DefaultWorkingHours()}
	require.NoError(t, db.Create(&tn.Company).Error)

	tn.Owner = models.User{Email: "owner@" + slug + ".test", Password: "secret123", Name: "Owner", Role: models.RoleCompanyOwner, CompanyID: tn.Company.ID, IsActive: true}
	tn.Staff = models.User{Email: "staff@" + slug + ".test", Password: "secret123", Name: "Staff", Role: models.RoleStaff, CompanyID: tn.Company.ID, IsActive: true}
	tn.Client = models.User{Email: "client@" + slug + ".test", Password: "secret123", Name: "Client", Phone: "+15550100", Role: models.RoleClient, CompanyID: tn.Company.ID, IsActive: true}
	for _, u := range []*models.User{&tn.Owner, &tn.Staff, &tn.Client} {
		require.NoError(t, db.Create(u).Error)
	}
	return tn
}
