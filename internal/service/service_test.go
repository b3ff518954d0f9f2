package service

import (
	"testing"

	"github.com/husainf4l/gixat/internal/repository"
	"github.com/husainf4l/gixat/internal/testutil"
	"gorm.io/gorm"
)

func newTestServices(t *testing.T) (*gorm.DB, *repository.Repositories, *Services) {
	t.Helper()
	db := testutil.SetupDB()
	repos := repository.NewRepositories(db)
	svc := NewServices(db, repos, nil, testutil.Logger(), testutil.Config())
	return db, repos, svc
}
