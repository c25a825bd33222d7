package store

import (
	"errors"
	"testing"

	"taskboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/clause"
)

func TestDriverErrorsAreTranslated(t *testing.T) {
	gdb := newTestDB(t)
	db := gdb.WithContext(ctx)

	first := domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "x"}
	assert.NoError(t, db.Create(&first).Error)

	err := db.Create(&domain.User{Username: "alice", Email: "other@x.com", PasswordHash: "x"}).Error
	assert.True(t, isDuplicateKey(err), "unique username: %v", err)
	assert.False(t, isForeignKeyViolation(err))

	err = db.Omit(clause.Associations).Create(&domain.Task{Title: "t", Status: domain.StatusNotStarted, AssignedUserID: first.ID, CreatedByID: 999}).Error
	assert.True(t, isForeignKeyViolation(err), "unknown creator: %v", err)
	assert.False(t, isDuplicateKey(err))

	assert.False(t, isDuplicateKey(errors.New("UNIQUE constraint failed: users.username")))
}
