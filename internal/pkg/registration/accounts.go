package registration

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DanceLinkHQ/DanceLink/app/models"
)

// Accounts mirrors successfully registered accounts into the local users
// table. The backend owns the account of record; the mirror is what the
// terminal-step session login verifies credentials against.
type Accounts interface {
	Upsert(username, email, firstName, lastName, password string) error
}

type gormAccounts struct {
	db *gorm.DB
}

// NewGormAccounts returns the users-table backed account mirror.
func NewGormAccounts(db *gorm.DB) Accounts {
	return &gormAccounts{db: db}
}

func (a *gormAccounts) Upsert(username, email, firstName, lastName, password string) error {
	user, err := models.CreateUser(username, email, firstName, lastName, password)
	if err != nil {
		return err
	}
	return a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "password"}),
	}).Create(user).Error
}
