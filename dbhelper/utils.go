package dbhelper

import (
	"fmt"
	"slices"

	"gorm.io/gorm"

	"makeoverapi/models"
)

// tables in dependency order, parents first
var tables = []any{
	&models.UserAccount{},
	&models.UserPushToken{},
	&models.WardrobeItem{},
	&models.SavedLook{},
}

func Migrate(db *gorm.DB, models ...any) error {
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	return nil
}

// SetupCleaner empties every table, children first.
func SetupCleaner(db *gorm.DB) func() {
	return func() {
		session := db.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range slices.Backward(tables) {
			session.Delete(model)
		}
	}
}
