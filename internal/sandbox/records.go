package sandbox

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"stellarburger/internal/models"
)

// UserRecord is a registered customer
type UserRecord struct {
	gorm.Model
	Email        string `gorm:"unique_index;size:255"`
	Name         string
	PasswordHash string
	ResetToken   string `gorm:"index;size:64"`
}

func (UserRecord) TableName() string { return "users" }

func (u UserRecord) toModel() models.User {
	return models.User{Email: u.Email, Name: u.Name}
}

// SessionRecord is an issued refresh token, stored hashed
type SessionRecord struct {
	gorm.Model
	UserID    uint   `gorm:"index"`
	TokenHash string `gorm:"unique_index;size:64"`
}

func (SessionRecord) TableName() string { return "sessions" }

// IngredientRecord is a catalog entry
type IngredientRecord struct {
	ID            string `gorm:"primary_key;size:64"`
	Position      int
	Name          string
	Type          string
	Proteins      int
	Fat           int
	Carbohydrates int
	Calories      int
	Price         int
	Image         string
	ImageMobile   string
	ImageLarge    string
}

func (IngredientRecord) TableName() string { return "ingredients" }

func (r IngredientRecord) toModel() models.Ingredient {
	return models.Ingredient{
		ID:            r.ID,
		Name:          r.Name,
		Type:          models.IngredientType(r.Type),
		Proteins:      r.Proteins,
		Fat:           r.Fat,
		Carbohydrates: r.Carbohydrates,
		Calories:      r.Calories,
		Price:         r.Price,
		Image:         r.Image,
		ImageMobile:   r.ImageMobile,
		ImageLarge:    r.ImageLarge,
	}
}

// OrderRecord is a placed order. Ingredients holds comma separated ids.
type OrderRecord struct {
	gorm.Model
	UID         string `gorm:"unique_index;size:36"`
	Number      int    `gorm:"unique_index"`
	UserID      uint   `gorm:"index"`
	Name        string
	Status      string `gorm:"index;size:16"`
	Ingredients string `gorm:"type:text"`
}

func (OrderRecord) TableName() string { return "orders" }

func (r OrderRecord) toModel() models.Order {
	var ids []string
	if r.Ingredients != "" {
		ids = strings.Split(r.Ingredients, ",")
	}
	return models.Order{
		ID:          r.UID,
		Number:      r.Number,
		Status:      models.OrderStatus(r.Status),
		Name:        r.Name,
		Ingredients: ids,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// OpenDB connects to the sandbox database. An in-memory sqlite database is
// limited to one connection so every query sees the same data.
func OpenDB(dialect, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialect == "sqlite3" && strings.Contains(dsn, ":memory:") {
		db.DB().SetMaxOpenConns(1)
	} else {
		db.DB().SetMaxIdleConns(10)
		db.DB().SetMaxOpenConns(100)
	}
	db.DB().SetConnMaxLifetime(time.Hour)
	return db, nil
}

// migrate creates the schema and seeds the catalog when it is empty.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&UserRecord{},
		&SessionRecord{},
		&IngredientRecord{},
		&OrderRecord{},
	).Error; err != nil {
		return fmt.Errorf("migrate sandbox schema: %w", err)
	}

	var count int
	if err := db.Model(&IngredientRecord{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count ingredients: %w", err)
	}
	if count > 0 {
		return nil
	}
	for i, ing := range DefaultCatalog {
		if err := models.ValidateIngredient(&ing); err != nil {
			return err
		}
		rec := IngredientRecord{
			ID:            ing.ID,
			Position:      i,
			Name:          ing.Name,
			Type:          string(ing.Type),
			Proteins:      ing.Proteins,
			Fat:           ing.Fat,
			Carbohydrates: ing.Carbohydrates,
			Calories:      ing.Calories,
			Price:         ing.Price,
			Image:         ing.Image,
			ImageMobile:   ing.ImageMobile,
			ImageLarge:    ing.ImageLarge,
		}
		if err := db.Create(&rec).Error; err != nil {
			return fmt.Errorf("seed ingredient %s: %w", ing.ID, err)
		}
	}
	return nil
}

const imageBase = "https://code.s3.yandex.net/react/code/"

func seed(id, name string, t models.IngredientType, price, proteins, fat, carbs, calories int, image string) models.Ingredient {
	return models.Ingredient{
		ID:            id,
		Name:          name,
		Type:          t,
		Proteins:      proteins,
		Fat:           fat,
		Carbohydrates: carbs,
		Calories:      calories,
		Price:         price,
		Image:         imageBase + image + ".png",
		ImageMobile:   imageBase + image + "-mobile.png",
		ImageLarge:    imageBase + image + "-large.png",
	}
}

// DefaultCatalog is seeded into an empty database
var DefaultCatalog = []models.Ingredient{
	seed("643d69a5c3f7b9001cfa093c", "Crater bun N-200i", models.IngredientBun, 1255, 80, 24, 53, 420, "bun-02"),
	seed("643d69a5c3f7b9001cfa093d", "Fluorescent bun R2-D3", models.IngredientBun, 988, 44, 26, 85, 643, "bun-01"),
	seed("643d69a5c3f7b9001cfa0942", "Spicy-X sauce", models.IngredientSauce, 90, 30, 20, 40, 30, "sauce-02"),
	seed("643d69a5c3f7b9001cfa0943", "Space sauce", models.IngredientSauce, 80, 50, 22, 11, 14, "sauce-04"),
	seed("643d69a5c3f7b9001cfa0941", "Martian Magnolia bio-cutlet", models.IngredientMain, 424, 420, 142, 242, 4242, "meat-01"),
	seed("643d69a5c3f7b9001cfa093e", "Luminescent tetraodontimform fillet", models.IngredientMain, 988, 44, 26, 85, 643, "meat-03"),
	seed("643d69a5c3f7b9001cfa0946", "Mineral rings", models.IngredientMain, 300, 808, 689, 609, 986, "mineral_rings"),
	seed("643d69a5c3f7b9001cfa0949", "Exo-plantago", models.IngredientMain, 4400, 1, 2, 3, 6, "exo-plantago"),
}
