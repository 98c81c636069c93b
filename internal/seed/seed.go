// Package seed bootstraps the catalog and default users on an empty
// database. Seeding is idempotent: existing rows are left alone.
package seed

import (
	"log"

	"github.com/mazenibra89-oss/Omni-POS/internal/model"

	"gorm.io/gorm"
)

// Catalog is the bootstrap product list. Treated as configuration, not
// business logic: replace it per deployment.
var Catalog = []model.Product{
	{SKU: "PRD-001", Name: "Indomie Goreng Spcl", Category: "Food", Unit: "Pcs", BuyPrice: 2500, SellPrice: 3500, Stock: 120, MinStock: 20},
	{SKU: "PRD-002", Name: "Le Minerale 600ml", Category: "Drink", Unit: "Btl", BuyPrice: 2200, SellPrice: 3500, Stock: 85, MinStock: 15},
	{SKU: "PRD-003", Name: "Pepsodent 120g", Category: "Personal Care", Unit: "Pcs", BuyPrice: 12000, SellPrice: 15500, Stock: 45, MinStock: 10},
	{SKU: "PRD-004", Name: "Minyak Goreng 2L", Category: "Kitchen", Unit: "Pch", BuyPrice: 32000, SellPrice: 36000, Stock: 12, MinStock: 10},
	{SKU: "PRD-005", Name: "Beras Pandan Wangi 5kg", Category: "Food", Unit: "Bag", BuyPrice: 65000, SellPrice: 78000, Stock: 8, MinStock: 5},
}

type defaultUser struct {
	Email    string
	Password string
	FullName string
	Role     model.Role
}

var defaultUsers = []defaultUser{
	{Email: "owner@example.com", Password: "owner123", FullName: "Store Owner", Role: model.RoleOwner},
	{Email: "admin@example.com", Password: "admin123", FullName: "Store Administrator", Role: model.RoleAdmin},
	{Email: "cashier@example.com", Password: "cashier123", FullName: "Front Cashier", Role: model.RoleCashier},
}

// DBSeed creates the default users and, if the catalog is empty, the
// bootstrap products.
func DBSeed(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	return seedCatalog(db)
}

func seedUsers(db *gorm.DB) error {
	for _, du := range defaultUsers {
		var count int64
		if err := db.Model(&model.User{}).Where("email = ?", du.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		user := &model.User{
			Email:    du.Email,
			FullName: du.FullName,
			RoleCode: du.Role,
			IsActive: true,
		}
		user.CreatedBy = "system"
		user.UpdatedBy = "system"
		if err := user.SetPassword(du.Password); err != nil {
			return err
		}
		if err := db.Create(user).Error; err != nil {
			return err
		}
		log.Printf("Seeded user %s (%s)", du.Email, du.Role)
	}
	return nil
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, p := range Catalog {
		product := p
		product.CreatedBy = "system"
		product.UpdatedBy = "system"
		if err := db.Create(&product).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d catalog products", len(Catalog))
	return nil
}
