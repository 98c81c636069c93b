package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mazenibra89-oss/Omni-POS/internal/model"
	"github.com/mazenibra89-oss/Omni-POS/internal/seed"
	"github.com/mazenibra89-oss/Omni-POS/pkg/config"
	"github.com/mazenibra89-oss/Omni-POS/pkg/database"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"
	"gorm.io/gorm"
)

// posctl bundles the operational tasks that should not live inside the
// API server: schema migration, seeding, and emergency password resets.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	app := cli.NewApp()
	app.Name = "posctl"
	app.Usage = "operational tooling for the Omni-POS backend"

	app.Commands = []cli.Command{
		{
			Name:  "db:migrate",
			Usage: "create or update the database schema",
			Action: func(c *cli.Context) error {
				db := database.ConnectDB(cfg.DatabaseDSN)
				return migrate(db)
			},
		},
		{
			Name:  "db:seed",
			Usage: "seed default users and the bootstrap catalog",
			Action: func(c *cli.Context) error {
				db := database.ConnectDB(cfg.DatabaseDSN)
				if err := migrate(db); err != nil {
					return err
				}
				return seed.DBSeed(db)
			},
		},
		{
			Name:      "reset-password",
			Usage:     "set a new password for a user by email",
			ArgsUsage: "<email> <new-password>",
			Action: func(c *cli.Context) error {
				if c.NArg() != 2 {
					return fmt.Errorf("usage: posctl reset-password <email> <new-password>")
				}
				db := database.ConnectDB(cfg.DatabaseDSN)
				return resetPassword(db, c.Args().Get(0), c.Args().Get(1))
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Product{},
		&model.Sale{}, &model.SaleItem{},
		&model.PurchaseOrder{}, &model.PurchaseItem{},
		&model.OpnameSession{}, &model.OpnameDetail{},
		&model.StockLog{},
		&model.User{},
	)
}

func resetPassword(db *gorm.DB, email, newPassword string) error {
	var user model.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return fmt.Errorf("user %s not found: %w", email, err)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := db.Model(&user).Update("password", user.Password).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	log.Printf("Password for %s has been reset", email)
	return nil
}
