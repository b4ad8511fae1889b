package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"permission_audit_log", "permission_grants", "permission_templates", "department_assignments"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared permission data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUser(db, "admin@portal.local", "Portal", "Admin", "admin", string(hash))
		seedUser(db, "head@portal.local", "Dept", "Head", "department_head", string(hash))
		seedUser(db, "employee@portal.local", "Jane", "Employee", "employee", string(hash))

		seedDepartment(db, "Engineering", "ENG")
		seedDepartment(db, "Human Resources", "HR")

		seedCategory(db, "Public Notices", true)
		seedCategory(db, "Engineering Docs", false)
		seedCategory(db, "HR Confidential", false)

		seedTemplate(db, "document_viewer", "Read-only document access",
			`["documents.view_all","documents.download"]`)
		seedTemplate(db, "document_editor", "Full document editing",
			`["documents.view_all","documents.create","documents.edit_all","documents.share","documents.download"]`)
		seedTemplate(db, "department_manager", "Department administration",
			`["departments.view_all","departments.manage","departments.assign_users","departments.view_employees"]`)

		fmt.Println("Seeding complete")
	},
}

func seedUser(db *gorm.DB, email, firstName, lastName, role, passwordHash string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM users WHERE email = ?", email).Row().Scan(&exists); err == nil {
		fmt.Println("user already exists:", email)
		return
	}

	err := db.Exec(
		"INSERT INTO users (id, email, first_name, last_name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, true, now(), now())",
		uuid.NewString(), email, firstName, lastName, passwordHash, role,
	).Error
	if err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
}

func seedDepartment(db *gorm.DB, name, code string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM departments WHERE code = ?", code).Row().Scan(&exists); err == nil {
		fmt.Println("department already exists:", code)
		return
	}

	err := db.Exec(
		"INSERT INTO departments (id, name, code, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
		uuid.NewString(), name, code,
	).Error
	if err != nil {
		log.Fatalf("failed to insert department %s: %v", code, err)
	}
	fmt.Println("Seeded department:", name)
}

func seedCategory(db *gorm.DB, name string, isPublic bool) {
	var exists int
	if err := db.Raw("SELECT 1 FROM document_categories WHERE name = ?", name).Row().Scan(&exists); err == nil {
		fmt.Println("category already exists:", name)
		return
	}

	err := db.Exec(
		"INSERT INTO document_categories (id, name, is_public, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
		uuid.NewString(), name, isPublic,
	).Error
	if err != nil {
		log.Fatalf("failed to insert category %s: %v", name, err)
	}
	fmt.Println("Seeded category:", name)
}

func seedTemplate(db *gorm.DB, name, description, permissionsJSON string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM permission_templates WHERE name = ?", name).Row().Scan(&exists); err == nil {
		fmt.Println("template already exists:", name)
		return
	}

	err := db.Exec(
		"INSERT INTO permission_templates (id, name, description, permissions, is_active, usage_count, created_at, updated_at) VALUES (?, ?, ?, ?, true, 0, now(), now())",
		uuid.NewString(), name, description, permissionsJSON,
	).Error
	if err != nil {
		log.Fatalf("failed to insert template %s: %v", name, err)
	}
	fmt.Println("Seeded template:", name)
}
