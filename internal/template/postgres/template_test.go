package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	permissionDatamodel "github.com/frahmantamala/docportal-access/internal/core/datamodel/permission"
	"github.com/frahmantamala/docportal-access/internal/template"
	templatePostgres "github.com/frahmantamala/docportal-access/internal/template/postgres"
)

func TestTemplatePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Template Postgres Suite")
}

// SQLiteTemplate is a SQLite-compatible model for testing
type SQLiteTemplate struct {
	ID          string    `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	Permissions string    `gorm:"column:permissions;not null"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedBy   string    `gorm:"column:created_by"`
	UsageCount  int       `gorm:"column:usage_count;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SQLiteTemplate) TableName() string {
	return "permission_templates"
}

var _ = Describe("Template PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo template.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteTemplate{})
		Expect(err).NotTo(HaveOccurred())

		repo = templatePostgres.NewTemplateRepository(db)
	})

	newRow := func(name string, permissions []string) *permissionDatamodel.PermissionTemplate {
		return &permissionDatamodel.PermissionTemplate{
			ID:          uuid.NewString(),
			Name:        name,
			Permissions: permissions,
			IsActive:    true,
			CreatedBy:   uuid.NewString(),
		}
	}

	Describe("Create", func() {
		It("should persist the template with its permission list", func() {
			row := newRow("document_viewer", []string{"documents.view_all", "documents.download"})

			err := repo.Create(row)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).NotTo(BeNil())
			Expect(loaded.Permissions).To(Equal([]string{"documents.view_all", "documents.download"}))
		})

		It("should fail on a duplicate name", func() {
			Expect(repo.Create(newRow("document_viewer", []string{"documents.view_all"}))).To(Succeed())

			err := repo.Create(newRow("document_viewer", []string{"documents.create"}))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetByID", func() {
		It("should return nil for an unknown id without an error", func() {
			loaded, err := repo.GetByID(uuid.NewString())
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(BeNil())
		})
	})

	Describe("GetByName", func() {
		It("should find the template by its unique name", func() {
			row := newRow("department_manager", []string{"departments.assign_users"})
			Expect(repo.Create(row)).To(Succeed())

			loaded, err := repo.GetByName("department_manager")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).NotTo(BeNil())
			Expect(loaded.ID).To(Equal(row.ID))
		})

		It("should return nil for an unknown name", func() {
			loaded, err := repo.GetByName("nonexistent")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(BeNil())
		})
	})

	Describe("Update", func() {
		It("should save changed fields", func() {
			row := newRow("document_viewer", []string{"documents.view_all"})
			Expect(repo.Create(row)).To(Succeed())

			row.Description = "read only access"
			row.IsActive = false
			Expect(repo.Update(row)).To(Succeed())

			loaded, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Description).To(Equal("read only access"))
			Expect(loaded.IsActive).To(BeFalse())
		})
	})

	Describe("Delete", func() {
		It("should remove the row", func() {
			row := newRow("document_viewer", []string{"documents.view_all"})
			Expect(repo.Create(row)).To(Succeed())

			Expect(repo.Delete(row.ID)).To(Succeed())

			loaded, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(BeNil())
		})
	})

	Describe("ListAll", func() {
		It("should order templates by name", func() {
			Expect(repo.Create(newRow("document_viewer", []string{"documents.view_all"}))).To(Succeed())
			Expect(repo.Create(newRow("department_manager", []string{"departments.assign_users"}))).To(Succeed())

			rows, err := repo.ListAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Name).To(Equal("department_manager"))
			Expect(rows[1].Name).To(Equal("document_viewer"))
		})
	})

	Describe("IncrementUsage", func() {
		It("should bump the counter atomically in the database", func() {
			row := newRow("document_viewer", []string{"documents.view_all"})
			Expect(repo.Create(row)).To(Succeed())

			Expect(repo.IncrementUsage(row.ID, 3)).To(Succeed())
			Expect(repo.IncrementUsage(row.ID, 2)).To(Succeed())

			loaded, err := repo.GetByID(row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.UsageCount).To(Equal(5))
		})
	})
})
