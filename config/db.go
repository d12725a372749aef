package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alinbpe/motel-management-system/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// CabinDefinition pairs a cabin name with the icon the frontend renders for it.
type CabinDefinition struct {
	Name string
	Icon string
}

// The resort's nine cabins. The set is fixed at provisioning time; cabins are
// never created or deleted at runtime.
var CabinDefinitions = []CabinDefinition{
	{Name: "Shoka", Icon: "Mountain"},
	{Name: "Michka", Icon: "Bird"},
	{Name: "Papoli", Icon: "Flower"},
	{Name: "Oopach", Icon: "Cloud"},
	{Name: "Zik", Icon: "Feather"},
	{Name: "Sorkhdar", Icon: "TreePine"},
	{Name: "Shemshad", Icon: "TreeDeciduous"},
	{Name: "Maral", Icon: "Crown"},
	{Name: "Namazin", Icon: "Sun"},
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "resort_db")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	)
	return dsn, nil
}

// SeedDatabase provisions the fixed cabin set and the default administrator.
// Safe to run repeatedly; existing rows are left alone.
func SeedDatabase(db *gorm.DB) {
	var cabinCount int64
	db.Model(&models.Cabin{}).Count(&cabinCount)
	if cabinCount == 0 {
		cabins := make([]models.Cabin, 0, len(CabinDefinitions))
		for _, def := range CabinDefinitions {
			cabins = append(cabins, models.Cabin{
				Name:   def.Name,
				Icon:   def.Icon,
				Status: models.StatusEmptyClean,
			})
		}
		if err := db.Create(&cabins).Error; err != nil {
			log.Printf("warning: failed to seed cabins: %v", err)
		} else {
			log.Println("Cabins seeded")
		}
	}

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)
	if adminCount == 0 {
		password := envOrDefault("ADMIN_PASSWORD", "admin123")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
			return
		}
		admin := models.User{
			Username: envOrDefault("ADMIN_USERNAME", "admin"),
			Password: string(hash),
			Role:     models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("warning: failed to create default admin: %v", err)
		} else {
			log.Println("Default admin seeded")
		}
	}
}

// Migrate applies the schema in parent->child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Cabin{},
		&models.Stay{},
		&models.Issue{},
		&models.CleaningChecklist{},
		&models.LogEntry{},
		&models.Notification{},
	)
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := Migrate(DB); err != nil {
		return err
	}

	SeedDatabase(DB)
	return nil
}
