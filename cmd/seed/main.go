package main

import (
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"smartgrocery/internal/database"
	"smartgrocery/internal/domain"
	"smartgrocery/internal/domain/notification"
)

// Seeds a local database with two demo users sharing a family and fridge
// items spread around the expiry thresholds, so the scheduled scans have
// something to chew on immediately.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "grocery.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Family{},
		&domain.FamilyMember{},
		&domain.FridgeItem{},
		&notification.Notification{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM fridge_items")
	db.Exec("DELETE FROM family_members")
	db.Exec("DELETE FROM families")
	db.Exec("DELETE FROM users")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	users := []domain.User{
		{Username: "lan", Email: "lan@example.com", FullName: "Lan Nguyễn", PasswordHash: string(hash), Role: domain.RoleUser},
		{Username: "minh", Email: "minh@example.com", FullName: "Minh Trần", PasswordHash: string(hash), Role: domain.RoleUser},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatal("seeding user failed:", err)
		}
	}

	family := domain.Family{
		Name:       "Gia đình Nguyễn",
		InviteCode: "NGUYEN01",
		CreatedBy:  users[0].ID,
	}
	if err := db.Create(&family).Error; err != nil {
		log.Fatal("seeding family failed:", err)
	}

	members := []domain.FamilyMember{
		{FamilyID: family.ID, UserID: users[0].ID, Role: domain.FamilyRoleLeader, JoinedAt: time.Now()},
		{FamilyID: family.ID, UserID: users[1].ID, Role: domain.FamilyRoleMember, JoinedAt: time.Now()},
	}
	for i := range members {
		if err := db.Create(&members[i]).Error; err != nil {
			log.Fatal("seeding family member failed:", err)
		}
	}

	today := time.Now().UTC()
	date := func(daysFromNow int) *time.Time {
		d := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, daysFromNow)
		return &d
	}

	items := []domain.FridgeItem{
		{FamilyID: family.ID, ProductName: "Sữa tươi", Quantity: 2, Unit: "hộp", ExpirationDate: date(1), Status: domain.FridgeItemActive, AddedBy: users[0].ID},
		{FamilyID: family.ID, ProductName: "Thịt bò", Quantity: 0.5, Unit: "kg", ExpirationDate: date(2), Status: domain.FridgeItemActive, AddedBy: users[0].ID},
		{FamilyID: family.ID, ProductName: "Rau muống", Quantity: 1, Unit: "bó", ExpirationDate: date(3), Status: domain.FridgeItemActive, AddedBy: users[1].ID},
		{FamilyID: family.ID, ProductName: "Đậu hũ", Quantity: 3, Unit: "miếng", ExpirationDate: date(-1), Status: domain.FridgeItemActive, AddedBy: users[1].ID},
		{FamilyID: family.ID, ProductName: "Trứng gà", Quantity: 10, Unit: "quả", ExpirationDate: date(14), Status: domain.FridgeItemActive, AddedBy: users[0].ID},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			log.Fatal("seeding fridge item failed:", err)
		}
	}

	log.Printf("Seed completed: %d users, 1 family, %d fridge items", len(users), len(items))
}
