package database

import "gorm.io/gorm"

// Students restricts a users query to non-admin accounts
func Students(db *gorm.DB) *gorm.DB {
	return db.Where("is_admin = ?", false)
}

// Admins restricts a users query to admin accounts
func Admins(db *gorm.DB) *gorm.DB {
	return db.Where("is_admin = ?", true)
}

// Completed restricts a completions query to finished rows
func Completed(db *gorm.DB) *gorm.DB {
	return db.Where("completed = ?", true)
}
