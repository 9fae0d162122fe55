package database

import (
	"gorm.io/gorm"
)

// Role is the closed set of account roles. Authorization decisions compare
// against these constants only, never raw request strings.
type Role string

const (
	RoleUser      Role = "USER"
	RoleHRManager Role = "HR_MANAGER"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole validates a raw role string against the closed set.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleUser, RoleHRManager, RoleAdmin:
		return Role(raw), true
	}
	return "", false
}

// ResumeStatus is a resume's position in the hiring pipeline.
type ResumeStatus string

const (
	StatusApply      ResumeStatus = "APPLY"
	StatusDrop       ResumeStatus = "DROP"
	StatusPass       ResumeStatus = "PASS"
	StatusInterview1 ResumeStatus = "INTERVIEW1"
	StatusInterview2 ResumeStatus = "INTERVIEW2"
	StatusFinalPass  ResumeStatus = "FINAL_PASS"
)

// ParseResumeStatus validates a raw status string against the pipeline set.
func ParseResumeStatus(raw string) (ResumeStatus, bool) {
	switch ResumeStatus(raw) {
	case StatusApply, StatusDrop, StatusPass, StatusInterview1, StatusInterview2, StatusFinalPass:
		return ResumeStatus(raw), true
	}
	return "", false
}

// User 表示系统中的账号信息。
// PasswordHash is nullable: accounts created through an external client id
// carry no local credential.
type User struct {
	gorm.Model
	Email        string  `gorm:"uniqueIndex;size:255"`
	ClientID     *string `gorm:"uniqueIndex;size:255"`
	PasswordHash *string `gorm:"size:255"`
	Name         string  `gorm:"size:64"`
	Role         Role    `gorm:"size:32;default:USER"`
	Age          *int
	Gender       *string  `gorm:"size:8"`
	ProfileImage *string  `gorm:"size:512"`
	Resumes      []Resume `gorm:"constraint:OnDelete:CASCADE"`
}

// Follow 表示一条关注关系，follower 关注 following。
// 同一对用户只允许一条记录。
type Follow struct {
	gorm.Model
	FollowerID  uint `gorm:"uniqueIndex:idx_follow_pair"`
	FollowingID uint `gorm:"uniqueIndex:idx_follow_pair"`
	Follower    User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Following   User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}

// Resume 表示用户提交的一份简历。
// UserID never changes after creation.
type Resume struct {
	gorm.Model
	UserID       uint         `gorm:"index"`
	User         User         `gorm:"constraint:OnDelete:CASCADE"`
	Title        string       `gorm:"size:255"`
	Introduction string       `gorm:"type:text"`
	Hobby        string       `gorm:"size:255"`
	Status       ResumeStatus `gorm:"size:32;default:APPLY"`
}
