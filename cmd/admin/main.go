package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"resumehub/internal/auth"
	"resumehub/internal/config"
	"resumehub/internal/database"
)

// Bootstrap tool: creates the initial ADMIN account with a random one-time
// password, or promotes an existing account.
func main() {
	var (
		email   = flag.String("email", "", "管理员邮箱（必填）")
		name    = flag.String("name", "admin", "管理员显示名")
		promote = flag.Bool("promote", false, "仅将已有账号提升为 ADMIN，不创建新账号")
	)
	flag.Parse()

	e := strings.TrimSpace(*email)
	if e == "" {
		log.Fatal("missing required flag: --email")
	}

	cfg := config.MustLoad()

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	if err := db.AutoMigrate(&database.User{}); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	var existing database.User
	switch lookupErr := db.Where("email = ?", e).First(&existing).Error; {
	case lookupErr == nil:
		if !*promote {
			log.Fatalf("user %q already exists (use --promote to elevate)", e)
		}
		if err := db.Model(&existing).Update("role", database.RoleAdmin).Error; err != nil {
			log.Fatalf("promote user: %v", err)
		}
		fmt.Printf("사용자 %s 계정이 ADMIN으로 승급되었습니다.\n", e)
		return
	case errors.Is(lookupErr, gorm.ErrRecordNotFound):
	default:
		log.Fatalf("query user: %v", lookupErr)
	}

	if *promote {
		log.Fatalf("user %q does not exist", e)
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	hashed, err := hasher.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := database.User{
		Email:        e,
		Name:         *name,
		PasswordHash: &hashed,
		Role:         database.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("초기 관리자 계정이 생성되었습니다.\n")
	fmt.Printf("이메일: %s\n", e)
	fmt.Printf("초기 비밀번호: %s\n", password)
	fmt.Printf("이 비밀번호는 한 번만 표시됩니다. 바로 로그인하여 변경해주세요.\n")
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
