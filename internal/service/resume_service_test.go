package service

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"resumehub/internal/database"
	"resumehub/internal/errcode"
	"resumehub/internal/repository"
)

func seedUser(t *testing.T, db *gorm.DB, id uint, role database.Role) {
	t.Helper()
	user := database.User{
		Model: gorm.Model{ID: id},
		Email: fmt.Sprintf("user%d@example.com", id),
		Name:  "user",
		Role:  role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %d: %v", id, err)
	}
}

func seedResume(t *testing.T, db *gorm.DB, userID uint, title string) *database.Resume {
	t.Helper()
	resume := database.Resume{
		UserID:       userID,
		Title:        title,
		Introduction: "자기소개",
		Hobby:        "취미",
		Status:       database.StatusApply,
	}
	if err := db.Create(&resume).Error; err != nil {
		t.Fatalf("seed resume: %v", err)
	}
	return &resume
}

func newResumeService(t *testing.T, db *gorm.DB) *ResumeService {
	t.Helper()
	return NewResumeService(repository.NewResumeRepository(db))
}

func TestCreateResumeDefaultsToApply(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newResumeService(t, db)
	seedUser(t, db, 1, database.RoleUser)

	resume, err := svc.CreateResume(ctx, CreateResumeInput{
		UserID:       1,
		Title:        "스파르탄 자기소개",
		Introduction: "열심히 하겠습니다.",
		Hobby:        "등산",
	})
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}
	if resume.Status != database.StatusApply {
		t.Errorf("status = %s, want APPLY", resume.Status)
	}
	if resume.ID == 0 {
		t.Error("resume id not assigned")
	}
}

func TestCreateResumeRejectsUnknownStatus(t *testing.T) {
	svc := newResumeService(t, newTestDB(t))

	_, err := svc.CreateResume(context.Background(), CreateResumeInput{
		UserID: 1,
		Title:  "제목",
		Status: database.ResumeStatus("HIRED"),
	})
	wantAppError(t, err, errcode.KindValidation,
		"이력서의 상태는 APPLY, DROP, PASS, INTERVIEW1, INTERVIEW2, FINAL_PASS 중 하나여야 합니다.")
}

func TestDeleteResume(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newResumeService(t, db)
	seedUser(t, db, 6, database.RoleUser)
	resume := seedResume(t, db, 6, "내 이력서")

	// A stranger deleting another user's resume is a permission failure,
	// not a not-found.
	err := svc.DeleteResume(ctx, resume.ID, 888)
	wantAppError(t, err, errcode.KindPermission, "삭제 권한이 없습니다.")

	if err := svc.DeleteResume(ctx, resume.ID, 6); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	err = svc.DeleteResume(ctx, resume.ID, 6)
	wantAppError(t, err, errcode.KindNotFound, "이력서 조회에 실패하였습니다.")
}

func TestUpdateResumeOwnership(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newResumeService(t, db)
	seedUser(t, db, 6, database.RoleUser)
	resume := seedResume(t, db, 6, "원래 제목")

	_, err := svc.UpdateResume(ctx, UpdateResumeInput{ID: resume.ID, UserID: 888, Title: "탈취 시도"})
	wantAppError(t, err, errcode.KindPermission, "수정 권한이 없습니다.")

	updated, err := svc.UpdateResume(ctx, UpdateResumeInput{
		ID:           resume.ID,
		UserID:       6,
		Title:        "바뀐 제목",
		Introduction: "새 소개",
		Hobby:        "독서",
		Status:       database.StatusInterview1,
	})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Title != "바뀐 제목" || updated.Status != database.StatusInterview1 {
		t.Errorf("updated = %+v", updated)
	}

	_, err = svc.UpdateResume(ctx, UpdateResumeInput{ID: 9999, UserID: 6, Title: "없는 이력서"})
	wantAppError(t, err, errcode.KindNotFound, "이력서 조회에 실패하였습니다.")
}

func TestGetResumeVisibility(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newResumeService(t, db)
	seedUser(t, db, 6, database.RoleUser)
	resume := seedResume(t, db, 6, "열람 대상")

	if _, err := svc.GetResume(ctx, resume.ID, 6, database.RoleUser); err != nil {
		t.Errorf("owner read: %v", err)
	}
	if _, err := svc.GetResume(ctx, resume.ID, 200, database.RoleHRManager); err != nil {
		t.Errorf("hr read: %v", err)
	}

	_, err := svc.GetResume(ctx, resume.ID, 888, database.RoleUser)
	wantAppError(t, err, errcode.KindPermission, "조회 권한이 없습니다.")

	_, err = svc.GetResume(ctx, 9999, 6, database.RoleUser)
	wantAppError(t, err, errcode.KindNotFound, "이력서 조회에 실패하였습니다.")
}

func TestGetResumesByUserID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newResumeService(t, db)
	seedUser(t, db, 6, database.RoleUser)
	seedUser(t, db, 7, database.RoleUser)
	seedResume(t, db, 6, "첫 번째")
	seedResume(t, db, 6, "두 번째")
	seedResume(t, db, 7, "남의 것")

	mine, err := svc.GetResumesByUserID(ctx, 6)
	if err != nil {
		t.Fatalf("get my resumes: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("len = %d, want 2", len(mine))
	}
	for _, resume := range mine {
		if resume.UserID != 6 {
			t.Errorf("foreign resume leaked: %+v", resume)
		}
	}
}

func TestGetAllResumesOrdering(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newResumeService(t, db)
	seedUser(t, db, 6, database.RoleUser)
	seedResume(t, db, 6, "가나다")
	seedResume(t, db, 6, "마바사")
	seedResume(t, db, 6, "다라마")

	ascending, err := svc.GetAllResumes(ctx, "title", "asc")
	if err != nil {
		t.Fatalf("asc by title: %v", err)
	}
	if len(ascending) != 3 {
		t.Fatalf("len = %d, want 3", len(ascending))
	}
	if ascending[0].Title != "가나다" || ascending[2].Title != "마바사" {
		t.Errorf("ascending order wrong: %q, %q, %q", ascending[0].Title, ascending[1].Title, ascending[2].Title)
	}

	descending, err := svc.GetAllResumes(ctx, "title", "desc")
	if err != nil {
		t.Fatalf("desc by title: %v", err)
	}
	if descending[0].Title != "마바사" {
		t.Errorf("descending order wrong: first = %q", descending[0].Title)
	}

	// Empty parameters fall back to createdAt desc.
	if _, err := svc.GetAllResumes(ctx, "", ""); err != nil {
		t.Errorf("defaulted ordering: %v", err)
	}
}

func TestGetAllResumesRejectsUnknownColumn(t *testing.T) {
	svc := newResumeService(t, newTestDB(t))

	_, err := svc.GetAllResumes(context.Background(), "passwordHash", "desc")
	wantAppError(t, err, errcode.KindValidation,
		"orderKey는 id, userId, title, introduction, hobby, status, createdAt, updatedAt 중 하나여야 합니다.")

	_, err = svc.GetAllResumes(context.Background(), "title", "sideways")
	wantAppError(t, err, errcode.KindValidation, "orderValue는 asc나 desc 중 하나여야 합니다.")
}

func TestUpdateResumeStatus(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newResumeService(t, db)
	seedUser(t, db, 6, database.RoleUser)
	resume := seedResume(t, db, 6, "심사 대상")

	updated, err := svc.UpdateResumeStatus(ctx, resume.ID, "FINAL_PASS")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != database.StatusFinalPass {
		t.Errorf("status = %s, want FINAL_PASS", updated.Status)
	}

	var stored database.Resume
	if err := db.First(&stored, resume.ID).Error; err != nil {
		t.Fatalf("load stored resume: %v", err)
	}
	if stored.Status != database.StatusFinalPass {
		t.Errorf("stored status = %s, want FINAL_PASS", stored.Status)
	}

	_, err = svc.UpdateResumeStatus(ctx, resume.ID, "HIRED")
	wantAppError(t, err, errcode.KindValidation,
		"이력서의 상태는 APPLY, DROP, PASS, INTERVIEW1, INTERVIEW2, FINAL_PASS 중 하나여야 합니다.")

	_, err = svc.UpdateResumeStatus(ctx, 9999, "PASS")
	wantAppError(t, err, errcode.KindNotFound, "이력서 조회에 실패하였습니다.")
}
