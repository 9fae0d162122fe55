package service

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"resumehub/internal/database"
	"resumehub/internal/errcode"
	"resumehub/internal/repository"
)

func newFollowService(t *testing.T, db *gorm.DB) *FollowService {
	t.Helper()
	return NewFollowService(
		repository.NewFollowRepository(db),
		repository.NewUserRepository(db),
		repository.NewResumeRepository(db),
	)
}

func TestFollowRejectsSelf(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newFollowService(t, db)
	seedUser(t, db, 1, database.RoleUser)

	_, err := svc.Follow(ctx, 1, 1)
	wantAppError(t, err, errcode.KindValidation, "자기자신을 팔로우할 수 없습니다.")
}

func TestFollowRejectsMissingTarget(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newFollowService(t, db)
	seedUser(t, db, 1, database.RoleUser)

	_, err := svc.Follow(ctx, 1, 888)
	wantAppError(t, err, errcode.KindNotFound, "존재하지 않는 사용자입니다.")
}

func TestFollowRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newFollowService(t, db)
	seedUser(t, db, 1, database.RoleUser)
	seedUser(t, db, 2, database.RoleUser)

	follow, err := svc.Follow(ctx, 1, 2)
	if err != nil {
		t.Fatalf("first follow: %v", err)
	}
	if follow.FollowerID != 1 || follow.FollowingID != 2 {
		t.Errorf("follow = %+v", follow)
	}

	_, err = svc.Follow(ctx, 1, 2)
	wantAppError(t, err, errcode.KindValidation, "이미 팔로우된 사용자입니다.")
}

func TestUnfollowRequiresExistingEdge(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newFollowService(t, db)
	seedUser(t, db, 1, database.RoleUser)
	seedUser(t, db, 2, database.RoleUser)

	err := svc.Unfollow(ctx, 1, 2)
	wantAppError(t, err, errcode.KindNotFound, "팔로우된 사용자가 아닙니다.")
}

// Unfollow followed by a fresh Follow must succeed: the unique pair index
// may not keep holding the removed edge.
func TestRefollowAfterUnfollow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newFollowService(t, db)
	seedUser(t, db, 1, database.RoleUser)
	seedUser(t, db, 2, database.RoleUser)

	if _, err := svc.Follow(ctx, 1, 2); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := svc.Unfollow(ctx, 1, 2); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if _, err := svc.Follow(ctx, 1, 2); err != nil {
		t.Fatalf("re-follow: %v", err)
	}
}

func TestFollowingAndFollowerLists(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newFollowService(t, db)
	seedUser(t, db, 1, database.RoleUser)
	seedUser(t, db, 2, database.RoleUser)
	seedUser(t, db, 3, database.RoleUser)

	if _, err := svc.Follow(ctx, 1, 2); err != nil {
		t.Fatalf("follow 1->2: %v", err)
	}
	if _, err := svc.Follow(ctx, 1, 3); err != nil {
		t.Fatalf("follow 1->3: %v", err)
	}
	if _, err := svc.Follow(ctx, 3, 2); err != nil {
		t.Fatalf("follow 3->2: %v", err)
	}

	following, err := svc.GetFollowing(ctx, 1)
	if err != nil {
		t.Fatalf("get following: %v", err)
	}
	if len(following) != 2 || following[0].ID != 2 || following[1].ID != 3 {
		t.Errorf("following = %+v", following)
	}
	if following[0].Email != "user2@example.com" {
		t.Errorf("following[0].Email = %q", following[0].Email)
	}

	followers, err := svc.GetFollowers(ctx, 2)
	if err != nil {
		t.Fatalf("get followers: %v", err)
	}
	if len(followers) != 2 || followers[0].ID != 1 || followers[1].ID != 3 {
		t.Errorf("followers = %+v", followers)
	}

	none, err := svc.GetFollowing(ctx, 2)
	if err != nil {
		t.Fatalf("get following for 2: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("following for 2 = %+v", none)
	}
}

func TestFollowingResumesFeed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newFollowService(t, db)
	seedUser(t, db, 1, database.RoleUser)
	seedUser(t, db, 2, database.RoleUser)
	seedUser(t, db, 3, database.RoleUser)
	seedResume(t, db, 2, "이력서 둘")
	seedResume(t, db, 3, "이력서 셋")

	if _, err := svc.Follow(ctx, 1, 2); err != nil {
		t.Fatalf("follow 1->2: %v", err)
	}

	resumes, err := svc.GetFollowingResumes(ctx, 1)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if len(resumes) != 1 || resumes[0].UserID != 2 {
		t.Errorf("feed = %+v", resumes)
	}
}

func TestFollowingResumesEmptyFeedIsNotFound(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := newFollowService(t, db)
	seedUser(t, db, 1, database.RoleUser)
	seedUser(t, db, 2, database.RoleUser)

	_, err := svc.GetFollowingResumes(ctx, 1)
	wantAppError(t, err, errcode.KindNotFound, "게시물이 없습니다.")

	if _, err := svc.Follow(ctx, 1, 2); err != nil {
		t.Fatalf("follow: %v", err)
	}
	_, err = svc.GetFollowingResumes(ctx, 1)
	wantAppError(t, err, errcode.KindNotFound, "게시물이 없습니다.")
}
