package users

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mzansigreen/office-backend/pkg/config"
	"github.com/mzansigreen/office-backend/pkg/db/models"
	"github.com/mzansigreen/office-backend/pkg/enums"
	pkgerrors "github.com/mzansigreen/office-backend/pkg/errors"
	"github.com/mzansigreen/office-backend/pkg/security"
)

type stubTxRunner struct {
	err error
}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubUsersRepo struct {
	user      *models.User
	findErr   error
	roles     map[enums.Role]*models.Role
	roleErr   error
	updated   *models.User
	updateErr error
	listRows  []models.User
	listErr   error
	lastQuery listQuery
	drift     int64
}

func (s *stubUsersRepo) WithTx(tx *gorm.DB) UsersRepository { return s }

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUsersRepo) Update(ctx context.Context, user *models.User) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = user
	return nil
}

func (s *stubUsersRepo) FindRoleByName(ctx context.Context, name enums.Role) (*models.Role, error) {
	if s.roleErr != nil {
		return nil, s.roleErr
	}
	role, ok := s.roles[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (s *stubUsersRepo) List(ctx context.Context, opts listQuery) ([]models.User, error) {
	s.lastQuery = opts
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listRows, nil
}

func (s *stubUsersRepo) CountRoleDrift(ctx context.Context) (int64, error) {
	return s.drift, nil
}

var tempPasswordShape = regexp.MustCompile(`^[a-z0-9]{12}!A9$`)

func pendingUser() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        "resident@example.org",
		PasswordHash: "old-hash",
		Status:       enums.UserStatusPendingApproval,
		Role:         enums.RoleResident,
	}
}

func TestApproveActivatesAndIssuesTempPassword(t *testing.T) {
	repo := &stubUsersRepo{user: pendingUser()}
	svc, err := NewService(stubTxRunner{}, repo, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Approve(context.Background(), repo.user.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	if !tempPasswordShape.MatchString(result.TempPassword) {
		t.Errorf("temp password %q does not match expected shape", result.TempPassword)
	}
	if repo.updated == nil {
		t.Fatal("expected user update")
	}
	if repo.updated.Status != enums.UserStatusActive {
		t.Errorf("expected active status, got %s", repo.updated.Status)
	}
	if !repo.updated.IsApproved {
		t.Error("expected is_approved=true")
	}
	if repo.updated.ApprovalDate == nil || time.Since(*repo.updated.ApprovalDate) > time.Minute {
		t.Error("expected a fresh approval date")
	}
	if !repo.updated.MustChangePassword {
		t.Error("expected must_change_password=true")
	}
	if repo.updated.PasswordHash == "old-hash" {
		t.Error("expected password hash replacement")
	}

	ok, err := security.VerifyPassword(result.TempPassword, repo.updated.PasswordHash)
	if err != nil || !ok {
		t.Errorf("temp password does not verify against stored hash (ok=%v err=%v)", ok, err)
	}
}

func TestApproveRejectsNonPendingUser(t *testing.T) {
	user := pendingUser()
	user.Status = enums.UserStatusActive
	repo := &stubUsersRepo{user: user}
	svc, _ := NewService(stubTxRunner{}, repo, config.PasswordConfig{})

	_, err := svc.Approve(context.Background(), user.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.updated != nil {
		t.Error("no update expected for non-pending user")
	}
}

func TestApproveUnknownUserIsNotFound(t *testing.T) {
	repo := &stubUsersRepo{}
	svc, _ := NewService(stubTxRunner{}, repo, config.PasswordConfig{})

	_, err := svc.Approve(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateRoleResolvesAliasAndWritesBothColumns(t *testing.T) {
	user := pendingUser()
	catalogID := uuid.New()
	repo := &stubUsersRepo{
		user: user,
		roles: map[enums.Role]*models.Role{
			enums.RoleCollector: {ID: catalogID, Name: enums.RoleCollector},
		},
	}
	svc, _ := NewService(stubTxRunner{}, repo, config.PasswordConfig{})

	result, err := svc.UpdateRole(context.Background(), user.ID, "COLLECTOR")
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if result.Role != enums.RoleCollector {
		t.Errorf("expected collector, got %s", result.Role)
	}
	if result.RoleID != catalogID {
		t.Errorf("expected catalog id %s, got %s", catalogID, result.RoleID)
	}
	if repo.updated == nil {
		t.Fatal("expected user update")
	}
	if repo.updated.Role != enums.RoleCollector {
		t.Errorf("role column not updated: %s", repo.updated.Role)
	}
	if repo.updated.RoleID == nil || *repo.updated.RoleID != catalogID {
		t.Error("role_id column not updated alongside role")
	}
}

func TestUpdateRoleUnknownNameEnumeratesCanonicalRoles(t *testing.T) {
	repo := &stubUsersRepo{user: pendingUser()}
	svc, _ := NewService(stubTxRunner{}, repo, config.PasswordConfig{})

	_, err := svc.UpdateRole(context.Background(), repo.user.ID, "warehouse_martian")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, name := range enums.RoleNames() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should enumerate canonical role %q: %v", name, err)
		}
	}
	if repo.updated != nil {
		t.Error("no write expected for unresolvable role")
	}
}

func TestForceRoleAlsoSetsStatus(t *testing.T) {
	user := pendingUser()
	catalogID := uuid.New()
	repo := &stubUsersRepo{
		user: user,
		roles: map[enums.Role]*models.Role{
			enums.RoleStaff: {ID: catalogID, Name: enums.RoleStaff},
		},
	}
	svc, _ := NewService(stubTxRunner{}, repo, config.PasswordConfig{})

	if err := svc.ForceRole(context.Background(), user.ID, "staff", "active"); err != nil {
		t.Fatalf("force role: %v", err)
	}
	if repo.updated.Status != enums.UserStatusActive {
		t.Errorf("expected status override, got %s", repo.updated.Status)
	}
	if repo.updated.RoleID == nil || *repo.updated.RoleID != catalogID {
		t.Error("role_id not written with role")
	}
}

func TestListTrimsBufferRowAndEmitsCursor(t *testing.T) {
	rows := make([]models.User, 3)
	base := time.Now().UTC()
	for i := range rows {
		rows[i] = models.User{ID: uuid.New(), CreatedAt: base.Add(-time.Duration(i) * time.Minute)}
	}
	repo := &stubUsersRepo{listRows: rows}
	svc, _ := NewService(stubTxRunner{}, repo, config.PasswordConfig{})

	result, err := svc.List(context.Background(), ListParams{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Cursor == "" {
		t.Error("expected next cursor when a buffer row exists")
	}
	if repo.lastQuery.limit != 3 {
		t.Errorf("expected buffered limit 3, got %d", repo.lastQuery.limit)
	}
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	repo := &stubUsersRepo{}
	svc, _ := NewService(stubTxRunner{}, repo, config.PasswordConfig{})

	_, err := svc.List(context.Background(), ListParams{Status: "banished"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
